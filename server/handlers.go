package server

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anandhaas/insight/engine"
	"github.com/anandhaas/insight/pipeline"
)

// ============================================================================
// HANDLERS — error taxonomy lives here
// ============================================================================
// ErrEmptyQuery → 400, ErrNoData → 404, empty-result diagnostics → 500
// with the available-values message, everything else → 500 with a
// generic message (causes are logged, not leaked).
// ============================================================================

func (s *Server) handleDashboardData(c *gin.Context) {
	sum, err := s.pipeline.DashboardData()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "dataset not available"})
		return
	}
	c.JSON(http.StatusOK, sum)
}

type queryRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := s.pipeline.Query(c.Request.Context(), req.Query)
	if err != nil {
		s.writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) writeQueryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pipeline.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": "query text is required"})
	case errors.Is(err, pipeline.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"error": "dataset not available"})
	default:
		var empty *engine.EmptyResultError
		if errors.As(err, &empty) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": empty.Error()})
			return
		}
		log.Printf("❌ server: query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query processing failed"})
	}
}

func (s *Server) handleTranscribe(c *gin.Context) {
	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read audio file"})
		return
	}

	transcript, err := s.speech.Transcribe(c.Request.Context(), audio, header.Filename)
	if err != nil {
		log.Printf("❌ server: transcription failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transcription failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transcript": transcript})
}

type ttsRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (s *Server) handleTTS(c *gin.Context) {
	var req ttsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	audio, err := s.speech.Synthesize(c.Request.Context(), req.Text, req.Language)
	if err != nil {
		log.Printf("❌ server: speech synthesis failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "speech synthesis failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"audio": base64.StdEncoding.EncodeToString(audio)})
}

func (s *Server) handleSendToSlack(c *gin.Context) {
	reports := s.pipeline.Reports()
	if reports == nil || reports.Last() == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no report has been generated yet"})
		return
	}

	rep := reports.Last()
	result := s.notifier.UploadPDF(c.Request.Context(), rep.PDF, rep.Filename, rep.Title,
		fmt.Sprintf("📊 %s\n%s", rep.Title, rep.Insights))
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleLastPDFInfo(c *gin.Context) {
	reports := s.pipeline.Reports()
	if reports == nil {
		c.JSON(http.StatusOK, gin.H{"available": false})
		return
	}
	rep := reports.Last()
	if rep == nil {
		c.JSON(http.StatusOK, gin.H{"available": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"available": true,
		"filename":  rep.Filename,
		"title":     rep.Title,
	})
}
