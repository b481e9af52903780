// Package server exposes the query pipeline over HTTP with gin.
package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anandhaas/insight/notify"
	"github.com/anandhaas/insight/pipeline"
	"github.com/anandhaas/insight/sarvam"
)

// Server wires the pipeline and collaborators to HTTP routes.
type Server struct {
	pipeline *pipeline.Pipeline
	speech   *sarvam.Client
	notifier *notify.Notifier
	engine   *gin.Engine
}

// New builds the router. devMode keeps gin's debug logging.
func New(p *pipeline.Pipeline, speech *sarvam.Client, notifier *notify.Notifier, devMode bool) *Server {
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		pipeline: p,
		speech:   speech,
		notifier: notifier,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	api := r.Group("/api")
	{
		api.GET("/dashboard-data", s.handleDashboardData)
		api.POST("/query", s.handleQuery)
		api.POST("/transcribe", s.handleTranscribe)
		api.POST("/tts", s.handleTTS)
		api.POST("/send-to-slack", s.handleSendToSlack)
		api.GET("/send-to-slack", s.handleSendToSlack)
		api.GET("/last-pdf-info", s.handleLastPDFInfo)
	}

	s.engine = r
	return s
}

// Run blocks serving HTTP on the given port.
func (s *Server) Run(port int) error {
	addr := fmt.Sprintf(":%d", port)
	log.Printf("🚀 server: listening on %s", addr)
	return s.engine.Run(addr)
}

// Handler exposes the router, for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// corsMiddleware allows the dashboard frontend to call from any origin,
// matching the original surface.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
