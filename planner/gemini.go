package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/anandhaas/insight/dataset"
	"github.com/anandhaas/insight/plan"
)

// ============================================================================
// GEMINI PLANNER — the only file in this package that leaves the process
// ============================================================================

// Config holds the Gemini connection settings.
type Config struct {
	APIKey   string
	Model    string
	Endpoint string
}

// Gemini implements Planner against the Google Gemini API.
type Gemini struct {
	config Config
	client *http.Client
}

// NewGemini creates a Gemini planner with a 30s request timeout.
func NewGemini(cfg Config) *Gemini {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash-lite"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	}
	return &Gemini{
		config: cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether an API key is present.
func (g *Gemini) Configured() bool { return g.config.APIKey != "" }

// Plan asks Gemini for a visualization plan. One attempt, no retries.
func (g *Gemini) Plan(ctx context.Context, query string, summary *dataset.Summary) (*plan.RawPlan, error) {
	if !g.Configured() {
		return nil, &PlanError{Stage: "request", Err: fmt.Errorf("GEMINI_API_KEY not set")}
	}

	prompt := BuildPrompt(query, summary)
	log.Printf("🔄 planner: query=%q", truncate(query, 80))

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, &PlanError{Stage: "response", Err: err}
	}

	raw, err := ParseResponse(text)
	if err != nil {
		return nil, &PlanError{Stage: "parse", Err: err}
	}

	log.Printf("✅ planner: chart=%s x=%s y=%s", raw.ChartType, raw.XAxis, raw.YAxis)
	return raw, nil
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/%s:generateContent?key=%s",
		g.config.Endpoint, g.config.Model, g.config.APIKey)

	body, err := json.Marshal(geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: generationConfig{Temperature: 0.1},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("gemini error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned empty response")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
