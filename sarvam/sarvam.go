// Package sarvam is a thin client for the Sarvam AI translation and
// speech APIs. Translation is best-effort: a failed call hands the input
// text back so a Tamil query still reaches the planner as-is. Speech
// calls fail with typed errors but never crash a query.
package sarvam

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"
	"unicode"
)

const (
	translateURL = "https://api.sarvam.ai/translate"
	sttURL       = "https://api.sarvam.ai/speech-to-text"
	ttsURL       = "https://api.sarvam.ai/text-to-speech"

	translateTimeout = 30 * time.Second
	speechTimeout    = 45 * time.Second
)

// Client calls the Sarvam API. A zero API key means unconfigured: every
// method degrades gracefully instead of dialing out.
type Client struct {
	apiKey string
	client *http.Client
}

// New creates a Sarvam client.
func New(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		client: &http.Client{Timeout: speechTimeout},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

// ── Language detection ────────────────────────────────────────────────────────

// DetectLanguage classifies text as "ta-IN" when more than 30% of its
// letters fall in the Tamil Unicode block, else "en-IN". Pure, no API
// call.
func DetectLanguage(text string) string {
	letters, tamil := 0, 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if r >= 0x0B80 && r <= 0x0BFF {
			tamil++
		}
	}
	if letters > 0 && float64(tamil)/float64(letters) > 0.3 {
		return "ta-IN"
	}
	return "en-IN"
}

// ── Translation ───────────────────────────────────────────────────────────────

type translateRequest struct {
	Input              string `json:"input"`
	SourceLanguageCode string `json:"source_language_code"`
	TargetLanguageCode string `json:"target_language_code"`
}

type translateResponse struct {
	TranslatedText string `json:"translated_text"`
}

// TranslateToEnglish translates Tamil text to English. Best-effort: any
// failure, including an unconfigured client, returns the input text.
func (c *Client) TranslateToEnglish(ctx context.Context, text string) string {
	if !c.Configured() {
		return text
	}

	ctx, cancel := context.WithTimeout(ctx, translateTimeout)
	defer cancel()

	body, err := json.Marshal(translateRequest{
		Input:              text,
		SourceLanguageCode: "ta-IN",
		TargetLanguageCode: "en-IN",
	})
	if err != nil {
		return text
	}

	data, err := c.post(ctx, translateURL, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("⚠️  sarvam: translate failed, using original text: %v", err)
		return text
	}

	var parsed translateResponse
	if err := json.Unmarshal(data, &parsed); err != nil || parsed.TranslatedText == "" {
		log.Printf("⚠️  sarvam: bad translate response, using original text")
		return text
	}
	return parsed.TranslatedText
}

// ── Speech to text ────────────────────────────────────────────────────────────

type sttResponse struct {
	Transcript string `json:"transcript"`
}

// Transcribe converts recorded audio to text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("SARVAM_API_KEY not set")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}
	if err := w.WriteField("model", "saarika:v2"); err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}
	if err := w.WriteField("language_code", "unknown"); err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}

	data, err := c.post(ctx, sttURL, w.FormDataContentType(), &buf)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}

	var parsed sttResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("transcribe: decode response: %w", err)
	}
	return parsed.Transcript, nil
}

// ── Text to speech ────────────────────────────────────────────────────────────

type ttsRequest struct {
	Inputs             []string `json:"inputs"`
	TargetLanguageCode string   `json:"target_language_code"`
	Speaker            string   `json:"speaker"`
	Model              string   `json:"model"`
}

type ttsResponse struct {
	Audios []string `json:"audios"`
}

// Synthesize renders text as speech and returns the audio bytes.
func (c *Client) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("SARVAM_API_KEY not set")
	}
	if language == "" {
		language = "en-IN"
	}

	body, err := json.Marshal(ttsRequest{
		Inputs:             []string{text},
		TargetLanguageCode: language,
		Speaker:            "meera",
		Model:              "bulbul:v1",
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	data, err := c.post(ctx, ttsURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	var parsed ttsResponse
	if err := json.Unmarshal(data, &parsed); err != nil || len(parsed.Audios) == 0 {
		return nil, fmt.Errorf("synthesize: empty audio response")
	}
	return base64.StdEncoding.DecodeString(parsed.Audios[0])
}

// ── HTTP plumbing ─────────────────────────────────────────────────────────────

func (c *Client) post(ctx context.Context, url, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("api-subscription-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sarvam returned %d", resp.StatusCode)
	}
	return data, nil
}
