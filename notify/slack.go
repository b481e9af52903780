// Package notify delivers generated reports to Slack.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/slack-go/slack"
)

// UploadResult is the outcome reported back to the dashboard. An
// unconfigured notifier is a failed upload, not an error: the query that
// produced the report already succeeded.
type UploadResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Notifier uploads PDFs to a Slack channel.
type Notifier struct {
	api     *slack.Client
	channel string
}

// New creates a Notifier. An empty token or channel leaves it
// unconfigured.
func New(token, channel string) *Notifier {
	n := &Notifier{channel: channel}
	if token != "" {
		n.api = slack.New(token)
	}
	return n
}

// Configured reports whether both a bot token and a channel are set.
func (n *Notifier) Configured() bool { return n.api != nil && n.channel != "" }

// UploadPDF sends a PDF to the configured channel.
func (n *Notifier) UploadPDF(ctx context.Context, pdf []byte, filename, title, comment string) UploadResult {
	if !n.Configured() {
		return UploadResult{Success: false, Message: "Slack is not configured"}
	}

	_, err := n.api.UploadFileV2Context(ctx, slack.UploadFileV2Parameters{
		Reader:         bytes.NewReader(pdf),
		FileSize:       len(pdf),
		Filename:       filename,
		Title:          title,
		InitialComment: comment,
		Channel:        n.channel,
	})
	if err != nil {
		log.Printf("⚠️  slack: upload failed: %v", err)
		return UploadResult{Success: false, Message: fmt.Sprintf("Slack upload failed: %v", err)}
	}

	log.Printf("✅ slack: sent %s to %s", filename, n.channel)
	return UploadResult{Success: true, Message: fmt.Sprintf("Report sent to Slack: %s", filename)}
}
