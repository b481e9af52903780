package main

import (
	"flag"
	"log"

	"github.com/anandhaas/insight/config"
	"github.com/anandhaas/insight/dataset"
	"github.com/anandhaas/insight/notify"
	"github.com/anandhaas/insight/pipeline"
	"github.com/anandhaas/insight/planner"
	"github.com/anandhaas/insight/report"
	"github.com/anandhaas/insight/sarvam"
	"github.com/anandhaas/insight/server"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	dataPath := flag.String("data", "", "dataset CSV/XLSX path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ config: %v", err)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *dataPath != "" {
		cfg.Data.Path = *dataPath
	}

	log.Println("============================================")
	log.Println("  Anandhaas Insight — NL sales analytics")
	log.Println("============================================")
	log.Printf("   dataset: %s", cfg.Data.Path)
	log.Printf("   planner: %s", plannerStatus(cfg))
	log.Printf("   sarvam:  %s", keyStatus(cfg.SarvamAPIKey))
	log.Printf("   slack:   %s", slackStatus(cfg))

	store := dataset.NewStore(cfg.Data.Path)
	gemini := planner.NewGemini(planner.Config{
		APIKey:   cfg.GeminiAPIKey,
		Model:    cfg.Planner.Model,
		Endpoint: cfg.Planner.Endpoint,
	})
	speech := sarvam.New(cfg.SarvamAPIKey)
	notifier := notify.New(cfg.SlackBotToken, cfg.Slack.ChannelID)

	p := pipeline.New(store, gemini,
		pipeline.WithSpeech(speech),
		pipeline.WithPDF(report.NewPDFBuilder(cfg.Report.FontPath), report.NewStore()),
	)

	srv := server.New(p, speech, notifier, cfg.Server.DevMode)
	if err := srv.Run(cfg.Server.Port); err != nil {
		log.Fatalf("❌ server: %v", err)
	}
}

func plannerStatus(cfg *config.Config) string {
	if cfg.GeminiAPIKey == "" {
		return "not configured (set GEMINI_API_KEY)"
	}
	if cfg.Planner.Model != "" {
		return cfg.Planner.Model
	}
	return "configured"
}

func keyStatus(key string) string {
	if key == "" {
		return "not configured"
	}
	return "configured"
}

func slackStatus(cfg *config.Config) string {
	if cfg.SlackBotToken == "" || cfg.Slack.ChannelID == "" {
		return "not configured"
	}
	return "channel " + cfg.Slack.ChannelID
}
