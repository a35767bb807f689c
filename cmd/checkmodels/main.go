// Command checkmodels lists the Gemini models the configured API key can use
// for generateContent. Use it to pick entries for SCAN1C_RECOGNIZER_MODELS.
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	log "github.com/sirupsen/logrus"

	"scan1c/internal/config"
	"scan1c/internal/logger"
	"scan1c/internal/recognizer/gemini"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger.Setup(cfg.Log)

	if cfg.Recognizer.GeminiAPIKey == "" {
		log.Fatal("GOOGLE_API_KEY is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	models, err := gemini.ListGenerateContentModels(ctx, cfg.Recognizer.GeminiAPIKey)
	if err != nil {
		log.Fatalf("failed to list models: %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CONFIG ENTRY\tDISPLAY NAME")
	for _, m := range models {
		fmt.Fprintf(w, "gemini:%s\t%s\n", m.Name, m.DisplayName)
	}
	_ = w.Flush()
	log.WithField("count", len(models)).Info("models supporting generateContent")
}
