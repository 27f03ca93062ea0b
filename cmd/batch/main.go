// Command batch generates the isometric marketing illustrations for the IWT
// website, one API call per prompt.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"iwt-site-images/internal/batch"
	"iwt-site-images/internal/catalog"
	"iwt-site-images/internal/config"
	"iwt-site-images/internal/gemini"
	"iwt-site-images/internal/httpclient"
	"iwt-site-images/internal/store"
)

const defaultRequestTimeout = 60 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		fmt.Fprintln(os.Stderr, "Get your API key from: https://aistudio.google.com/apikey")
		fmt.Fprintln(os.Stderr, `Then run: export GEMINI_API_KEY="your-key-here"`)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	cat, err := catalog.Load()
	if err != nil {
		logger.Error("catalog load failed", "err", err)
		os.Exit(1)
	}

	st, err := store.New(cfg.OutputDir)
	if err != nil {
		logger.Error("output directory setup failed", "err", err)
		os.Exit(1)
	}

	httpClient := httpclient.New(httpclient.Options{
		PreferIPv4: cfg.PreferIPv4,
		Timeout:    cfg.HTTPTimeout,
	})

	gem := gemini.New(gemini.Options{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		APIVersion: cfg.GeminiAPIVersion,
		Model:      cfg.GeminiModel,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	runner := batch.New(batch.Options{
		Generator: gem,
		Store:     st,
		Delay:     cfg.RateDelay,
		Timeout:   timeout,
		Logger:    logger,
		Out:       os.Stdout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	specs := cat.MarketingSpecs()
	fmt.Println("Starting IWT image generation...")
	fmt.Printf("Generating %d images in isometric flat-color style\n\n", len(specs))

	summary := runner.Run(ctx, specs)
	fmt.Println(summary.Render(st.Dir()))
}

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}
