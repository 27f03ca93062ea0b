// Command hero generates the single hero background image for the website
// landing section.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"iwt-site-images/internal/catalog"
	"iwt-site-images/internal/config"
	"iwt-site-images/internal/gemini"
	"iwt-site-images/internal/httpclient"
	"iwt-site-images/internal/store"
)

const requestTimeout = 60 * time.Second

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		fmt.Fprintln(os.Stderr, "Get your API key from: https://aistudio.google.com/apikey")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

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

	gem := gemini.New(gemini.Options{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		APIVersion: cfg.GeminiAPIVersion,
		Model:      cfg.GeminiModel,
		HTTPClient: httpclient.New(httpclient.Options{
			PreferIPv4: cfg.PreferIPv4,
			Timeout:    cfg.HTTPTimeout,
		}),
		Logger: logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	callCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	spec := cat.HeroSpec()
	fmt.Println("Generating hero background...")

	img, err := gem.GenerateImage(callCtx, spec.Prompt, nil)
	if err != nil {
		fmt.Println(failStyle.Render("Failed: " + err.Error()))
		os.Exit(1)
	}

	path, err := st.Save(spec.Name, img)
	if err != nil {
		fmt.Println(failStyle.Render("Failed: " + err.Error()))
		os.Exit(1)
	}

	fmt.Println(successStyle.Render("Saved: " + path))
}
