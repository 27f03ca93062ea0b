// Package batch runs an ordered prompt set against the image generator,
// one call in flight at a time.
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"iwt-site-images/internal/catalog"
	"iwt-site-images/internal/gemini"
)

var (
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type Generator interface {
	GenerateImage(ctx context.Context, prompt string, previous *gemini.Image) (gemini.Image, error)
}

type Saver interface {
	Save(name string, img gemini.Image) (string, error)
}

// Summary tallies one batch run. A non-zero Failed count is a normal
// outcome, not an error.
type Summary struct {
	Succeeded int
	Failed    int
}

type Options struct {
	Generator Generator
	Store     Saver

	// Chain feeds each generated image into the next call so the sequence
	// keeps a consistent visual style. A failed step drops the context, so
	// the step after it starts fresh.
	Chain bool

	// Delay is the pause after each successful call, the only rate limiting
	// the remote side gets from us.
	Delay   time.Duration
	Timeout time.Duration

	Logger *slog.Logger
	Out    io.Writer
}

type Runner struct {
	generator Generator
	store     Saver
	chain     bool
	delay     time.Duration
	timeout   time.Duration
	logger    *slog.Logger
	out       io.Writer
}

func New(opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Runner{
		generator: opts.Generator,
		store:     opts.Store,
		chain:     opts.Chain,
		delay:     opts.Delay,
		timeout:   timeout,
		logger:    logger,
		out:       out,
	}
}

// Run works through specs in order. Every failure is logged, counted and
// skipped past; Run never aborts the batch for a single item. It stops early
// only when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, specs []catalog.PromptSpec) Summary {
	var summary Summary
	var previous *gemini.Image

	for i, spec := range specs {
		if ctx.Err() != nil {
			r.logger.Info("batch interrupted", "done", i, "total", len(specs))
			break
		}

		fmt.Fprintln(r.out, stepStyle.Render(fmt.Sprintf("Generating: %s (%d/%d)...", spec.Name, i+1, len(specs))))

		img, err := r.generateOne(ctx, spec.Prompt, previous)
		if err == nil {
			var path string
			if path, err = r.store.Save(spec.Name, img); err == nil {
				fmt.Fprintln(r.out, successStyle.Render("  Saved: "+path))
			}
		}

		if err != nil {
			fmt.Fprintln(r.out, failStyle.Render("  Failed: "+err.Error()))
			r.logger.Error("generation failed", "name", spec.Name, "err", err)
			summary.Failed++
			previous = nil
			continue
		}

		summary.Succeeded++
		if r.chain {
			previous = &img
		}

		if r.delay > 0 && i < len(specs)-1 {
			select {
			case <-time.After(r.delay):
			case <-ctx.Done():
			}
		}
	}

	return summary
}

func (r *Runner) generateOne(ctx context.Context, prompt string, previous *gemini.Image) (gemini.Image, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.generator.GenerateImage(callCtx, prompt, previous)
}

// Render formats the end-of-batch tally for the console.
func (s Summary) Render(dir string) string {
	var b strings.Builder
	b.WriteString("\nImage generation complete!\n")
	b.WriteString("  Successful: " + successStyle.Render(strconv.Itoa(s.Succeeded)) + "\n")

	failed := strconv.Itoa(s.Failed)
	if s.Failed > 0 {
		failed = failStyle.Render(failed)
	}
	b.WriteString("  Failed: " + failed + "\n")
	b.WriteString("  Images saved to: " + dir)
	return b.String()
}
