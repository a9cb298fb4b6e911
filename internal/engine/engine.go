// Package engine orchestrates one document pass: sanitize, tokenize,
// execute code blocks under the chosen strategy, and reassemble the
// document with output sections spliced in at their original positions.
package engine

import (
	"io"
	"log/slog"

	"github.com/leapstack-labs/mdrun/internal/language"
	"github.com/leapstack-labs/mdrun/internal/runner"
)

// Engine processes Markdown documents by running their code blocks.
type Engine struct {
	logger   *slog.Logger
	resolver *language.Resolver
	runner   *runner.Runner
}

// Config holds engine configuration.
type Config struct {
	// Resolver maps language tokens to command templates.
	Resolver *language.Resolver
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// New creates an engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		logger:   logger,
		resolver: cfg.Resolver,
		runner:   runner.New(runner.Config{Resolver: cfg.Resolver, Logger: logger}),
	}
}
