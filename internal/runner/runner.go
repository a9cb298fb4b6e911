// Package runner executes a single code snippet in a child process and
// captures its text output. User program failures never surface as errors;
// they are rendered as literal text so the rest of a document can still be
// processed. Only infrastructure failures (temp file handling) return an
// error.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/leapstack-labs/mdrun/internal/language"
)

// ErrorPrefix marks recovered execution failures in document output.
const ErrorPrefix = "[error]"

// Runner materializes snippets into temporary files and spawns the
// resolved interpreter with a bounded timeout.
type Runner struct {
	logger   *slog.Logger
	resolver *language.Resolver
}

// Config holds runner configuration.
type Config struct {
	// Resolver maps language tokens to command templates.
	Resolver *language.Resolver
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// New creates a runner.
func New(cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{logger: logger, resolver: cfg.Resolver}
}

// Run executes code for the given language token and returns the captured
// output text. On success, or on any exit with non-empty stdout, the
// trimmed stdout is returned; on failure with empty stdout the trimmed
// stderr is returned. Unsupported languages, missing interpreters, spawn
// failures and timeouts are all encoded as returned text. The error return
// is reserved for infrastructure failures.
func (r *Runner) Run(ctx context.Context, lang, code string, timeout time.Duration) (string, error) {
	filePath, cleanup, err := writeTempFile(lang, code)
	if err != nil {
		return "", err
	}
	defer cleanup()

	argv, ok := r.resolver.Command(lang, filePath)
	if !ok {
		return fmt.Sprintf("%s Language %q not supported.", ErrorPrefix, lang), nil
	}
	if len(argv) == 0 {
		return fmt.Sprintf("%s Invalid command configuration.", ErrorPrefix), nil
	}
	if !r.resolver.DependencyPresent(argv) {
		return fmt.Sprintf("%s Required interpreter/compiler for %q is not installed.", ErrorPrefix, lang), nil
	}

	if err := applySourceTransform(lang, code, filePath); err != nil {
		return "", err
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	setProcessGroup(cmd)

	r.logger.Debug("running block", "language", lang, "argv", argv, "timeout", timeout)

	runErr := cmd.Run()

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		r.logger.Debug("block timed out", "language", lang, "timeout", timeout)
		return ErrorPrefix + " execution timed out", nil
	}

	if runErr == nil || stdout.Len() > 0 {
		return strings.TrimSpace(stdout.String()), nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return strings.TrimSpace(stderr.String()), nil
	}

	// Spawn failure: the process never started.
	return fmt.Sprintf("%s %v", ErrorPrefix, runErr), nil
}

// writeTempFile materializes the snippet into a fresh temporary file. The
// suffix carries the language token when it is purely alphanumeric, since
// some interpreters dispatch on the extension.
func writeTempFile(lang, code string) (string, func(), error) {
	suffix := ""
	if isAlphanumeric(lang) {
		suffix = "." + lang
	}

	f, err := os.CreateTemp("", "mdrun-*"+suffix)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }

	if _, err := f.WriteString(code); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to close temporary file: %w", err)
	}

	return path, cleanup, nil
}

// applySourceTransform applies the single language-specific source
// adjustment: Racket programs need a #lang pragma line, so one is prepended
// when missing. This is a narrow enumerated case, not a preprocessing hook.
func applySourceTransform(lang, code, filePath string) error {
	if !strings.EqualFold(lang, "racket") {
		return nil
	}
	if strings.HasPrefix(strings.TrimSpace(code), "#lang") {
		return nil
	}
	if err := os.WriteFile(filePath, []byte("#lang racket\n"+code), 0o600); err != nil {
		return fmt.Errorf("failed to rewrite temporary file: %w", err)
	}
	return nil
}

func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if !('a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || '0' <= ch && ch <= '9') {
			return false
		}
	}
	return true
}

// Per-block timeouts. Longer snippets get a larger budget.
const (
	ShortTimeout = 5 * time.Second
	LongTimeout  = 10 * time.Second

	// LongCodeThreshold is the source length above which the long timeout
	// applies.
	LongCodeThreshold = 1000
)

// TimeoutFor picks the execution budget for a snippet by source length.
func TimeoutFor(code string) time.Duration {
	if len(code) > LongCodeThreshold {
		return LongTimeout
	}
	return ShortTimeout
}
