package runner

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/leapstack-labs/mdrun/internal/language"
	"github.com/leapstack-labs/mdrun/internal/testutil"
)

func newTestRunner(t *testing.T, mappings map[string]string) *Runner {
	t.Helper()
	return New(Config{
		Resolver: language.NewResolver(mappings),
		Logger:   testutil.NewTestLogger(t),
	})
}

func shRunner(t *testing.T) *Runner {
	return newTestRunner(t, map[string]string{"sh": "sh {file}"})
}

func TestRun_CapturesStdout(t *testing.T) {
	r := shRunner(t)

	out, err := r.Run(context.Background(), "sh", "echo hello", ShortTimeout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hello" {
		t.Errorf("expected 'hello', got %q", out)
	}
}

func TestRun_StderrOnFailureWithEmptyStdout(t *testing.T) {
	r := shRunner(t)

	out, err := r.Run(context.Background(), "sh", "echo oops >&2; exit 1", ShortTimeout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "oops" {
		t.Errorf("expected 'oops', got %q", out)
	}
}

func TestRun_StdoutWinsOnFailureWhenNonEmpty(t *testing.T) {
	r := shRunner(t)

	out, err := r.Run(context.Background(), "sh", "echo partial; echo bad >&2; exit 3", ShortTimeout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "partial" {
		t.Errorf("expected 'partial', got %q", out)
	}
}

func TestRun_UnsupportedLanguage(t *testing.T) {
	r := shRunner(t)

	out, err := r.Run(context.Background(), "cobol", "DISPLAY 'HI'.", ShortTimeout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "not supported") {
		t.Errorf("expected 'not supported' marker, got %q", out)
	}
	if !strings.HasPrefix(out, ErrorPrefix) {
		t.Errorf("expected %q prefix, got %q", ErrorPrefix, out)
	}
}

func TestRun_InvalidCommandConfiguration(t *testing.T) {
	r := newTestRunner(t, map[string]string{"empty": "   "})

	out, err := r.Run(context.Background(), "empty", "x", ShortTimeout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Invalid command configuration") {
		t.Errorf("expected invalid configuration marker, got %q", out)
	}
}

func TestRun_MissingInterpreter(t *testing.T) {
	r := newTestRunner(t, map[string]string{"foo": "mdrun-no-such-binary-2f8a {file}"})

	out, err := r.Run(context.Background(), "foo", "x", ShortTimeout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "not installed") {
		t.Errorf("expected 'not installed' marker, got %q", out)
	}
	if !strings.Contains(out, "foo") {
		t.Errorf("expected message to name the language, got %q", out)
	}
}

func TestRun_Timeout(t *testing.T) {
	r := shRunner(t)

	start := time.Now()
	out, err := r.Run(context.Background(), "sh", "sleep 5", 200*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != ErrorPrefix+" execution timed out" {
		t.Errorf("expected timeout marker, got %q", out)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("timed-out run took too long: %v", elapsed)
	}
}

func TestRun_RacketPragmaPrepended(t *testing.T) {
	// cat echoes the materialized file back, exposing the source the
	// interpreter would actually see.
	r := newTestRunner(t, map[string]string{"racket": "cat {file}"})

	out, err := r.Run(context.Background(), "racket", `(displayln "hi")`, ShortTimeout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "#lang racket") {
		t.Errorf("expected #lang pragma prepended, got %q", out)
	}
	if !strings.Contains(out, `(displayln "hi")`) {
		t.Errorf("expected original code preserved, got %q", out)
	}
}

func TestRun_RacketPragmaNotDoubled(t *testing.T) {
	r := newTestRunner(t, map[string]string{"racket": "cat {file}"})

	out, err := r.Run(context.Background(), "racket", "#lang racket/base\n(displayln 1)", ShortTimeout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "#lang racket/base") {
		t.Errorf("expected author's pragma kept first, got %q", out)
	}
	if n := strings.Count(out, "#lang"); n != 1 {
		t.Errorf("expected exactly one #lang pragma, got %d in %q", n, out)
	}
}

func TestRun_TrimsOutput(t *testing.T) {
	r := shRunner(t)

	out, err := r.Run(context.Background(), "sh", "printf '  padded  \\n\\n'", ShortTimeout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "padded" {
		t.Errorf("expected trimmed output, got %q", out)
	}
}

func TestTimeoutFor(t *testing.T) {
	if got := TimeoutFor("short"); got != ShortTimeout {
		t.Errorf("expected short timeout, got %v", got)
	}
	if got := TimeoutFor(strings.Repeat("x", LongCodeThreshold+1)); got != LongTimeout {
		t.Errorf("expected long timeout, got %v", got)
	}
	if got := TimeoutFor(strings.Repeat("x", LongCodeThreshold)); got != ShortTimeout {
		t.Errorf("expected short timeout at the threshold, got %v", got)
	}
}
