package engine

// run.go - execution strategies and document reassembly

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/mdrun/internal/parser"
	"github.com/leapstack-labs/mdrun/internal/runner"
)

// parallelThreshold is the runnable block count at which the parallel
// strategy kicks in without an explicit override. Below it, concurrency
// overhead outweighs the gain for a couple of short scripts.
const parallelThreshold = 4

const outputHeader = "\n**Output**\n```\n"

// Process runs all non-skip code blocks in a document and returns the
// document with an output section appended to each executed block. The
// input is sanitized first, so processing is stable across repeated runs.
// Errors are infrastructure failures only; a failing or timed-out snippet
// becomes literal output text instead.
func (e *Engine) Process(ctx context.Context, content string, forceParallel bool) (string, error) {
	content = parser.Sanitize(content)

	blocks := parser.Tokenize(content)
	if len(blocks) == 0 {
		return content, nil
	}

	runnable := 0
	for _, b := range blocks {
		if !b.Skip {
			runnable++
		}
	}

	e.logger.Debug("processing document", "blocks", len(blocks), "runnable", runnable, "force_parallel", forceParallel)

	var (
		outputs []string
		err     error
	)
	if runnable > 1 && (forceParallel || runnable >= parallelThreshold) {
		outputs, err = e.executeParallel(ctx, blocks)
	} else {
		outputs, err = e.executeSequential(ctx, blocks)
	}
	if err != nil {
		return "", err
	}

	return reassemble(content, blocks, outputs), nil
}

// Clear strips generated output sections without executing anything.
func (e *Engine) Clear(content string) string {
	return parser.Sanitize(content)
}

// executeSequential runs blocks one at a time in document order.
func (e *Engine) executeSequential(ctx context.Context, blocks []parser.CodeBlock) ([]string, error) {
	outputs := make([]string, len(blocks))
	for i, b := range blocks {
		if b.Skip {
			continue
		}
		out, err := e.runner.Run(ctx, b.Language, b.Code, runner.TimeoutFor(b.Code))
		if err != nil {
			return nil, err
		}
		outputs[i] = out
	}
	return outputs, nil
}

// executeParallel launches all runnable blocks concurrently. Each
// goroutine writes to its own slot, so results land at the block's
// original position regardless of completion order.
func (e *Engine) executeParallel(ctx context.Context, blocks []parser.CodeBlock) ([]string, error) {
	outputs := make([]string, len(blocks))
	g, ctx := errgroup.WithContext(ctx)
	for i, b := range blocks {
		if b.Skip {
			continue
		}
		i, b := i, b
		g.Go(func() error {
			out, err := e.runner.Run(ctx, b.Language, b.Code, runner.TimeoutFor(b.Code))
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

// reassemble splices reconstructed blocks back into the document, copying
// the untouched text between spans and appending the trailing remainder.
func reassemble(content string, blocks []parser.CodeBlock, outputs []string) string {
	var result strings.Builder
	result.Grow(len(content) * 2)

	cursor := 0
	for i, b := range blocks {
		result.WriteString(content[cursor:b.Start])
		writeFence(&result, b)
		if !b.Skip {
			result.WriteString(outputHeader)
			result.WriteString(strings.TrimRight(outputs[i], "\n"))
			result.WriteString("\n```")
		}
		// The span includes the closing fence's separator byte unless it
		// was clamped at end of document. Re-emit it so clearing outputs
		// restores the document byte for byte.
		if strings.HasSuffix(content[b.Start:b.End], "\n") {
			result.WriteString("\n")
		}
		cursor = b.End
	}
	result.WriteString(content[cursor:])

	return result.String()
}

// writeFence reproduces a code block using the original fence annotation,
// or the bare language token when none was captured.
func writeFence(result *strings.Builder, b parser.CodeBlock) {
	result.WriteString("```")
	if b.Info != "" {
		result.WriteString(b.Info)
	} else {
		result.WriteString(b.Language)
	}
	result.WriteString("\n")
	result.WriteString(b.Code)
	if !strings.HasSuffix(b.Code, "\n") {
		result.WriteString("\n")
	}
	result.WriteString("```")
}
