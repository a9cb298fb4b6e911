// Package parser provides fenced code block tokenization and output
// sanitization for Markdown documents. It locates runnable blocks with
// exact byte spans and strips previously inserted output sections so
// repeated runs are stable.
package parser

import (
	"regexp"
	"strings"
)

const fence = "```"

// Modifiers recognized in the fence info string.
const (
	modNoRunShort = "-nr"
	modNoRunLong  = "--no-run"
)

// languagePattern restricts language tokens to alphanumerics, underscore
// and hyphen. Anything else means the line is not a fence opener.
var languagePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// CodeBlock describes one fenced code block found in a document.
type CodeBlock struct {
	// Language is the executor token from the fence info string.
	Language string
	// Code is the raw source between the fences, without the fence lines.
	Code string
	// Start and End form a half-open byte range [Start, End) in the
	// sanitized document, covering the opening fence line through the
	// closing fence line and its line separator.
	Start int
	End   int
	// Skip marks blocks carrying a no-run modifier. They are reproduced
	// verbatim and never executed.
	Skip bool
	// Info is the full text after the opening triple backtick, preserved
	// so re-emission stays faithful to what the author wrote.
	Info string
}

// Tokenize scans a document line by line and returns its code blocks in
// order of appearance. Spans are non-overlapping and strictly increasing.
//
// A line opens a block when, after trimming, it starts with a triple
// backtick followed by a valid language token. A line closes a block when,
// after trimming, it is exactly a triple backtick; there is no nesting
// awareness, so a bare fence line inside a block acts as a closer. When an
// opener has no closer before end of document, scanning stops and no block
// is emitted for it.
func Tokenize(content string) []CodeBlock {
	var blocks []CodeBlock
	lines := strings.Split(content, "\n")

	// offsets[i] is the byte offset of the start of line i, counting one
	// separator byte per preceding line.
	offsets := make([]int, len(lines)+1)
	for i, line := range lines {
		offsets[i+1] = offsets[i] + len(line) + 1
	}

	i := 0
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(trimmed, fence) || len(trimmed) <= len(fence) {
			i++
			continue
		}

		info := strings.TrimSpace(trimmed[len(fence):])
		language, skip := parseInfo(info)
		if language == "" || !languagePattern.MatchString(language) {
			// Not a runnable fence. Leave the line untouched and move on.
			i++
			continue
		}

		startLine := i
		i++

		closed := false
		endLine := i
		var codeLines []string
		for i < len(lines) {
			if strings.TrimSpace(lines[i]) == fence {
				closed = true
				endLine = i
				break
			}
			codeLines = append(codeLines, lines[i])
			i++
		}

		if !closed {
			// Dangling opener: stop scanning the rest of the document.
			break
		}

		end := offsets[endLine+1]
		if end > len(content) {
			end = len(content)
		}

		blocks = append(blocks, CodeBlock{
			Language: language,
			Code:     strings.Join(codeLines, "\n"),
			Start:    offsets[startLine],
			End:      end,
			Skip:     skip,
			Info:     info,
		})

		i++ // past the closing fence
	}

	return blocks
}

// parseInfo splits a fence info string into the language candidate and the
// no-run flag. Modifiers are order independent.
func parseInfo(info string) (language string, skip bool) {
	parts := strings.Fields(info)
	if len(parts) == 0 {
		return "", false
	}
	for _, p := range parts[1:] {
		if p == modNoRunShort || p == modNoRunLong {
			skip = true
		}
	}
	return parts[0], skip
}
