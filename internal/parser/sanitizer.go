package parser

import "strings"

// Output section markers recognized for removal. Both spellings have been
// emitted by earlier versions of the tool.
var outputMarkers = []string{"**Output**", "**Output:**"}

// Sanitize removes generated output sections from a document, leaving only
// the original code fences. It is idempotent: applying it twice yields the
// same result as applying it once.
//
// An output section is an output marker directly following a closing fence
// (with or without a separating newline), followed by a bare fenced block
// holding the captured text. After removal, directly adjacent fence pairs
// are normalized to closer, blank line, opener so the line-based tokenizer
// is not confused by glued fences.
func Sanitize(content string) string {
	for {
		next, changed := stripOutputSection(content)
		if !changed {
			break
		}
		content = next
	}

	// Normalize glued fences until stable. A single replacement pass can
	// itself produce a new adjacent pair, so iterate to the fixpoint.
	for {
		next := strings.ReplaceAll(content, fence+fence, fence+"\n\n"+fence)
		next = strings.ReplaceAll(next, fence+"\n"+fence, fence+"\n\n"+fence)
		if next == content {
			break
		}
		content = next
	}

	return content
}

// stripOutputSection removes the first output section it finds and reports
// whether the document changed.
func stripOutputSection(content string) (string, bool) {
	for _, marker := range outputMarkers {
		// Marker on its own line after the closing fence.
		if out, ok := stripAt(content, "\n"+marker+"\n"+fence); ok {
			return out, true
		}
		// Marker glued directly to the closing fence.
		if out, ok := stripAt(content, marker+"\n"+fence); ok {
			return out, true
		}
	}
	return content, false
}

// stripAt removes the section starting with pattern (marker plus opening
// fence of the output body) through the body's closing fence, provided the
// pattern directly follows a closing code fence.
func stripAt(content, pattern string) (string, bool) {
	from := 0
	for {
		rel := strings.Index(content[from:], pattern)
		if rel < 0 {
			return content, false
		}
		start := from + rel

		if !strings.HasSuffix(content[:start], fence) {
			// Marker not adjacent to a closing fence; keep looking.
			from = start + 1
			continue
		}

		bodyStart := start + len(pattern)
		endRel := strings.Index(content[bodyStart:], "\n"+fence)
		if endRel < 0 {
			// Unterminated output body; leave it alone.
			from = start + 1
			continue
		}
		end := bodyStart + endRel + len("\n"+fence)

		return content[:start] + content[end:], true
	}
}
