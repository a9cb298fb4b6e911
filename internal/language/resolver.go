// Package language maps fence language tokens to the shell commands that
// execute them. Templates carry a {file} placeholder that is substituted
// with the generated source file path before splitting into an argv.
package language

import (
	"os/exec"
	"strings"
)

// FilePlaceholder is replaced with the temporary source file path when a
// template is resolved into a command.
const FilePlaceholder = "{file}"

// Resolver answers whether an executor exists for a language token and how
// to invoke it. It is immutable after construction and safe for concurrent
// reads.
type Resolver struct {
	mappings map[string]string
}

// NewResolver creates a resolver over the given language to command
// template mapping.
func NewResolver(mappings map[string]string) *Resolver {
	return &Resolver{mappings: mappings}
}

// Lookup returns the raw command template for a language token.
func (r *Resolver) Lookup(language string) (string, bool) {
	template, ok := r.mappings[language]
	return template, ok
}

// Command resolves a language token into an argv with the {file}
// placeholder substituted. The second return is false when no template is
// configured for the token.
func (r *Resolver) Command(language, filePath string) ([]string, bool) {
	template, ok := r.mappings[language]
	if !ok {
		return nil, false
	}
	return Split(strings.ReplaceAll(template, FilePlaceholder, filePath)), true
}

// Languages returns the configured language tokens.
func (r *Resolver) Languages() []string {
	tokens := make([]string, 0, len(r.mappings))
	for token := range r.mappings {
		tokens = append(tokens, token)
	}
	return tokens
}

// DependencyPresent reports whether the executable behind a resolved
// command is available. Shell invocations are assumed present; everything
// else is probed on the search path.
func (r *Resolver) DependencyPresent(argv []string) bool {
	if len(argv) == 0 {
		return false
	}
	base := argv[0]
	if base == "sh" || base == "bash" {
		return true
	}
	_, err := exec.LookPath(base)
	return err == nil
}
