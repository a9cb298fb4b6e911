// Package config provides configuration management for mdrun: the language
// to command-template mapping plus execution options, loaded from defaults,
// the user config file, environment variables and CLI flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration options.
type Config struct {
	// Languages maps fence language tokens to command templates containing
	// a {file} placeholder.
	Languages map[string]string `koanf:"languages" yaml:"languages"`
	// Parallel forces the parallel execution strategy.
	Parallel bool `koanf:"parallel" yaml:"-"`
	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose" yaml:"-"`
}

// DefaultLanguages is the built-in language mapping used when no config
// file is present. Compiled languages go through sh so the build and run
// steps stay a single template.
func DefaultLanguages() map[string]string {
	return map[string]string{
		"python":     "python3 {file}",
		"py":         "python3 {file}",
		"racket":     "racket {file}",
		"bash":       "bash {file}",
		"sh":         "sh {file}",
		"javascript": "node {file}",
		"js":         "node {file}",
		"ruby":       "ruby {file}",
		"php":        "php {file}",
		"julia":      "julia {file}",
		"lua":        "lua {file}",
		"r":          "Rscript {file}",
		"rust":       `sh -c "rustc {file} -o /tmp/mdrun_rust && /tmp/mdrun_rust"`,
		"go":         "go run {file}",
		"java":       `sh -c "javac {file} && java $(basename {file} .java)"`,
		"cpp":        `sh -c "g++ {file} -o /tmp/mdrun_cpp && /tmp/mdrun_cpp"`,
		"c":          `sh -c "gcc {file} -o /tmp/mdrun_c && /tmp/mdrun_c"`,
	}
}

// DefaultPath returns the well-known config file location,
// typically ~/.config/mdrun/languages.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not determine config directory: %w", err)
	}
	return filepath.Join(dir, "mdrun", "languages.yaml"), nil
}

// WriteDefault writes the built-in language mapping to path, creating
// parent directories as needed.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out, err := yaml.Marshal(Config{Languages: DefaultLanguages()})
	if err != nil {
		return fmt.Errorf("failed to encode default config: %w", err)
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
