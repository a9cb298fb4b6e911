package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateConfigDir(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigDir(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "python3 {file}", cfg.Languages["python"])
	assert.Equal(t, "sh {file}", cfg.Languages["sh"])
	assert.False(t, cfg.Parallel)
	assert.False(t, cfg.Verbose)
}

func TestLoad_FileMergesOverDefaults(t *testing.T) {
	isolateConfigDir(t)

	path := filepath.Join(t.TempDir(), "languages.yaml")
	content := `languages:
  python: pypy3 {file}
  zig: zig run {file}
parallel: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	// Overridden, added, and untouched defaults.
	assert.Equal(t, "pypy3 {file}", cfg.Languages["python"])
	assert.Equal(t, "zig run {file}", cfg.Languages["zig"])
	assert.Equal(t, "bash {file}", cfg.Languages["bash"])
	assert.True(t, cfg.Parallel)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	isolateConfigDir(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolateConfigDir(t)

	path := filepath.Join(t.TempDir(), "languages.yaml")
	require.NoError(t, os.WriteFile(path, []byte("languages:\n  python: pypy3 {file}\n"), 0o644))

	t.Setenv("MDRUN_LANGUAGES__PYTHON", "python3.13 {file}")
	t.Setenv("MDRUN_PARALLEL", "true")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "python3.13 {file}", cfg.Languages["python"])
	assert.True(t, cfg.Parallel)
}

func TestLoad_FlagsHaveHighestPriority(t *testing.T) {
	isolateConfigDir(t)
	t.Setenv("MDRUN_VERBOSE", "false")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.BoolP("verbose", "v", false, "")
	require.NoError(t, flags.Parse([]string{"--verbose"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
}

func TestLoad_UnchangedFlagsDoNotOverride(t *testing.T) {
	isolateConfigDir(t)
	t.Setenv("MDRUN_VERBOSE", "true")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.BoolP("verbose", "v", false, "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
}
