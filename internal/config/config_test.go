package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logprobe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
workers: 4
verbose: true
continue_on_failure: false
log_file: out.log
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 4, cfg.Workers)
	require.True(t, cfg.Verbose)
	require.False(t, cfg.ContinueOnFailure)
	require.Equal(t, "out.log", cfg.LogFile)
	// Fields absent from the file keep their defaults.
	require.Equal(t, Default().LogExtractionFailures, cfg.LogExtractionFailures)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logprobe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [not-a-number"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestOptionsMirrorsConfigFields(t *testing.T) {
	cfg := Default()
	cfg.Workers = 3
	cfg.ContinueOnFailure = false

	opts := cfg.Options()
	require.Equal(t, 3, opts.Workers)
	require.False(t, opts.ContinueOnFailure)
	require.Equal(t, cfg.EnhancedErrors, opts.EnhancedErrors)
}
