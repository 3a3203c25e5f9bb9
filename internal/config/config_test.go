package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverridesAndFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finsight.toml")
	content := `
[analysis]
min_occurrences = 4
anomaly_n_std = 2.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Analysis.MinOccurrences)
	assert.InDelta(t, 2.5, cfg.Analysis.AnomalyStd, 1e-9)
	// Unset fields keep their defaults.
	assert.InDelta(t, 0.05, cfg.Analysis.AmountTolerance, 1e-9)
	assert.Equal(t, 30, cfg.Analysis.AnomalyWindow)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[analysis\nmin"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
