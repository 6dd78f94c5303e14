package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lasermark/internal/point"
)

// chdir is a stand-in for t.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadNoFileReturnsDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `
[point]
label = "Spot"
diameter = 25
colour = "#ff0000"

[instrument]
ref_label = "Ref"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, point.LabelSpot, cfg.Point.Label)
	assert.Equal(t, 25, cfg.Point.Diameter)
	assert.Equal(t, "#ff0000", cfg.Point.Colour)
	assert.Equal(t, "Ref", cfg.Instrument.RefLabel)

	// Unspecified keys keep their defaults.
	assert.Equal(t, 1.0, cfg.Point.Scale)
	assert.Equal(t, "Particle ID", cfg.Instrument.IDColumn)
}

func TestLoadCanonicalisesLabel(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("[point]\nlabel = \"spot\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, point.LabelSpot, cfg.Point.Label)
}

func TestLoadRejectsUnknownLabel(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("[point]\nlabel = \"Blob\"\n"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, point.ErrInvalidLabel)
}

func TestLoadPicksUpWorkingDirectoryFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("[point]\ndiameter = 99\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 99, cfg.Point.Diameter)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("[point]\ndiameter = -4\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("[point\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
