package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "roads.shp", cfg.Data.Roads)
	assert.Equal(t, "cadastre.shp", cfg.Data.Cadastre)
	assert.Equal(t, "gnaf_prop.parquet", cfg.Data.GNAF)
	assert.Equal(t, 3857, cfg.Data.SRID)
	assert.Equal(t, "outputs", cfg.Output.Dir)
	assert.InDelta(t, 0.4, cfg.Walkability.Road.Weight, 0.001)
	assert.InDelta(t, 5.0, cfg.Walkability.Road.Scale, 0.001)
	assert.InDelta(t, 0.4, cfg.Walkability.Intersection.Weight, 0.001)
	assert.InDelta(t, 100.0, cfg.Walkability.Intersection.Scale, 0.001)
	assert.InDelta(t, 0.2, cfg.Walkability.Parcel.Weight, 0.001)
	assert.InDelta(t, 500.0, cfg.Walkability.Parcel.Scale, 0.001)
	assert.Equal(t, "locality_name", cfg.Locality.Field)
	assert.InDelta(t, 500.0, cfg.Locality.BufferMeters, 0.001)
	assert.Equal(t, 5, cfg.Locality.MinPoints)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
data:
  dir: /srv/gis
  srid: 4283
walkability:
  road:
    weight: 0.5
    scale: 8.0
locality:
  min_points: 10
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/gis", cfg.Data.Dir)
	assert.Equal(t, 4283, cfg.Data.SRID)
	assert.InDelta(t, 0.5, cfg.Walkability.Road.Weight, 0.001)
	assert.InDelta(t, 8.0, cfg.Walkability.Road.Scale, 0.001)
	assert.Equal(t, 10, cfg.Locality.MinPoints)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.Equal(t, "roads.shp", cfg.Data.Roads)
	assert.InDelta(t, 0.4, cfg.Walkability.Intersection.Weight, 0.001)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	require.Error(t, err)
}
