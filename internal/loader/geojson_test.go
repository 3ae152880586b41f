package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanmetrics/walkability/internal/feature"
)

const roadsGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "LineString", "coordinates": [[151.20, -33.86], [151.21, -33.86]]},
      "properties": {"name": "george st", "lanes": 2}
    },
    {
      "type": "Feature",
      "geometry": {"type": "LineString", "coordinates": [[151.20, -33.87], [151.21, -33.87]]},
      "properties": {"name": "pitt st", "closed": null}
    },
    {
      "type": "Feature",
      "geometry": null,
      "properties": {"name": "ghost rd"}
    }
  ]
}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadGeoJSON(t *testing.T) {
	path := writeTemp(t, "roads.geojson", roadsGeoJSON)

	c, err := LoadGeoJSON(path)
	require.NoError(t, err)

	// Null-geometry features are skipped.
	require.Equal(t, 2, c.Len())
	assert.Equal(t, feature.WebMercatorSRID, c.SRID)

	assert.Equal(t, "george st", c.Features[0].Attrs["name"])
	assert.Equal(t, "2", c.Features[0].Attrs["lanes"])
	// Null property values are dropped.
	_, ok := c.Features[1].Attrs["closed"]
	assert.False(t, ok)

	// Coordinates were reprojected out of degree range.
	assert.Greater(t, c.Features[0].Geom.Length(), 100.0)
}

func TestLoadGeoJSONViaOpen(t *testing.T) {
	path := writeTemp(t, "roads.json", roadsGeoJSON)

	c, err := Open(path, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestLoadGeoJSONMalformed(t *testing.T) {
	path := writeTemp(t, "bad.geojson", `{"type": "FeatureCollection", "features": [`)

	_, err := LoadGeoJSON(path)
	require.Error(t, err)
}

func TestLoadGeoJSONMissingFile(t *testing.T) {
	_, err := LoadGeoJSON(filepath.Join(t.TempDir(), "nope.geojson"))
	require.Error(t, err)
}
