package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	geojson "github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/urbanmetrics/walkability/internal/feature"
)

// LoadGeoJSON reads a GeoJSON FeatureCollection. RFC 7946 fixes GeoJSON
// coordinates to WGS84 degrees, so geometries are always reprojected to web
// mercator.
func LoadGeoJSON(path string) (*feature.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: read geojson %s", path)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "loader: parse geojson %s", path)
	}

	coll := feature.NewCollection(feature.WebMercatorSRID)
	var skipped int

	for _, f := range fc.Features {
		if f.Geometry == nil {
			skipped++
			continue
		}

		g, convErr := finalizeGeom(f.Geometry, 4326)
		if convErr != nil {
			skipped++
			continue
		}

		attrs := make(map[string]string, len(f.Properties))
		for k, v := range f.Properties {
			if v == nil {
				continue
			}
			attrs[k] = fmt.Sprint(v)
		}

		coll.Append(g, attrs)
	}

	if skipped > 0 {
		zap.L().Debug("loader: skipped geojson features",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	return coll, nil
}
