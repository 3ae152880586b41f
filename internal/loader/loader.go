// Package loader reads vector datasets into feature collections. Shapefile
// and GeoJSON inputs carry roads and cadastre parcels; G-NAF address points
// arrive as parquet with hex-WKB geometry. Geographic inputs are reprojected
// to web mercator during load so downstream computations see meter units.
package loader

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geos"

	"github.com/urbanmetrics/walkability/internal/feature"
)

// Open loads a vector dataset, dispatching on file extension.
func Open(path string, srid int) (*feature.Collection, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return LoadShapefile(path, srid)
	case ".geojson", ".json":
		return LoadGeoJSON(path)
	case ".parquet":
		return LoadGNAF(path)
	default:
		return nil, eris.Errorf("loader: unsupported dataset format %q", filepath.Ext(path))
	}
}

// Require checks that every input file exists. When any is missing it returns
// one diagnostic error naming the missing files and listing what the data
// directory actually contains, so a misconfigured run fails up front.
func Require(dir string, paths ...string) error {
	var missing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, p)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var found []string
	entries, err := os.ReadDir(dir)
	if err == nil {
		for _, e := range entries {
			found = append(found, e.Name())
		}
	}
	return eris.Errorf("loader: missing input files: %s (data dir %s contains: %s)",
		strings.Join(missing, ", "), dir, strings.Join(found, ", "))
}

// targetSRID is the collection SRID after any load-time reprojection.
func targetSRID(srid int) int {
	if feature.IsGeographic(srid) {
		return feature.WebMercatorSRID
	}
	return srid
}

// finalizeGeom reprojects a geometry if its source SRID is geographic and
// hands it over to GEOS.
func finalizeGeom(g geom.T, srid int) (*geos.Geom, error) {
	if feature.IsGeographic(srid) {
		feature.ProjectWebMercator(g)
	}
	return feature.ToGeos(g)
}
