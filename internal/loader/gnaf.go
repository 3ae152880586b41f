package loader

import (
	"encoding/hex"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geos"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
	"go.uber.org/zap"

	"github.com/urbanmetrics/walkability/internal/feature"
)

// gnafReadBatch is the number of parquet rows materialized per Read call.
const gnafReadBatch = 4096

// gnafRow is the subset of G-NAF property columns the loader materializes.
// The geometry column holds hex-encoded (E)WKB in WGS84 degrees.
type gnafRow struct {
	Geom     string `parquet:"name=geom, type=BYTE_ARRAY, convertedtype=UTF8"`
	Locality string `parquet:"name=locality_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	SA4      string `parquet:"name=sa4, type=BYTE_ARRAY, convertedtype=UTF8"`
	State    string `parquet:"name=state, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// GNAFColumns returns the attribute columns available for grouping G-NAF
// points.
func GNAFColumns() []string {
	return []string{"locality_name", "sa4", "state"}
}

// LoadGNAF reads a G-NAF property parquet file into a point collection,
// decoding the hex-WKB geometry column and reprojecting to web mercator.
// Rows with a missing or undecodable geometry are skipped.
func LoadGNAF(path string) (*feature.Collection, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: open parquet %s", path)
	}
	defer func() { _ = fr.Close() }()

	pr, err := reader.NewParquetReader(fr, new(gnafRow), 4)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: parquet reader for %s", path)
	}
	defer pr.ReadStop()

	total := int(pr.GetNumRows())
	coll := feature.NewCollection(feature.WebMercatorSRID)
	var skipped int

	for read := 0; read < total; {
		n := gnafReadBatch
		if total-read < n {
			n = total - read
		}
		rows := make([]gnafRow, n)
		if err := pr.Read(&rows); err != nil {
			return nil, eris.Wrapf(err, "loader: read parquet rows from %s", path)
		}
		read += n

		for _, row := range rows {
			g, decErr := decodeHexWKB(row.Geom)
			if decErr != nil {
				skipped++
				continue
			}

			attrs := make(map[string]string, 3)
			if row.Locality != "" {
				attrs["locality_name"] = row.Locality
			}
			if row.SA4 != "" {
				attrs["sa4"] = row.SA4
			}
			if row.State != "" {
				attrs["state"] = row.State
			}
			coll.Append(g, attrs)
		}
	}

	if skipped > 0 {
		zap.L().Debug("loader: skipped gnaf rows",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	return coll, nil
}

// decodeHexWKB decodes a hex-encoded (E)WKB geometry in WGS84 degrees and
// returns it projected to web mercator.
func decodeHexWKB(s string) (*geos.Geom, error) {
	if s == "" {
		return nil, eris.New("loader: empty geometry value")
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, eris.Wrap(err, "loader: decode geometry hex")
	}
	g, err := ewkb.Unmarshal(raw)
	if err != nil {
		return nil, eris.Wrap(err, "loader: decode WKB geometry")
	}
	return finalizeGeom(g, 4326)
}
