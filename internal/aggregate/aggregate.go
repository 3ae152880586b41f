// Package aggregate runs the per-group walkability drivers: group an input
// dataset, derive one area-of-interest polygon per group, score it, and
// collect one output row per group. A failed group becomes a row with a null
// score and the error text; the run continues.
package aggregate

import (
	"fmt"

	"github.com/twpayne/go-geos"
	"go.uber.org/zap"

	"github.com/urbanmetrics/walkability/internal/feature"
	"github.com/urbanmetrics/walkability/internal/walkability"
)

// bufferQuadSegs is the arc approximation used for locality hull buffers.
const bufferQuadSegs = 8

// progressEvery is how often driver loops log progress.
const progressEvery = 50

// Row is one aggregated result. Score is nil when the group failed; Err then
// carries the reason.
type Row struct {
	Group        string
	Points       int
	Score        *float64
	Parcels      int
	RoadKMPerKM2 float64
	Err          string
}

// PerArea groups the cadastre by an attribute, scores each group against the
// union of its parcels, and returns one row per group in sorted key order.
func PerArea(roads, cadastre *feature.Collection, field string, w walkability.Weights) ([]Row, error) {
	groups, err := cadastre.GroupBy(field)
	if err != nil {
		return nil, err
	}

	log := zap.L().With(zap.String("driver", "per-area"), zap.String("field", field))
	log.Info("scoring groups", zap.Int("groups", len(groups)))

	rows := make([]Row, 0, len(groups))
	for i, grp := range groups {
		rows = append(rows, scoreArea(roads, cadastre, grp, w))
		if (i+1)%progressEvery == 0 {
			log.Info("progress", zap.Int("completed", i+1), zap.Int("total", len(groups)))
		}
	}
	return rows, nil
}

// PerLocality groups G-NAF points by an attribute and scores each locality
// against a convex hull of its points buffered by bufferMeters. Localities
// with fewer than minPoints points are skipped entirely.
func PerLocality(gnaf, roads, cadastre *feature.Collection, field string, bufferMeters float64, minPoints int, w walkability.Weights) ([]Row, error) {
	groups, err := gnaf.GroupBy(field)
	if err != nil {
		return nil, err
	}

	log := zap.L().With(zap.String("driver", "per-locality"), zap.String("field", field))
	log.Info("scoring localities", zap.Int("groups", len(groups)), zap.Int("min_points", minPoints))

	var rows []Row
	for i, grp := range groups {
		if len(grp.Features) < minPoints {
			continue
		}
		rows = append(rows, scoreLocality(roads, cadastre, grp, bufferMeters, w))
		if (i+1)%progressEvery == 0 {
			log.Info("progress", zap.Int("completed", i+1), zap.Int("total", len(groups)))
		}
	}
	return rows, nil
}

// scoreArea scores one administrative-area group. The area of interest is the
// union of the group's parcels; both datasets are clipped to it.
func scoreArea(roads, cadastre *feature.Collection, grp feature.Group, w walkability.Weights) (row Row) {
	row.Group = grp.Key
	defer demoteFailure(&row, grp.Key)

	area := feature.UnionGeoms(grp.Geoms())
	cadClip := walkability.Clip(cadastre, area)
	roadsClip := walkability.Clip(roads, area)

	return assemble(grp.Key, len(grp.Features), roadsClip, cadClip, area, w, false)
}

// scoreLocality scores one locality group. The area of interest is the convex
// hull of the locality's points, buffered; datasets are filtered by
// intersection rather than clipped, so boundary features count whole.
func scoreLocality(roads, cadastre *feature.Collection, grp feature.Group, bufferMeters float64, w walkability.Weights) (row Row) {
	row.Group = grp.Key
	defer demoteFailure(&row, grp.Key)

	area := feature.UnionGeoms(grp.Geoms()).ConvexHull().Buffer(bufferMeters, bufferQuadSegs)
	cadClip := walkability.FilterIntersects(cadastre, area)
	roadsClip := walkability.FilterIntersects(roads, area)

	return assemble(grp.Key, len(grp.Features), roadsClip, cadClip, area, w, true)
}

// assemble scores the clipped datasets and builds the result row. The
// reported road density is recomputed on the clipped roads without the area
// of interest, matching the envelope-fallback semantics both drivers have
// always reported.
func assemble(key string, points int, roadsClip, cadClip *feature.Collection, area *geos.Geom, w walkability.Weights, withPoints bool) Row {
	row := Row{Group: key}
	if withPoints {
		row.Points = points
	}

	score, err := walkability.Score(roadsClip, cadClip, area, w)
	if err != nil {
		return Row{Group: key, Points: row.Points, Err: err.Error()}
	}

	var roadDensity float64
	if roadsClip.Len() > 0 {
		roadDensity, err = walkability.RoadLengthDensity(roadsClip, nil)
		if err != nil {
			return Row{Group: key, Points: row.Points, Err: err.Error()}
		}
	}

	row.Score = &score
	row.Parcels = cadClip.Len()
	row.RoadKMPerKM2 = roadDensity
	return row
}

// demoteFailure converts a panic inside one group (GEOS reports geometry
// errors by panicking) into a null-score row so the run continues.
func demoteFailure(row *Row, key string) {
	if r := recover(); r != nil {
		*row = Row{Group: key, Points: row.Points, Err: fmt.Sprint(r)}
	}
}
