package walkability

import (
	"math"

	"github.com/twpayne/go-geos"

	"github.com/urbanmetrics/walkability/internal/feature"
)

// Score combines the three density metrics into a walkability score in
// [0, 100]. Each density is computed against the same area of interest,
// normalized by its saturation scale, clamped to at most full contribution,
// and weighted. The result is a pure function of its inputs; any geometry
// error from the underlying operations is returned to the caller.
func Score(roads, parcels *feature.Collection, area *geos.Geom, w Weights) (float64, error) {
	rd, err := RoadLengthDensity(roads, area)
	if err != nil {
		return 0, err
	}
	id, err := IntersectionDensity(roads, area)
	if err != nil {
		return 0, err
	}
	pd, err := ParcelDensity(parcels, area)
	if err != nil {
		return 0, err
	}

	score := w.Road.Weight*saturate(rd, w.Road.Scale) +
		w.Intersection.Weight*saturate(id, w.Intersection.Scale) +
		w.Parcel.Weight*saturate(pd, w.Parcel.Scale)

	// Clamp: weight configurations summing above 1 must not push the score
	// past 100.
	return math.Max(0, math.Min(score*100, 100)), nil
}

// saturate normalizes a density by its saturation scale, capped at 1.
func saturate(density, scale float64) float64 {
	return math.Min(density/scale, 1.0)
}
