// Package walkability computes density metrics over road and cadastre
// feature collections and combines them into a heuristic 0-100 score.
package walkability

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/urbanmetrics/walkability/internal/config"
)

// Metric is the weight and saturation scale for one density metric. A density
// at or above Scale contributes the metric's full weight; beyond that it
// saturates and adds nothing more.
type Metric struct {
	Weight float64
	Scale  float64
}

// Weights holds the per-metric configuration of the combined score.
type Weights struct {
	Road         Metric
	Intersection Metric
	Parcel       Metric
}

// DefaultWeights returns the heuristic defaults. Weights sum to 1; scales are
// the density values treated as "maximally walkable" and should be tuned
// against real data.
func DefaultWeights() Weights {
	return Weights{
		Road:         Metric{Weight: 0.4, Scale: 5.0},    // km of road per km^2
		Intersection: Metric{Weight: 0.4, Scale: 100.0},  // intersections per km^2
		Parcel:       Metric{Weight: 0.2, Scale: 500.0},  // parcels per km^2
	}
}

// FromConfig converts the application configuration into score weights.
func FromConfig(cfg config.WalkabilityConfig) Weights {
	return Weights{
		Road:         Metric{Weight: cfg.Road.Weight, Scale: cfg.Road.Scale},
		Intersection: Metric{Weight: cfg.Intersection.Weight, Scale: cfg.Intersection.Scale},
		Parcel:       Metric{Weight: cfg.Parcel.Weight, Scale: cfg.Parcel.Scale},
	}
}

// Validate checks that the weights are internally consistent.
func (w Weights) Validate() error {
	var errs []string

	metrics := map[string]Metric{
		"road":         w.Road,
		"intersection": w.Intersection,
		"parcel":       w.Parcel,
	}
	for name, m := range metrics {
		if m.Weight < 0 {
			errs = append(errs, fmt.Sprintf("%s weight must be >= 0", name))
		}
		if m.Scale <= 0 {
			errs = append(errs, fmt.Sprintf("%s scale must be > 0", name))
		}
	}

	if w.Road.Weight+w.Intersection.Weight+w.Parcel.Weight <= 0 {
		errs = append(errs, "weight sum must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("walkability: weight validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
