package walkability

import (
	"github.com/twpayne/go-geos"

	"github.com/urbanmetrics/walkability/internal/feature"
)

// Clip intersects every feature with the area polygon, dropping features whose
// intersection is empty. A nil area, or a collection with no recorded
// coordinate system, is returned unchanged. An empty result is a valid
// collection, not an error.
func Clip(c *feature.Collection, area *geos.Geom) *feature.Collection {
	if area == nil || c.SRID == 0 {
		return c
	}
	var out []feature.Feature
	for _, f := range c.Features {
		inter := f.Geom.Intersection(area)
		if inter == nil || inter.IsEmpty() {
			continue
		}
		out = append(out, feature.Feature{Geom: inter, Attrs: f.Attrs})
	}
	return c.Subset(out)
}

// FilterIntersects keeps every feature that intersects the area polygon,
// without cutting geometries at the boundary. The per-locality driver uses
// this form so parcels straddling the locality hull are counted whole.
func FilterIntersects(c *feature.Collection, area *geos.Geom) *feature.Collection {
	if area == nil || c.SRID == 0 {
		return c
	}
	var out []feature.Feature
	for _, f := range c.Features {
		if f.Geom.Intersects(area) {
			out = append(out, f)
		}
	}
	return c.Subset(out)
}
