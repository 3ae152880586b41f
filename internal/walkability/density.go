package walkability

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/tidwall/rtree"
	"github.com/twpayne/go-geos"

	"github.com/urbanmetrics/walkability/internal/feature"
)

const (
	// minAreaKM2 floors the density denominator so a degenerate area never
	// divides by zero.
	minAreaKM2 = 1e-9

	m2PerKM2 = 1e6
	mPerKM   = 1000.0
)

// RoadLengthDensity returns the total road length in km per km^2 of the area
// of interest. With no area polygon the denominator falls back to the
// bounding envelope of the unioned (clipped) roads, an approximation that can
// misstate the true area for irregular extents. Empty input returns 0.
func RoadLengthDensity(roads *feature.Collection, area *geos.Geom) (density float64, err error) {
	defer recoverTo(&err, "road length density")

	if roads.Empty() {
		return 0, nil
	}
	clipped := Clip(roads, area)

	var totalM float64
	for _, f := range clipped.Features {
		totalM += f.Geom.Length()
	}
	return (totalM / mPerKM) / areaKM2(clipped, area), nil
}

// IntersectionDensity estimates the number of distinct road intersection
// points per km^2. Candidate points are the endpoints of every clipped line
// plus the pairwise geometric intersections between lines; coincident
// candidates are merged by a geometric union before counting. Endpoints are a
// known over-count source: a dead end contributes a candidate just as a
// junction does.
//
// The pairwise search is pre-filtered by an r-tree over segment bounding
// boxes, so only pairs whose boxes overlap pay for an exact GEOS
// intersection. Empty input returns 0.
func IntersectionDensity(roads *feature.Collection, area *geos.Geom) (density float64, err error) {
	defer recoverTo(&err, "intersection density")

	if roads.Empty() {
		return 0, nil
	}
	clipped := Clip(roads, area)
	lines := lineMembers(clipped)

	points := endpointCandidates(lines)
	points = append(points, pairwiseIntersections(lines)...)
	if len(points) == 0 {
		return 0, nil
	}

	count := countDistinctPoints(points)
	return float64(count) / areaKM2(clipped, area), nil
}

// ParcelDensity returns the number of parcels per km^2 of the area of
// interest, with the same envelope fallback as RoadLengthDensity. Empty input
// returns 0.
func ParcelDensity(parcels *feature.Collection, area *geos.Geom) (density float64, err error) {
	defer recoverTo(&err, "parcel density")

	if parcels.Empty() {
		return 0, nil
	}
	clipped := Clip(parcels, area)
	return float64(clipped.Len()) / areaKM2(clipped, area), nil
}

// areaKM2 returns the analysis area in km^2: the area polygon when given,
// otherwise the bounding envelope of the unioned collection, floored at
// minAreaKM2.
func areaKM2(c *feature.Collection, area *geos.Geom) float64 {
	var m2 float64
	if area != nil {
		m2 = area.Area()
	} else if u := c.UnionAll(); u != nil {
		m2 = u.Envelope().Area()
	}
	return math.Max(m2/m2PerKM2, minAreaKM2)
}

// lineMembers explodes the collection into individual line geometries.
// Clipping can leave multi-part or mixed results; only line members take part
// in intersection counting.
func lineMembers(c *feature.Collection) []*geos.Geom {
	var lines []*geos.Geom
	for _, f := range c.Features {
		lines = append(lines, explodeLines(f.Geom)...)
	}
	return lines
}

func explodeLines(g *geos.Geom) []*geos.Geom {
	switch g.TypeID() {
	case geos.TypeIDLineString, geos.TypeIDLinearRing:
		return []*geos.Geom{g}
	case geos.TypeIDMultiLineString, geos.TypeIDGeometryCollection:
		var lines []*geos.Geom
		for i := 0; i < g.NumGeometries(); i++ {
			lines = append(lines, explodeLines(g.Geometry(i))...)
		}
		return lines
	default:
		return nil
	}
}

// endpointCandidates returns the boundary points of every line. An endpoint
// is always an intersection candidate, whether a dead end, a junction, or the
// clipped network boundary.
func endpointCandidates(lines []*geos.Geom) []*geos.Geom {
	var pts []*geos.Geom
	for _, ln := range lines {
		b := ln.Boundary()
		if b == nil || b.IsEmpty() {
			continue
		}
		pts = append(pts, pointMembers(b)...)
	}
	return pts
}

// pairwiseIntersections computes the exact intersection of every pair of
// distinct lines whose bounding boxes overlap and classifies the results into
// candidate points. A geometric failure on one pair is treated as no
// intersection for that pair.
func pairwiseIntersections(lines []*geos.Geom) []*geos.Geom {
	var tr rtree.RTree
	for i, ln := range lines {
		min, max := boxOf(ln)
		tr.Insert(min, max, i)
	}

	var pts []*geos.Geom
	for i, ln := range lines {
		min, max := boxOf(ln)
		tr.Search(min, max, func(_, _ [2]float64, value interface{}) bool {
			j := value.(int)
			if j <= i {
				return true
			}
			inter := tryIntersection(ln, lines[j])
			if inter == nil || inter.IsEmpty() {
				return true
			}
			pts = append(pts, classifyIntersection(inter)...)
			return true
		})
	}
	return pts
}

func boxOf(g *geos.Geom) ([2]float64, [2]float64) {
	b := g.Bounds()
	return [2]float64{b.MinX, b.MinY}, [2]float64{b.MaxX, b.MaxY}
}

// tryIntersection computes a geometric intersection, swallowing GEOS errors.
func tryIntersection(a, b *geos.Geom) (g *geos.Geom) {
	defer func() {
		if recover() != nil {
			g = nil
		}
	}()
	return a.Intersection(b)
}

// classifyIntersection converts a non-empty intersection result into
// candidate points: a point directly, point members of a multi-part result
// directly plus a representative point per non-point member, and one
// representative point for anything else (e.g. collinear overlap).
func classifyIntersection(inter *geos.Geom) []*geos.Geom {
	switch inter.TypeID() {
	case geos.TypeIDPoint:
		return []*geos.Geom{inter}
	case geos.TypeIDMultiPoint, geos.TypeIDGeometryCollection:
		return pointMembers(inter)
	default:
		return []*geos.Geom{inter.PointOnSurface()}
	}
}

// pointMembers flattens a geometry into points: point members are cloned out
// of their parent, non-point members contribute a representative point.
func pointMembers(g *geos.Geom) []*geos.Geom {
	if g.TypeID() == geos.TypeIDPoint {
		return []*geos.Geom{g.Clone()}
	}
	var pts []*geos.Geom
	for i := 0; i < g.NumGeometries(); i++ {
		m := g.Geometry(i)
		if m.TypeID() == geos.TypeIDPoint {
			pts = append(pts, m.Clone())
		} else {
			pts = append(pts, m.PointOnSurface())
		}
	}
	return pts
}

// countDistinctPoints unions the candidates so coincident locations merge,
// then counts the distinct points that remain.
func countDistinctPoints(pts []*geos.Geom) int {
	u := geos.NewCollection(geos.TypeIDGeometryCollection, pts).UnaryUnion()
	switch {
	case u == nil || u.IsEmpty():
		return 0
	case u.TypeID() == geos.TypeIDPoint:
		return 1
	default:
		return u.NumGeometries()
	}
}

// recoverTo converts a GEOS panic into a returned error. go-geos reports
// geometry errors by panicking; exported entry points keep the contract that
// geometry failures surface as errors to the caller.
func recoverTo(err *error, op string) {
	if r := recover(); r != nil {
		*err = eris.Errorf("walkability: %s: %v", op, r)
	}
}
