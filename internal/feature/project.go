package feature

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geos"
)

// WebMercatorSRID is the planar target for geographic inputs.
const WebMercatorSRID = 3857

// earthRadius is the WGS84 semi-major axis in meters, the sphere radius used
// by spherical (web) mercator.
const earthRadius = 6378137.0

// geographicSRIDs are degree-unit systems the loaders know how to reproject.
// 4283 is GDA94, the usual system for Australian cadastre extracts.
var geographicSRIDs = map[int]bool{
	4326: true,
	4283: true,
}

// IsGeographic reports whether an SRID uses degree units.
func IsGeographic(srid int) bool {
	return geographicSRIDs[srid]
}

// ProjectWebMercator converts lon/lat degree coordinates to EPSG:3857 meters,
// mutating the geometry's flat coordinates in place.
func ProjectWebMercator(g geom.T) {
	fc := g.FlatCoords()
	stride := g.Stride()
	if stride < 2 {
		return
	}
	for i := 0; i+1 < len(fc); i += stride {
		lon, lat := fc[i], fc[i+1]
		fc[i] = earthRadius * lon * math.Pi / 180
		fc[i+1] = earthRadius * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
	}
}

// ToGeos converts a go-geom geometry into a GEOS geometry, dropping any Z/M
// dimensions. Loaders call this after reprojection.
func ToGeos(g geom.T) (*geos.Geom, error) {
	switch t := g.(type) {
	case *geom.Point:
		return geos.NewPoint(coord2d(t.Coords())), nil

	case *geom.MultiPoint:
		points := make([]*geos.Geom, 0, t.NumPoints())
		for i := 0; i < t.NumPoints(); i++ {
			points = append(points, geos.NewPoint(coord2d(t.Point(i).Coords())))
		}
		return geos.NewCollection(geos.TypeIDMultiPoint, points), nil

	case *geom.LineString:
		return geos.NewLineString(coords2d(t.Coords())), nil

	case *geom.MultiLineString:
		lines := make([]*geos.Geom, 0, t.NumLineStrings())
		for i := 0; i < t.NumLineStrings(); i++ {
			lines = append(lines, geos.NewLineString(coords2d(t.LineString(i).Coords())))
		}
		return geos.NewCollection(geos.TypeIDMultiLineString, lines), nil

	case *geom.Polygon:
		return geos.NewPolygon(polygonCoords(t)), nil

	case *geom.MultiPolygon:
		polys := make([]*geos.Geom, 0, t.NumPolygons())
		for i := 0; i < t.NumPolygons(); i++ {
			polys = append(polys, geos.NewPolygon(polygonCoords(t.Polygon(i))))
		}
		return geos.NewCollection(geos.TypeIDMultiPolygon, polys), nil

	case *geom.GeometryCollection:
		members := make([]*geos.Geom, 0, t.NumGeoms())
		for i := 0; i < t.NumGeoms(); i++ {
			m, err := ToGeos(t.Geom(i))
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		}
		return geos.NewCollection(geos.TypeIDGeometryCollection, members), nil

	default:
		return nil, eris.Errorf("feature: unsupported geometry type %T", g)
	}
}

func coord2d(c geom.Coord) []float64 {
	return []float64{c[0], c[1]}
}

func coords2d(coords []geom.Coord) [][]float64 {
	out := make([][]float64, 0, len(coords))
	for _, c := range coords {
		out = append(out, coord2d(c))
	}
	return out
}

func polygonCoords(p *geom.Polygon) [][][]float64 {
	rings := make([][][]float64, 0, p.NumLinearRings())
	for i := 0; i < p.NumLinearRings(); i++ {
		rings = append(rings, coords2d(p.LinearRing(i).Coords()))
	}
	return rings
}
