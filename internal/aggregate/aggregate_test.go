package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geos"

	"github.com/urbanmetrics/walkability/internal/feature"
	"github.com/urbanmetrics/walkability/internal/walkability"
)

func line(coords ...[]float64) *geos.Geom {
	return geos.NewLineString(coords)
}

func square(x, y, size float64) *geos.Geom {
	return geos.NewPolygon([][][]float64{{
		{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y},
	}})
}

func point(x, y float64) *geos.Geom {
	return geos.NewPoint([]float64{x, y})
}

// twoSuburbs builds a cadastre with two parcel clusters 10 km apart and a
// road network crossing each cluster.
func twoSuburbs() (roads, cadastre *feature.Collection) {
	cadastre = feature.NewCollection(3857)
	for _, origin := range [][2]float64{{0, 0}, {10000, 0}} {
		suburb := "east"
		if origin[0] == 0 {
			suburb = "west"
		}
		for i := 0; i < 4; i++ {
			x := origin[0] + float64(i%2)*300 + 100
			y := origin[1] + float64(i/2)*300 + 100
			cadastre.Append(square(x, y, 100), map[string]string{"suburb": suburb})
		}
	}

	roads = feature.NewCollection(3857)
	for _, x0 := range []float64{0, 10000} {
		roads.Append(line([]float64{x0, 150}, []float64{x0 + 600, 150}), nil)
		roads.Append(line([]float64{x0 + 150, 0}, []float64{x0 + 150, 600}), nil)
	}
	return roads, cadastre
}

func TestPerArea(t *testing.T) {
	roads, cadastre := twoSuburbs()

	rows, err := PerArea(roads, cadastre, "suburb", walkability.DefaultWeights())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Sorted key order.
	assert.Equal(t, "east", rows[0].Group)
	assert.Equal(t, "west", rows[1].Group)

	for _, r := range rows {
		require.NotNil(t, r.Score, "group %s should score", r.Group)
		assert.Empty(t, r.Err)
		assert.Greater(t, *r.Score, 0.0)
		assert.LessOrEqual(t, *r.Score, 100.0)
		assert.Equal(t, 4, r.Parcels)
		assert.Greater(t, r.RoadKMPerKM2, 0.0)
		assert.Zero(t, r.Points, "per-area rows carry no point counts")
	}
}

func TestPerAreaUnknownField(t *testing.T) {
	roads, cadastre := twoSuburbs()

	_, err := PerArea(roads, cadastre, "nope", walkability.DefaultWeights())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestPerAreaIsolatedGroupsScoreIndependently(t *testing.T) {
	roads, cadastre := twoSuburbs()

	// Drop the eastern roads; the east group must still produce a row, with
	// no road contribution.
	westRoads := feature.NewCollection(3857)
	for _, f := range roads.Features {
		if b := f.Geom.Bounds(); b.MaxX <= 1000 {
			westRoads.Append(f.Geom, f.Attrs)
		}
	}

	rows, err := PerArea(westRoads, cadastre, "suburb", walkability.DefaultWeights())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	east, west := rows[0], rows[1]
	require.NotNil(t, east.Score)
	require.NotNil(t, west.Score)
	assert.Zero(t, east.RoadKMPerKM2)
	assert.Greater(t, west.RoadKMPerKM2, 0.0)
	assert.Greater(t, *west.Score, *east.Score)
}

func TestPerLocality(t *testing.T) {
	roads, cadastre := twoSuburbs()

	gnaf := feature.NewCollection(3857)
	for i := 0; i < 6; i++ {
		gnaf.Append(point(float64(i)*100, 200), map[string]string{"locality_name": "westville"})
	}
	for i := 0; i < 6; i++ {
		gnaf.Append(point(10000+float64(i)*100, 200), map[string]string{"locality_name": "eastville"})
	}

	rows, err := PerLocality(gnaf, roads, cadastre, "locality_name", 500, 5, walkability.DefaultWeights())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "eastville", rows[0].Group)
	assert.Equal(t, "westville", rows[1].Group)

	for _, r := range rows {
		require.NotNil(t, r.Score, "locality %s should score", r.Group)
		assert.Equal(t, 6, r.Points)
		assert.Empty(t, r.Err)
		assert.Greater(t, *r.Score, 0.0)
		// Boundary parcels count whole under intersection filtering.
		assert.Equal(t, 4, r.Parcels)
	}
}

func TestPerLocalityMinPointsSkips(t *testing.T) {
	roads, cadastre := twoSuburbs()

	gnaf := feature.NewCollection(3857)
	for i := 0; i < 6; i++ {
		gnaf.Append(point(float64(i)*100, 200), map[string]string{"locality_name": "big"})
	}
	gnaf.Append(point(10000, 200), map[string]string{"locality_name": "tiny"})

	rows, err := PerLocality(gnaf, roads, cadastre, "locality_name", 500, 5, walkability.DefaultWeights())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "big", rows[0].Group)
}

func TestPerLocalityFailedGroupDemotedToRow(t *testing.T) {
	roads, cadastre := twoSuburbs()

	// A group whose geometries are missing panics during hull construction;
	// the failure must stay contained to that group.
	gnaf := feature.NewCollection(3857)
	for i := 0; i < 6; i++ {
		gnaf.Append(point(float64(i)*100, 200), map[string]string{"locality_name": "good"})
	}
	for i := 0; i < 6; i++ {
		gnaf.Append(nil, map[string]string{"locality_name": "broken"})
	}

	rows, err := PerLocality(gnaf, roads, cadastre, "locality_name", 500, 5, walkability.DefaultWeights())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byGroup := map[string]Row{}
	for _, r := range rows {
		byGroup[r.Group] = r
	}
	require.NotNil(t, byGroup["good"].Score)

	broken := byGroup["broken"]
	assert.Nil(t, broken.Score)
	assert.NotEmpty(t, broken.Err)
}
