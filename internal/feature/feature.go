// Package feature models in-memory vector feature collections for the
// walkability analysis. Geometries are held as GEOS geometries; loaders hand
// coordinates over via go-geom after any reprojection.
package feature

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geos"
)

// Feature is one geometry record with its source attributes.
type Feature struct {
	Geom  *geos.Geom
	Attrs map[string]string
}

// Collection is an ordered set of features sharing one SRID. SRID 0 means the
// coordinate system is unknown; computations then skip area masking.
type Collection struct {
	SRID     int
	Features []Feature
}

// Group is the set of features sharing one value of a grouping attribute.
type Group struct {
	Key      string
	Features []Feature
}

// Geoms returns the geometries of the group's features in order.
func (g Group) Geoms() []*geos.Geom {
	geoms := make([]*geos.Geom, 0, len(g.Features))
	for _, f := range g.Features {
		geoms = append(geoms, f.Geom)
	}
	return geoms
}

// NewCollection returns an empty collection with the given SRID.
func NewCollection(srid int) *Collection {
	return &Collection{SRID: srid}
}

// Append adds a feature to the collection.
func (c *Collection) Append(g *geos.Geom, attrs map[string]string) {
	c.Features = append(c.Features, Feature{Geom: g, Attrs: attrs})
}

// Len returns the number of features.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Features)
}

// Empty reports whether the collection holds no features.
func (c *Collection) Empty() bool {
	return c.Len() == 0
}

// Subset returns a new collection with the same SRID and the given features.
func (c *Collection) Subset(features []Feature) *Collection {
	return &Collection{SRID: c.SRID, Features: features}
}

// Geoms returns the geometries of all features in order.
func (c *Collection) Geoms() []*geos.Geom {
	geoms := make([]*geos.Geom, 0, c.Len())
	for _, f := range c.Features {
		geoms = append(geoms, f.Geom)
	}
	return geoms
}

// Columns returns the sorted union of attribute keys across all features.
func (c *Collection) Columns() []string {
	seen := make(map[string]bool)
	for _, f := range c.Features {
		for k := range f.Attrs {
			seen[k] = true
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// GroupBy partitions the collection by the value of one attribute. Groups are
// returned in sorted key order so downstream output is deterministic.
// Features without the attribute are omitted. An unknown field is an error
// naming the available columns.
func (c *Collection) GroupBy(field string) ([]Group, error) {
	byKey := make(map[string][]Feature)
	found := false
	for _, f := range c.Features {
		v, ok := f.Attrs[field]
		if !ok {
			continue
		}
		found = true
		byKey[v] = append(byKey[v], f)
	}
	if !found {
		return nil, eris.Errorf("feature: field %q not found in columns: %s", field, strings.Join(c.Columns(), ", "))
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([]Group, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, Group{Key: k, Features: byKey[k]})
	}
	return groups, nil
}

// UnionAll returns the geometric union of all features, or nil for an empty
// collection. Inputs are cloned; the collection remains usable afterwards.
func (c *Collection) UnionAll() *geos.Geom {
	return UnionGeoms(c.Geoms())
}

// UnionGeoms unions a slice of geometries into one. Returns nil for no input.
func UnionGeoms(geoms []*geos.Geom) *geos.Geom {
	if len(geoms) == 0 {
		return nil
	}
	if len(geoms) == 1 {
		return geoms[0].Clone()
	}
	clones := make([]*geos.Geom, 0, len(geoms))
	for _, g := range geoms {
		clones = append(clones, g.Clone())
	}
	return geos.NewCollection(geos.TypeIDGeometryCollection, clones).UnaryUnion()
}
