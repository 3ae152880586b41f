package main

import (
	"fmt"
	"math"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/twpayne/go-geos"

	"github.com/urbanmetrics/walkability/internal/loader"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <path>",
	Short: "Print a summary of a roads, cadastre, or G-NAF dataset",
	Long: `Loads a single dataset and prints its feature count, SRID, attribute
columns, geometry type breakdown, and spatial bounds. Useful for checking
what a file contains before running a scoring command.

Examples:
  walkability inspect data/roads.shp
  walkability inspect data/gnaf_prop.parquet`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().Int("srid", -1, "source SRID of shapefile inputs (overrides config; 0 = unknown)")

	rootCmd.AddCommand(inspectCmd)
}

var typeNames = map[geos.TypeID]string{
	geos.TypeIDPoint:              "Point",
	geos.TypeIDLineString:         "LineString",
	geos.TypeIDLinearRing:         "LinearRing",
	geos.TypeIDPolygon:            "Polygon",
	geos.TypeIDMultiPoint:         "MultiPoint",
	geos.TypeIDMultiLineString:    "MultiLineString",
	geos.TypeIDMultiPolygon:       "MultiPolygon",
	geos.TypeIDGeometryCollection: "GeometryCollection",
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	c, err := loader.Open(path, resolveSRID(cmd))
	if err != nil {
		return eris.Wrapf(err, "inspect: load %s", path)
	}

	fmt.Printf("Dataset:  %s\n", path)
	fmt.Printf("Features: %d\n", c.Len())
	fmt.Printf("SRID:     %d\n", c.SRID)

	cols := c.Columns()
	if len(cols) > 0 {
		fmt.Println("Columns:")
		for _, col := range cols {
			fmt.Printf("  %s\n", col)
		}
	}

	if c.Empty() {
		return nil
	}

	counts := map[string]int{}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, ft := range c.Features {
		name, ok := typeNames[ft.Geom.TypeID()]
		if !ok {
			name = "Unknown"
		}
		counts[name]++

		b := ft.Geom.Bounds()
		minX = math.Min(minX, b.MinX)
		minY = math.Min(minY, b.MinY)
		maxX = math.Max(maxX, b.MaxX)
		maxY = math.Max(maxY, b.MaxY)
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Geometry types:")
	for _, name := range names {
		fmt.Printf("  %-20s %d\n", name, counts[name])
	}
	fmt.Printf("Bounds:   (%.2f, %.2f) - (%.2f, %.2f)\n", minX, minY, maxX, maxY)

	return nil
}
