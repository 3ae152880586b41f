package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/urbanmetrics/walkability/internal/aggregate"
	"github.com/urbanmetrics/walkability/internal/loader"
	"github.com/urbanmetrics/walkability/internal/walkability"
)

var perLocalityCmd = &cobra.Command{
	Use:   "per-locality",
	Short: "Score localities derived from G-NAF address points",
	Long: `Groups G-NAF address points by an attribute field, builds each locality's
area of interest as the buffered convex hull of its points, and scores the
roads and parcels that intersect it. Localities with fewer points than the
minimum are skipped.

Examples:
  walkability per-locality
  walkability per-locality --field sa4 --buffer 250 --min-points 10`,
	RunE: runPerLocality,
}

func init() {
	f := perLocalityCmd.Flags()
	f.String("field", "", "address attribute to group points by (default: config locality.field)")
	f.Float64("buffer", -1, "convex hull buffer in metres (default: config locality.buffer_meters)")
	f.Int("min-points", -1, "minimum address points per locality (default: config locality.min_points)")
	f.String("gnaf", "", "G-NAF parquet path (default: <data.dir>/<data.gnaf>)")
	f.String("roads", "", "roads dataset path (default: <data.dir>/<data.roads>)")
	f.String("cadastre", "", "cadastre dataset path (default: <data.dir>/<data.cadastre>)")
	f.Int("srid", -1, "source SRID of shapefile inputs (overrides config; 0 = unknown)")
	f.String("output", "", "output CSV path (default: <output.dir>/per_locality_scores_<field>.csv)")

	rootCmd.AddCommand(perLocalityCmd)
}

func runPerLocality(cmd *cobra.Command, _ []string) error {
	field, _ := cmd.Flags().GetString("field")
	if field == "" {
		field = cfg.Locality.Field
	}
	buffer, _ := cmd.Flags().GetFloat64("buffer")
	if buffer < 0 {
		buffer = cfg.Locality.BufferMeters
	}
	minPoints, _ := cmd.Flags().GetInt("min-points")
	if minPoints < 0 {
		minPoints = cfg.Locality.MinPoints
	}

	log := zap.L().With(zap.String("command", "per-locality"), zap.String("field", field))

	roadsPath := dataPath(cmd, "roads", cfg.Data.Roads)
	cadastrePath := dataPath(cmd, "cadastre", cfg.Data.Cadastre)
	gnafPath := dataPath(cmd, "gnaf", cfg.Data.GNAF)
	if err := loader.Require(cfg.Data.Dir, roadsPath, cadastrePath, gnafPath); err != nil {
		return err
	}

	weights := walkability.FromConfig(cfg.Walkability)
	if err := weights.Validate(); err != nil {
		return err
	}

	in, err := loader.OpenInputs(resolveSRID(cmd), roadsPath, cadastrePath, gnafPath)
	if err != nil {
		return eris.Wrap(err, "per-locality: load datasets")
	}
	log.Info("datasets loaded",
		zap.Int("roads", in.Roads.Len()),
		zap.Int("parcels", in.Cadastre.Len()),
		zap.Int("addresses", in.GNAF.Len()),
	)

	rows, err := aggregate.PerLocality(in.GNAF, in.Roads, in.Cadastre, field, buffer, minPoints, weights)
	if err != nil {
		return eris.Wrap(err, "per-locality: aggregate")
	}

	outPath, _ := cmd.Flags().GetString("output")
	if outPath == "" {
		outPath = filepath.Join(cfg.Output.Dir, fmt.Sprintf("per_locality_scores_%s.csv", field))
	}
	if err := writeRowsCSV(outPath, field, rows, true); err != nil {
		return err
	}
	log.Info("scores written", zap.String("path", outPath), zap.Int("rows", len(rows)))

	aggregate.PrintSummary(os.Stdout, field, rows, 10)
	return nil
}
