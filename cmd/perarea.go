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

var perAreaCmd = &cobra.Command{
	Use:   "per-area",
	Short: "Score each polygonal area grouped by a cadastre attribute",
	Long: `Groups cadastre parcels by an attribute field, unions each group into an
area of interest, clips the road network to it, and scores each area
independently. Results are written as CSV, one row per area; areas that fail
to score get a row with an empty score and the error message.

Examples:
  walkability per-area --field sa4
  walkability per-area --field state --output outputs/state_scores.csv`,
	RunE: runPerArea,
}

func init() {
	f := perAreaCmd.Flags()
	f.String("field", "sa4", "cadastre attribute to group parcels by")
	f.String("roads", "", "roads dataset path (default: <data.dir>/<data.roads>)")
	f.String("cadastre", "", "cadastre dataset path (default: <data.dir>/<data.cadastre>)")
	f.Int("srid", -1, "source SRID of shapefile inputs (overrides config; 0 = unknown)")
	f.String("output", "", "output CSV path (default: <output.dir>/per_area_scores_<field>.csv)")

	rootCmd.AddCommand(perAreaCmd)
}

func runPerArea(cmd *cobra.Command, _ []string) error {
	field, _ := cmd.Flags().GetString("field")
	log := zap.L().With(zap.String("command", "per-area"), zap.String("field", field))

	roadsPath := dataPath(cmd, "roads", cfg.Data.Roads)
	cadastrePath := dataPath(cmd, "cadastre", cfg.Data.Cadastre)
	if err := loader.Require(cfg.Data.Dir, roadsPath, cadastrePath); err != nil {
		return err
	}

	weights := walkability.FromConfig(cfg.Walkability)
	if err := weights.Validate(); err != nil {
		return err
	}

	in, err := loader.OpenInputs(resolveSRID(cmd), roadsPath, cadastrePath, "")
	if err != nil {
		return eris.Wrap(err, "per-area: load datasets")
	}
	log.Info("datasets loaded",
		zap.Int("roads", in.Roads.Len()),
		zap.Int("parcels", in.Cadastre.Len()),
	)

	rows, err := aggregate.PerArea(in.Roads, in.Cadastre, field, weights)
	if err != nil {
		return eris.Wrap(err, "per-area: aggregate")
	}

	outPath, _ := cmd.Flags().GetString("output")
	if outPath == "" {
		outPath = filepath.Join(cfg.Output.Dir, fmt.Sprintf("per_area_scores_%s.csv", field))
	}
	if err := writeRowsCSV(outPath, field, rows, false); err != nil {
		return err
	}
	log.Info("scores written", zap.String("path", outPath), zap.Int("rows", len(rows)))

	aggregate.PrintSummary(os.Stdout, field, rows, 10)
	return nil
}

// writeRowsCSV creates the output file (and its directory) and writes rows.
func writeRowsCSV(path, field string, rows []aggregate.Row, withPoints bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "cmd: create output directory %s", filepath.Dir(path))
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "cmd: create %s", path)
	}
	defer f.Close()

	return aggregate.WriteCSV(f, field, rows, withPoints)
}
