package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/urbanmetrics/walkability/internal/loader"
	"github.com/urbanmetrics/walkability/internal/walkability"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score the full extent of the roads and cadastre datasets",
	Long: `Loads the roads and cadastre datasets, computes the walkability score over
their full extent, and prints it.

With no explicit area of interest the density denominators fall back to the
bounding envelope of each dataset, which is an approximation for irregular
extents.

Examples:
  # Use the configured data directory
  walkability analyze

  # Explicit inputs
  walkability analyze --roads data/roads.shp --cadastre data/cadastre.shp`,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.String("roads", "", "roads dataset path (default: <data.dir>/<data.roads>)")
	f.String("cadastre", "", "cadastre dataset path (default: <data.dir>/<data.cadastre>)")
	f.Int("srid", -1, "source SRID of shapefile inputs (overrides config; 0 = unknown)")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	log := zap.L().With(zap.String("command", "analyze"))

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
		return eris.Wrap(err, "analyze: load datasets")
	}
	log.Info("datasets loaded",
		zap.Int("roads", in.Roads.Len()),
		zap.Int("parcels", in.Cadastre.Len()),
	)

	score, err := walkability.Score(in.Roads, in.Cadastre, nil, weights)
	if err != nil {
		return eris.Wrap(err, "analyze: score")
	}

	fmt.Printf("Walkability score (0-100): %.2f\n", score)
	return nil
}
