package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/urbanmetrics/walkability/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "walkability",
	Short: "Heuristic walkability scoring for road and cadastre datasets",
	Long: "Computes a 0-100 walkability score from road-network and land-parcel vector data:\n" +
		"road length density, intersection density, and parcel density are normalized against\n" +
		"heuristic saturation scales and combined as a weighted sum. Scores can cover the full\n" +
		"dataset extent or be aggregated per administrative area or per G-NAF locality.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// dataPath resolves a dataset path: an explicit flag wins, otherwise the
// configured file name under the data directory.
func dataPath(cmd *cobra.Command, flag, def string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	return filepath.Join(cfg.Data.Dir, def)
}

// resolveSRID returns the configured source SRID unless the command's --srid
// flag overrides it. 0 is a valid override meaning "unknown, skip masking".
func resolveSRID(cmd *cobra.Command) int {
	if v, _ := cmd.Flags().GetInt("srid"); v >= 0 {
		return v
	}
	return cfg.Data.SRID
}
