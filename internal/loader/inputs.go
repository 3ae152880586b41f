package loader

import (
	"golang.org/x/sync/errgroup"

	"github.com/urbanmetrics/walkability/internal/feature"
)

// Inputs holds the loaded datasets for one run.
type Inputs struct {
	Roads    *feature.Collection
	Cadastre *feature.Collection
	GNAF     *feature.Collection
}

// OpenInputs loads the run's datasets concurrently; an empty gnafPath skips
// the G-NAF dataset. The datasets are independent files, so the decode work
// parallelizes cleanly; GEOS serializes geometry construction internally.
func OpenInputs(srid int, roadsPath, cadastrePath, gnafPath string) (*Inputs, error) {
	var in Inputs
	var g errgroup.Group

	g.Go(func() error {
		var err error
		in.Roads, err = Open(roadsPath, srid)
		return err
	})
	g.Go(func() error {
		var err error
		in.Cadastre, err = Open(cadastrePath, srid)
		return err
	})
	if gnafPath != "" {
		g.Go(func() error {
			var err error
			in.GNAF, err = LoadGNAF(gnafPath)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &in, nil
}
