package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hupe1980/songclust"
	"github.com/hupe1980/songclust/dataset"
)

type kmeansCommand struct {
	Data          string `short:"d" long:"data" description:"CSV file with one point per row" yaml:"data"`
	K             int    `short:"k" long:"clusters" description:"Number of clusters" yaml:"clusters"`
	Seeder        string `long:"seeder" description:"Seeding method (kplusplus, gonzalez)" yaml:"seeder"`
	Update        string `long:"update" description:"Center update rule (mean, oldest)" yaml:"update"`
	Keys          string `long:"keys" description:"File with one ordering key per point, required by --update oldest" yaml:"keys"`
	Start         *int   `long:"start" description:"Fixed first Gonzalez center" yaml:"start"`
	Trials        int    `long:"trials" description:"Independent runs; the lowest inertia wins" yaml:"trials"`
	MaxIterations int    `long:"max-iterations" description:"Lloyd iteration cap" yaml:"max_iterations"`
	Elbow         int    `long:"elbow" description:"Print inertia for k = 1..N instead of clustering" yaml:"elbow"`
	Centers       string `long:"centers" description:"Write the final centers as CSV to this file" yaml:"centers"`
	Save          string `long:"save" description:"Snapshot name for the result" yaml:"save"`

	root *app
}

func (c *kmeansCommand) config() (songclust.KMeansConfig, error) {
	cfg := songclust.KMeansConfig{K: c.K}

	var err error
	if c.Seeder != "" {
		if cfg.Seeder, err = songclust.ParseSeedMethod(c.Seeder); err != nil {
			return cfg, err
		}
	}
	if c.Update != "" {
		if cfg.Update, err = songclust.ParseUpdateRule(c.Update); err != nil {
			return cfg, err
		}
	}
	if c.Start != nil {
		cfg.Start, cfg.FixedStart = *c.Start, true
	}
	if c.Keys != "" {
		f, err := os.Open(c.Keys)
		if err != nil {
			return cfg, err
		}
		defer f.Close()
		if cfg.Keys, err = dataset.ReadKeys(f); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func (c *kmeansCommand) Execute(_ []string) (err error) {
	ctx := c.root.ctx

	cfg, err := c.config()
	if err != nil {
		return err
	}
	if cfg.K <= 0 && c.Elbow <= 0 {
		return errors.New("--clusters is required")
	}
	ds, err := readDataset(c.Data)
	if err != nil {
		return err
	}

	e, err := c.root.setup()
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, e.close()) }()

	opts := e.opts
	if c.MaxIterations > 0 {
		opts = append(opts, songclust.WithMaxIterations(c.MaxIterations))
	}

	if c.Elbow > 0 {
		curve, err := songclust.ElbowCurve(ctx, ds, cfg, c.Elbow, max(c.Trials, 1), opts...)
		if err != nil {
			return err
		}
		for _, p := range curve {
			fmt.Fprintf(c.root.out, "%d\t%g\n", p.K, p.Inertia)
		}
		return nil
	}

	var res *songclust.Clustering
	if c.Trials > 1 {
		res, err = songclust.BestOfTrials(ctx, ds, cfg, c.Trials, opts...)
	} else {
		res, err = songclust.KMeans(ctx, ds, cfg, opts...)
	}
	if err != nil {
		return err
	}

	if err := dataset.WriteAssignment(c.root.out, res.Assignment); err != nil {
		return err
	}
	if c.Centers != "" {
		if err := writeFile(c.Centers, func(f *os.File) error {
			return dataset.WriteCenters(f, res.Centers)
		}); err != nil {
			return err
		}
	}
	if c.Save != "" {
		if err := e.requireStore(); err != nil {
			return err
		}
		if err := e.snaps.SaveClustering(ctx, c.Save, res); err != nil {
			return err
		}
	}

	e.logger.WithK(res.K()).InfoContext(ctx, "kmeans done",
		"inertia", res.Inertia,
		"iterations", res.Iterations,
		"converged", res.Converged,
	)
	return nil
}

func readDataset(path string) (*dataset.Dataset, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dataset.ReadCSV(f)
}

func writeFile(path string, fn func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
