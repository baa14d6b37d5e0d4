package main

import (
	"errors"
	"fmt"

	"github.com/hupe1980/songclust"
	"github.com/hupe1980/songclust/dataset"
)

type hierCommand struct {
	Data    string `short:"d" long:"data" description:"CSV file with one point per row" yaml:"data"`
	Target  int    `short:"t" long:"target" description:"Number of clusters to stop at" yaml:"target"`
	Linkage string `short:"l" long:"linkage" description:"Linkage policy (single, complete, mean)" yaml:"linkage"`
	Merges  bool   `long:"merges" description:"Print the linkage matrix instead of labels" yaml:"merges"`
	Save    string `long:"save" description:"Snapshot name for the partition" yaml:"save"`

	root *app
}

func (c *hierCommand) Execute(_ []string) (err error) {
	ctx := c.root.ctx

	if c.Target <= 0 {
		return errors.New("--target is required")
	}
	linkage := songclust.SingleLinkage
	if c.Linkage != "" {
		if linkage, err = songclust.ParseLinkage(c.Linkage); err != nil {
			return err
		}
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

	p, err := songclust.Agglomerate(ctx, ds, c.Target, linkage, e.opts...)
	if err != nil {
		return err
	}

	if c.Merges {
		for _, row := range p.LinkageMatrix() {
			fmt.Fprintf(c.root.out, "%d\t%d\t%g\t%d\n", int(row[0]), int(row[1]), row[2], int(row[3]))
		}
	} else if err := dataset.WriteAssignment(c.root.out, p.Labels); err != nil {
		return err
	}

	if c.Save != "" {
		if err := e.requireStore(); err != nil {
			return err
		}
		return e.snaps.SavePartition(ctx, c.Save, p)
	}
	return nil
}
