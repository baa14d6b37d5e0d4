package main

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/hupe1980/songclust"
	"github.com/hupe1980/songclust/dataset"
)

const (
	defaultHashes = 128
	defaultRange  = 1 << 32
)

type minhashCommand struct {
	Data      string   `short:"d" long:"data" description:"File with one token set per line" yaml:"data"`
	Sep       string   `long:"sep" description:"Token separator (default space)" yaml:"sep"`
	Load      string   `long:"load" description:"Load signatures from this snapshot instead of hashing --data" yaml:"load"`
	K         int      `short:"k" long:"hashes" description:"Number of hash functions (default 128)" yaml:"hashes"`
	M         uint64   `short:"m" long:"range" description:"Hash value range (default 2^32)" yaml:"range"`
	Threshold *float64 `long:"threshold" description:"Print pairs at or above this similarity (default 0.5)" yaml:"threshold"`
	Save      string   `long:"save" description:"Snapshot name for the signatures" yaml:"save"`

	root *app
}

func (c *minhashCommand) Execute(_ []string) (err error) {
	ctx := c.root.ctx

	if c.Load == "" && c.Data == "" {
		return errors.New("--data or --load is required")
	}
	threshold := 0.5
	if c.Threshold != nil {
		threshold = *c.Threshold
	}

	e, err := c.root.setup()
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, e.close()) }()

	var mh *songclust.MinHash
	if c.Load != "" {
		if err := e.requireStore(); err != nil {
			return err
		}
		if mh, err = e.snaps.LoadMinHash(ctx, c.Load, e.opts...); err != nil {
			return err
		}
	} else {
		sets, err := readTokenSets(c.Data, c.Sep)
		if err != nil {
			return err
		}
		k, m := c.K, c.M
		if k == 0 {
			k = defaultHashes
		}
		if m == 0 {
			m = defaultRange
		}
		if mh, err = songclust.NewMinHash(k, m, e.opts...); err != nil {
			return err
		}
		if err := mh.Run(ctx, sets); err != nil {
			return err
		}
	}

	bw := bufio.NewWriter(c.root.out)
	for i := range mh.Len() {
		for j := i + 1; j < mh.Len(); j++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := mh.GetSimilarity(i, j)
			if err != nil {
				return err
			}
			if s >= threshold {
				fmt.Fprintf(bw, "%d\t%d\t%g\n", i, j, s)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	if c.Save != "" {
		if err := e.requireStore(); err != nil {
			return err
		}
		return e.snaps.SaveMinHash(ctx, c.Save, mh)
	}
	return nil
}

func readTokenSets(path, sep string) ([][]string, error) {
	if sep == "" {
		sep = " "
	}
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dataset.ReadTokenSets(f, sep)
}
