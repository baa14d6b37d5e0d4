package main

import (
	"bufio"
	"errors"
	"io"
	"strconv"

	"github.com/hupe1980/songclust"
	"github.com/hupe1980/songclust/dataset"
)

type lshCommand struct {
	Data      string   `short:"d" long:"data" description:"CSV file with the points to index" yaml:"data"`
	Load      string   `long:"load" description:"Load the index from this snapshot instead of hashing --data" yaml:"load"`
	Query     string   `short:"q" long:"query" description:"CSV file with query points; defaults to the indexed points" yaml:"query"`
	Tau       *float64 `long:"tau" description:"Similarity threshold (default 0.5)" yaml:"tau"`
	T         int      `long:"t" description:"Total hash functions (default 40)" yaml:"t"`
	R         int      `long:"r" description:"Codes per band (default 4)" yaml:"r"`
	B         int      `long:"b" description:"Bands (default 10)" yaml:"b"`
	Euclidean bool     `long:"euclidean" description:"Use the offset bucket family" yaml:"euclidean"`
	Save      string   `long:"save" description:"Snapshot name for the index" yaml:"save"`

	root *app
}

func (c *lshCommand) params() songclust.LSHParams {
	p := songclust.LSHParams{Tau: 0.5, T: c.T, R: c.R, B: c.B, Euclidean: c.Euclidean}
	if c.Tau != nil {
		p.Tau = *c.Tau
	}
	if p.T == 0 && p.R == 0 && p.B == 0 {
		p.T, p.R, p.B = 40, 4, 10
	}
	return p
}

func (c *lshCommand) Execute(_ []string) (err error) {
	ctx := c.root.ctx

	if c.Load == "" && c.Data == "" {
		return errors.New("--data or --load is required")
	}

	e, err := c.root.setup()
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, e.close()) }()

	var (
		idx  *songclust.LSH
		data *dataset.Dataset
	)
	if c.Load != "" {
		if err := e.requireStore(); err != nil {
			return err
		}
		if idx, err = e.snaps.LoadLSH(ctx, c.Load, e.opts...); err != nil {
			return err
		}
	} else {
		if data, err = readDataset(c.Data); err != nil {
			return err
		}
		if idx, err = songclust.NewLSH(c.params(), e.opts...); err != nil {
			return err
		}
		if err := idx.HashData(ctx, data); err != nil {
			return err
		}
	}

	queries := data
	if c.Query != "" {
		if queries, err = readDataset(c.Query); err != nil {
			return err
		}
	}
	if queries != nil {
		bw := bufio.NewWriter(c.root.out)
		for i, q := range queries.Rows() {
			matches, err := idx.QueryAllSimilar(ctx, q)
			if err != nil {
				return err
			}
			writeMatches(bw, i, matches)
		}
		if err := bw.Flush(); err != nil {
			return err
		}
	}

	if c.Save != "" {
		if err := e.requireStore(); err != nil {
			return err
		}
		return e.snaps.SaveLSH(ctx, c.Save, idx)
	}
	return nil
}

// writeMatches prints "i: a b c".
func writeMatches(w io.StringWriter, i int, matches []int) {
	w.WriteString(strconv.Itoa(i))
	w.WriteString(":")
	for _, m := range matches {
		w.WriteString(" ")
		w.WriteString(strconv.Itoa(m))
	}
	w.WriteString("\n")
}
