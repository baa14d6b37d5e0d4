// Command songclust runs the clustering and similarity tools over CSV and
// token files.
//
//	songclust kmeans --data points.csv -k 8 --seeder gonzalez --trials 10
//	songclust hier --data points.csv --target 3 --linkage complete
//	songclust lsh --data points.csv --t 40 --r 4 --b 10 --tau 0.8
//	songclust minhash --data docs.txt --k 128 --threshold 0.5
//
// Global options may also be given in a YAML file passed with --config;
// flags on the command line take precedence over the file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
)

type app struct {
	Global globalOptions `group:"Global Options" yaml:",inline"`

	KMeans  kmeansCommand  `command:"kmeans" description:"Seed and refine k-means clusters" yaml:"kmeans"`
	Hier    hierCommand    `command:"hier" description:"Agglomerative clustering" yaml:"hier"`
	LSH     lshCommand     `command:"lsh" description:"Banded LSH similarity search" yaml:"lsh"`
	MinHash minhashCommand `command:"minhash" description:"MinHash Jaccard estimation" yaml:"minhash"`

	ctx    context.Context
	out    io.Writer
	logOut io.Writer
}

func newApp(ctx context.Context, out, logOut io.Writer) *app {
	a := &app{ctx: ctx, out: out, logOut: logOut}
	a.KMeans.root = a
	a.Hier.root = a
	a.LSH.root = a
	a.MinHash.root = a
	return a
}

func run(ctx context.Context, args []string, out, logOut io.Writer) error {
	a := newApp(ctx, out, logOut)

	path, err := configPath(args)
	if err != nil {
		return err
	}
	if path != "" {
		if err := loadConfig(path, a); err != nil {
			return err
		}
	}

	parser := flags.NewParser(a, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "songclust"
	_, err = parser.ParseArgs(args)
	return err
}

func (a *app) setup() (*env, error) {
	return a.Global.setup(a.ctx, a.logOut)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, flagsErr.Message)
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "songclust:", err)
		os.Exit(1)
	}
}
