package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/molframe"
	"github.com/hupe1980/molframe/export"
	"github.com/hupe1980/molframe/frame"
	"github.com/hupe1980/molframe/prom"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type featurizeFlags struct {
	smilesCol    string
	molsCol      string
	morgan       bool
	descriptors  bool
	maccs        bool
	output       string
	format       string
	table        string
	name         string
	featuresOnly bool
}

func newFeaturizeCmd(a *app) *cobra.Command {
	ff := &featurizeFlags{}
	cmd := &cobra.Command{
		Use:   "featurize <input.csv>",
		Short: "Parse a SMILES column and compute features",
		Long: `Reads a CSV file, parses its SMILES column and computes the requested
features. Use "-" to read from stdin. Without --morgan, --descriptors or
--maccs all three are computed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFeaturize(cmd, args[0], ff)
		},
	}

	f := cmd.Flags()
	f.StringVar(&ff.smilesCol, "smiles", "smiles", "name of the SMILES column")
	f.StringVar(&ff.molsCol, "mols", "mol", "name of the structure column")
	f.BoolVar(&ff.morgan, "morgan", false, "compute Morgan fingerprints")
	f.BoolVar(&ff.descriptors, "descriptors", false, "compute molecular descriptors")
	f.BoolVar(&ff.maccs, "maccs", false, "compute MACCS keys")
	f.StringVarP(&ff.output, "output", "o", "-", "output file, - for stdout")
	f.StringVar(&ff.format, "format", "", "output format: csv, npy, parquet or sqlite (default from extension, else csv)")
	f.StringVar(&ff.table, "table", "features", "table name for sqlite output")
	f.StringVar(&ff.name, "name", "", "save feature frames to the store under this name")
	f.BoolVar(&ff.featuresOnly, "features-only", false, "omit the input columns from csv output")

	f.String("progress", "none", "progress display: none, terminal or notebook")
	f.Bool("drop-nulls", true, "drop rows whose SMILES cannot be parsed")
	f.Int("parse-cache", 0, "remember this many parsed SMILES, 0 disables")
	f.Int("radius", molframe.DefaultRadius, "Morgan radius")
	f.Int("nbits", molframe.DefaultNBits, "Morgan fingerprint length")
	f.String("kind", string(molframe.KindCounts), "Morgan kind: counts or bits")
	f.String("store", "none", "feature store backend: none, local, s3 or minio")
	f.String("store-path", "", "directory for the local store")
	f.String("bucket", "", "bucket for s3 and minio stores")
	f.String("prefix", "", "key prefix inside the bucket")
	f.String("region", "", "bucket region")
	f.String("endpoint", "", "object store endpoint")
	f.String("cache-dir", "", "local read cache for remote stores")
	f.String("codec", "", "snapshot codec: json or go-json")
	f.String("compression", "", "snapshot compression: none, lz4 or zstd")
	f.String("metrics-file", "", "write Prometheus metrics to this file after the run")
	return cmd
}

func (a *app) runFeaturize(cmd *cobra.Command, input string, ff *featurizeFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	format, err := outputFormat(ff)
	if err != nil {
		return err
	}

	df, err := readInput(cmd, input)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	opts := append(a.cfg.Options(),
		molframe.WithLogger(a.logger),
		molframe.WithProgressWriter(cmd.ErrOrStderr()),
	)
	if a.cfg.Metrics.File != "" {
		opts = append(opts, molframe.WithMetricsCollector(prom.MustNewCollector(reg)))
	}

	all := !ff.morgan && !ff.descriptors && !ff.maccs
	b := molframe.NewPipeline(ff.smilesCol, ff.molsCol).
		DropNulls(a.cfg.DropNulls).
		Progress(molframe.ProgressMode(a.cfg.Progress)).
		With(opts...)
	if all || ff.morgan {
		b = b.Morgan()
	}
	if all || ff.descriptors {
		b = b.Descriptors()
	}
	if all || ff.maccs {
		b = b.MACCS()
	}
	p, err := b.Build()
	if err != nil {
		return err
	}

	res, err := p.Run(df)
	if err != nil {
		return err
	}

	if err := a.save(ctx, ff.name, res); err != nil {
		return err
	}
	if err := writeOutput(ctx, cmd, res, ff, format); err != nil {
		return err
	}

	if a.cfg.Metrics.File != "" {
		if err := prometheus.WriteToTextfile(a.cfg.Metrics.File, reg); err != nil {
			return errors.Wrap(err, "write metrics")
		}
	}
	return nil
}

func readInput(cmd *cobra.Command, input string) (*frame.Frame, error) {
	var r io.Reader = cmd.InOrStdin()
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return nil, errors.Wrap(err, "open input")
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	return frame.ReadCSV(r)
}

// save stores each feature frame as <name>/<step>.
func (a *app) save(ctx context.Context, name string, res *molframe.Result) error {
	if name == "" {
		return nil
	}
	fs, err := openFeatureStore(ctx, a.cfg.Store)
	if err != nil {
		return err
	}
	if fs == nil {
		return errors.WithHint(errors.New("--name given but no store configured"), "set --store or store.backend")
	}

	frames := map[string]*frame.Frame{}
	for step, f := range map[string]*frame.Frame{
		"morgan":      res.Morgan,
		"descriptors": res.Descriptors,
		"maccs":       res.MACCS,
	} {
		if f != nil {
			frames[name+"/"+step] = f
		}
	}
	if err := fs.SaveAll(ctx, frames); err != nil {
		return err
	}
	a.logger.Info("saved feature frames", "name", name, "frames", len(frames), "backend", a.cfg.Store.Backend)
	return nil
}

// outputFormat picks the format from --format or the -o extension and
// rejects what writeOutput cannot produce, before any work is done.
func outputFormat(ff *featurizeFlags) (string, error) {
	format := strings.ToLower(ff.format)
	if format == "" {
		switch strings.ToLower(filepath.Ext(ff.output)) {
		case ".npy":
			format = "npy"
		case ".parquet":
			format = "parquet"
		case ".db", ".sqlite", ".sqlite3":
			format = "sqlite"
		default:
			format = "csv"
		}
	}

	switch format {
	case "csv", "npy", "parquet":
	case "sqlite":
		if ff.output == "-" {
			return "", errors.New("sqlite output needs a file, use -o")
		}
	default:
		return "", errors.WithHint(errors.Newf("unknown output format %q", ff.format),
			"use csv, npy, parquet or sqlite")
	}
	return format, nil
}

func writeOutput(ctx context.Context, cmd *cobra.Command, res *molframe.Result, ff *featurizeFlags, format string) error {

	var (
		out *frame.Frame
		err error
	)
	if format == "csv" && !ff.featuresOnly {
		out, err = res.Joined()
		if err == nil {
			err = out.Drop(ff.molsCol)
		}
	} else {
		out, err = res.Features()
	}
	if err != nil {
		return err
	}

	if format == "sqlite" {
		db, err := export.OpenSQLite(ff.output)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return export.WriteSQLite(ctx, db, ff.table, out)
	}

	var w io.Writer = cmd.OutOrStdout()
	if ff.output != "-" {
		f, err := os.Create(ff.output)
		if err != nil {
			return errors.Wrap(err, "create output")
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	switch format {
	case "csv":
		return out.WriteCSV(w)
	case "npy":
		return export.WriteNPY(w, out)
	default:
		return export.WriteParquet(w, out)
	}
}
