package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/hupe1980/molframe"
	"github.com/hupe1980/molframe/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
)

// app carries state shared by subcommands once flags are parsed.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *molframe.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "molframe",
		Short:         "Featurize chemical structure tables",
		Long:          "molframe parses SMILES columns and computes Morgan fingerprints, molecular descriptors and MACCS keys.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
			if err != nil {
				return err
			}
			a.cfg, a.logger = cfg, logger
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is ./molframe.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.String("log-format", "text", "log format: text, json or logfmt")

	root.AddCommand(
		newFeaturizeCmd(a),
		newDescribeCmd(a),
		newCheckCmd(a),
		newVersionCmd(),
	)
	return root
}

// execute runs root and prints any error with its hints.
func execute(root *cobra.Command) error {
	err := root.Execute()
	if err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		for _, h := range errors.GetAllHints(err) {
			fmt.Fprintf(root.ErrOrStderr(), "Hint: %s\n", h)
		}
	}
	return err
}

// newLogger installs a charmbracelet/log handler behind molframe.Logger.
func newLogger(w io.Writer, cfg config.LogConfig) (*molframe.Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", cfg.Level)
	}
	formatter := log.TextFormatter
	switch cfg.Format {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}
	handler := log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		Prefix:          "molframe",
		ReportTimestamp: cfg.Format != "text",
	})
	return molframe.NewLogger(handler), nil
}

var _ slog.Handler = (*log.Logger)(nil)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "molframe %s (commit: %s)\n", Version, Commit)
		},
	}
}
