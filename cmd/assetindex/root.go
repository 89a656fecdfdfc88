package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/meigma/assets/internal/config"
)

// app carries state shared by every subcommand, filled in by the root
// command's PersistentPreRunE.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "assetindex",
		Short: "Generate, decode and query asset bundle manifests",
		Long: `assetindex manages the permuted manifest that lists the files of an
asset bundle, and answers existence, listing and read queries against a
bundle the same way an application would at runtime.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = newLogger(cmd.ErrOrStderr(), cfg, a.verbose)
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newGenerateCmd(a),
		newDecodeCmd(a),
		newLsCmd(a),
		newExistsCmd(a),
		newDirCmd(a),
		newCatCmd(a),
	)
	return root
}

// newLogger builds the slog logger described by cfg. Verbose forces debug.
func newLogger(w io.Writer, cfg *config.Config, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
