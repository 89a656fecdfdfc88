package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errMissing = errors.New("one or more assets not found")

func newLsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List every asset path in the bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ix, err := openIndex(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer ix.Destroy()

			out := cmd.OutOrStdout()
			for _, p := range ix.ListAllPaths() {
				fmt.Fprintln(out, p)
			}
			return nil
		},
	}
}

func newExistsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <path>...",
		Short: "Report whether asset files exist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := openIndex(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer ix.Destroy()
			return report(cmd, args, ix.FileExists)
		},
	}
}

func newDirCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dir <path>...",
		Short: "Report whether asset directories exist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := openIndex(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer ix.Destroy()
			return report(cmd, args, ix.DirectoryExists)
		},
	}
}

// report prints "path<TAB>true|false" per path and fails if any is false.
func report(cmd *cobra.Command, paths []string, check func(string) bool) error {
	out := cmd.OutOrStdout()
	var missing bool
	for _, p := range paths {
		ok := check(p)
		missing = missing || !ok
		fmt.Fprintf(out, "%s\t%t\n", p, ok)
	}
	if missing {
		return errMissing
	}
	return nil
}

func newCatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cat <path>...",
		Short: "Write the contents of assets to stdout",
		Long: `Read each asset through the index and write the contents to stdout in
argument order. Reads run concurrently, bounded by read_concurrency.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := openIndex(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer ix.Destroy()

			contents := ix.ReadMany(cmd.Context(), args)
			out := cmd.OutOrStdout()
			var missing bool
			for _, p := range args {
				data, ok := contents[p]
				if !ok {
					a.logger.Error("asset not found", "path", p)
					missing = true
					continue
				}
				if _, err := out.Write(data); err != nil {
					return err
				}
			}
			if missing {
				return errMissing
			}
			return nil
		},
	}
}
