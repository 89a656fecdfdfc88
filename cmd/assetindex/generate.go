package main

import (
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/meigma/assets/manifest"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		name   string
		offset int
	)

	cmd := &cobra.Command{
		Use:   "generate <dir>",
		Short: "Write the manifest for the asset bundle in dir",
		Long: `Walk dir, collect every asset path except the manifest itself, .meta
sidecars and hidden entries, and write the permuted manifest into dir.
An existing manifest is replaced. A bundle with no assets gets no manifest.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("name") {
				name = a.cfg.Manifest.Name
			}
			if !cmd.Flags().Changed("offset") {
				offset = a.cfg.Manifest.Offset
			}

			res, err := manifest.Generate(cmd.Context(), osfs.New(args[0]),
				manifest.GenerateWithFileName(name),
				manifest.GenerateWithCodec(manifest.WithOffset(offset)),
				manifest.GenerateWithLogger(a.logger),
			)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !res.Written {
				fmt.Fprintf(out, "no assets in %s; manifest not written\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "wrote %s: %d entries, %d bytes, %s\n", res.Path, len(res.Paths), res.Size, res.Digest)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", manifest.DefaultFileName, "manifest file name")
	cmd.Flags().IntVar(&offset, "offset", manifest.DefaultOffset, "permutation offset")
	return cmd
}

func newDecodeCmd(a *app) *cobra.Command {
	var (
		offset     int
		showDigest bool
	)

	cmd := &cobra.Command{
		Use:   "decode <file>",
		Short: "Print the entries of a manifest file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("offset") {
				offset = a.cfg.Manifest.Offset
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			codec := manifest.New(manifest.WithOffset(offset), manifest.WithLogger(a.logger))
			paths, err := codec.Decode(data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if showDigest {
				fmt.Fprintln(out, manifest.Digest(data))
			}
			for _, p := range paths {
				fmt.Fprintln(out, p)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&offset, "offset", manifest.DefaultOffset, "permutation offset")
	cmd.Flags().BoolVar(&showDigest, "digest", false, "print the manifest digest first")
	return cmd
}
