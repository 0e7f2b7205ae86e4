package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/riffkit/dissect/printer"
	"github.com/joshuapare/riffkit/pkg/riff"
)

var (
	dissectFormat     string
	dissectStrictSize bool
	dissectMaxBytes   int
	dissectColumns    bool
)

func init() {
	cmd := newDissectCmd()
	cmd.Flags().StringVarP(&dissectFormat, "format", "f", "", "Dissect as this format instead of probing")
	cmd.Flags().BoolVar(&dissectStrictSize, "strict-size", false, "Warn when the declared container size disagrees with the file size")
	cmd.Flags().IntVar(&dissectMaxBytes, "max-bytes", -1, "Bytes of opaque values to show (0 = all, default 16)")
	cmd.Flags().BoolVar(&dissectColumns, "columns", false, "Print protocol/info column rows before each tree")
	rootCmd.AddCommand(cmd)
}

func newDissectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dissect <file>...",
		Short: "Decode files into a field tree",
		Long: `The dissect command probes each file for a known container and prints the
decoded header fields, the subtype resolution and any nested chunk results.
Malformed input is reported as annotations in the tree.

Example:
  riffctl dissect image.webp
  riffctl dissect --format wave --strict-size take1.wav
  riffctl dissect clip.avi --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDissect(args)
		},
	}
	return cmd
}

func runDissect(args []string) error {
	var opts riff.Options
	if dissectColumns && !jsonOut {
		opts.Columns = printer.NewColumns(os.Stdout)
	}
	d, cfg, err := newDissector(opts, func(c *riff.Config) {
		if dissectStrictSize {
			c.CheckDeclaredSize = true
		}
	})
	if err != nil {
		return err
	}
	p, err := newPrinter(cfg, dissectMaxBytes)
	if err != nil {
		return err
	}

	failed := 0
	for _, path := range args {
		printVerbose("Dissecting: %s\n", path)
		err := d.DissectFileAs(path, dissectFormat, func(res *riff.Result) error {
			return p.WithSource(path).Render(res)
		})
		if err != nil {
			printError("%v\n", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be dissected", failed, len(args))
	}
	return nil
}
