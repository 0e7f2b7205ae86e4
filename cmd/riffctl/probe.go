package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/joshuapare/riffkit/pkg/riff"
)

var probeWorkers int

func init() {
	cmd := newProbeCmd()
	cmd.Flags().IntVarP(&probeWorkers, "workers", "w", 0, "Files dissected at once (default from config)")
	rootCmd.AddCommand(cmd)
}

func newProbeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe <file>...",
		Short: "Identify files and summarize their findings",
		Long: `The probe command dissects many files concurrently and prints one line per
file: the detected format, its summary and the annotation counts.

Example:
  riffctl probe *.webp *.wav
  riffctl probe --workers 8 media/* --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(cmd.Context(), args)
		},
	}
	return cmd
}

type probeRow struct {
	Path     string `json:"path"`
	Format   string `json:"format,omitempty"`
	Summary  string `json:"summary,omitempty"`
	Consumed int    `json:"consumed"`
	Errors   int    `json:"errors"`
	Warnings int    `json:"warnings"`
	Info     int    `json:"info"`
	Error    string `json:"error,omitempty"`
}

func runProbe(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	d, _, err := newDissector(riff.Options{}, func(c *riff.Config) {
		if probeWorkers > 0 {
			c.Workers = probeWorkers
		}
	})
	if err != nil {
		return err
	}

	reports, err := d.ScanFiles(ctx, args, nil)
	if err != nil {
		return err
	}

	rows := make([]probeRow, len(reports))
	for i, r := range reports {
		rows[i] = probeRow{
			Path:     r.Path,
			Format:   r.Format,
			Summary:  r.Summary,
			Consumed: r.Consumed,
			Errors:   r.Annotations.Errors,
			Warnings: r.Annotations.Warnings,
			Info:     r.Annotations.Info,
		}
		if r.Err != nil {
			rows[i].Error = r.Err.Error()
		}
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"files": rows,
			"count": len(rows),
		})
	}

	for _, row := range rows {
		switch {
		case row.Error != "":
			printInfo("%-40s  %-6s  %s\n", row.Path, "-", row.Error)
		case row.Errors > 0 || row.Warnings > 0:
			printInfo("%-40s  %-6s  %s (%d errors, %d warnings)\n", row.Path, row.Format, row.Summary, row.Errors, row.Warnings)
		default:
			printInfo("%-40s  %-6s  %s\n", row.Path, row.Format, row.Summary)
		}
	}
	printVerbose("%d files, %d unreadable\n", len(rows), probeFailures(rows))
	return nil
}

// probeFailures counts rows that could not be dissected at all.
func probeFailures(rows []probeRow) int {
	n := 0
	for _, r := range rows {
		if r.Error != "" {
			n++
		}
	}
	return n
}
