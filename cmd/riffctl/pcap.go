package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuapare/riffkit/pkg/riff"
)

var pcapTree bool

func init() {
	cmd := newPcapCmd()
	cmd.Flags().BoolVarP(&pcapTree, "tree", "t", false, "Print the full field tree for every hit")
	rootCmd.AddCommand(cmd)
}

func newPcapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pcap <capture>",
		Short: "Find containers carried in a packet capture",
		Long: `The pcap command reads an offline capture and probes each TCP and UDP
payload for a known container, either raw or as the body of an HTTP
message. Segments are examined one at a time; streams are not reassembled.

Example:
  riffctl pcap traffic.pcap
  riffctl pcap traffic.pcap --tree
  riffctl pcap traffic.pcap --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPcap(args)
		},
	}
	return cmd
}

type pcapRow struct {
	Frame     int       `json:"frame"`
	Timestamp time.Time `json:"timestamp"`
	Flow      string    `json:"flow"`
	Offset    int       `json:"offset"`
	MediaType string    `json:"media_type,omitempty"`
	Format    string    `json:"format"`
	Summary   string    `json:"summary,omitempty"`
	Errors    int       `json:"errors"`
	Warnings  int       `json:"warnings"`
}

func runPcap(args []string) error {
	path := args[0]
	d, cfg, err := newDissector(riff.Options{}, nil)
	if err != nil {
		return err
	}
	p, err := newPrinter(cfg, -1)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open capture: %w", err)
	}
	defer f.Close()

	printVerbose("Reading capture: %s\n", path)

	var rows []pcapRow
	frames, err := d.ScanPcap(f, func(hit riff.PcapHit) error {
		sum := hit.Result.Summarize()
		row := pcapRow{
			Frame:     hit.Frame,
			Timestamp: hit.Timestamp,
			Flow:      hit.Flow,
			Offset:    hit.Offset,
			MediaType: hit.MediaType,
			Format:    hit.Result.Format,
			Summary:   hit.Result.Summary,
			Errors:    sum.Errors,
			Warnings:  sum.Warnings,
		}
		rows = append(rows, row)
		if jsonOut {
			return nil
		}
		printInfo("frame %-6d %s  +%d  %s  %s\n", row.Frame, row.Flow, row.Offset, row.Format, row.Summary)
		if pcapTree {
			return p.WithSource(fmt.Sprintf("frame %d", row.Frame)).Render(hit.Result)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan capture: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"capture": path,
			"frames":  frames,
			"hits":    rows,
			"count":   len(rows),
		})
	}
	printInfo("%d frames, %d containers\n", frames, len(rows))
	return nil
}
