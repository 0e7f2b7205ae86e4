package main

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/riffkit/internal/format"
	"github.com/joshuapare/riffkit/pkg/riff"
)

func init() {
	rootCmd.AddCommand(newFormatsCmd())
}

func newFormatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List the registered container formats",
		Long: `The formats command lists every container format the configuration enables,
in probe order, with its signatures and known subtype markers.

Example:
  riffctl formats
  riffctl formats --config riffctl.toml --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormats()
		},
	}
	return cmd
}

type formatRow struct {
	Name      string   `json:"name"`
	Display   string   `json:"display_name"`
	MediaType string   `json:"media_type,omitempty"`
	Magic     string   `json:"magic"`
	Marker    string   `json:"marker"`
	Subtypes  []string `json:"subtypes"`
}

func runFormats() error {
	d, _, err := newDissector(riff.Options{}, nil)
	if err != nil {
		return err
	}

	var rows []formatRow
	for _, desc := range d.Engine().Registry().Formats() {
		subtypes := make([]string, 0, len(desc.Subtypes))
		for marker := range desc.Subtypes {
			subtypes = append(subtypes, format.TagString([]byte(marker)))
		}
		sort.Strings(subtypes)
		rows = append(rows, formatRow{
			Name:      desc.Name,
			Display:   desc.DisplayName,
			MediaType: desc.MediaType,
			Magic:     format.TagString(desc.Magic),
			Marker:    format.TagString(desc.Marker),
			Subtypes:  subtypes,
		})
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"formats": rows,
			"count":   len(rows),
		})
	}

	for _, row := range rows {
		mt := row.MediaType
		if mt == "" {
			mt = "-"
		}
		printInfo("%-8s %-6s %-4s/%-4s %-20s %s\n",
			row.Name, row.Display, row.Magic, row.Marker, mt, strings.Join(row.Subtypes, ","))
	}
	return nil
}
