// Package printer renders dissection results for people and tools.
package printer

import (
	"fmt"
	"io"

	"github.com/joshuapare/riffkit/pkg/types"
)

const (
	DefaultIndentSize    = 2
	DefaultMaxDepth      = 0
	DefaultMaxValueBytes = 16
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs an indented field tree.
	FormatText Format = "text"

	// FormatJSON outputs one JSON document per result.
	FormatJSON Format = "json"
)

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

// Sink consumes finished dissection results.
type Sink interface {
	Render(res *types.Result) error
}

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// IndentSize is the number of spaces per nesting level (text format only).
	// Default: 2
	IndentSize int

	// MaxDepth limits how many levels of nested results are printed
	// (0 = unlimited).
	// Default: 0 (unlimited)
	MaxDepth int

	// ShowAbbrevs includes field filter names (e.g. webp.file_size).
	// Default: true
	ShowAbbrevs bool

	// ShowAnnotations includes info/warning/error findings.
	// Default: true
	ShowAnnotations bool

	// MaxValueBytes limits how many bytes of opaque values are displayed.
	// Set to 0 for no limit.
	// Default: 16
	MaxValueBytes int

	// Source labels the result, e.g. a file name or capture frame.
	Source string
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:          FormatText,
		IndentSize:      DefaultIndentSize,
		MaxDepth:        DefaultMaxDepth,
		ShowAbbrevs:     true,
		ShowAnnotations: true,
		MaxValueBytes:   DefaultMaxValueBytes,
	}
}

// Printer is a Sink that writes results to an io.Writer.
type Printer struct {
	opts   Options
	writer io.Writer
}

var _ Sink = (*Printer)(nil)

// New creates a new Printer.
//
// Example:
//
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	res, _ := engine.DissectAny(data)
//	p.Render(res)
func New(w io.Writer, opts Options) *Printer {
	return &Printer{writer: w, opts: opts}
}

// WithSource returns a copy of p that labels results with src.
func (p *Printer) WithSource(src string) *Printer {
	cp := *p
	cp.opts.Source = src
	return &cp
}

// Render prints one result tree.
func (p *Printer) Render(res *types.Result) error {
	if res == nil {
		return fmt.Errorf("render: nil result")
	}
	switch p.opts.Format {
	case FormatJSON:
		return p.renderJSON(res)
	case FormatText:
		return p.renderText(res)
	default:
		return p.renderText(res)
	}
}

// clip returns at most MaxValueBytes of raw and whether it was shortened.
func (p *Printer) clip(raw []byte) ([]byte, bool) {
	if p.opts.MaxValueBytes <= 0 || len(raw) <= p.opts.MaxValueBytes {
		return raw, false
	}
	return raw[:p.opts.MaxValueBytes], true
}
