package printer

import (
	"fmt"
	"strings"

	"github.com/joshuapare/riffkit/pkg/types"
)

// renderText prints a result as an indented field tree.
func (p *Printer) renderText(res *types.Result) error {
	if p.opts.Source != "" {
		if _, err := fmt.Fprintf(p.writer, "%s: ", p.opts.Source); err != nil {
			return err
		}
	}
	protocol := res.Protocol
	if protocol == "" {
		protocol = res.Format
	}
	if _, err := fmt.Fprintf(p.writer, "%s  %s  (%d bytes)\n", protocol, res.Summary, res.Consumed); err != nil {
		return err
	}
	if err := p.printFieldsText(res, 1, 0); err != nil {
		return err
	}
	if p.opts.ShowAnnotations {
		return p.printAnnotationsText(res)
	}
	return nil
}

// printFieldsText prints res's fields at the given indent. level counts the
// nested results above res.
func (p *Printer) printFieldsText(res *types.Result, indentLevel, level int) error {
	indent := strings.Repeat(" ", indentLevel*p.opts.IndentSize)
	for i := range res.Fields {
		f := &res.Fields[i]
		line := fmt.Sprintf("%s[0x%08X] %s = %s", indent, f.Offset, f.Name, p.valueText(f.Value))
		if p.opts.ShowAbbrevs && f.Abbrev != "" {
			line += " (" + f.Abbrev + ")"
		}
		if f.Resolution != types.ResolutionNone {
			line += " [" + f.Resolution.String() + "]"
		}
		if _, err := fmt.Fprintln(p.writer, line); err != nil {
			return err
		}

		if f.Child == nil {
			continue
		}
		if p.opts.MaxDepth > 0 && level >= p.opts.MaxDepth {
			continue
		}
		if _, err := fmt.Fprintf(p.writer, "%s  %s: %d bytes at 0x%08X\n",
			indent, f.Child.Format, f.Child.Consumed, f.Child.Offset); err != nil {
			return err
		}
		if err := p.printFieldsText(f.Child, indentLevel+2, level+1); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) valueText(v types.Value) string {
	switch v.Kind {
	case types.KindString:
		return fmt.Sprintf("%q", v.Str)
	case types.KindUint:
		return fmt.Sprintf("%d (0x%X)", v.Uint, v.Uint)
	case types.KindBytes:
		if len(v.Raw) == 0 {
			return "<empty>"
		}
		shown, clipped := p.clip(v.Raw)
		if clipped {
			return fmt.Sprintf("%X... (%d bytes)", shown, len(v.Raw))
		}
		return fmt.Sprintf("%X", shown)
	default:
		return "<none>"
	}
}

func (p *Printer) printAnnotationsText(res *types.Result) error {
	all := res.AllAnnotations()
	if len(all) == 0 {
		return nil
	}
	indent := strings.Repeat(" ", p.opts.IndentSize)
	if _, err := fmt.Fprintf(p.writer, "%sAnnotations:\n", indent); err != nil {
		return err
	}
	for _, a := range all {
		if _, err := fmt.Fprintf(p.writer, "%s%s%s\n", indent, indent, a); err != nil {
			return err
		}
	}
	return nil
}
