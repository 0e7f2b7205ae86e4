package printer

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/joshuapare/riffkit/pkg/types"
)

// jsonResult represents one result tree in JSON format.
type jsonResult struct {
	Source      string             `json:"source,omitempty"`
	Format      string             `json:"format"`
	Protocol    string             `json:"protocol,omitempty"`
	Summary     string             `json:"summary,omitempty"`
	Offset      int                `json:"offset"`
	Consumed    int                `json:"consumed"`
	Fields      []jsonField        `json:"fields"`
	Annotations []types.Annotation `json:"annotations,omitempty"`
}

// jsonField represents one field in JSON format.
type jsonField struct {
	Name       string      `json:"name"`
	Abbrev     string      `json:"abbrev,omitempty"`
	Offset     int         `json:"offset"`
	Length     int         `json:"length"`
	Value      any         `json:"value"`
	Resolution string      `json:"resolution,omitempty"`
	Child      *jsonResult `json:"child,omitempty"`
}

// renderJSON prints a result as one indented JSON document.
func (p *Printer) renderJSON(res *types.Result) error {
	doc := p.toJSON(res, 0)
	doc.Source = p.opts.Source

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}

func (p *Printer) toJSON(res *types.Result, depth int) *jsonResult {
	out := &jsonResult{
		Format:   res.Format,
		Protocol: res.Protocol,
		Summary:  res.Summary,
		Offset:   res.Offset,
		Consumed: res.Consumed,
		Fields:   make([]jsonField, 0, len(res.Fields)),
	}
	if p.opts.ShowAnnotations {
		out.Annotations = res.Annotations
	}
	for i := range res.Fields {
		f := &res.Fields[i]
		jf := jsonField{
			Name:       f.Name,
			Offset:     f.Offset,
			Length:     f.Length,
			Value:      p.decodeValueJSON(f.Value),
			Resolution: f.Resolution.String(),
		}
		if p.opts.ShowAbbrevs {
			jf.Abbrev = f.Abbrev
		}
		if f.Child != nil && (p.opts.MaxDepth == 0 || depth+1 < p.opts.MaxDepth) {
			jf.Child = p.toJSON(f.Child, depth+1)
		}
		out.Fields = append(out.Fields, jf)
	}
	return out
}

// decodeValueJSON converts a value to its natural JSON representation:
// strings and integers as-is, opaque bytes as (possibly clipped) hex.
func (p *Printer) decodeValueJSON(v types.Value) any {
	switch v.Kind {
	case types.KindString:
		return v.Str
	case types.KindUint:
		return v.Uint
	case types.KindBytes:
		shown, _ := p.clip(v.Raw)
		return hex.EncodeToString(shown)
	default:
		return nil
	}
}
