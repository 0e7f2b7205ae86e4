package dissect

import (
	"github.com/joshuapare/riffkit/internal/buf"
	"github.com/joshuapare/riffkit/pkg/types"
)

// Probe reports whether b plausibly holds a container described by d: the
// magic and the format marker must both match byte for byte. Buffers shorter
// than the descriptor's minimum header are a normal negative, not an error.
// Probe never allocates and never reads past len(b).
func Probe(d *types.Descriptor, b []byte) bool {
	if len(b) < d.MinHeaderLen() {
		return false
	}
	return buf.Equal(b, d.MagicOffset, d.Magic) && buf.Equal(b, d.MarkerOffset, d.Marker)
}

// Detect returns the first registered descriptor, in registration order,
// whose probe accepts b.
func (r *Registry) Detect(b []byte) (*types.Descriptor, bool) {
	for _, d := range r.formats {
		if Probe(d, b) {
			return d, true
		}
	}
	return nil, false
}

// DetectAll returns every registered descriptor whose probe accepts b.
func (r *Registry) DetectAll(b []byte) []*types.Descriptor {
	var out []*types.Descriptor
	for _, d := range r.formats {
		if Probe(d, b) {
			out = append(out, d)
		}
	}
	return out
}
