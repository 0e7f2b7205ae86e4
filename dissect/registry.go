package dissect

import (
	"mime"
	"strings"
	"sync/atomic"

	"github.com/joshuapare/riffkit/pkg/types"
)

// Registry maps container descriptors and subtype tags to decoders.
//
// A registry is populated by one goroutine during startup and then frozen.
// Lookups take no lock: after Freeze nothing mutates the maps, and every
// registration after Freeze fails with types.ErrRegistryFrozen.
type Registry struct {
	formats  []*types.Descriptor
	byName   map[string]*types.Descriptor
	decoders map[types.SubtypeTag]Decoder
	frozen   atomic.Bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:   make(map[string]*types.Descriptor),
		decoders: make(map[types.SubtypeTag]Decoder),
	}
}

// RegisterFormat validates d and appends it to the probe order.
func (r *Registry) RegisterFormat(d *types.Descriptor) error {
	if r.frozen.Load() {
		return types.Errorf(types.ErrKindState, "register format %q: %w", d.Name, types.ErrRegistryFrozen)
	}
	if err := d.Validate(); err != nil {
		return err
	}
	if _, dup := r.byName[d.Name]; dup {
		return types.Errorf(types.ErrKindConfig, "format %q: %w", d.Name, types.ErrDuplicate)
	}
	r.formats = append(r.formats, d)
	r.byName[d.Name] = d
	return nil
}

// RegisterDecoder binds dec to tag. A tag may be bound once.
func (r *Registry) RegisterDecoder(tag types.SubtypeTag, dec Decoder) error {
	if r.frozen.Load() {
		return types.Errorf(types.ErrKindState, "register decoder %q: %w", tag, types.ErrRegistryFrozen)
	}
	if tag == types.Unrecognized {
		return types.Errorf(types.ErrKindConfig, "unrecognized tag: %w", types.ErrInvalidDecoder)
	}
	if dec == nil {
		return types.Errorf(types.ErrKindConfig, "nil decoder for tag %q: %w", tag, types.ErrInvalidDecoder)
	}
	if _, dup := r.decoders[tag]; dup {
		return types.Errorf(types.ErrKindConfig, "decoder for tag %q: %w", tag, types.ErrDuplicate)
	}
	r.decoders[tag] = dec
	return nil
}

// Freeze makes the registry read-only. It is idempotent.
func (r *Registry) Freeze() { r.frozen.Store(true) }

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool { return r.frozen.Load() }

// Format returns the descriptor registered under name.
func (r *Registry) Format(name string) (*types.Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Formats returns the registered descriptors in probe order.
func (r *Registry) Formats() []*types.Descriptor {
	out := make([]*types.Descriptor, len(r.formats))
	copy(out, r.formats)
	return out
}

// Decoder returns the decoder bound to tag.
func (r *Registry) Decoder(tag types.SubtypeTag) (Decoder, bool) {
	dec, ok := r.decoders[tag]
	return dec, ok
}

// ByMediaType finds the descriptor handling a content type such as
// "image/webp" or "image/webp; q=0.9". Matching is case-insensitive on the
// media type only.
func (r *Registry) ByMediaType(contentType string) (*types.Descriptor, bool) {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(contentType))
	}
	for _, d := range r.formats {
		if d.MediaType != "" && strings.EqualFold(d.MediaType, mt) {
			return d, true
		}
	}
	return nil, false
}
