package riff

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/joshuapare/riffkit/dissect"
	"github.com/joshuapare/riffkit/dissect/chunk"
	"github.com/joshuapare/riffkit/internal/format"
	"github.com/joshuapare/riffkit/internal/logging"
	"github.com/joshuapare/riffkit/internal/mmfile"
)

// Dissector bundles a frozen registry and engine built from a Config. It is
// safe for concurrent use.
type Dissector struct {
	cfg    Config
	engine *dissect.Engine
	log    zerolog.Logger
}

// New validates cfg and builds the registry: the enabled built-in formats in
// probe order, then cfg.Extra, then opts.Decoders and the chunk decoders.
func New(cfg Config, opts Options) (*Dissector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	reg, err := NewRegistry(cfg, opts)
	if err != nil {
		return nil, err
	}

	log := logging.L
	if opts.Logger != nil {
		log = *opts.Logger
	}
	eng := dissect.NewEngine(reg, dissect.Options{
		MaxDepth:          cfg.Limits().MaxDepth,
		CheckDeclaredSize: cfg.CheckDeclaredSize,
		Columns:           opts.Columns,
		Logger:            &log,
	})
	return &Dissector{cfg: cfg, engine: eng, log: log}, nil
}

// NewRegistry builds an unfrozen registry from cfg so hosts can add their
// own formats before handing it to dissect.NewEngine.
func NewRegistry(cfg Config, opts Options) (*dissect.Registry, error) {
	reg := dissect.NewRegistry()

	builtins := format.Builtins()
	if len(cfg.Formats) > 0 {
		byName := make(map[string]*Descriptor, len(builtins))
		for _, d := range builtins {
			byName[d.Name] = d
		}
		builtins = builtins[:0]
		for _, name := range cfg.Formats {
			d, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("unknown built-in format %q", name)
			}
			builtins = append(builtins, d)
		}
	}
	for _, d := range builtins {
		if err := reg.RegisterFormat(d); err != nil {
			return nil, err
		}
	}

	extra := make([]*Descriptor, 0, len(cfg.Extra))
	for _, fc := range cfg.Extra {
		d, err := fc.Descriptor()
		if err != nil {
			return nil, err
		}
		if err := reg.RegisterFormat(d); err != nil {
			return nil, err
		}
		extra = append(extra, d)
	}

	for tag, dec := range opts.Decoders {
		if err := reg.RegisterDecoder(tag, dec); err != nil {
			return nil, err
		}
	}
	if err := chunk.Register(reg, extra...); err != nil {
		return nil, err
	}
	return reg, nil
}

// Config returns the configuration the dissector was built from.
func (d *Dissector) Config() Config { return d.cfg }

// Engine returns the underlying engine.
func (d *Dissector) Engine() *dissect.Engine { return d.engine }

// Dissect probes data against every enabled format and dissects it with the
// first match.
func (d *Dissector) Dissect(data []byte) (*Result, error) {
	return d.engine.DissectAny(data)
}

// DissectFile maps path read-only, dissects it and calls fn with the result.
// Values in the result alias the mapping and are valid only until fn
// returns.
func (d *Dissector) DissectFile(path string, fn func(*Result) error) error {
	return d.DissectFileAs(path, "", fn)
}

// DissectFileAs is DissectFile with an explicit format name; an empty name
// probes every enabled format.
func (d *Dissector) DissectFileAs(path, name string, fn func(*Result) error) error {
	data, cleanup, err := mmfile.Map(path, d.cfg.Limits().MaxBufferSize)
	if err != nil {
		return fmt.Errorf("dissect %s: %w", path, err)
	}
	defer cleanup()

	var res *Result
	if name == "" {
		res, err = d.engine.DissectAny(data)
	} else {
		res, err = d.engine.DissectFormat(name, data)
	}
	if err != nil {
		return fmt.Errorf("dissect %s: %w", path, err)
	}
	d.log.Debug().Str("path", path).Str("format", res.Format).Int("bytes", len(data)).Msg("dissected file")
	if fn == nil {
		return nil
	}
	return fn(res)
}
