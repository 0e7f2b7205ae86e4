package riff

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/joshuapare/riffkit/internal/format"
	"github.com/joshuapare/riffkit/pkg/types"
)

// Config is the file-level configuration shared by the library helpers and
// riffctl. Zero values are not meaningful; start from DefaultConfig.
type Config struct {
	// MaxDepth is the nested dispatch budget per dissection. The "limits"
	// key sets it together with MaxFileSize from a named preset.
	MaxDepth int

	// CheckDeclaredSize records a warning when the container's size field
	// disagrees with the buffer length.
	CheckDeclaredSize bool

	// Workers bounds how many files ScanFiles dissects at once.
	Workers int

	// MaxFileSize is the largest file DissectFile will map (0 = no limit).
	MaxFileSize int64

	// Output selects the riffctl output format: "text" or "json".
	Output string

	// LogLevel is a zerolog level name.
	LogLevel string

	// LogDir, when set, sends riffctl logs to dated files in this directory.
	LogDir string

	// Formats lists the built-in formats to enable, in probe order.
	// Empty enables all of them.
	Formats []string

	// Extra declares additional RIFF-family formats. Their subtypes are
	// framed by the generic chunk decoder.
	Extra []FormatConfig
}

// FormatConfig declares one extra container format.
type FormatConfig struct {
	Name        string            `toml:"name"`
	DisplayName string            `toml:"display_name"`
	MediaType   string            `toml:"media_type"`
	Magic       string            `toml:"magic"`    // default "RIFF"
	Marker      string            `toml:"marker"`   // form type at offset 8, e.g. "ACON"
	Subtypes    map[string]string `toml:"subtypes"` // marker -> tag
}

type fileConfig struct {
	Limits            string         `toml:"limits"`
	MaxDepth          int            `toml:"max_depth"`
	CheckDeclaredSize bool           `toml:"check_declared_size"`
	Workers           int            `toml:"workers"`
	MaxFileSize       int64          `toml:"max_file_size"`
	Output            string         `toml:"output"`
	LogLevel          string         `toml:"log_level"`
	LogDir            string         `toml:"log_dir"`
	Formats           []string       `toml:"formats"`
	Format            []FormatConfig `toml:"format"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	cfg := Config{
		Workers:  runtime.NumCPU(),
		Output:   "text",
		LogLevel: "info",
	}
	cfg.ApplyLimits(types.DefaultLimits())
	return cfg
}

// Limits returns the dissection bounds carried by c.
func (c Config) Limits() Limits {
	return Limits{MaxDepth: c.MaxDepth, MaxBufferSize: c.MaxFileSize}
}

// ApplyLimits replaces the depth budget and file size ceiling with l.
func (c *Config) ApplyLimits(l Limits) {
	c.MaxDepth = l.MaxDepth
	c.MaxFileSize = l.MaxBufferSize
}

// ApplyLimitsPreset applies the named preset: "default", "strict" or
// "relaxed".
func (c *Config) ApplyLimitsPreset(name string) error {
	l, ok := types.LimitsByName(strings.ToLower(strings.TrimSpace(name)))
	if !ok {
		return fmt.Errorf("limits must be default, strict or relaxed, got %q", name)
	}
	c.ApplyLimits(l)
	return nil
}

// LoadConfig reads a TOML file and applies the keys it defines on top of
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load riff config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load riff config: unknown key %q", undecoded[0].String())
	}

	// The preset goes first so explicit keys refine it.
	if meta.IsDefined("limits") {
		if err := cfg.ApplyLimitsPreset(raw.Limits); err != nil {
			return Config{}, fmt.Errorf("load riff config %s: %w", path, err)
		}
	}
	if meta.IsDefined("max_depth") {
		cfg.MaxDepth = raw.MaxDepth
	}
	if meta.IsDefined("check_declared_size") {
		cfg.CheckDeclaredSize = raw.CheckDeclaredSize
	}
	if meta.IsDefined("workers") {
		cfg.Workers = raw.Workers
	}
	if meta.IsDefined("max_file_size") {
		cfg.MaxFileSize = raw.MaxFileSize
	}
	if meta.IsDefined("output") {
		cfg.Output = strings.TrimSpace(raw.Output)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("log_dir") {
		cfg.LogDir = strings.TrimSpace(raw.LogDir)
	}
	if meta.IsDefined("formats") {
		cfg.Formats = normalizeNames(raw.Formats)
	}
	if meta.IsDefined("format") {
		cfg.Extra = raw.Format
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load riff config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration and every extra format declaration.
func (c Config) Validate() error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be at least 1, got %d", c.MaxDepth)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must not be negative")
	}
	switch c.Output {
	case "text", "json":
	default:
		return fmt.Errorf("output must be text or json, got %q", c.Output)
	}
	builtins := make(map[string]bool)
	for _, d := range format.Builtins() {
		builtins[d.Name] = true
	}
	for _, name := range c.Formats {
		if !builtins[name] {
			return fmt.Errorf("formats: unknown built-in format %q", name)
		}
	}
	for _, fc := range c.Extra {
		if builtins[fc.Name] {
			return fmt.Errorf("format %q: name collides with a built-in format", fc.Name)
		}
		d, err := fc.Descriptor()
		if err != nil {
			return err
		}
		if err := d.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Descriptor builds the container descriptor declared by fc.
func (fc FormatConfig) Descriptor() (*types.Descriptor, error) {
	if fc.Name == "" {
		return nil, fmt.Errorf("%w: format without a name", types.ErrInvalidDescriptor)
	}
	if len(fc.Marker) != format.TagSize {
		return nil, fmt.Errorf("%w: format %q: marker %q must be %d bytes",
			types.ErrInvalidDescriptor, fc.Name, fc.Marker, format.TagSize)
	}
	display := fc.DisplayName
	if display == "" {
		display = strings.ToUpper(fc.Name)
	}
	subtypes := make(map[string]types.SubtypeTag, len(fc.Subtypes))
	for marker, tag := range fc.Subtypes {
		if tag == "" {
			tag = fc.Name + "." + strings.TrimSpace(marker)
		}
		subtypes[marker] = types.SubtypeTag(tag)
	}

	d := format.NewRIFFDescriptor(fc.Name, display, fc.MediaType, []byte(fc.Marker), subtypes)
	if fc.Magic != "" {
		if len(fc.Magic) != format.TagSize {
			return nil, fmt.Errorf("%w: format %q: magic %q must be %d bytes",
				types.ErrInvalidDescriptor, fc.Name, fc.Magic, format.TagSize)
		}
		d.Magic = []byte(fc.Magic)
	}
	return d, nil
}

func normalizeNames(in []string) []string {
	out := make([]string, 0, len(in))
	for _, name := range in {
		v := strings.ToLower(strings.TrimSpace(name))
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
