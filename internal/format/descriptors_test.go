package format

import (
	"testing"

	"github.com/joshuapare/riffkit/pkg/types"
)

func TestBuiltinsValidate(t *testing.T) {
	for _, d := range Builtins() {
		if err := d.Validate(); err != nil {
			t.Fatalf("%s: Validate: %v", d.Name, err)
		}
		if d.MinHeaderLen() != RIFFHeaderSize {
			t.Fatalf("%s: MinHeaderLen = %d, want %d", d.Name, d.MinHeaderLen(), RIFFHeaderSize)
		}
	}
}

func TestWebPSubtypeTable(t *testing.T) {
	d := WebP()
	if got := d.Resolve([]byte("VP8 ")); got != TagLossy {
		t.Fatalf("Resolve(VP8 ) = %q, want %q", got, TagLossy)
	}
	if got := d.Resolve([]byte("VP8L")); got != TagLossless {
		t.Fatalf("Resolve(VP8L) = %q, want %q", got, TagLossless)
	}
	if got := d.Resolve([]byte("vp8l")); got != types.Unrecognized {
		t.Fatalf("Resolve must not fold case, got %q", got)
	}
	if got := d.Resolve([]byte("VP8")); got != types.Unrecognized {
		t.Fatalf("Resolve must not prefix-match, got %q", got)
	}
}

func TestBuiltinsAreIndependentCopies(t *testing.T) {
	a, b := WebP(), WebP()
	a.Subtypes["XXXX"] = "x"
	a.Marker[0] = 'w'
	if _, ok := b.Subtypes["XXXX"]; ok {
		t.Fatalf("subtype tables must not be shared")
	}
	if b.Marker[0] != 'W' {
		t.Fatalf("marker bytes must not be shared")
	}
}

func TestFieldAbbrevs(t *testing.T) {
	d := WebP()
	want := []string{"webp.riff_marker", "webp.file_size", "webp.marker"}
	for i, f := range d.Header {
		if f.Abbrev != want[i] {
			t.Fatalf("field %d abbrev = %q, want %q", i, f.Abbrev, want[i])
		}
	}
	if d.SubtypeAbbrev != "webp.subtype" {
		t.Fatalf("subtype abbrev = %q", d.SubtypeAbbrev)
	}
}
