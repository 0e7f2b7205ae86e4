package format

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// TagString renders a four-character code for display. Printable ASCII is
// returned as-is (the common case); anything else is decoded as Windows-1252
// so stray high bytes in a damaged marker still render as readable runes.
// Comparisons must always use the raw bytes, never this string.
func TagString(b []byte) string {
	if isPrintableASCII(b) {
		return string(b)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return fmt.Sprintf("%q", b)
	}
	return string(decoded)
}

// isPrintableASCII checks that every byte is in 0x20..0x7E.
func isPrintableASCII(b []byte) bool {
	for _, c := range b {
		if c < 0x20 || c > 0x7E {
			return false
		}
	}
	return true
}
