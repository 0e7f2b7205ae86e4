// Package buf contains bounds checks and endian-safe decoding helpers shared
// by the container parsers.
package buf

import "encoding/binary"

// U16LE reads a little-endian uint16 from b. Returns 0 when b is too short.
func U16LE(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// U24LE reads a little-endian 24-bit unsigned integer from b. Returns 0 when
// b is too short. RIFF extended headers store canvas dimensions this way.
func U24LE(b []byte) uint32 {
	if len(b) < 3 {
		return 0
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

// U32LE reads a little-endian uint32 from b. Returns 0 when b is too short.
func U32LE(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// U64LE reads a little-endian uint64 from b. Returns 0 when b is too short.
func U64LE(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// U32BE reads a big-endian uint32 from b. Returns 0 when b is too short.
func U32BE(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// UintLE reads an unsigned little-endian integer of width bytes (1, 2, 3, 4
// or 8). ok is false for any other width or when b is too short.
func UintLE(b []byte, width int) (v uint64, ok bool) {
	if width <= 0 || len(b) < width {
		return 0, false
	}
	switch width {
	case 1:
		return uint64(b[0]), true
	case 2:
		return uint64(U16LE(b)), true
	case 3:
		return uint64(U24LE(b)), true
	case 4:
		return uint64(U32LE(b)), true
	case 8:
		return U64LE(b), true
	default:
		return 0, false
	}
}
