package format

import "encoding/binary"

// Little-endian writers used by buffer builders and tests. Reads go through
// internal/buf, which never panics on short input.

// PutU16 writes a uint16 value to the buffer at the specified offset in little-endian format.
func PutU16(b []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(b[off:off+2], v)
}

// PutU24 writes the low 24 bits of v at off in little-endian format.
func PutU24(b []byte, off int, v uint32) {
	b[off] = byte(v)
	b[off+1] = byte(v >> 8)
	b[off+2] = byte(v >> 16)
}

// PutU32 writes a uint32 value to the buffer at the specified offset in little-endian format.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// AppendChunk appends a RIFF chunk (fourcc, u32 LE size, body, pad byte when
// the body length is odd) to dst.
func AppendChunk(dst []byte, fourcc string, body []byte) []byte {
	dst = append(dst, fourcc[:TagSize]...)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(body)))
	dst = append(dst, body...)
	if len(body)%2 == 1 {
		dst = append(dst, 0)
	}
	return dst
}

// BuildRIFF assembles a RIFF container with the given form type and chunks.
// The declared size is computed from the assembled length.
func BuildRIFF(form string, chunks ...[]byte) []byte {
	out := make([]byte, 0, RIFFHeaderSize)
	out = append(out, RIFFSignature...)
	out = append(out, 0, 0, 0, 0)
	out = append(out, form[:TagSize]...)
	for _, c := range chunks {
		out = append(out, c...)
	}
	PutU32(out, RIFFSizeOffset, uint32(len(out)-RIFFSizeBias))
	return out
}
