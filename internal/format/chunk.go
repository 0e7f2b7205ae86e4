package format

import (
	"fmt"

	"github.com/joshuapare/riffkit/internal/buf"
)

// Chunk describes a RIFF chunk header located inside a buffer.
//
//	Offset  Size  Field
//	0x00    4     fourcc
//	0x04    4     body size (u32 LE, excludes header and pad byte)
//	0x08    n     body
//	0x08+n  0/1   pad byte when n is odd
type Chunk struct {
	FourCC [TagSize]byte
	Offset int    // offset of the fourcc within the parsed slice
	Size   uint32 // declared body size
}

// BodyOffset is the offset of the first body byte.
func (c Chunk) BodyOffset() int { return c.Offset + ChunkHeaderSize }

// End is the offset just past the body and its pad byte.
func (c Chunk) End() int {
	end := c.BodyOffset() + int(c.Size)
	if c.Size%2 == 1 {
		end++
	}
	return end
}

// NextChunk decodes the chunk header at off and validates that its body fits
// in b. The pad byte may be missing at the very end of b; callers should clamp
// End() to len(b).
func NextChunk(b []byte, off int) (Chunk, error) {
	head, ok := buf.Slice(b, off, ChunkHeaderSize)
	if !ok {
		return Chunk{}, fmt.Errorf("chunk at %d: %w", off, ErrTruncated)
	}
	var c Chunk
	copy(c.FourCC[:], head[:TagSize])
	c.Offset = off
	c.Size = buf.U32LE(head[TagSize:])
	if _, err := buf.CheckRange(len(b), c.BodyOffset(), int(c.Size)); err != nil {
		return Chunk{}, fmt.Errorf("chunk %s at %d: %w (%v)", TagString(c.FourCC[:]), off, ErrChunkOverrun, err)
	}
	return c, nil
}
