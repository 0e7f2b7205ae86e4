package dissect

import (
	"github.com/joshuapare/riffkit/internal/buf"
	"github.com/joshuapare/riffkit/pkg/types"
)

// Cursor is a bounds-checked read head over an immutable byte slice.
//
// Every read either advances the offset by exactly the bytes returned or
// fails with types.ErrTruncated and leaves the offset untouched. Returned
// slices alias the underlying buffer and must not be modified.
type Cursor struct {
	data []byte
	off  int
	base int // absolute offset of data[0] in the top-level buffer
}

// NewCursor returns a cursor at offset 0 of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

func newCursorAt(data []byte, base int) *Cursor {
	return &Cursor{data: data, base: base}
}

// Len is the total length of the cursor's window.
func (c *Cursor) Len() int { return len(c.data) }

// Pos is the current offset relative to the start of the window.
func (c *Cursor) Pos() int { return c.off }

// Base is the absolute offset of the window within the top-level buffer.
func (c *Cursor) Base() int { return c.base }

// Abs is the current absolute offset within the top-level buffer.
func (c *Cursor) Abs() int { return c.base + c.off }

// Remaining returns Len() - Pos().
func (c *Cursor) Remaining() int { return len(c.data) - c.off }

// Bytes returns the unread bytes without advancing.
func (c *Cursor) Bytes() []byte {
	out, _ := buf.Slice(c.data, c.off, c.Remaining())
	return out
}

// Peek returns the next n bytes without advancing.
func (c *Cursor) Peek(n int) ([]byte, error) {
	return c.PeekAt(c.off, n)
}

// PeekAt returns n bytes at window offset off without moving the cursor.
func (c *Cursor) PeekAt(off, n int) ([]byte, error) {
	b, ok := buf.Slice(c.data, off, n)
	if !ok {
		return nil, c.truncated(off, n)
	}
	return b, nil
}

// Read returns the next n bytes and advances past them.
func (c *Cursor) Read(n int) ([]byte, error) {
	b, err := c.Peek(n)
	if err != nil {
		return nil, err
	}
	c.off += n
	return b, nil
}

// Skip advances by n bytes.
func (c *Cursor) Skip(n int) error {
	_, err := c.Read(n)
	return err
}

// ReadU16LE reads a little-endian uint16.
func (c *Cursor) ReadU16LE() (uint16, error) {
	b, err := c.Read(2)
	if err != nil {
		return 0, err
	}
	return buf.U16LE(b), nil
}

// ReadU32LE reads a little-endian uint32.
func (c *Cursor) ReadU32LE() (uint32, error) {
	b, err := c.Read(4)
	if err != nil {
		return 0, err
	}
	return buf.U32LE(b), nil
}

// ReadU32BE reads a big-endian uint32.
func (c *Cursor) ReadU32BE() (uint32, error) {
	b, err := c.Read(4)
	if err != nil {
		return 0, err
	}
	return buf.U32BE(b), nil
}

// ReadUintLE reads a little-endian unsigned integer of width 1, 2, 3, 4 or 8
// bytes. Unsupported widths fail with ErrMalformed without advancing.
func (c *Cursor) ReadUintLE(width int) (uint64, error) {
	b, err := c.Peek(width)
	if err != nil {
		return 0, err
	}
	v, ok := buf.UintLE(b, width)
	if !ok {
		return 0, types.Errorf(types.ErrKindMalformed, "unsupported integer width %d: %w", width, types.ErrMalformed)
	}
	c.off += width
	return v, nil
}

// Sub returns a cursor over the next n bytes and advances this cursor past
// them. The child reports absolute offsets consistent with its parent.
func (c *Cursor) Sub(n int) (*Cursor, error) {
	start := c.Abs()
	b, err := c.Read(n)
	if err != nil {
		return nil, err
	}
	return newCursorAt(b, start), nil
}

// Rest returns a cursor over the unread bytes without advancing.
func (c *Cursor) Rest() *Cursor {
	return newCursorAt(c.Bytes(), c.Abs())
}

func (c *Cursor) truncated(off, n int) error {
	return types.Errorf(types.ErrKindTruncated,
		"read %d bytes at offset %d: window holds %d: %w", n, c.base+off, len(c.data), types.ErrTruncated)
}
