package dissect

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/riffkit/pkg/types"
)

func TestCursor_ReadAdvances(t *testing.T) {
	c := NewCursor([]byte("RIFF\x14\x00\x00\x00WEBP"))

	b, err := c.Read(4)
	require.NoError(t, err)
	require.Equal(t, "RIFF", string(b))
	require.Equal(t, 4, c.Pos())
	require.Equal(t, 8, c.Remaining())

	n, err := c.ReadU32LE()
	require.NoError(t, err)
	require.Equal(t, uint32(20), n)

	peek, err := c.Peek(4)
	require.NoError(t, err)
	require.Equal(t, "WEBP", string(peek))
	require.Equal(t, 8, c.Pos(), "Peek must not advance")
}

func TestCursor_TruncatedLeavesOffset(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3})
	require.NoError(t, c.Skip(2))

	_, err := c.Read(2)
	require.ErrorIs(t, err, types.ErrTruncated)
	require.Equal(t, 2, c.Pos())

	_, err = c.ReadU32LE()
	require.ErrorIs(t, err, types.ErrTruncated)
	require.Equal(t, 2, c.Pos())

	_, err = c.ReadUintLE(8)
	require.ErrorIs(t, err, types.ErrTruncated)
	require.Equal(t, 2, c.Pos())

	_, err = c.Read(-1)
	require.ErrorIs(t, err, types.ErrTruncated)
	require.Equal(t, 2, c.Pos())
}

func TestCursor_ExplicitEndianness(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}

	le := NewCursor(data)
	v, err := le.ReadU32LE()
	require.NoError(t, err)
	require.Equal(t, uint32(0x04030201), v)

	be := NewCursor(data)
	v, err = be.ReadU32BE()
	require.NoError(t, err)
	require.Equal(t, uint32(0x01020304), v)

	w := NewCursor(data)
	v16, err := w.ReadU16LE()
	require.NoError(t, err)
	require.Equal(t, uint16(0x0201), v16)
	v24, err := NewCursor(data).ReadUintLE(3)
	require.NoError(t, err)
	require.Equal(t, uint64(0x030201), v24)

	_, err = NewCursor(data).ReadUintLE(5)
	require.ErrorIs(t, err, types.ErrTruncated)
	bad := NewCursor(make([]byte, 8))
	_, err = bad.ReadUintLE(5)
	require.ErrorIs(t, err, types.ErrMalformed)
	require.Equal(t, 0, bad.Pos())
}

func TestCursor_SubKeepsAbsoluteOffsets(t *testing.T) {
	c := NewCursor(make([]byte, 32))
	require.NoError(t, c.Skip(16))

	sub, err := c.Sub(8)
	require.NoError(t, err)
	require.Equal(t, 24, c.Pos())
	require.Equal(t, 16, sub.Base())
	require.Equal(t, 8, sub.Len())

	require.NoError(t, sub.Skip(3))
	require.Equal(t, 19, sub.Abs())

	rest := c.Rest()
	require.Equal(t, 24, rest.Abs())
	require.Equal(t, 8, rest.Len())
	require.Equal(t, 24, c.Pos(), "Rest must not advance")

	_, err = c.Sub(9)
	require.ErrorIs(t, err, types.ErrTruncated)
	require.Equal(t, 24, c.Pos())
}

func TestCursor_PeekAt(t *testing.T) {
	c := NewCursor([]byte("RIFF....WEBPVP8 "))
	b, err := c.PeekAt(8, 4)
	require.NoError(t, err)
	require.Equal(t, "WEBP", string(b))
	require.Equal(t, 0, c.Pos())

	_, err = c.PeekAt(14, 4)
	require.ErrorIs(t, err, types.ErrTruncated)
}
