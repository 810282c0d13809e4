package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadWriteIntegersRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteUint8(0xAB)
	w.WriteUint16(0x1234)
	w.WriteUint32(0xDEADBEEF)
	w.WriteUint64(0x0102030405060708)
	w.WriteInt8(-1)
	w.WriteInt16(-2)
	w.WriteInt32(-3)
	w.WriteInt64(-4)

	r := NewReader(w.Bytes())

	u8, err := r.ReadUint8()
	require.NoError(t, err)
	require.Equal(t, uint8(0xAB), u8)

	u16, err := r.ReadUint16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), u16)

	u32, err := r.ReadUint32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), u32)

	u64, err := r.ReadUint64()
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), u64)

	i8, err := r.ReadInt8()
	require.NoError(t, err)
	require.Equal(t, int8(-1), i8)

	i16, err := r.ReadInt16()
	require.NoError(t, err)
	require.Equal(t, int16(-2), i16)

	i32, err := r.ReadInt32()
	require.NoError(t, err)
	require.Equal(t, int32(-3), i32)

	i64, err := r.ReadInt64()
	require.NoError(t, err)
	require.Equal(t, int64(-4), i64)
}

func TestReadBytesOverflow(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	_, err := r.ReadBytes(4)
	require.ErrorIs(t, err, ErrOverflow)

	_, err = r.ReadBytes(3)
	require.NoError(t, err)

	_, err = r.ReadBytes(1)
	require.ErrorIs(t, err, ErrOverflow)
}

func TestEmptyStringRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteString("")
	require.Equal(t, []byte{0, 0, 0, 0}, w.Bytes())

	r := NewReader(w.Bytes())
	s, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "", s)
}

func TestUTF8StringRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteString("héllo.txt")

	// 10 bytes UTF-8 ('é' takes two) + NUL terminator == length prefix of 11
	require.Equal(t, []byte{0x0B, 0x00, 0x00, 0x00}, w.Bytes()[:4])

	r := NewReader(w.Bytes())
	s, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "héllo.txt", s)
}

func TestUTF16LEStringDecodesAndStripsTerminator(t *testing.T) {
	// Manually build a UTF-16LE encoded "hi" with a trailing NUL unit and
	// a negative length prefix counting code units.
	payload := []byte{'h', 0, 'i', 0, 0, 0}
	buf := []byte{0xFD, 0xFF, 0xFF, 0xFF} // int32(-3) little-endian
	buf = append(buf, payload...)

	r := NewReader(buf)
	s, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "hi", s)
}

func TestReadArrayEmptyDoesNotInvokeItemReader(t *testing.T) {
	w := NewWriter()
	w.WriteUint32(0)

	r := NewReader(w.Bytes())
	calls := 0
	items, err := ReadArray(r, func(r *Reader) (string, error) {
		calls++
		return r.ReadString()
	})
	require.NoError(t, err)
	require.Empty(t, items)
	require.Zero(t, calls)
}

func TestReadArrayRoundTrip(t *testing.T) {
	w := NewWriter()
	WriteArray(w, []string{"a", "bb", "ccc"}, func(w *Writer, s string) {
		w.WriteString(s)
	})

	r := NewReader(w.Bytes())
	items, err := ReadArray(r, func(r *Reader) (string, error) {
		return r.ReadString()
	})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "bb", "ccc"}, items)
}

func TestReadRemaining(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	_, _ = r.ReadBytes(1)
	rest := r.ReadRemaining()
	require.Equal(t, []byte{2, 3, 4}, rest)
	require.Equal(t, 4, r.Tell())
}

func TestSeekTell(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	r.Seek(2)
	require.Equal(t, 2, r.Tell())
	b, err := r.ReadBytes(2)
	require.NoError(t, err)
	require.Equal(t, []byte{3, 4}, b)
}
