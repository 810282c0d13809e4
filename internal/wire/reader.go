// Package wire implements the little-endian, length-prefixed primitives
// shared by every section of the manifest binary format: fixed-width
// integers, signed-length-prefixed strings (UTF-8 or UTF-16LE depending on
// the sign of the length), and count-prefixed arrays.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// ErrOverflow is returned when a read would run past the end of the buffer.
var ErrOverflow = errors.New("wire: read past end of buffer")

// ErrInvalidData is returned for malformed UTF-8/UTF-16 or an unterminated string.
var ErrInvalidData = errors.New("wire: invalid data")

// Reader is a cursor over an immutable byte slice.
type Reader struct {
	data []byte
	pos  int
}

// NewReader wraps data in a Reader starting at offset 0.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Len returns the total length of the underlying buffer.
func (r *Reader) Len() int { return len(r.data) }

// Tell returns the current cursor offset.
func (r *Reader) Tell() int { return r.pos }

// Seek moves the cursor to an absolute offset without bounds checking;
// a subsequent read past the end still fails with ErrOverflow.
func (r *Reader) Seek(pos int) { r.pos = pos }

// ReadBytes returns the next n bytes and advances the cursor, or
// ErrOverflow if fewer than n bytes remain.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, ErrOverflow
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadRemaining drains every byte from the cursor to the end of the
// buffer; it never fails, even if nothing remains.
func (r *Reader) ReadRemaining() []byte {
	b := r.data[r.pos:]
	r.pos = len(r.data)
	return b
}

func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadUint64() (uint64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

// ReadString reads a signed i32 length prefix L. L == 0 yields "". L > 0
// reads L bytes as NUL-terminated UTF-8 (L counts the terminator). L < 0
// reads |L| UTF-16LE code units (again including the terminator) and
// transcodes them to UTF-8. The trailing NUL is stripped from the
// returned string in both cases.
func (r *Reader) ReadString() (string, error) {
	length, err := r.ReadInt32()
	if err != nil {
		return "", err
	}

	if length == 0 {
		return "", nil
	}

	if length > 0 {
		b, err := r.ReadBytes(int(length))
		if err != nil {
			return "", err
		}
		if len(b) == 0 || b[len(b)-1] != 0 {
			return "", ErrInvalidData
		}
		text := b[:len(b)-1]
		if !utf8.Valid(text) {
			return "", ErrInvalidData
		}
		return string(text), nil
	}

	units := int(-length)
	b, err := r.ReadBytes(units * 2)
	if err != nil {
		return "", err
	}

	// The decoder below replaces unpaired surrogates with U+FFFD rather than
	// failing, so reject them here.
	for i := 0; i < units; i++ {
		u := rune(binary.LittleEndian.Uint16(b[2*i:]))
		if !utf16.IsSurrogate(u) {
			continue
		}
		if i+1 >= units || utf16.DecodeRune(u, rune(binary.LittleEndian.Uint16(b[2*i+2:]))) == utf8.RuneError {
			return "", ErrInvalidData
		}
		i++
	}

	decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return "", ErrInvalidData
	}
	decoded = bytes.TrimSuffix(decoded, []byte{0})

	return string(decoded), nil
}

// ReadArray reads a u32 count followed by that many items via readItem.
// A count of zero yields an empty, non-nil slice without invoking readItem.
func ReadArray[T any](r *Reader, readItem func(*Reader) (T, error)) ([]T, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	if count == 0 {
		return []T{}, nil
	}

	items := make([]T, 0, count)
	for i := uint32(0); i < count; i++ {
		item, err := readItem(r)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
