package wire

import "encoding/binary"

// Writer accumulates bytes for the inverse of Reader. Numeric writes are
// little-endian; strings are always emitted as UTF-8 (this codec never
// produces UTF-16 output, though it can read it).
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteBytes appends raw bytes verbatim.
func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// Tell returns the number of bytes written so far.
func (w *Writer) Tell() int { return len(w.buf) }

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) WriteUint16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *Writer) WriteUint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) WriteUint64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *Writer) WriteInt8(v int8) { w.WriteUint8(uint8(v)) }

func (w *Writer) WriteInt16(v int16) { w.WriteUint16(uint16(v)) }

func (w *Writer) WriteInt32(v int32) { w.WriteUint32(uint32(v)) }

func (w *Writer) WriteInt64(v int64) { w.WriteUint64(uint64(v)) }

// WriteString writes the empty string as a zero i32 length prefix, or a
// positive i32 byte count (including the NUL terminator this codec always
// appends) followed by the UTF-8 bytes and the terminator.
func (w *Writer) WriteString(s string) {
	if s == "" {
		w.WriteInt32(0)
		return
	}

	b := make([]byte, 0, len(s)+1)
	b = append(b, s...)
	b = append(b, 0)

	w.WriteInt32(int32(len(b)))
	w.WriteBytes(b)
}

// WriteArray writes a u32 count followed by each item via writeItem.
func WriteArray[T any](w *Writer, items []T, writeItem func(*Writer, T)) {
	w.WriteUint32(uint32(len(items)))
	for _, item := range items {
		writeItem(w, item)
	}
}
