package manifestcodec

import (
	"fmt"

	"github.com/polynite/manifestcodec/internal/wire"
)

// CustomFields is an unordered string-to-string map of arbitrary
// producer-defined metadata. Keys are unique; iteration order is not
// meaningful and need not round-trip.
type CustomFields struct {
	dataVersion uint8

	Fields map[string]string
}

func parseCustomFields(r *wire.Reader) (CustomFields, error) {
	start := r.Tell()

	size, err := r.ReadUint32()
	if err != nil {
		return CustomFields{}, fmt.Errorf("custom fields: size: %w", err)
	}
	version, err := r.ReadUint8()
	if err != nil {
		return CustomFields{}, fmt.Errorf("custom fields: data version: %w", err)
	}
	count, err := r.ReadUint32()
	if err != nil {
		return CustomFields{}, fmt.Errorf("custom fields: count: %w", err)
	}

	fields := make(map[string]string, count)
	for i := uint32(0); i < count; i++ {
		key, err := r.ReadString()
		if err != nil {
			return CustomFields{}, fmt.Errorf("custom fields: key %d: %w", i, err)
		}
		value, err := r.ReadString()
		if err != nil {
			return CustomFields{}, fmt.Errorf("custom fields: value %d (key %q): %w", i, key, err)
		}
		fields[key] = value
	}

	if end := start + int(size); r.Tell() != end {
		return CustomFields{}, fmt.Errorf("custom fields: declared size %d, read to %d instead of %d: %w", size, r.Tell(), end, ErrSizeMismatch)
	}

	return CustomFields{dataVersion: version, Fields: fields}, nil
}

func (c CustomFields) write(w *wire.Writer) {
	writeFramedSection(w, func(w *wire.Writer) {
		w.WriteUint8(c.dataVersion)
		w.WriteUint32(uint32(len(c.Fields)))
		for key, value := range c.Fields {
			w.WriteString(key)
			w.WriteString(value)
		}
	})
}
