package manifestcodec

import (
	"fmt"

	"github.com/polynite/manifestcodec/internal/wire"
)

// GUID is Unreal Engine's FGuid: four 32-bit limbs, each written
// little-endian on the wire and concatenated big-endian-hex (a|b|c|d) for
// display and JSON. It is not an RFC 4122 UUID — there is no dash
// formatting and no version/variant bits — so this codec does not lean on
// a UUID library for it.
type GUID struct {
	A, B, C, D uint32
}

// String renders the GUID as 32 uppercase hex digits, a|b|c|d — the form
// used at the JSON boundary.
func (g GUID) String() string {
	return fmt.Sprintf("%08X%08X%08X%08X", g.A, g.B, g.C, g.D)
}

func readGUID(r *wire.Reader) (GUID, error) {
	a, err := r.ReadUint32()
	if err != nil {
		return GUID{}, err
	}
	b, err := r.ReadUint32()
	if err != nil {
		return GUID{}, err
	}
	c, err := r.ReadUint32()
	if err != nil {
		return GUID{}, err
	}
	d, err := r.ReadUint32()
	if err != nil {
		return GUID{}, err
	}
	return GUID{A: a, B: b, C: c, D: d}, nil
}

func writeGUID(w *wire.Writer, g GUID) {
	w.WriteUint32(g.A)
	w.WriteUint32(g.B)
	w.WriteUint32(g.C)
	w.WriteUint32(g.D)
}
