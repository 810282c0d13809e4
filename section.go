package manifestcodec

import "github.com/polynite/manifestcodec/internal/wire"

// writeFramedSection runs body against a scratch buffer to measure its
// length, then emits `size` (the scratch length plus the 4 bytes the size
// field itself occupies) followed by the scratch bytes. Every section in
// this format — meta, chunk list, file list, custom fields — is framed
// this way: measure, then emit, rather than reserve-and-back-patch.
func writeFramedSection(w *wire.Writer, body func(w *wire.Writer)) {
	scratch := wire.NewWriter()
	body(scratch)

	size := uint32(scratch.Tell() + 4)
	w.WriteUint32(size)
	w.WriteBytes(scratch.Bytes())
}
