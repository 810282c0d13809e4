package manifestcodec

import (
	"fmt"

	"github.com/polynite/manifestcodec/internal/wire"
)

// ChunkPart is a self-framing slice of a chunk: offset and length within
// that chunk. FileOffset is derived — the running sum of prior parts'
// sizes within the owning file — and is recomputed on every parse, never
// stored on the wire.
type ChunkPart struct {
	GUID       GUID
	Offset     uint32
	Size       uint32
	FileOffset uint64
}

func parseChunkPart(r *wire.Reader, fileOffset uint64) (ChunkPart, error) {
	start := r.Tell()

	structSize, err := r.ReadUint32()
	if err != nil {
		return ChunkPart{}, fmt.Errorf("chunk part: struct size: %w", err)
	}
	guid, err := readGUID(r)
	if err != nil {
		return ChunkPart{}, fmt.Errorf("chunk part: guid: %w", err)
	}
	offset, err := r.ReadUint32()
	if err != nil {
		return ChunkPart{}, fmt.Errorf("chunk part: offset: %w", err)
	}
	size, err := r.ReadUint32()
	if err != nil {
		return ChunkPart{}, fmt.Errorf("chunk part: size: %w", err)
	}

	if end := start + int(structSize); r.Tell() != end {
		return ChunkPart{}, fmt.Errorf("chunk part: declared size %d, read to %d instead of %d: %w", structSize, r.Tell(), end, ErrSizeMismatch)
	}

	return ChunkPart{GUID: guid, Offset: offset, Size: size, FileOffset: fileOffset}, nil
}

func (p ChunkPart) write(w *wire.Writer) {
	writeFramedSection(w, func(w *wire.Writer) {
		writeGUID(w, p.GUID)
		w.WriteUint32(p.Offset)
		w.WriteUint32(p.Size)
	})
}
