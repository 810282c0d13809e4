package manifestcodec

import (
	"fmt"

	"github.com/polynite/manifestcodec/internal/wire"
)

// ChunkList is the field-major (struct-of-arrays) table of every chunk
// referenced by the build. Each attribute — GUID, rolling hash, SHA-1,
// group number, uncompressed size, compressed size — is written as one
// contiguous column before moving to the next, in that normative order.
type ChunkList struct {
	dataVersion uint8

	chunks []ChunkInfo
	byGUID map[GUID]int
}

// Chunks returns every chunk in the list, in wire order.
func (l ChunkList) Chunks() []ChunkInfo {
	return l.chunks
}

// FindByGUID looks up a chunk by its GUID. Spec invariant 4 notes that a
// ChunkPart's GUID is not required to appear in the ChunkList — this
// accessor simply returns ok=false when it doesn't.
func (l ChunkList) FindByGUID(guid GUID) (ChunkInfo, bool) {
	idx, ok := l.byGUID[guid]
	if !ok {
		return ChunkInfo{}, false
	}
	return l.chunks[idx], true
}

func newChunkList(dataVersion uint8, chunks []ChunkInfo) ChunkList {
	l := ChunkList{dataVersion: dataVersion, chunks: chunks, byGUID: make(map[GUID]int, len(chunks))}
	for i, c := range chunks {
		l.byGUID[c.GUID] = i
	}
	return l
}

func parseChunkList(r *wire.Reader) (ChunkList, error) {
	start := r.Tell()

	size, err := r.ReadUint32()
	if err != nil {
		return ChunkList{}, fmt.Errorf("chunk list: size: %w", err)
	}
	version, err := r.ReadUint8()
	if err != nil {
		return ChunkList{}, fmt.Errorf("chunk list: data version: %w", err)
	}
	count, err := r.ReadUint32()
	if err != nil {
		return ChunkList{}, fmt.Errorf("chunk list: count: %w", err)
	}

	chunks := make([]ChunkInfo, count)

	for i := range chunks {
		g, err := readGUID(r)
		if err != nil {
			return ChunkList{}, fmt.Errorf("chunk list: guid column, entry %d: %w", i, err)
		}
		chunks[i].GUID = g
	}

	for i := range chunks {
		h, err := r.ReadUint64()
		if err != nil {
			return ChunkList{}, fmt.Errorf("chunk list: hash column, entry %d: %w", i, err)
		}
		chunks[i].Hash = h
	}

	for i := range chunks {
		sha, err := readSHA1(r)
		if err != nil {
			return ChunkList{}, fmt.Errorf("chunk list: sha1 column, entry %d: %w", i, err)
		}
		chunks[i].SHA1 = sha
	}

	for i := range chunks {
		g, err := r.ReadUint8()
		if err != nil {
			return ChunkList{}, fmt.Errorf("chunk list: group number column, entry %d: %w", i, err)
		}
		chunks[i].GroupNumber = g
	}

	for i := range chunks {
		u, err := r.ReadUint32()
		if err != nil {
			return ChunkList{}, fmt.Errorf("chunk list: uncompressed size column, entry %d: %w", i, err)
		}
		chunks[i].UncompressedSize = u
	}

	for i := range chunks {
		c, err := r.ReadInt64()
		if err != nil {
			return ChunkList{}, fmt.Errorf("chunk list: compressed size column, entry %d: %w", i, err)
		}
		chunks[i].CompressedSize = c
	}

	if end := start + int(size); r.Tell() != end {
		return ChunkList{}, fmt.Errorf("chunk list: declared size %d, read to %d instead of %d: %w", size, r.Tell(), end, ErrInvalidData)
	}

	return newChunkList(version, chunks), nil
}

func (l ChunkList) write(w *wire.Writer) {
	writeFramedSection(w, func(w *wire.Writer) {
		w.WriteUint8(l.dataVersion)
		w.WriteUint32(uint32(len(l.chunks)))

		for _, c := range l.chunks {
			writeGUID(w, c.GUID)
		}
		for _, c := range l.chunks {
			w.WriteUint64(c.Hash)
		}
		for _, c := range l.chunks {
			writeSHA1(w, c.SHA1)
		}
		for _, c := range l.chunks {
			w.WriteUint8(c.GroupNumber)
		}
		for _, c := range l.chunks {
			w.WriteUint32(c.UncompressedSize)
		}
		for _, c := range l.chunks {
			w.WriteInt64(c.CompressedSize)
		}
	})
}
