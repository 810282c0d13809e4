// Package chunkfile parses the per-chunk data file header used to frame
// individual compressed chunk payloads on disk, independently of the
// build manifest that references them.
package chunkfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/polynite/manifestcodec/internal/wire"
)

// Sentinel errors. Kept distinct from the root manifestcodec package's
// sentinels since a chunk-data file header is parsed independently of any
// manifest and callers of this package don't otherwise import that package.
var (
	ErrInvalidMagic       = errors.New("chunkfile: invalid magic")
	ErrInvalidData        = errors.New("chunkfile: invalid data")
	ErrSizeMismatch       = errors.New("chunkfile: header size mismatch")
	ErrInvalidStorageFlag = errors.New("chunkfile: invalid storage flag")
	ErrDecompressionError = errors.New("chunkfile: decompression failed")
)

// HeaderMagic is the four-byte magic every chunk data file starts with.
const HeaderMagic uint32 = 0xB1FE3AA2

// Version is the chunk header's own wire-compatibility tag (EChunkVersion),
// gating which optional fields follow the fixed prefix.
type Version int32

const (
	VersionInvalid                    Version = 0
	VersionOriginal                   Version = 1
	VersionStoresShaAndHashType        Version = 2
	VersionStoresDataSizeUncompressed Version = 3

	// VersionLatestPlusOne sits one past the newest real version so Latest
	// can be defined relative to it without a second hand-maintained
	// constant.
	VersionLatestPlusOne Version = 4
	VersionLatest                = VersionLatestPlusOne - 1
)

// StorageFlag describes how the payload bytes following the header are
// stored (EChunkStorageFlags).
type StorageFlag uint8

const (
	StoragePlain      StorageFlag = 0
	StorageCompressed StorageFlag = 1
	StorageEncrypted  StorageFlag = 2
)

// HashFlag records which of the rolling hash / SHA-1 fields are populated
// (EChunkHashFlags). Payload never consults it; it exists purely as
// metadata for callers deciding which hash to verify against.
type HashFlag uint8

const (
	HashNone          HashFlag = 0
	HashRollingPoly64 HashFlag = 1
	HashSHA1          HashFlag = 2
	HashBoth          HashFlag = 3
)

// GUID is the chunk's four-limb identifier, laid out identically to the
// manifest codec's GUID: four little-endian uint32 limbs.
type GUID struct {
	A, B, C, D uint32
}

func (g GUID) String() string {
	return fmt.Sprintf("%08X%08X%08X%08X", g.A, g.B, g.C, g.D)
}

// Header is the fixed-then-optional-tail record at the start of a chunk
// data file. Unlike the build manifest's sections, it has no column-major
// layout — it is a single record, not a collection.
type Header struct {
	Magic              uint32
	Version            Version
	HeaderSize         uint32
	DataSizeCompressed uint32
	GUID               GUID
	RollingHash        uint64
	StoredAs           StorageFlag

	// SHA1 and HashType are populated only when Version >= VersionStoresShaAndHashType.
	SHA1     [20]byte
	HashType HashFlag

	// DataSizeUncompressed is populated only when Version >= VersionStoresDataSizeUncompressed.
	DataSizeUncompressed uint32
}

// ParseHeader reads a chunk data file header from the start of r. r is
// left positioned at the start of the (still possibly compressed)
// payload; use Header.Payload to read and decode it.
func ParseHeader(r io.ReadSeeker) (Header, error) {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return Header{}, fmt.Errorf("chunkfile: header: seek start: %w", err)
	}

	// The header has no outer framing of its own — read it directly with
	// a wire.Reader over a buffered prefix, then seek r to where the
	// header actually ended once header_size is known. 128 bytes comfortably
	// covers every defined version (the largest, v3, is 66 bytes).
	prefix := make([]byte, 128)
	n, err := io.ReadFull(r, prefix)
	if err != nil && err != io.ErrUnexpectedEOF {
		return Header{}, fmt.Errorf("chunkfile: header: read prefix: %w", err)
	}
	cur := wire.NewReader(prefix[:n])

	magic, err := cur.ReadUint32()
	if err != nil {
		return Header{}, fmt.Errorf("chunkfile: header: magic: %w", err)
	}
	if magic != HeaderMagic {
		return Header{}, fmt.Errorf("chunkfile: header: magic %#x: %w", magic, ErrInvalidMagic)
	}

	rawVersion, err := cur.ReadInt32()
	if err != nil {
		return Header{}, fmt.Errorf("chunkfile: header: version: %w", err)
	}
	version := Version(rawVersion)

	headerSize, err := cur.ReadUint32()
	if err != nil {
		return Header{}, fmt.Errorf("chunkfile: header: header size: %w", err)
	}
	dataSizeCompressed, err := cur.ReadUint32()
	if err != nil {
		return Header{}, fmt.Errorf("chunkfile: header: compressed size: %w", err)
	}

	a, err := cur.ReadUint32()
	if err != nil {
		return Header{}, fmt.Errorf("chunkfile: header: guid.a: %w", err)
	}
	b, err := cur.ReadUint32()
	if err != nil {
		return Header{}, fmt.Errorf("chunkfile: header: guid.b: %w", err)
	}
	c, err := cur.ReadUint32()
	if err != nil {
		return Header{}, fmt.Errorf("chunkfile: header: guid.c: %w", err)
	}
	d, err := cur.ReadUint32()
	if err != nil {
		return Header{}, fmt.Errorf("chunkfile: header: guid.d: %w", err)
	}

	rollingHash, err := cur.ReadUint64()
	if err != nil {
		return Header{}, fmt.Errorf("chunkfile: header: rolling hash: %w", err)
	}

	storedAsByte, err := cur.ReadUint8()
	if err != nil {
		return Header{}, fmt.Errorf("chunkfile: header: storage flag: %w", err)
	}
	if storedAsByte > uint8(StorageEncrypted) {
		return Header{}, fmt.Errorf("chunkfile: header: storage flag %d: %w", storedAsByte, ErrInvalidStorageFlag)
	}

	h := Header{
		Magic:              magic,
		Version:            version,
		HeaderSize:         headerSize,
		DataSizeCompressed: dataSizeCompressed,
		GUID:               GUID{A: a, B: b, C: c, D: d},
		RollingHash:        rollingHash,
		StoredAs:           StorageFlag(storedAsByte),
	}

	if version >= VersionStoresShaAndHashType {
		sha, err := cur.ReadBytes(20)
		if err != nil {
			return Header{}, fmt.Errorf("chunkfile: header: sha1: %w", err)
		}
		copy(h.SHA1[:], sha)

		hashType, err := cur.ReadUint8()
		if err != nil {
			return Header{}, fmt.Errorf("chunkfile: header: hash type: %w", err)
		}
		h.HashType = HashFlag(hashType)
	}

	if version >= VersionStoresDataSizeUncompressed {
		size, err := cur.ReadUint32()
		if err != nil {
			return Header{}, fmt.Errorf("chunkfile: header: uncompressed size: %w", err)
		}
		h.DataSizeUncompressed = size
	}

	if end := int(headerSize); cur.Tell() != end {
		return Header{}, fmt.Errorf("chunkfile: header: declared size %d, read to %d: %w", headerSize, cur.Tell(), ErrSizeMismatch)
	}

	if _, err := r.Seek(start+int64(headerSize), io.SeekStart); err != nil {
		return Header{}, fmt.Errorf("chunkfile: header: seek past header: %w", err)
	}

	return h, nil
}

// Payload reads and decodes the chunk's data from r, which must be
// positioned immediately after the header (as ParseHeader leaves it). A
// Plain-stored chunk is returned verbatim; a Compressed one is
// zlib-inflated. Encrypted chunks are not supported.
func (h Header) Payload(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, int64(h.DataSizeCompressed)))
	if err != nil {
		return nil, fmt.Errorf("chunkfile: payload: read: %w", err)
	}

	switch h.StoredAs {
	case StoragePlain:
		return raw, nil
	case StorageCompressed:
		decoder, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("chunkfile: payload: zlib init: %w: %v", ErrDecompressionError, err)
		}
		defer decoder.Close()

		out, err := io.ReadAll(decoder)
		if err != nil {
			return nil, fmt.Errorf("chunkfile: payload: zlib inflate: %w: %v", ErrDecompressionError, err)
		}
		if h.Version >= VersionStoresDataSizeUncompressed && uint32(len(out)) != h.DataSizeUncompressed {
			return nil, fmt.Errorf("chunkfile: payload: inflated %d bytes, declared %d: %w", len(out), h.DataSizeUncompressed, ErrDecompressionError)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("chunkfile: payload: storage flag %d: %w", h.StoredAs, ErrInvalidStorageFlag)
	}
}
