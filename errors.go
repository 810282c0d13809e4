package manifestcodec

import (
	"errors"

	"github.com/polynite/manifestcodec/internal/wire"
)

// Sentinel errors forming the codec's closed error taxonomy. Every failure
// returned by Parse or Serialize wraps exactly one of these and can be
// matched with errors.Is.
var (
	// ErrOverflow is returned when a read runs past the end of the buffer.
	ErrOverflow = wire.ErrOverflow

	// ErrInvalidMagic is returned when an envelope or chunk-file magic
	// number does not match the expected constant.
	ErrInvalidMagic = errors.New("manifestcodec: invalid magic")

	// ErrInvalidData is returned for malformed UTF-8/UTF-16, an
	// out-of-range enum value, or a meta, chunk list or file list section
	// whose cursor does not land on start+size after reading.
	ErrInvalidData = wire.ErrInvalidData

	// ErrInvalidDigest is returned for a malformed hex digest at the JSON boundary.
	ErrInvalidDigest = errors.New("manifestcodec: invalid digest")

	// ErrInvalidStorageFlag is returned for a storage byte outside
	// {Plain, Compressed, Encrypted}, or equal to Encrypted where this
	// codec requires Plain or Compressed.
	ErrInvalidStorageFlag = errors.New("manifestcodec: invalid storage flag")

	// ErrOffsetMismatch is returned when the declared header size differs
	// from the cursor position after parsing the header.
	ErrOffsetMismatch = errors.New("manifestcodec: header offset mismatch")

	// ErrDecompressionError is returned when zlib inflate fails or yields
	// a length other than the declared uncompressed size.
	ErrDecompressionError = errors.New("manifestcodec: decompression failed")

	// ErrHashMismatch is returned when the recomputed SHA-1 does not
	// match the one stored in the header.
	ErrHashMismatch = errors.New("manifestcodec: hash mismatch")

	// ErrSizeMismatch is returned when a chunk part record's or the custom
	// fields section's declared size does not match the number of bytes
	// actually consumed.
	ErrSizeMismatch = errors.New("manifestcodec: size mismatch")
)
