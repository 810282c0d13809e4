package manifestcodec

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/polynite/manifestcodec/internal/wire"
)

// ManifestMagic is the four-byte magic every manifest envelope starts with.
const ManifestMagic uint32 = 0x44BEC00C

// Header is the fixed-size outer envelope: magic, declared sizes, the
// SHA-1 of the uncompressed payload, the storage flag, and the feature
// level. It carries no variable-length fields, so its on-wire size is
// always the same 41 bytes.
type Header struct {
	Magic                uint32
	HeaderSize           uint32
	DataSizeUncompressed uint32
	DataSizeCompressed   uint32
	SHA1                 SHA1Hash
	StoredAs             StorageFlag
	Version              FeatureLevel
}

func headerBody(w *wire.Writer, h Header) {
	w.WriteUint32(h.Magic)
	w.WriteUint32(h.HeaderSize)
	w.WriteUint32(h.DataSizeUncompressed)
	w.WriteUint32(h.DataSizeCompressed)
	writeSHA1(w, h.SHA1)
	w.WriteUint8(uint8(h.StoredAs))
	w.WriteInt32(int32(h.Version))
}

// parseHeader reads the envelope starting at offset 0 and returns the
// decoded header along with a fresh reader positioned at the start of the
// (already decompressed, hash-verified) inner payload.
func parseHeader(data []byte) (Header, *wire.Reader, error) {
	r := wire.NewReader(data)

	magic, err := r.ReadUint32()
	if err != nil {
		return Header{}, nil, fmt.Errorf("header: magic: %w", err)
	}
	if magic != ManifestMagic {
		return Header{}, nil, fmt.Errorf("header: magic %#x: %w", magic, ErrInvalidMagic)
	}

	headerSize, err := r.ReadUint32()
	if err != nil {
		return Header{}, nil, fmt.Errorf("header: header size: %w", err)
	}
	dataSizeUncompressed, err := r.ReadUint32()
	if err != nil {
		return Header{}, nil, fmt.Errorf("header: uncompressed size: %w", err)
	}
	dataSizeCompressed, err := r.ReadUint32()
	if err != nil {
		return Header{}, nil, fmt.Errorf("header: compressed size: %w", err)
	}
	shaHash, err := readSHA1(r)
	if err != nil {
		return Header{}, nil, fmt.Errorf("header: sha1: %w", err)
	}

	storedAsByte, err := r.ReadUint8()
	if err != nil {
		return Header{}, nil, fmt.Errorf("header: storage flag: %w", err)
	}
	storedAs, err := storageFlagFromByte(storedAsByte)
	if err != nil {
		return Header{}, nil, fmt.Errorf("header: storage flag %d: %w", storedAsByte, err)
	}
	if storedAs == StorageEncrypted {
		return Header{}, nil, fmt.Errorf("header: storage flag %d: %w", storedAsByte, ErrInvalidStorageFlag)
	}

	rawVersion, err := r.ReadInt32()
	if err != nil {
		return Header{}, nil, fmt.Errorf("header: feature level: %w", err)
	}
	version, err := featureLevelFromInt32(rawVersion)
	if err != nil {
		return Header{}, nil, fmt.Errorf("header: feature level %d: %w", rawVersion, err)
	}

	if r.Tell() != int(headerSize) {
		return Header{}, nil, fmt.Errorf("header: declared size %d, read to %d: %w", headerSize, r.Tell(), ErrOffsetMismatch)
	}

	payload := r.ReadRemaining()

	var uncompressed []byte
	if storedAs == StorageCompressed {
		decoder, err := zlib.NewReader(bytes.NewReader(payload))
		if err != nil {
			return Header{}, nil, fmt.Errorf("header: zlib init: %w: %v", ErrDecompressionError, err)
		}
		defer decoder.Close()

		buf, err := io.ReadAll(decoder)
		if err != nil {
			return Header{}, nil, fmt.Errorf("header: zlib inflate: %w: %v", ErrDecompressionError, err)
		}
		if len(buf) != int(dataSizeUncompressed) {
			return Header{}, nil, fmt.Errorf("header: inflated %d bytes, declared %d: %w", len(buf), dataSizeUncompressed, ErrDecompressionError)
		}
		uncompressed = buf
	} else {
		uncompressed = payload
	}

	sum := sha1.Sum(uncompressed)
	if SHA1Hash(sum) != shaHash {
		return Header{}, nil, fmt.Errorf("header: computed %s, declared %s: %w", SHA1Hash(sum), shaHash, ErrHashMismatch)
	}

	header := Header{
		Magic:                magic,
		HeaderSize:           headerSize,
		DataSizeUncompressed: dataSizeUncompressed,
		DataSizeCompressed:   dataSizeCompressed,
		SHA1:                 shaHash,
		StoredAs:             storedAs,
		Version:              version,
	}

	return header, wire.NewReader(uncompressed), nil
}

// writeEnvelope compresses (if requested) and frames uncompressedPayload
// behind a freshly computed header, returning the full manifest byte
// stream.
func writeEnvelope(storedAs StorageFlag, version FeatureLevel, uncompressedPayload []byte) ([]byte, error) {
	sum := sha1.Sum(uncompressedPayload)

	finalPayload := uncompressedPayload
	if storedAs == StorageCompressed {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(uncompressedPayload); err != nil {
			return nil, fmt.Errorf("header: zlib deflate: %w: %v", ErrDecompressionError, err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("header: zlib close: %w: %v", ErrDecompressionError, err)
		}
		finalPayload = buf.Bytes()
	}

	header := Header{
		Magic:                ManifestMagic,
		DataSizeUncompressed: uint32(len(uncompressedPayload)),
		DataSizeCompressed:   uint32(len(finalPayload)),
		SHA1:                 SHA1Hash(sum),
		StoredAs:             storedAs,
		Version:              version,
	}

	headerScratch := wire.NewWriter()
	headerBody(headerScratch, header)
	header.HeaderSize = uint32(headerScratch.Tell())

	out := wire.NewWriter()
	headerBody(out, header)
	out.WriteBytes(finalPayload)

	return out.Bytes(), nil
}
