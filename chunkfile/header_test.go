package chunkfile

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/polynite/manifestcodec/internal/wire"
	"github.com/stretchr/testify/require"
)

func writeHeader(t *testing.T, version Version, storedAs StorageFlag, payload []byte, uncompressedSize uint32) []byte {
	t.Helper()

	w := wire.NewWriter()
	w.WriteUint32(HeaderMagic)
	w.WriteInt32(int32(version))
	w.WriteUint32(0) // header size placeholder, patched below
	w.WriteUint32(uint32(len(payload)))
	w.WriteUint32(1) // GUID.A
	w.WriteUint32(2) // GUID.B
	w.WriteUint32(3) // GUID.C
	w.WriteUint32(4) // GUID.D
	w.WriteUint64(0xABCD)
	w.WriteUint8(uint8(storedAs))

	if version >= VersionStoresShaAndHashType {
		w.WriteBytes(make([]byte, 20))
		w.WriteUint8(uint8(HashSHA1))
	}
	if version >= VersionStoresDataSizeUncompressed {
		w.WriteUint32(uncompressedSize)
	}

	out := w.Bytes()
	headerSize := uint32(len(out))
	// patch header_size field (offset 8, 4 bytes LE)
	out[8] = byte(headerSize)
	out[9] = byte(headerSize >> 8)
	out[10] = byte(headerSize >> 16)
	out[11] = byte(headerSize >> 24)

	return append(out, payload...)
}

func TestParseHeaderV1Plain(t *testing.T) {
	data := writeHeader(t, VersionOriginal, StoragePlain, []byte("hello"), 5)

	r := bytes.NewReader(data)
	h, err := ParseHeader(r)
	require.NoError(t, err)
	require.Equal(t, HeaderMagic, h.Magic)
	require.Equal(t, VersionOriginal, h.Version)
	require.Equal(t, GUID{A: 1, B: 2, C: 3, D: 4}, h.GUID)

	payload, err := h.Payload(r)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), payload)
}

func TestParseHeaderV3WithCompressedPayload(t *testing.T) {
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	_, err := zw.Write([]byte("the quick brown fox"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	data := writeHeader(t, VersionStoresDataSizeUncompressed, StorageCompressed, compressed.Bytes(), uint32(len("the quick brown fox")))

	r := bytes.NewReader(data)
	h, err := ParseHeader(r)
	require.NoError(t, err)
	require.Equal(t, uint32(len("the quick brown fox")), h.DataSizeUncompressed)

	payload, err := h.Payload(r)
	require.NoError(t, err)
	require.Equal(t, "the quick brown fox", string(payload))
}

func TestParseHeaderRejectsBadMagic(t *testing.T) {
	data := writeHeader(t, VersionOriginal, StoragePlain, nil, 0)
	data[0] ^= 0xFF

	_, err := ParseHeader(bytes.NewReader(data))
	require.ErrorIs(t, err, ErrInvalidMagic)
}

func TestParseHeaderRejectsBadStorageFlag(t *testing.T) {
	data := writeHeader(t, VersionOriginal, StoragePlain, nil, 0)
	// storedAs byte sits right after the fixed prefix: magic(4)+version(4)+headerSize(4)+
	// dataSizeCompressed(4)+guid(16)+rollingHash(8) = 40
	data[40] = 0xFF

	_, err := ParseHeader(bytes.NewReader(data))
	require.ErrorIs(t, err, ErrInvalidStorageFlag)
}

func TestPayloadRejectsEncryptedStorage(t *testing.T) {
	h := Header{StoredAs: StorageEncrypted, DataSizeCompressed: 4}
	_, err := h.Payload(bytes.NewReader([]byte{1, 2, 3, 4}))
	require.ErrorIs(t, err, ErrInvalidStorageFlag)
}
