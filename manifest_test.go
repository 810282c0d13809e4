package manifestcodec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func emptyManifest() *Manifest {
	return &Manifest{
		Header: Header{
			StoredAs: StoragePlain,
			Version:  FeatureLevelLatest,
		},
		Meta: Meta{
			dataVersion:   2,
			FeatureLevel:  FeatureLevelLatest,
			AppName:       "TestApp",
			BuildVersion:  "1.0.0",
			LaunchExe:     "TestApp.exe",
			LaunchCommand: "",
			PrereqIDs:     []string{},
		},
		ChunkList:    newChunkList(0, nil),
		FileList:     FileList{dataVersion: 0, entries: nil},
		CustomFields: CustomFields{Fields: map[string]string{}},
	}
}

func TestParseSerializeEmptyManifestRoundTrip(t *testing.T) {
	m := emptyManifest()

	data, err := m.Serialize()
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)

	require.Equal(t, m.Meta.AppName, parsed.Meta.AppName)
	require.Equal(t, m.Meta.BuildVersion, parsed.Meta.BuildVersion)
	require.Equal(t, m.Meta.FeatureLevel, parsed.Meta.FeatureLevel)
	require.Empty(t, parsed.ChunkList.Chunks())
	require.Empty(t, parsed.FileList.Entries())
	require.Equal(t, StoragePlain, parsed.Header.StoredAs)
}

func TestSerializeEmptyManifestHeaderSize(t *testing.T) {
	m := emptyManifest()

	data, err := m.Serialize()
	require.NoError(t, err)

	header, _, err := parseHeader(data)
	require.NoError(t, err)
	require.Equal(t, uint32(41), header.HeaderSize)
}

func TestParseSerializeCompressedManifestRoundTrip(t *testing.T) {
	m := emptyManifest()
	m.Header.StoredAs = StorageCompressed
	m.Meta.AppName = "CompressedApp"

	data, err := m.Serialize()
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, StorageCompressed, parsed.Header.StoredAs)
	require.Equal(t, "CompressedApp", parsed.Meta.AppName)
}

func TestParseRejectsBadMagic(t *testing.T) {
	m := emptyManifest()
	data, err := m.Serialize()
	require.NoError(t, err)

	data[0] ^= 0xFF

	_, err = Parse(data)
	require.ErrorIs(t, err, ErrInvalidMagic)
}

func TestParseRejectsCorruptedCompressedPayload(t *testing.T) {
	m := emptyManifest()
	m.Header.StoredAs = StorageCompressed

	data, err := m.Serialize()
	require.NoError(t, err)

	// Flip a byte well past the header, inside the compressed payload.
	data[len(data)-1] ^= 0xFF

	_, err = Parse(data)
	require.Error(t, err)
}

func TestParseRejectsEncryptedStorageFlag(t *testing.T) {
	m := emptyManifest()
	data, err := m.Serialize()
	require.NoError(t, err)

	header, _, err := parseHeader(data)
	require.NoError(t, err)

	storedAsOffset := 4 + 4 + 4 + 4 + sha1Size
	data[storedAsOffset] = uint8(StorageEncrypted)

	// Re-sign the SHA-1 doesn't matter here: storage flag is checked before hashing.
	_ = header

	_, err = Parse(data)
	require.ErrorIs(t, err, ErrInvalidStorageFlag)
}

func TestManifestWithChunksAndFilesRoundTrip(t *testing.T) {
	m := emptyManifest()

	chunkGUID := GUID{A: 1, B: 2, C: 3, D: 4}
	m.ChunkList = newChunkList(0, []ChunkInfo{
		{GUID: chunkGUID, Hash: 0xAABBCCDD, GroupNumber: 1, UncompressedSize: 1024, CompressedSize: 512},
	})

	m.FileList = FileList{
		dataVersion: 2,
		entries: []FileManifest{
			{
				FileName:    "héllo.txt",
				Flags:       fileFlagReadOnly,
				InstallTags: []string{"core"},
				ChunkParts: []ChunkPart{
					{GUID: chunkGUID, Offset: 0, Size: 512},
					{GUID: chunkGUID, Offset: 512, Size: 512},
				},
			},
		},
	}

	data, err := m.Serialize()
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)

	require.Len(t, parsed.ChunkList.Chunks(), 1)
	chunk, ok := parsed.ChunkList.FindByGUID(chunkGUID)
	require.True(t, ok)
	require.Equal(t, uint32(1024), chunk.UncompressedSize)

	require.Len(t, parsed.FileList.Entries(), 1)
	file := parsed.FileList.Entries()[0]
	require.Equal(t, "héllo.txt", file.FileName)
	require.True(t, file.ReadOnly())
	require.Equal(t, uint64(1024), file.FileSize)
	require.Len(t, file.ChunkParts, 2)
	require.Equal(t, uint64(0), file.ChunkParts[0].FileOffset)
	require.Equal(t, uint64(512), file.ChunkParts[1].FileOffset)
}

func TestCustomFieldsRoundTrip(t *testing.T) {
	m := emptyManifest()
	m.CustomFields = CustomFields{Fields: map[string]string{"BuildRegion": "NA", "Flavor": "Beta"}}

	data, err := m.Serialize()
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, "NA", parsed.CustomFields.Fields["BuildRegion"])
	require.Equal(t, "Beta", parsed.CustomFields.Fields["Flavor"])
}

func TestToJSONRendersGUIDAndHashHex(t *testing.T) {
	m := emptyManifest()
	m.ChunkList = newChunkList(0, []ChunkInfo{
		{GUID: GUID{A: 0x11111111, B: 0x22222222, C: 0x33333333, D: 0x44444444}, SHA1: SHA1Hash{0xDE, 0xAD}},
	})

	data, err := ToJSON(m)
	require.NoError(t, err)
	require.Contains(t, string(data), `"guid":"11111111222222223333333344444444"`)
	require.Contains(t, string(data), `"sha1":"dead`+strings.Repeat("0", 36)+`"`)
}

func TestFromJSONRoundTripsThroughToJSON(t *testing.T) {
	m := emptyManifest()
	chunkGUID := GUID{A: 9, B: 8, C: 7, D: 6}
	m.ChunkList = newChunkList(0, []ChunkInfo{{GUID: chunkGUID, Hash: 42, UncompressedSize: 10, CompressedSize: 5}})
	m.FileList = FileList{entries: []FileManifest{{FileName: "a.txt", ChunkParts: []ChunkPart{{GUID: chunkGUID, Size: 10}}, FileSize: 10}}}

	data, err := ToJSON(m)
	require.NoError(t, err)

	parsed, err := FromJSON(data)
	require.NoError(t, err)

	require.Equal(t, m.Meta.AppName, parsed.Meta.AppName)
	chunks := parsed.ChunkList.Chunks()
	require.Len(t, chunks, 1)
	require.Equal(t, chunkGUID, chunks[0].GUID)
	require.Len(t, parsed.FileList.Entries(), 1)
	require.Equal(t, "a.txt", parsed.FileList.Entries()[0].FileName)
}
