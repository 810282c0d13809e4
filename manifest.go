// Package manifestcodec parses and serializes Unreal-Engine-style binary
// build manifests: a magic-prefixed, optionally zlib-compressed,
// SHA-1-checked envelope wrapping four column-oriented sections (meta,
// chunk list, file list, custom fields).
package manifestcodec

import "github.com/polynite/manifestcodec/internal/wire"

// Manifest is the fully parsed in-memory model of a build manifest.
type Manifest struct {
	Header       Header
	Meta         Meta
	ChunkList    ChunkList
	FileList     FileList
	CustomFields CustomFields
}

// Parse decodes a complete manifest byte stream: envelope, decompression,
// SHA-1 verification, then the four inner sections in order (meta, chunk
// list, file list, custom fields).
func Parse(data []byte) (*Manifest, error) {
	header, r, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	meta, err := parseMeta(r)
	if err != nil {
		return nil, err
	}

	chunkList, err := parseChunkList(r)
	if err != nil {
		return nil, err
	}

	fileList, err := parseFileList(r)
	if err != nil {
		return nil, err
	}

	customFields, err := parseCustomFields(r)
	if err != nil {
		return nil, err
	}

	return &Manifest{
		Header:       header,
		Meta:         meta,
		ChunkList:    chunkList,
		FileList:     fileList,
		CustomFields: customFields,
	}, nil
}

// Serialize is the inverse of Parse: it writes the four inner sections
// into a scratch buffer, SHA-1s it, optionally zlib-compresses it (the
// storage flag and feature level are preserved from m.Header), and frames
// the result behind a freshly computed header.
func (m *Manifest) Serialize() ([]byte, error) {
	payload := wire.NewWriter()
	m.Meta.write(payload)
	m.ChunkList.write(payload)
	m.FileList.write(payload)
	m.CustomFields.write(payload)

	return writeEnvelope(m.Header.StoredAs, m.Header.Version, payload.Bytes())
}
