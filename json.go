package manifestcodec

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// jsonChunkInfo mirrors ChunkInfo for marshaling: hashes/GUIDs render as
// hex/GUID strings rather than raw bytes.
type jsonChunkInfo struct {
	GUID             string `json:"guid"`
	Hash             uint64 `json:"hash,string"`
	SHA1             string `json:"sha1"`
	GroupNumber      uint8  `json:"groupNumber"`
	UncompressedSize uint32 `json:"uncompressedSize"`
	CompressedSize   int64  `json:"compressedSize"`
}

type jsonChunkPart struct {
	GUID       string `json:"guid"`
	Offset     uint32 `json:"offset"`
	Size       uint32 `json:"size"`
	FileOffset uint64 `json:"fileOffset,string"`
}

type jsonFileManifest struct {
	FileName      string          `json:"fileName"`
	SymlinkTarget string          `json:"symlinkTarget,omitempty"`
	SHA1          string          `json:"sha1"`
	Flags         uint8           `json:"flags"`
	InstallTags   []string        `json:"installTags"`
	ChunkParts    []jsonChunkPart `json:"chunkParts"`
	MD5           string          `json:"md5,omitempty"`
	MIMEType      *string         `json:"mimeType,omitempty"`
	SHA256        string          `json:"sha256,omitempty"`
	FileSize      uint64          `json:"fileSize,string"`
}

type jsonMeta struct {
	FeatureLevel        int32    `json:"featureLevel"`
	IsFileData          bool     `json:"isFileData"`
	AppID               uint32   `json:"appId"`
	AppName             string   `json:"appName"`
	BuildVersion        string   `json:"buildVersion"`
	LaunchExe           string   `json:"launchExe"`
	LaunchCommand       string   `json:"launchCommand"`
	PrereqIDs           []string `json:"prereqIds"`
	PrereqName          string   `json:"prereqName"`
	PrereqPath          string   `json:"prereqPath"`
	PrereqArgs          string   `json:"prereqArgs"`
	BuildID             *string  `json:"buildId,omitempty"`
	UninstallActionPath *string  `json:"uninstallActionPath,omitempty"`
	UninstallActionArgs *string  `json:"uninstallActionArgs,omitempty"`
}

type jsonHeader struct {
	DataSizeUncompressed uint32 `json:"dataSizeUncompressed"`
	DataSizeCompressed   uint32 `json:"dataSizeCompressed"`
	SHA1                 string `json:"sha1"`
	StoredAs             string `json:"storedAs"`
	Version              int32  `json:"version"`
}

type jsonManifest struct {
	Header       jsonHeader         `json:"header"`
	Meta         jsonMeta           `json:"meta"`
	ChunkList    []jsonChunkInfo    `json:"chunkList"`
	FileList     []jsonFileManifest `json:"fileList"`
	CustomFields map[string]string  `json:"customFields"`
}

// ToJSON renders an already-parsed Manifest into JSON: hashes and GUIDs as
// hex/concatenated-hex strings, not raw byte arrays.
func ToJSON(m *Manifest) ([]byte, error) {
	jm := jsonManifest{
		Header: jsonHeader{
			DataSizeUncompressed: m.Header.DataSizeUncompressed,
			DataSizeCompressed:   m.Header.DataSizeCompressed,
			SHA1:                 m.Header.SHA1.String(),
			StoredAs:             m.Header.StoredAs.String(),
			Version:              int32(m.Header.Version),
		},
		Meta: jsonMeta{
			FeatureLevel:        int32(m.Meta.FeatureLevel),
			IsFileData:          m.Meta.IsFileData,
			AppID:               m.Meta.AppID,
			AppName:             m.Meta.AppName,
			BuildVersion:        m.Meta.BuildVersion,
			LaunchExe:           m.Meta.LaunchExe,
			LaunchCommand:       m.Meta.LaunchCommand,
			PrereqIDs:           m.Meta.PrereqIDs,
			PrereqName:          m.Meta.PrereqName,
			PrereqPath:          m.Meta.PrereqPath,
			PrereqArgs:          m.Meta.PrereqArgs,
			BuildID:             m.Meta.BuildID,
			UninstallActionPath: m.Meta.UninstallActionPath,
			UninstallActionArgs: m.Meta.UninstallActionArgs,
		},
		CustomFields: m.CustomFields.Fields,
	}

	for _, c := range m.ChunkList.Chunks() {
		jm.ChunkList = append(jm.ChunkList, jsonChunkInfo{
			GUID:             c.GUID.String(),
			Hash:             c.Hash,
			SHA1:             c.SHA1.String(),
			GroupNumber:      c.GroupNumber,
			UncompressedSize: c.UncompressedSize,
			CompressedSize:   c.CompressedSize,
		})
	}

	for _, f := range m.FileList.Entries() {
		jf := jsonFileManifest{
			FileName:      f.FileName,
			SymlinkTarget: f.SymlinkTarget,
			SHA1:          f.SHA1.String(),
			Flags:         f.Flags,
			InstallTags:   f.InstallTags,
			MIMEType:      f.MIMEType,
			FileSize:      f.FileSize,
		}
		if f.MD5 != nil {
			jf.MD5 = f.MD5.String()
		}
		if f.SHA256 != nil {
			jf.SHA256 = f.SHA256.String()
		}
		for _, p := range f.ChunkParts {
			jf.ChunkParts = append(jf.ChunkParts, jsonChunkPart{
				GUID:       p.GUID.String(),
				Offset:     p.Offset,
				Size:       p.Size,
				FileOffset: p.FileOffset,
			})
		}
		jm.FileList = append(jm.FileList, jf)
	}

	return json.Marshal(jm)
}

// FromJSON is the inverse of ToJSON: it reconstructs a Manifest from the
// JSON wire shapes. Unlike Parse, it trusts the caller's data version
// fields implicitly (dataVersion is inferred from which optional members
// are present) rather than re-deriving them from a byte offset, since JSON
// carries no section framing to check against.
func FromJSON(data []byte) (*Manifest, error) {
	var jm jsonManifest
	if err := json.Unmarshal(data, &jm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	headerSHA1, err := parseSHA1Hex(jm.Header.SHA1)
	if err != nil {
		return nil, err
	}
	storedAs, err := storageFlagFromString(jm.Header.StoredAs)
	if err != nil {
		return nil, err
	}
	version, err := featureLevelFromInt32(jm.Header.Version)
	if err != nil {
		return nil, err
	}

	metaVersion := metaDataVersionFor(jm.Meta)
	meta := Meta{
		dataVersion:         metaVersion,
		FeatureLevel:        FeatureLevel(jm.Meta.FeatureLevel),
		IsFileData:          jm.Meta.IsFileData,
		AppID:               jm.Meta.AppID,
		AppName:             jm.Meta.AppName,
		BuildVersion:        jm.Meta.BuildVersion,
		LaunchExe:           jm.Meta.LaunchExe,
		LaunchCommand:       jm.Meta.LaunchCommand,
		PrereqIDs:           jm.Meta.PrereqIDs,
		PrereqName:          jm.Meta.PrereqName,
		PrereqPath:          jm.Meta.PrereqPath,
		PrereqArgs:          jm.Meta.PrereqArgs,
		BuildID:             jm.Meta.BuildID,
		UninstallActionPath: jm.Meta.UninstallActionPath,
		UninstallActionArgs: jm.Meta.UninstallActionArgs,
	}

	chunks := make([]ChunkInfo, 0, len(jm.ChunkList))
	for _, jc := range jm.ChunkList {
		guid, err := parseGUIDHex(jc.GUID)
		if err != nil {
			return nil, err
		}
		sha1, err := parseSHA1Hex(jc.SHA1)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, ChunkInfo{
			GUID:             guid,
			Hash:             jc.Hash,
			SHA1:             sha1,
			GroupNumber:      jc.GroupNumber,
			UncompressedSize: jc.UncompressedSize,
			CompressedSize:   jc.CompressedSize,
		})
	}
	// The chunk list's internal data version gates nothing observable from
	// JSON (every jsonChunkInfo column is always present), so it's not
	// recoverable from the JSON form; 0 is as good as any unobserved value.
	chunkList := newChunkList(0, chunks)

	entries := make([]FileManifest, 0, len(jm.FileList))
	for _, jf := range jm.FileList {
		sha1, err := parseSHA1Hex(jf.SHA1)
		if err != nil {
			return nil, err
		}
		f := FileManifest{
			FileName:      jf.FileName,
			SymlinkTarget: jf.SymlinkTarget,
			SHA1:          sha1,
			Flags:         jf.Flags,
			InstallTags:   jf.InstallTags,
			MIMEType:      jf.MIMEType,
		}
		if jf.MD5 != "" {
			md5, err := parseMD5Hex(jf.MD5)
			if err != nil {
				return nil, err
			}
			f.MD5 = &md5
		}
		if jf.SHA256 != "" {
			sha256, err := parseSHA256Hex(jf.SHA256)
			if err != nil {
				return nil, err
			}
			f.SHA256 = &sha256
		}

		// FileOffset and FileSize are derived, never trusted from the
		// caller: recompute them the same way parseFileList does, as a
		// running sum of chunk-part sizes.
		var fileOffset uint64
		for _, jp := range jf.ChunkParts {
			guid, err := parseGUIDHex(jp.GUID)
			if err != nil {
				return nil, err
			}
			f.ChunkParts = append(f.ChunkParts, ChunkPart{
				GUID:       guid,
				Offset:     jp.Offset,
				Size:       jp.Size,
				FileOffset: fileOffset,
			})
			fileOffset += uint64(jp.Size)
		}
		f.FileSize = fileOffset

		entries = append(entries, f)
	}
	fileList := FileList{dataVersion: fileListDataVersionFor(jm.FileList), entries: entries}

	return &Manifest{
		Header: Header{
			Magic:                ManifestMagic,
			DataSizeUncompressed: jm.Header.DataSizeUncompressed,
			DataSizeCompressed:   jm.Header.DataSizeCompressed,
			SHA1:                 headerSHA1,
			StoredAs:             storedAs,
			Version:              version,
		},
		Meta:         meta,
		ChunkList:    chunkList,
		FileList:     fileList,
		CustomFields: CustomFields{Fields: jm.CustomFields},
	}, nil
}

func metaDataVersionFor(jm jsonMeta) uint8 {
	if jm.UninstallActionPath != nil || jm.UninstallActionArgs != nil {
		return 2
	}
	if jm.BuildID != nil {
		return 1
	}
	return 0
}

func fileListDataVersionFor(entries []jsonFileManifest) uint8 {
	version := uint8(0)
	for _, e := range entries {
		if e.SHA256 != "" && version < 2 {
			version = 2
		}
		if (e.MD5 != "" || e.MIMEType != nil) && version < 1 {
			version = 1
		}
	}
	return version
}

func storageFlagFromString(s string) (StorageFlag, error) {
	switch s {
	case "Plain":
		return StoragePlain, nil
	case "Compressed":
		return StorageCompressed, nil
	case "Encrypted":
		return StorageEncrypted, nil
	default:
		return 0, ErrInvalidStorageFlag
	}
}

func parseGUIDHex(s string) (GUID, error) {
	if len(s) != 32 {
		return GUID{}, fmt.Errorf("%w: guid %q is not 32 hex digits", ErrInvalidDigest, s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return GUID{}, fmt.Errorf("%w: guid %q: %v", ErrInvalidDigest, s, err)
	}
	return GUID{
		A: beUint32(b[0:4]),
		B: beUint32(b[4:8]),
		C: beUint32(b[8:12]),
		D: beUint32(b[12:16]),
	}, nil
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func parseSHA1Hex(s string) (SHA1Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != sha1Size {
		return SHA1Hash{}, fmt.Errorf("%w: sha1 %q", ErrInvalidDigest, s)
	}
	var h SHA1Hash
	copy(h[:], b)
	return h, nil
}

func parseMD5Hex(s string) (MD5Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != md5Size {
		return MD5Hash{}, fmt.Errorf("%w: md5 %q", ErrInvalidDigest, s)
	}
	var h MD5Hash
	copy(h[:], b)
	return h, nil
}

func parseSHA256Hex(s string) (SHA256Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != sha256Size {
		return SHA256Hash{}, fmt.Errorf("%w: sha256 %q", ErrInvalidDigest, s)
	}
	var h SHA256Hash
	copy(h[:], b)
	return h, nil
}
