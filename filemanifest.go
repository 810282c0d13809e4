package manifestcodec

const (
	fileFlagReadOnly  uint8 = 1 << 0
	fileFlagCompressed uint8 = 1 << 1
	fileFlagExecutable uint8 = 1 << 2
)

// FileManifest describes one file of the build: its name, the chunk
// parts it's assembled from, and optional per-file digests gated by the
// file list's data version.
type FileManifest struct {
	FileName      string
	SymlinkTarget string
	SHA1          SHA1Hash
	Flags         uint8
	InstallTags   []string
	ChunkParts    []ChunkPart

	// MD5, MIMEType, and SHA256 are present only when the owning
	// FileList's data version is high enough to carry them (>= 1 for MD5
	// and MIMEType, >= 2 for SHA256).
	MD5      *MD5Hash
	MIMEType *string
	SHA256   *SHA256Hash

	// FileSize is derived: the sum of every ChunkPart's Size. Never
	// stored on the wire, always recomputed on parse.
	FileSize uint64
}

func (f FileManifest) ReadOnly() bool   { return f.Flags&fileFlagReadOnly != 0 }
func (f FileManifest) Compressed() bool { return f.Flags&fileFlagCompressed != 0 }
func (f FileManifest) Executable() bool { return f.Flags&fileFlagExecutable != 0 }
