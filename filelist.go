package manifestcodec

import (
	"fmt"

	"github.com/polynite/manifestcodec/internal/wire"
)

// FileList is the field-major table of every file in the build: four
// always-present columns (filename, symlink target, SHA-1, flags),
// followed by per-entry install tags and chunk parts, then version-gated
// per-entry MD5/MIME (>= 1) and SHA-256 (>= 2).
type FileList struct {
	dataVersion uint8

	entries []FileManifest
}

// Entries returns every file entry, in wire order.
func (l FileList) Entries() []FileManifest {
	return l.entries
}

func parseFileList(r *wire.Reader) (FileList, error) {
	start := r.Tell()

	size, err := r.ReadUint32()
	if err != nil {
		return FileList{}, fmt.Errorf("file list: size: %w", err)
	}
	version, err := r.ReadUint8()
	if err != nil {
		return FileList{}, fmt.Errorf("file list: data version: %w", err)
	}
	count, err := r.ReadUint32()
	if err != nil {
		return FileList{}, fmt.Errorf("file list: count: %w", err)
	}

	entries := make([]FileManifest, count)

	for i := range entries {
		s, err := r.ReadString()
		if err != nil {
			return FileList{}, fmt.Errorf("file list: file name column, entry %d: %w", i, err)
		}
		entries[i].FileName = s
	}

	for i := range entries {
		s, err := r.ReadString()
		if err != nil {
			return FileList{}, fmt.Errorf("file list: symlink target column, entry %d: %w", i, err)
		}
		entries[i].SymlinkTarget = s
	}

	for i := range entries {
		sha, err := readSHA1(r)
		if err != nil {
			return FileList{}, fmt.Errorf("file list: sha1 column, entry %d: %w", i, err)
		}
		entries[i].SHA1 = sha
	}

	for i := range entries {
		flags, err := r.ReadUint8()
		if err != nil {
			return FileList{}, fmt.Errorf("file list: flags column, entry %d: %w", i, err)
		}
		entries[i].Flags = flags
	}

	for i := range entries {
		tags, err := wire.ReadArray(r, func(r *wire.Reader) (string, error) {
			return r.ReadString()
		})
		if err != nil {
			return FileList{}, fmt.Errorf("file list: install tags, entry %d: %w", i, err)
		}
		entries[i].InstallTags = tags
	}

	for i := range entries {
		partCount, err := r.ReadUint32()
		if err != nil {
			return FileList{}, fmt.Errorf("file list: chunk part count, entry %d: %w", i, err)
		}

		parts := make([]ChunkPart, 0, partCount)
		var fileOffset uint64
		for j := uint32(0); j < partCount; j++ {
			part, err := parseChunkPart(r, fileOffset)
			if err != nil {
				return FileList{}, fmt.Errorf("file list: chunk part %d, entry %d: %w", j, i, err)
			}
			fileOffset += uint64(part.Size)
			parts = append(parts, part)
		}
		entries[i].ChunkParts = parts
	}

	if version >= 1 {
		for i := range entries {
			hasMD5, err := r.ReadUint32()
			if err != nil {
				return FileList{}, fmt.Errorf("file list: has-md5 column, entry %d: %w", i, err)
			}
			if hasMD5 != 0 {
				md5, err := readMD5(r)
				if err != nil {
					return FileList{}, fmt.Errorf("file list: md5 column, entry %d: %w", i, err)
				}
				entries[i].MD5 = &md5
			}
		}

		for i := range entries {
			mime, err := r.ReadString()
			if err != nil {
				return FileList{}, fmt.Errorf("file list: mime type column, entry %d: %w", i, err)
			}
			entries[i].MIMEType = &mime
		}
	}

	if version >= 2 {
		for i := range entries {
			sha256, err := readSHA256(r)
			if err != nil {
				return FileList{}, fmt.Errorf("file list: sha256 column, entry %d: %w", i, err)
			}
			entries[i].SHA256 = &sha256
		}
	}

	for i := range entries {
		var size uint64
		for _, part := range entries[i].ChunkParts {
			size += uint64(part.Size)
		}
		entries[i].FileSize = size
	}

	if end := start + int(size); r.Tell() != end {
		return FileList{}, fmt.Errorf("file list: declared size %d, read to %d instead of %d: %w", size, r.Tell(), end, ErrInvalidData)
	}

	return FileList{dataVersion: version, entries: entries}, nil
}

func (l FileList) write(w *wire.Writer) {
	writeFramedSection(w, func(w *wire.Writer) {
		w.WriteUint8(l.dataVersion)
		w.WriteUint32(uint32(len(l.entries)))

		for _, e := range l.entries {
			w.WriteString(e.FileName)
		}
		for _, e := range l.entries {
			w.WriteString(e.SymlinkTarget)
		}
		for _, e := range l.entries {
			writeSHA1(w, e.SHA1)
		}
		for _, e := range l.entries {
			w.WriteUint8(e.Flags)
		}
		for _, e := range l.entries {
			wire.WriteArray(w, e.InstallTags, func(w *wire.Writer, s string) { w.WriteString(s) })
		}
		for _, e := range l.entries {
			w.WriteUint32(uint32(len(e.ChunkParts)))
			for _, part := range e.ChunkParts {
				part.write(w)
			}
		}

		if l.dataVersion >= 1 {
			for _, e := range l.entries {
				if e.MD5 != nil {
					w.WriteUint32(1)
					writeMD5(w, *e.MD5)
				} else {
					w.WriteUint32(0)
				}
			}
			for _, e := range l.entries {
				w.WriteString(stringOrEmpty(e.MIMEType))
			}
		}

		if l.dataVersion >= 2 {
			for _, e := range l.entries {
				if e.SHA256 != nil {
					writeSHA256(w, *e.SHA256)
				} else {
					writeSHA256(w, SHA256Hash{})
				}
			}
		}
	})
}
