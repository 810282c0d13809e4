package manifestcodec

// ChunkInfo describes one content-addressed chunk referenced by the file
// list. Identity is the GUID; two ChunkInfo values with the same GUID are
// considered the same chunk regardless of the rest of their fields.
type ChunkInfo struct {
	GUID              GUID
	Hash              uint64 // rolling hash, opaque to this codec
	SHA1              SHA1Hash
	GroupNumber       uint8
	UncompressedSize  uint32
	CompressedSize    int64
}

// Equal reports whether two chunks share the same GUID.
func (c ChunkInfo) Equal(other ChunkInfo) bool {
	return c.GUID == other.GUID
}
