package manifestcodec

import (
	"encoding/hex"

	"github.com/polynite/manifestcodec/internal/wire"
)

const (
	sha1Size   = 20
	md5Size    = 16
	sha256Size = 32
)

// SHA1Hash is a raw 20-byte SHA-1 digest (Unreal's FSHAHash).
type SHA1Hash [sha1Size]byte

// String renders the digest as lowercase hex, matching the JSON boundary format.
func (h SHA1Hash) String() string { return hex.EncodeToString(h[:]) }

// MD5Hash is a raw 16-byte MD5 digest.
type MD5Hash [md5Size]byte

func (h MD5Hash) String() string { return hex.EncodeToString(h[:]) }

// SHA256Hash is a raw 32-byte SHA-256 digest.
type SHA256Hash [sha256Size]byte

func (h SHA256Hash) String() string { return hex.EncodeToString(h[:]) }

func readSHA1(r *wire.Reader) (SHA1Hash, error) {
	b, err := r.ReadBytes(sha1Size)
	if err != nil {
		return SHA1Hash{}, err
	}
	var h SHA1Hash
	copy(h[:], b)
	return h, nil
}

func writeSHA1(w *wire.Writer, h SHA1Hash) {
	w.WriteBytes(h[:])
}

func readMD5(r *wire.Reader) (MD5Hash, error) {
	b, err := r.ReadBytes(md5Size)
	if err != nil {
		return MD5Hash{}, err
	}
	var h MD5Hash
	copy(h[:], b)
	return h, nil
}

func writeMD5(w *wire.Writer, h MD5Hash) {
	w.WriteBytes(h[:])
}

func readSHA256(r *wire.Reader) (SHA256Hash, error) {
	b, err := r.ReadBytes(sha256Size)
	if err != nil {
		return SHA256Hash{}, err
	}
	var h SHA256Hash
	copy(h[:], b)
	return h, nil
}

func writeSHA256(w *wire.Writer, h SHA256Hash) {
	w.WriteBytes(h[:])
}
