package checksum

import (
	"crypto/md5" //nolint:gosec // archive digests are published as MD5
	"encoding/hex"
	"hash"
	"io"
	"os"
	"strings"
)

// MD5 returns the hex encoded MD5 digest of data.
func MD5(data []byte) string {
	sum := md5.Sum(data) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// New returns a streaming MD5 hash. Use Hex to render its digest.
func New() hash.Hash {
	return md5.New() //nolint:gosec
}

// Hex renders the digest of h as lower-case hex.
func Hex(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}

// Reader returns the hex encoded MD5 digest of everything read from r.
func Reader(r io.Reader) (string, error) {
	h := New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return Hex(h), nil
}

// File returns the hex encoded MD5 digest of the file at path.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return Reader(f)
}

// Equal compares two hex digests case-insensitively.
func Equal(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
