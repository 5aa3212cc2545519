package fingerprint

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Width is the number of hex characters kept from the digest. Changing it
// (or the digest) invalidates every hash stored in a registry or lock file.
const Width = 16

// Sum returns the fingerprint of data.
func Sum(data []byte) string {
	digest := blake3.Sum256(data)
	return hex.EncodeToString(digest[:])[:Width]
}

// File returns the fingerprint of the file at path.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return Reader(f)
}

// Reader returns the fingerprint of everything read from r. It produces the
// same value as Sum over the same bytes.
func Reader(r io.Reader) (string, error) {
	h := blake3.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("hashing content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil))[:Width], nil
}

// Valid reports whether s has the shape of a fingerprint.
func Valid(s string) bool {
	if len(s) != Width {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
