package document

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Digest returns the hex SHA3-256 hash of b.
func Digest(b []byte) string {
	sum := sha3.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Fingerprint hashes content with its generated regions removed.
func Fingerprint(content []byte) string {
	return Digest(StripRegions(content))
}
