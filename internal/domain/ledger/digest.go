package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// PrefixLen is how many hex characters Verify compares.
const PrefixLen = 16

// Digest is the hex sha256 of the concatenated parts.
func Digest(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ReferenceDigest is the chain hash of an entry: previous chain hash, payload reference
// and millisecond timestamp. It does not cover the payload body; ContentHash does.
func ReferenceDigest(prevHash, payloadRef string, ts time.Time) string {
	return Digest(prevHash, payloadRef, strconv.FormatInt(ts.UnixMilli(), 10))
}

func prefix(h string) string {
	if len(h) > PrefixLen {
		return h[:PrefixLen]
	}
	return h
}
