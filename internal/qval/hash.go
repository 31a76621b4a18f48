package qval

import (
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefix for content-addressed run record identity.
// Version suffix enables future algorithm migration.
const DomainRecord = "qflip/record/v1"

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash computes a content-addressed identity for a normalized Value.
// The hash is stable across runs given equal trees, since it is taken
// over the canonical serialization.
func Hash(v Value) (string, error) {
	data, err := MarshalCanonical(v)
	if err != nil {
		return "", err
	}
	return hashWithDomain(DomainRecord, data), nil
}
