package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
)

// IntegrityCheck is the verdict of one verification step. It lives only long
// enough to produce the integrity_check event and, on mismatch, the
// resulting LoadError.
type IntegrityCheck struct {
	ChartID        string
	ExpectedDigest string
	ComputedDigest string
	Match          bool
}

// DigestFunc fingerprints a byte payload. Must be deterministic.
type DigestFunc func([]byte) string

// SHA256Hex returns the lowercase hex SHA-256 digest of b.
func SHA256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Verifier compares a payload's computed digest against the expected one.
// Digests are compared byte-for-byte; no case folding or normalization.
type Verifier struct {
	digest DigestFunc
}

// NewVerifier returns a Verifier using SHA-256 hex digests.
func NewVerifier() *Verifier {
	return &Verifier{digest: SHA256Hex}
}

// NewVerifierWithDigest returns a Verifier using a custom digest function.
func NewVerifierWithDigest(fn DigestFunc) *Verifier {
	if fn == nil {
		fn = SHA256Hex
	}
	return &Verifier{digest: fn}
}

// Check computes the payload digest and compares it to expected.
func (v *Verifier) Check(chartID string, payload []byte, expected string) IntegrityCheck {
	computed := v.digest(payload)
	return IntegrityCheck{
		ChartID:        chartID,
		ExpectedDigest: expected,
		ComputedDigest: computed,
		Match:          expected == computed,
	}
}
