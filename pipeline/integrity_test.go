package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifierMatch(t *testing.T) {
	v := NewVerifier()
	payload := []byte("ENC cell payload")

	check := v.Check("US5WA50M", payload, SHA256Hex(payload))
	assert.True(t, check.Match)
	assert.Equal(t, "US5WA50M", check.ChartID)
	assert.Equal(t, check.ExpectedDigest, check.ComputedDigest)
}

func TestVerifierMismatch(t *testing.T) {
	v := NewVerifier()

	check := v.Check("US5WA50M", []byte("payload"), "deadbeef")
	assert.False(t, check.Match)
	assert.Equal(t, "deadbeef", check.ExpectedDigest)
	assert.NotEqual(t, check.ExpectedDigest, check.ComputedDigest)
}

func TestVerifierMatchEquivalence(t *testing.T) {
	// Match must hold exactly when expected == computed, byte for byte.
	v := NewVerifier()
	payload := []byte("chart bytes")
	computed := SHA256Hex(payload)

	for _, expected := range []string{computed, "abc123", "", computed + " "} {
		check := v.Check("A", payload, expected)
		assert.Equal(t, expected == computed, check.Match, "expected %q", expected)
	}
}

func TestVerifierDigestsAreCaseSensitive(t *testing.T) {
	v := NewVerifier()
	payload := []byte("chart bytes")
	upper := strings.ToUpper(SHA256Hex(payload))

	// Equal-but-differently-cased digests are distinct
	check := v.Check("A", payload, upper)
	assert.False(t, check.Match)
}

func TestVerifierCustomDigest(t *testing.T) {
	v := NewVerifierWithDigest(func(b []byte) string {
		return "constant"
	})

	check := v.Check("A", []byte("anything"), "constant")
	assert.True(t, check.Match)
}

func TestVerifierNilDigestFallsBack(t *testing.T) {
	v := NewVerifierWithDigest(nil)
	payload := []byte("payload")

	check := v.Check("A", payload, SHA256Hex(payload))
	assert.True(t, check.Match)
}

func TestSHA256Hex(t *testing.T) {
	// Known vector for the empty input
	require.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		SHA256Hex(nil))

	// Deterministic and lowercase
	d := SHA256Hex([]byte("US5WA50M"))
	assert.Equal(t, d, SHA256Hex([]byte("US5WA50M")))
	assert.Equal(t, strings.ToLower(d), d)
	assert.Len(t, d, 64)
}
