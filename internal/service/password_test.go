package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundtrip(t *testing.T) {
	for _, plain := range []string{"CorrectHorse1", "p", "über-sécret-パスワード", "  spaces  "} {
		digest, err := hashPassword(plain)
		require.NoError(t, err)

		ok, err := verifyPassword(plain, digest)
		require.NoError(t, err)
		assert.True(t, ok, "hash of %q should verify", plain)
	}
}

func TestPasswordMismatch(t *testing.T) {
	digest, err := hashPassword("right-password")
	require.NoError(t, err)

	ok, err := verifyPassword("wrong-password", digest)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordDigestsAreSalted(t *testing.T) {
	a, err := hashPassword("same-password")
	require.NoError(t, err)
	b, err := hashPassword("same-password")
	require.NoError(t, err)

	// Fresh salt per call: same plaintext, different digests.
	assert.NotEqual(t, a, b)
}

func TestPasswordMalformedDigest(t *testing.T) {
	for _, digest := range []string{"", "no-separator", "!!!:AAAA", "AAAA:???"} {
		ok, err := verifyPassword("whatever", digest)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrMalformedDigest, "digest %q", digest)
	}
}
