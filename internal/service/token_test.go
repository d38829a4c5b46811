package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundtrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	userID := uuid.New()

	token, err := issuer.Issue(userID)
	require.NoError(t, err)

	got, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestTokenExpiry(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	now := time.Now()
	issuer.now = func() time.Time { return now }

	token, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	// Still valid one minute before expiry.
	issuer.now = func() time.Time { return now.Add(59 * time.Minute) }
	_, err = issuer.Verify(token)
	assert.NoError(t, err)

	// Rejected once the window has elapsed.
	issuer.now = func() time.Time { return now.Add(61 * time.Minute) }
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a", time.Hour).Issue(uuid.New())
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret-b", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	for _, tok := range []string{"", "not.a.jwt", "aaaa.bbbb.cccc"} {
		_, err := issuer.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}
