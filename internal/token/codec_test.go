package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcns008/WeightCha/internal/models"
)

func testVerification() *models.Verification {
	now := time.Now()
	return &models.Verification{
		ID:          "ver-123",
		ChallengeID: "cha-456",
		IsHuman:     true,
		Confidence:  0.87,
		SubmittedAt: now,
		ExpiresAt:   now.Add(24 * time.Hour),
	}
}

func TestSignAndParse(t *testing.T) {
	codec := NewCodec("test-secret", 24*time.Hour)

	signed, err := codec.Sign(testVerification(), time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := codec.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "ver-123", claims.VerificationID)
	assert.Equal(t, "cha-456", claims.ChallengeID)
	assert.True(t, claims.IsHuman)
	assert.InDelta(t, 0.87, claims.Confidence, 1e-9)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	signer := NewCodec("secret-a", 24*time.Hour)
	verifier := NewCodec("secret-b", 24*time.Hour)

	signed, err := signer.Sign(testVerification(), time.Now())
	require.NoError(t, err)

	_, err = verifier.Parse(signed)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)

	// Sign as of two hours ago so the token's own expiry has passed.
	signed, err := codec.Sign(testVerification(), time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = codec.Parse(signed)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)
	_, err := codec.Parse("not.a.token")
	assert.Error(t, err)
}
