// Package token signs and verifies the compact verification claims handed
// to relying parties. The token is a bearer credential: validation is
// idempotent and side-effect-free, and its expiry is independent of the
// Verification record's own TTL (callers must check both).
package token

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"github.com/kcns008/WeightCha/internal/models"
)

// Claims are the signed verification facts. ProcessedAt is when analysis
// completed, in unix seconds.
type Claims struct {
	VerificationID string  `json:"verificationId"`
	ChallengeID    string  `json:"challengeId"`
	IsHuman        bool    `json:"isHuman"`
	Confidence     float64 `json:"confidence"`
	ProcessedAt    int64   `json:"processedAt"`
	jwt.StandardClaims
}

// Codec signs and parses verification tokens with a shared HS256 secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec builds a codec. ttl is the token's own lifetime, typically the
// same order as the verification TTL (24h).
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Sign mints a token for a completed verification.
func (c *Codec) Sign(v *models.Verification, now time.Time) (string, error) {
	claims := &Claims{
		VerificationID: v.ID,
		ChallengeID:    v.ChallengeID,
		IsHuman:        v.IsHuman,
		Confidence:     v.Confidence,
		ProcessedAt:    v.SubmittedAt.Unix(),
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			Subject:   v.ID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(c.ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Parse verifies the signature and standard claims (including the token's
// own expiry) and returns the embedded verification facts.
func (c *Codec) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
