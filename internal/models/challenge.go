package models

import (
	"fmt"
	"time"
)

// ChallengeType is the closed set of interaction challenges the widget can
// run. Adding a type means touching this file and the analysis strategy,
// which is intentional: dispatch is compile-time checked, not stringly typed.
type ChallengeType string

const (
	ChallengePressurePattern     ChallengeType = "pressure_pattern"
	ChallengeRhythmTest          ChallengeType = "rhythm_test"
	ChallengeSustainedPressure   ChallengeType = "sustained_pressure"
	ChallengeProgressivePressure ChallengeType = "progressive_pressure"
)

// ChallengeTypes lists every supported challenge type.
func ChallengeTypes() []ChallengeType {
	return []ChallengeType{
		ChallengePressurePattern,
		ChallengeRhythmTest,
		ChallengeSustainedPressure,
		ChallengeProgressivePressure,
	}
}

// ParseChallengeType validates a wire-level type string.
func ParseChallengeType(s string) (ChallengeType, error) {
	switch ChallengeType(s) {
	case ChallengePressurePattern, ChallengeRhythmTest, ChallengeSustainedPressure, ChallengeProgressivePressure:
		return ChallengeType(s), nil
	}
	return "", fmt.Errorf("unknown challenge type %q", s)
}

// Difficulty scales the analysis consistency thresholds. It never scales
// hard sanity bounds such as the minimum sample count.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty validates a wire-level difficulty string. An empty string
// defaults to medium.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case "":
		return DifficultyMedium, nil
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// Multiplier returns the threshold scaling factor for the difficulty.
// Band widths are divided by this factor, so hard challenges demand a
// tighter natural band while easy ones tolerate more.
func (d Difficulty) Multiplier() float64 {
	switch d {
	case DifficultyEasy:
		return 0.7
	case DifficultyHard:
		return 1.5
	default:
		return 1.0
	}
}

// ChallengeStatus is the stored lifecycle phase. Expiry is a time-derived
// condition checked on access, never a stored transition.
type ChallengeStatus string

const (
	StatusPending    ChallengeStatus = "pending"
	StatusProcessing ChallengeStatus = "processing"
	StatusCompleted  ChallengeStatus = "completed"
	StatusFailed     ChallengeStatus = "failed"
	StatusCancelled  ChallengeStatus = "cancelled"
)

// StatusExpired is a derived pseudo-status reported to clients when a
// non-terminal challenge has outlived its TTL. It is never persisted.
const StatusExpired ChallengeStatus = "expired"

// Challenge is one verification attempt's configuration and lifecycle
// record. It is owned and mutated only by the verification service.
type Challenge struct {
	ID              string          `gorm:"primaryKey;size:36" json:"id"`
	Type            ChallengeType   `gorm:"size:32;index" json:"type"`
	Difficulty      Difficulty      `gorm:"size:16" json:"difficulty"`
	DurationSeconds int             `json:"duration"`
	Instructions    string          `gorm:"type:text" json:"instructions"`
	Status          ChallengeStatus `gorm:"size:16;index" json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	ExpiresAt       time.Time       `gorm:"index" json:"expiresAt"`
}

// Expired reports whether the challenge TTL has elapsed.
func (c *Challenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Terminal reports whether the challenge can accept no further submissions.
func (c *Challenge) Terminal() bool {
	switch c.Status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// EffectiveStatus is the status as seen by clients: a non-terminal challenge
// past its TTL reads as expired.
func (c *Challenge) EffectiveStatus(now time.Time) ChallengeStatus {
	if !c.Terminal() && c.Expired(now) {
		return StatusExpired
	}
	return c.Status
}
