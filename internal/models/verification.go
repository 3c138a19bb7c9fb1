package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// AnalysisDetails is the per-feature score breakdown retained for audit.
// It is stored as JSON and is not re-derivable from the issued token.
type AnalysisDetails struct {
	ChallengeType ChallengeType      `json:"challengeType"`
	Method        DetectionMethod    `json:"detectionMethod"`
	Scores        map[string]float64 `json:"scores"`
	SampleCount   int                `json:"sampleCount"`
	DurationMs    float64            `json:"durationMs"`
}

// Value implements driver.Valuer for JSON column storage.
func (d AnalysisDetails) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner.
func (d *AnalysisDetails) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	case nil:
		*d = AnalysisDetails{}
		return nil
	}
	return fmt.Errorf("unsupported type %T for AnalysisDetails", value)
}

// MaxSampleExcerpt bounds how many raw pressure values a Verification row
// retains. The full biometric series is never persisted.
const MaxSampleExcerpt = 20

// Verification is the scored result of one submitted sample series against a
// Challenge. Exactly one exists per successfully analyzed Challenge,
// enforced by the unique index on ChallengeID.
type Verification struct {
	ID              string          `gorm:"primaryKey;size:36" json:"id"`
	ChallengeID     string          `gorm:"size:36;uniqueIndex" json:"challengeId"`
	IsHuman         bool            `json:"isHuman"`
	Confidence      float64         `json:"confidence"`
	DetectionMethod DetectionMethod `gorm:"size:32" json:"detectionMethod"`
	AnalysisDetails AnalysisDetails `gorm:"type:jsonb" json:"analysisDetails"`
	SampleExcerpt   pq.Float64Array `gorm:"type:double precision[]" json:"-"`
	Token           string          `gorm:"type:text" json:"token"`
	SubmittedAt     time.Time       `json:"submittedAt"`
	ExpiresAt       time.Time       `gorm:"index" json:"expiresAt"`
}

// Expired reports whether the verification record has outlived its own TTL.
func (v *Verification) Expired(now time.Time) bool {
	return !now.Before(v.ExpiresAt)
}

// ExcerptOf returns a bounded prefix of the pressure column for audit
// storage.
func ExcerptOf(samples []PressureSample) pq.Float64Array {
	n := len(samples)
	if n > MaxSampleExcerpt {
		n = MaxSampleExcerpt
	}
	out := make(pq.Float64Array, n)
	for i := 0; i < n; i++ {
		out[i] = samples[i].Pressure
	}
	return out
}
