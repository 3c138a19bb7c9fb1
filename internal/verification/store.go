package verification

import (
	"context"
	"errors"
	"time"

	"github.com/kcns008/WeightCha/internal/models"
)

// Sentinel errors the Store implementations return; the service maps them
// onto the application error taxonomy.
var (
	// ErrNotFound reports an unknown challenge or verification id.
	ErrNotFound = errors.New("record not found")
	// ErrConflict reports a uniqueness violation, e.g. a second
	// Verification for the same Challenge.
	ErrConflict = errors.New("record already exists")
)

// Store is the persistence boundary of the lifecycle. The GORM-backed
// implementation lives in internal/repository; an in-memory one backs unit
// tests and demo mode.
type Store interface {
	CreateChallenge(ctx context.Context, challenge *models.Challenge) error
	GetChallenge(ctx context.Context, id string) (*models.Challenge, error)

	// TransitionChallenge atomically moves a challenge from any of the
	// given statuses to the target status. Returns false without error
	// when the challenge exists but is not in an accepted status: the
	// caller lost a concurrent race or the phase is simply wrong.
	TransitionChallenge(ctx context.Context, id string, from []models.ChallengeStatus, to models.ChallengeStatus) (bool, error)

	CreateVerification(ctx context.Context, verification *models.Verification) error
	GetVerification(ctx context.Context, id string) (*models.Verification, error)
	GetVerificationByChallenge(ctx context.Context, challengeID string) (*models.Verification, error)

	// PurgeExpired deletes challenges and verifications whose expiry lies
	// before the cutoff. Storage hygiene only; correctness never depends
	// on it because expiry is enforced lazily on access.
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
