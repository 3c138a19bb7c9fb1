package verification

import (
	"context"
	"sync"
	"time"

	"github.com/kcns008/WeightCha/internal/models"
)

// MemoryStore is a Store kept entirely in process memory. It backs unit
// tests and the demo mode where no database is configured; the transition
// and uniqueness semantics match the SQL implementation.
type MemoryStore struct {
	mu            sync.Mutex
	challenges    map[string]*models.Challenge
	verifications map[string]*models.Verification
	byChallenge   map[string]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		challenges:    make(map[string]*models.Challenge),
		verifications: make(map[string]*models.Verification),
		byChallenge:   make(map[string]string),
	}
}

func (m *MemoryStore) CreateChallenge(_ context.Context, challenge *models.Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.challenges[challenge.ID]; exists {
		return ErrConflict
	}
	clone := *challenge
	m.challenges[challenge.ID] = &clone
	return nil
}

func (m *MemoryStore) GetChallenge(_ context.Context, id string) (*models.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	challenge, ok := m.challenges[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *challenge
	return &clone, nil
}

func (m *MemoryStore) TransitionChallenge(_ context.Context, id string, from []models.ChallengeStatus, to models.ChallengeStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	challenge, ok := m.challenges[id]
	if !ok {
		return false, ErrNotFound
	}
	for _, status := range from {
		if challenge.Status == status {
			challenge.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) CreateVerification(_ context.Context, verification *models.Verification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.verifications[verification.ID]; exists {
		return ErrConflict
	}
	if _, exists := m.byChallenge[verification.ChallengeID]; exists {
		return ErrConflict
	}
	clone := *verification
	m.verifications[verification.ID] = &clone
	m.byChallenge[verification.ChallengeID] = verification.ID
	return nil
}

func (m *MemoryStore) GetVerification(_ context.Context, id string) (*models.Verification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	verification, ok := m.verifications[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *verification
	return &clone, nil
}

func (m *MemoryStore) GetVerificationByChallenge(_ context.Context, challengeID string) (*models.Verification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byChallenge[challengeID]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *m.verifications[id]
	return &clone, nil
}

func (m *MemoryStore) PurgeExpired(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var purged int64
	for id, challenge := range m.challenges {
		if challenge.ExpiresAt.Before(cutoff) {
			delete(m.challenges, id)
			purged++
		}
	}
	for id, verification := range m.verifications {
		if verification.ExpiresAt.Before(cutoff) {
			delete(m.verifications, id)
			delete(m.byChallenge, verification.ChallengeID)
			purged++
		}
	}
	return purged, nil
}
