// Package repository is the GORM/Postgres implementation of the lifecycle
// Store. All status transitions are single UPDATE statements guarded by the
// current status, so concurrent duplicate submissions resolve in the
// database, not in application locks.
package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kcns008/WeightCha/internal/models"
	"github.com/kcns008/WeightCha/internal/verification"
)

type Store struct {
	db *gorm.DB
}

// New wraps a connected GORM handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateChallenge(ctx context.Context, challenge *models.Challenge) error {
	return s.db.WithContext(ctx).Create(challenge).Error
}

func (s *Store) GetChallenge(ctx context.Context, id string) (*models.Challenge, error) {
	var challenge models.Challenge
	err := s.db.WithContext(ctx).First(&challenge, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, verification.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

// TransitionChallenge performs the atomic compare-and-set on status.
// RowsAffected == 0 with an existing row means the caller lost the race.
func (s *Store) TransitionChallenge(ctx context.Context, id string, from []models.ChallengeStatus, to models.ChallengeStatus) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Challenge{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	// Distinguish a lost race from a missing row.
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Challenge{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, verification.ErrNotFound
	}
	return false, nil
}

func (s *Store) CreateVerification(ctx context.Context, v *models.Verification) error {
	err := s.db.WithContext(ctx).Create(v).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return verification.ErrConflict
	}
	return err
}

func (s *Store) GetVerification(ctx context.Context, id string) (*models.Verification, error) {
	var v models.Verification
	err := s.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, verification.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Store) GetVerificationByChallenge(ctx context.Context, challengeID string) (*models.Verification, error) {
	var v models.Verification
	err := s.db.WithContext(ctx).First(&v, "challenge_id = ?", challengeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, verification.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Store) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	challenges := s.db.WithContext(ctx).Where("expires_at < ?", cutoff).Delete(&models.Challenge{})
	if challenges.Error != nil {
		return 0, challenges.Error
	}
	verifications := s.db.WithContext(ctx).Where("expires_at < ?", cutoff).Delete(&models.Verification{})
	if verifications.Error != nil {
		return challenges.RowsAffected, verifications.Error
	}
	return challenges.RowsAffected + verifications.RowsAffected, nil
}
