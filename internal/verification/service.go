// Package verification owns the challenge/verification lifecycle: challenge
// creation and expiry, one-time consumption of submissions, scoring through
// the analysis strategy, and token issuance/validation.
package verification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kcns008/WeightCha/internal/analysis"
	"github.com/kcns008/WeightCha/internal/apperrors"
	"github.com/kcns008/WeightCha/internal/models"
	"github.com/kcns008/WeightCha/internal/token"
)

// Config bounds the lifecycle. All values have working defaults via
// DefaultServiceConfig.
type Config struct {
	ChallengeTTL       time.Duration
	VerificationTTL    time.Duration
	MinSamples         int
	MaxSamples         int
	MinDurationSeconds int
	MaxDurationSeconds int
}

// DefaultServiceConfig returns the documented lifecycle defaults.
func DefaultServiceConfig() Config {
	return Config{
		ChallengeTTL:       5 * time.Minute,
		VerificationTTL:    24 * time.Hour,
		MinSamples:         5,
		MaxSamples:         10_000,
		MinDurationSeconds: 3,
		MaxDurationSeconds: 30,
	}
}

// Submission is one client attempt against a challenge.
type Submission struct {
	PressureSamples []models.PressureSample
	MotionSamples   []models.MotionSample
	DeviceContext   *models.DeviceContext
}

// TokenValidation is the relying-party view of a token check. When Valid is
// false no reason is exposed; internal logs carry the distinction.
type TokenValidation struct {
	Valid          bool      `json:"valid"`
	IsHuman        bool      `json:"isHuman,omitempty"`
	Confidence     float64   `json:"confidence,omitempty"`
	VerificationID string    `json:"verificationId,omitempty"`
	ExpiresAt      time.Time `json:"expiresAt,omitempty"`
}

// Service is the lifecycle state machine around the scoring pipeline.
type Service struct {
	store    Store
	analyzer *analysis.Strategy
	codec    *token.Codec
	catalog  *models.InstructionCatalog
	log      *zap.Logger
	cfg      Config

	// now is injectable for deterministic expiry tests.
	now func() time.Time
}

// NewService wires the lifecycle. A nil catalog falls back to the built-in
// instruction templates.
func NewService(store Store, analyzer *analysis.Strategy, codec *token.Codec, catalog *models.InstructionCatalog, log *zap.Logger, cfg Config) *Service {
	if catalog == nil {
		catalog = models.DefaultInstructionCatalog()
	}
	return &Service{
		store:    store,
		analyzer: analyzer,
		codec:    codec,
		catalog:  catalog,
		log:      log,
		cfg:      cfg,
		now:      time.Now,
	}
}

// CreateChallenge validates the requested type, difficulty and duration and
// persists a pending challenge with its expiry. Duration is clamped into
// the configured window rather than rejected.
func (s *Service) CreateChallenge(ctx context.Context, challengeType, difficulty string, durationSeconds int) (*models.Challenge, error) {
	ct, err := models.ParseChallengeType(challengeType)
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	diff, err := models.ParseDifficulty(difficulty)
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	if durationSeconds < s.cfg.MinDurationSeconds {
		durationSeconds = s.cfg.MinDurationSeconds
	}
	if durationSeconds > s.cfg.MaxDurationSeconds {
		durationSeconds = s.cfg.MaxDurationSeconds
	}

	now := s.now()
	challenge := &models.Challenge{
		ID:              uuid.New().String(),
		Type:            ct,
		Difficulty:      diff,
		DurationSeconds: durationSeconds,
		Instructions:    s.catalog.InstructionsFor(ct, durationSeconds),
		Status:          models.StatusPending,
		CreatedAt:       now,
		ExpiresAt:       now.Add(s.cfg.ChallengeTTL),
	}

	if err := s.store.CreateChallenge(ctx, challenge); err != nil {
		s.log.Error("Failed to persist challenge", zap.Error(err))
		return nil, apperrors.Internal("could not create challenge")
	}

	s.log.Debug("Challenge created",
		zap.String("id", challenge.ID),
		zap.String("type", string(ct)),
		zap.String("difficulty", string(diff)),
	)
	return challenge, nil
}

// GetChallenge fetches a challenge; expiry is derived on access, never
// stored.
func (s *Service) GetChallenge(ctx context.Context, id string) (*models.Challenge, error) {
	challenge, err := s.store.GetChallenge(ctx, id)
	if err != nil {
		if err == ErrNotFound {
			return nil, apperrors.NotFound("challenge not found")
		}
		s.log.Error("Failed to load challenge", zap.String("id", id), zap.Error(err))
		return nil, apperrors.Internal("could not load challenge")
	}
	return challenge, nil
}

// CancelChallenge moves a pending or processing challenge to cancelled.
func (s *Service) CancelChallenge(ctx context.Context, id string) error {
	challenge, err := s.GetChallenge(ctx, id)
	if err != nil {
		return err
	}
	if challenge.Terminal() {
		return apperrors.InvalidState("challenge already finished")
	}

	ok, err := s.store.TransitionChallenge(ctx, id,
		[]models.ChallengeStatus{models.StatusPending, models.StatusProcessing},
		models.StatusCancelled)
	if err != nil {
		s.log.Error("Failed to cancel challenge", zap.String("id", id), zap.Error(err))
		return apperrors.Internal("could not cancel challenge")
	}
	if !ok {
		return apperrors.InvalidState("challenge already finished")
	}
	return nil
}

// SubmitVerification consumes a challenge: validates the sample payload,
// claims the challenge via an atomic status transition, scores the series
// and persists exactly one Verification with its signed token. A losing
// concurrent submission gets InvalidState, never a silent double score.
func (s *Service) SubmitVerification(ctx context.Context, challengeID string, sub Submission) (*models.Verification, error) {
	if err := s.validateSubmission(sub); err != nil {
		return nil, err
	}

	challenge, err := s.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if challenge.Terminal() {
		return nil, apperrors.InvalidState("challenge already finished")
	}
	if challenge.Expired(now) {
		return nil, apperrors.Expired("challenge expired")
	}

	claimed, err := s.store.TransitionChallenge(ctx, challengeID,
		[]models.ChallengeStatus{models.StatusPending, models.StatusProcessing},
		models.StatusProcessing)
	if err != nil {
		s.log.Error("Failed to claim challenge", zap.String("id", challengeID), zap.Error(err))
		return nil, apperrors.Internal("could not process submission")
	}
	if !claimed {
		return nil, apperrors.InvalidState("challenge already finished")
	}

	result, analysisErr := s.analyze(challenge, sub)
	if analysisErr != nil {
		// Analysis faults are terminal for the challenge but still yield a
		// decidable answer: a zero-confidence verification. Internals are
		// logged, never surfaced.
		s.log.Error("Analysis failed", zap.String("challenge_id", challengeID), zap.Error(analysisErr))
		return s.finishChallenge(ctx, challenge, sub, &analysis.Result{
			Type:       challenge.Type,
			Method:     sub.DeviceContext.Method(),
			IsHuman:    false,
			Confidence: 0,
			Scores:     map[string]float64{},
		}, models.StatusFailed)
	}

	return s.finishChallenge(ctx, challenge, sub, result, models.StatusCompleted)
}

// finishChallenge persists the verification, signs its token and applies
// the terminal status transition. The unique index on ChallengeID is the
// backstop against concurrent duplicate completion.
func (s *Service) finishChallenge(ctx context.Context, challenge *models.Challenge, sub Submission, result *analysis.Result, terminal models.ChallengeStatus) (*models.Verification, error) {
	now := s.now()
	verification := &models.Verification{
		ID:              uuid.New().String(),
		ChallengeID:     challenge.ID,
		IsHuman:         result.IsHuman,
		Confidence:      result.Confidence,
		DetectionMethod: result.Method,
		AnalysisDetails: models.AnalysisDetails{
			ChallengeType: challenge.Type,
			Method:        result.Method,
			Scores:        result.Scores,
			SampleCount:   len(sub.PressureSamples),
			DurationMs:    result.DurationMs,
		},
		SampleExcerpt: models.ExcerptOf(sub.PressureSamples),
		SubmittedAt:   now,
		ExpiresAt:     now.Add(s.cfg.VerificationTTL),
	}

	signed, err := s.codec.Sign(verification, now)
	if err != nil {
		s.log.Error("Failed to sign verification token", zap.Error(err))
		return nil, apperrors.Internal("could not issue token")
	}
	verification.Token = signed

	if err := s.store.CreateVerification(ctx, verification); err != nil {
		if err == ErrConflict {
			return nil, apperrors.InvalidState("challenge already verified")
		}
		s.log.Error("Failed to persist verification", zap.Error(err))
		return nil, apperrors.Internal("could not persist verification")
	}

	ok, err := s.store.TransitionChallenge(ctx, challenge.ID,
		[]models.ChallengeStatus{models.StatusProcessing}, terminal)
	if err != nil {
		s.log.Error("Failed to finish challenge", zap.String("id", challenge.ID), zap.Error(err))
		return nil, apperrors.Internal("could not finish challenge")
	}
	if !ok {
		// The verification insert won the uniqueness race, so this only
		// happens on an out-of-band cancel; keep the stored verification.
		s.log.Warn("Challenge left processing state during completion", zap.String("id", challenge.ID))
	}

	s.log.Info("Verification completed",
		zap.String("challenge_id", challenge.ID),
		zap.String("verification_id", verification.ID),
		zap.Bool("is_human", verification.IsHuman),
		zap.Float64("confidence", verification.Confidence),
	)
	return verification, nil
}

// analyze runs the strategy with panic containment: an extractor fault must
// never escape as a raw panic.
func (s *Service) analyze(challenge *models.Challenge, sub Submission) (result *analysis.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = apperrors.Analysis("analysis panic", nil)
			s.log.Error("Recovered analysis panic", zap.Any("panic", r))
		}
	}()

	result, analyzeErr := s.analyzer.Analyze(analysis.Input{
		Type:       challenge.Type,
		Difficulty: challenge.Difficulty,
		Pressure:   sub.PressureSamples,
		Motion:     sub.MotionSamples,
		Device:     sub.DeviceContext,
	})
	if analyzeErr != nil {
		return nil, apperrors.Analysis("analysis failed", analyzeErr)
	}
	return result, nil
}

func (s *Service) validateSubmission(sub Submission) error {
	if len(sub.PressureSamples) < s.cfg.MinSamples {
		return apperrors.Validation("too few pressure samples")
	}
	if len(sub.PressureSamples) > s.cfg.MaxSamples {
		return apperrors.Validation("too many pressure samples")
	}
	return nil
}

// ValidateToken checks signature, token expiry, verification existence and
// verification expiry. Any failure yields Valid=false without telling the
// caller which check failed; logs keep the distinction.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*TokenValidation, error) {
	invalid := &TokenValidation{Valid: false}

	claims, err := s.codec.Parse(tokenString)
	if err != nil {
		s.log.Debug("Token rejected", zap.Error(err))
		return invalid, nil
	}

	verification, err := s.store.GetVerification(ctx, claims.VerificationID)
	if err != nil {
		if err == ErrNotFound {
			s.log.Debug("Token references unknown verification", zap.String("id", claims.VerificationID))
			return invalid, nil
		}
		s.log.Error("Failed to load verification", zap.Error(err))
		return nil, apperrors.Internal("could not validate token")
	}

	if verification.Expired(s.now()) {
		s.log.Debug("Token references expired verification", zap.String("id", verification.ID))
		return invalid, nil
	}

	return &TokenValidation{
		Valid:          true,
		IsHuman:        verification.IsHuman,
		Confidence:     verification.Confidence,
		VerificationID: verification.ID,
		ExpiresAt:      verification.ExpiresAt,
	}, nil
}
