package analysis

import (
	"fmt"
	"sort"

	"github.com/kcns008/WeightCha/internal/models"
)

// Input is one submission to score. Motion and Device are optional; their
// presence switches the aggregator to the multi-signal model.
type Input struct {
	Type       models.ChallengeType
	Difficulty models.Difficulty
	Pressure   []models.PressureSample
	Motion     []models.MotionSample
	Device     *models.DeviceContext
}

// Result is the scored outcome of one submission.
type Result struct {
	Type       models.ChallengeType
	Method     models.DetectionMethod
	IsHuman    bool
	Confidence float64
	Scores     map[string]float64
	DurationMs float64
}

// Strategy selects and runs the extractor set for a challenge type and
// aggregates the per-feature scores into a confidence. Immutable after
// construction; safe for concurrent use.
type Strategy struct {
	cfg Config
}

// NewStrategy builds a Strategy around an explicit calibration config.
func NewStrategy(cfg Config) *Strategy {
	return &Strategy{cfg: cfg}
}

// Named score keys produced by the extractor sets.
const (
	ScorePressureVariance = "pressure_variance"
	ScoreNaturalness      = "naturalness"
	ScoreTiming           = "timing"
	ScoreMotion           = "motion"
	ScoreDevice           = "device"
	ScoreSignature        = "signature"
	ScoreRhythm           = "rhythm"
	ScoreSustained        = "sustained"
	ScoreProgression      = "progression"
)

// primaryScoreKey is the pressure-category score for each challenge type,
// used by the weighted multi-signal model.
func primaryScoreKey(t models.ChallengeType) string {
	switch t {
	case models.ChallengeRhythmTest:
		return ScoreRhythm
	case models.ChallengeSustainedPressure:
		return ScoreSustained
	case models.ChallengeProgressivePressure:
		return ScoreProgression
	default:
		return ScorePressureVariance
	}
}

// Analyze runs the extractor set for the input's challenge type and returns
// the aggregated decision. Numeric edge cases inside extractors resolve to
// neutral scores; only structurally unusable input returns an error.
func (s *Strategy) Analyze(input Input) (*Result, error) {
	if len(input.Pressure) < s.cfg.MinSamples {
		return nil, fmt.Errorf("need at least %d pressure samples, got %d", s.cfg.MinSamples, len(input.Pressure))
	}

	samples := make([]models.PressureSample, len(input.Pressure))
	copy(samples, input.Pressure)
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].TimestampMs < samples[j].TimestampMs
	})

	mult := input.Difficulty.Multiplier()
	scores := make(map[string]float64)
	characteristics := make(map[string]float64)

	record := func(key string, f Feature) {
		scores[key] = f.Score
		for k, v := range f.Characteristics {
			characteristics[k] = v
		}
	}

	record(ScoreTiming, s.timing(samples, mult))

	switch input.Type {
	case models.ChallengePressurePattern:
		record(ScorePressureVariance, s.pressureVariance(samples, mult))
		record(ScoreNaturalness, s.naturalness(samples))
	case models.ChallengeRhythmTest:
		record(ScoreRhythm, s.rhythm(samples, mult))
		record(ScoreNaturalness, s.naturalness(samples))
	case models.ChallengeSustainedPressure:
		record(ScoreSustained, s.sustained(samples, mult))
		record(ScoreNaturalness, s.naturalness(samples))
	case models.ChallengeProgressivePressure:
		record(ScoreProgression, s.progression(samples))
	default:
		return nil, fmt.Errorf("unknown challenge type %q", input.Type)
	}

	multiSignal := len(input.Motion) > 0 || input.Device != nil
	if multiSignal {
		motionFeature := s.motion(input.Motion)
		record(ScoreMotion, motionFeature)
		record(ScoreDevice, s.devicePlausibility(input.Device))
		record(ScoreSignature, s.signature(samples, motionFeature.Score))
	}

	confidence := s.aggregate(input.Type, scores, multiSignal)

	duration := 0.0
	if len(samples) >= 2 {
		duration = samples[len(samples)-1].TimestampMs - samples[0].TimestampMs
	}

	return &Result{
		Type:       input.Type,
		Method:     input.Device.Method(),
		IsHuman:    confidence >= s.cfg.HumanThreshold,
		Confidence: confidence,
		Scores:     scores,
		DurationMs: duration,
	}, nil
}

// HumanThreshold exposes the configured decision cutoff.
func (s *Strategy) HumanThreshold() float64 {
	return s.cfg.HumanThreshold
}

// MinSamples exposes the configured analysis floor.
func (s *Strategy) MinSamples() int {
	return s.cfg.MinSamples
}
