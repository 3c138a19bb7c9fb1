package analysis

import (
	"math"

	"github.com/kcns008/WeightCha/internal/models"
	"github.com/kcns008/WeightCha/internal/stats"
)

// Feature is one extractor's verdict: a [0,1] score plus the measured
// characteristics that produced it, retained for the audit breakdown.
type Feature struct {
	Score           float64
	Characteristics map[string]float64
}

// zeroDispersion is the CV below which a trace counts as mechanically
// constant and scores the curve floor outright.
const zeroDispersion = 0.005

// bandScore maps a dispersion measurement onto the standard scoring curve:
// peak at the center of [low, high], edge score at the boundaries, linear
// decay to floor over one further band width outside.
func bandScore(v, low, high, peak, edge, floor float64) float64 {
	width := high - low
	if width <= 0 {
		return floor
	}
	center := (low + high) / 2
	halfWidth := width / 2

	if v >= low && v <= high {
		return edge + (peak-edge)*(1-math.Abs(v-center)/halfWidth)
	}

	var dist float64
	if v < low {
		dist = (low - v) / width
	} else {
		dist = (v - high) / width
	}
	s := edge - (edge-floor)*dist
	if s < floor {
		s = floor
	}
	return s
}

// scaleBand narrows or widens a threshold band around its center by the
// difficulty multiplier. Hard challenges (mult > 1) demand a tighter band.
func scaleBand(low, high, mult float64) (float64, float64) {
	if mult <= 0 {
		mult = 1
	}
	center := (low + high) / 2
	halfWidth := (high - low) / 2 / mult
	lo := center - halfWidth
	if lo < 0 {
		lo = 0
	}
	return lo, center + halfWidth
}

// pressureVariance scores the coefficient of variation of the pressure
// column. Curve: 0.9 at band center, 0.6 at the edges, floor 0.25 far
// outside. A flat trace scores the floor directly.
func (s *Strategy) pressureVariance(samples []models.PressureSample, mult float64) Feature {
	pressures := models.Pressures(samples)
	cv := stats.CoefficientOfVariation(pressures)
	low, high := scaleBand(s.cfg.NaturalCVLow, s.cfg.NaturalCVHigh, mult)

	score := bandScore(cv, low, high, 0.9, 0.6, 0.25)
	if cv < zeroDispersion {
		score = 0.25
	}

	return Feature{
		Score: score,
		Characteristics: map[string]float64{
			"pressure_cv":     cv,
			"pressure_mean":   stats.Mean(pressures),
			"pressure_stddev": stats.StdDev(pressures),
		},
	}
}

// naturalness penalizes replay/synthesis tells: too many exactly repeated
// pressure values and near-linear traces. The penalties combine
// multiplicatively so either defect alone caps the score.
func (s *Strategy) naturalness(samples []models.PressureSample) Feature {
	pressures := models.Pressures(samples)

	uniqueRatio := stats.UniqueRatio(pressures, 1e-4)
	repetitionPenalty := 1.0
	if uniqueRatio < s.cfg.UniqueRatioMin {
		repetitionPenalty = uniqueRatio / s.cfg.UniqueRatioMin
	}

	r2 := stats.LinearRegressionR2(pressures)
	linearityPenalty := 1.0
	if r2 > s.cfg.LinearityR2Max {
		linearityPenalty = (1 - r2) / (1 - s.cfg.LinearityR2Max)
	}

	score := stats.Clamp(0.9*repetitionPenalty*linearityPenalty, 0.05, 0.9)

	return Feature{
		Score: score,
		Characteristics: map[string]float64{
			"unique_ratio": uniqueRatio,
			"linearity_r2": r2,
		},
	}
}

// timing scores the inter-sample interval CV: metronomically regular and
// wildly irregular captures both read as non-human. Captures outside the
// duration sanity window are implausible regardless of rhythm.
func (s *Strategy) timing(samples []models.PressureSample, mult float64) Feature {
	timestamps := models.Timestamps(samples)
	intervals := stats.Intervals(timestamps)

	duration := 0.0
	if len(timestamps) >= 2 {
		duration = timestamps[len(timestamps)-1] - timestamps[0]
	}

	characteristics := map[string]float64{
		"duration_ms":    duration,
		"interval_count": float64(len(intervals)),
	}

	if duration < s.cfg.MinDurationMs || duration > s.cfg.MaxDurationMs {
		characteristics["interval_cv"] = 0
		return Feature{Score: 0.1, Characteristics: characteristics}
	}

	cv := stats.CoefficientOfVariation(intervals)
	characteristics["interval_cv"] = cv

	low, high := scaleBand(s.cfg.TimingCVLow, s.cfg.TimingCVHigh, mult)
	score := bandScore(cv, low, high, 0.9, 0.6, 0.2)
	if cv < zeroDispersion {
		score = 0.2
	}

	return Feature{Score: score, Characteristics: characteristics}
}

// motion scores the corroborating accelerometer channel. Absence is
// neutral; near-zero dispersion means a motionless or simulated device.
func (s *Strategy) motion(samples []models.MotionSample) Feature {
	if len(samples) < 3 {
		return Feature{
			Score:           0.5,
			Characteristics: map[string]float64{"motion_samples": float64(len(samples))},
		}
	}

	magnitudes := make([]float64, len(samples))
	for i, m := range samples {
		magnitudes[i] = m.Acceleration.Magnitude()
	}
	cv := stats.CoefficientOfVariation(magnitudes)

	score := bandScore(cv, s.cfg.MotionCVLow, s.cfg.MotionCVHigh, 0.8, 0.55, 0.3)
	if cv < 0.02 {
		score = 0.2
	}

	return Feature{
		Score: score,
		Characteristics: map[string]float64{
			"motion_samples":      float64(len(samples)),
			"motion_magnitude_cv": cv,
		},
	}
}

// knownTrackpadHints are device hints that earn a small plausibility boost.
var knownTrackpadHints = map[string]bool{
	"force_touch":    true,
	"magic_trackpad": true,
	"macbook":        true,
	"precision":      true,
}

// devicePlausibility scores the client fingerprint. Capped contribution by
// a low aggregation weight; everything here is client-reported.
func (s *Strategy) devicePlausibility(ctx *models.DeviceContext) Feature {
	score := 0.5
	characteristics := map[string]float64{}

	if ctx == nil {
		return Feature{Score: score, Characteristics: characteristics}
	}

	if knownTrackpadHints[ctx.TrackpadTypeHint] {
		score += 0.15
		characteristics["known_trackpad"] = 1
	}
	if ctx.Method() != models.DetectionUnknown {
		score += 0.1
	}
	if ctx.ScreenWidth >= 320 && ctx.ScreenWidth <= 8192 &&
		ctx.ScreenHeight >= 240 && ctx.ScreenHeight <= 8192 {
		score += 0.15
		characteristics["screen_plausible"] = 1
	}
	if ctx.PixelRatio >= 0.5 && ctx.PixelRatio <= 4 {
		score += 0.1
	}

	return Feature{Score: stats.Clamp(score, 0, 1), Characteristics: characteristics}
}

// signature is the combined biometric-signature channel used by the
// multi-signal model: delta-smoothness of the pressure trace blended with
// motion corroboration. Human micro-tremor produces moderately dispersed
// step deltas; synthetic traces produce constant or zero deltas.
func (s *Strategy) signature(samples []models.PressureSample, motionScore float64) Feature {
	pressures := models.Pressures(samples)
	deltas := make([]float64, 0, len(pressures))
	for i := 1; i < len(pressures); i++ {
		deltas = append(deltas, math.Abs(pressures[i]-pressures[i-1]))
	}

	cv := stats.CoefficientOfVariation(deltas)
	smoothness := bandScore(cv, 0.3, 1.2, 0.85, 0.55, 0.2)
	if cv < zeroDispersion {
		smoothness = 0.1
	}

	score := stats.Clamp(0.6*smoothness+0.4*motionScore, 0, 1)

	return Feature{
		Score: score,
		Characteristics: map[string]float64{
			"delta_cv":   cv,
			"smoothness": smoothness,
		},
	}
}
