package analysis

import (
	"github.com/kcns008/WeightCha/internal/models"
	"github.com/kcns008/WeightCha/internal/stats"
)

// minTapSwing is the minimum pressure range needed to segment taps at all.
const minTapSwing = 0.05

// segmentTaps splits a pressure trace into discrete tap events by upward
// crossings of the mid-range threshold and returns the onset timestamps.
func segmentTaps(samples []models.PressureSample) []float64 {
	if len(samples) < 2 {
		return nil
	}

	min, max := samples[0].Pressure, samples[0].Pressure
	for _, s := range samples {
		if s.Pressure < min {
			min = s.Pressure
		}
		if s.Pressure > max {
			max = s.Pressure
		}
	}
	if max-min < minTapSwing {
		return nil
	}
	threshold := min + 0.5*(max-min)

	var onsets []float64
	above := samples[0].Pressure >= threshold
	for _, s := range samples[1:] {
		if !above && s.Pressure >= threshold {
			onsets = append(onsets, s.TimestampMs)
			above = true
		} else if above && s.Pressure < threshold {
			above = false
		}
	}
	return onsets
}

// rhythm scores a rhythm_test trace: inter-tap interval CV must sit in the
// human irregularity band, distinct from metronomic bot timing and from
// random noise.
func (s *Strategy) rhythm(samples []models.PressureSample, mult float64) Feature {
	onsets := segmentTaps(samples)
	characteristics := map[string]float64{"tap_count": float64(len(onsets))}

	if len(onsets) < 3 {
		return Feature{Score: 0.2, Characteristics: characteristics}
	}

	intervals := stats.Intervals(onsets)
	cv := stats.CoefficientOfVariation(intervals)
	characteristics["tap_interval_cv"] = cv
	characteristics["tap_interval_mean"] = stats.Mean(intervals)

	low, high := scaleBand(s.cfg.RhythmCVLow, s.cfg.RhythmCVHigh, mult)
	score := bandScore(cv, low, high, 0.85, 0.55, 0.15)
	if cv < 0.02 {
		// Perfectly metronomic taps.
		score = 0.15
	}

	return Feature{Score: score, Characteristics: characteristics}
}
