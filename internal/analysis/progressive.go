package analysis

import (
	"github.com/kcns008/WeightCha/internal/models"
	"github.com/kcns008/WeightCha/internal/stats"
)

// progression scores a progressive_pressure trace. A genuine ramp shows the
// late-window average at least ProgressionMinRatio times the early-window
// average, a mostly increasing step profile, and a final value near the
// series maximum. Score = ratioScore * (0.6 + 0.25*monotonicity +
// 0.15*finalNearMax), so the ramp magnitude dominates and the shape terms
// refine it.
func (s *Strategy) progression(samples []models.PressureSample) Feature {
	pressures := models.Pressures(samples)
	n := len(pressures)

	characteristics := map[string]float64{}
	if n < 6 {
		return Feature{Score: 0.2, Characteristics: characteristics}
	}

	third := n / 3
	early := stats.Mean(pressures[:third])
	late := stats.Mean(pressures[n-third:])

	ratio := 0.0
	if early > 1e-6 {
		ratio = late / early
	} else if late > 1e-6 {
		// Starting from zero pressure is the strongest possible ramp.
		ratio = s.cfg.ProgressionMinRatio
	}
	characteristics["progression_ratio"] = ratio

	var ratioScore float64
	switch {
	case ratio >= s.cfg.ProgressionMinRatio:
		ratioScore = 0.9
	case ratio > 1:
		ratioScore = 0.3 + 0.6*(ratio-1)/(s.cfg.ProgressionMinRatio-1)
	default:
		ratioScore = 0.2
	}

	positive := 0
	for i := 1; i < n; i++ {
		if pressures[i] > pressures[i-1] {
			positive++
		}
	}
	positiveFraction := float64(positive) / float64(n-1)
	monotonicity := stats.Clamp((positiveFraction-0.5)/0.4, 0, 1)
	characteristics["positive_step_fraction"] = positiveFraction

	max := pressures[0]
	for _, p := range pressures {
		if p > max {
			max = p
		}
	}
	finalNearMax := 0.0
	if max > 1e-6 {
		finalNearMax = stats.Clamp(pressures[n-1]/max, 0, 1)
	}
	characteristics["final_vs_max"] = finalNearMax

	score := stats.Clamp(ratioScore*(0.6+0.25*monotonicity+0.15*finalNearMax), 0, 1)
	return Feature{Score: score, Characteristics: characteristics}
}
