package analysis

import (
	"math"

	"github.com/kcns008/WeightCha/internal/models"
	"github.com/kcns008/WeightCha/internal/stats"
)

// sustained scores a sustained_pressure hold: moderate stability wins, so
// the CV band sits low but excludes zero. If position data exists, nonzero
// variability in inter-point movement distance corroborates a human hold;
// perfectly regular movement reads as synthetic.
func (s *Strategy) sustained(samples []models.PressureSample, mult float64) Feature {
	pressures := models.Pressures(samples)
	cv := stats.CoefficientOfVariation(pressures)

	low, high := scaleBand(s.cfg.SustainedCVLow, s.cfg.SustainedCVHigh, mult)
	score := bandScore(cv, low, high, 0.9, 0.6, 0.25)
	if cv < zeroDispersion {
		score = 0.25
	}

	characteristics := map[string]float64{"hold_cv": cv}

	distances := movementDistances(samples)
	if len(distances) >= 3 {
		moveCV := stats.CoefficientOfVariation(distances)
		characteristics["movement_cv"] = moveCV
		if moveCV < 0.01 {
			score *= 0.8
		} else {
			score = math.Min(score*1.05, 1)
		}
	}

	return Feature{Score: stats.Clamp(score, 0, 1), Characteristics: characteristics}
}

// movementDistances returns the euclidean distances between consecutive
// positioned samples. Samples without position data are skipped.
func movementDistances(samples []models.PressureSample) []float64 {
	var out []float64
	var prev *models.Position
	for _, s := range samples {
		if s.Position == nil {
			continue
		}
		if prev != nil {
			dx := s.Position.X - prev.X
			dy := s.Position.Y - prev.Y
			out = append(out, math.Sqrt(dx*dx+dy*dy))
		}
		prev = s.Position
	}
	return out
}
