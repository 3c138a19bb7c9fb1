package analysis

import (
	"github.com/kcns008/WeightCha/internal/models"
	"github.com/kcns008/WeightCha/internal/stats"
)

// aggregate combines the named per-feature scores into one confidence.
//
// With the multi-signal model (motion or device context present) the fixed
// category weights apply: pressure 0.35, timing 0.25, motion 0.15, device
// 0.10, signature 0.15. The single-series model weights every produced
// score equally. Either way, a bounded bonus rewards variance and
// naturalness agreeing, and the result clamps to [0,1].
func (s *Strategy) aggregate(t models.ChallengeType, scores map[string]float64, multiSignal bool) float64 {
	var confidence float64

	if multiSignal {
		confidence = weightPressure*scores[primaryScoreKey(t)] +
			weightTiming*scores[ScoreTiming] +
			weightMotion*scores[ScoreMotion] +
			weightDevice*scores[ScoreDevice] +
			weightSignature*scores[ScoreSignature]
	} else {
		sum := 0.0
		count := 0
		for _, v := range scores {
			sum += v
			count++
		}
		if count == 0 {
			return 0
		}
		confidence = sum / float64(count)
	}

	variance, hasVariance := scores[ScorePressureVariance]
	natural, hasNatural := scores[ScoreNaturalness]
	if hasVariance && hasNatural && variance > s.cfg.BonusThreshold && natural > s.cfg.BonusThreshold {
		confidence *= confidenceBonus
	}

	return stats.Clamp(confidence, 0, 1)
}
