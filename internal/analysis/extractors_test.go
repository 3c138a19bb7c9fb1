package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcns008/WeightCha/internal/models"
)

// naturalSeries builds a deterministic human-like trace: pressure
// oscillating around 0.4 with superimposed micro-tremor, timestamps spaced
// ~50ms with jitter.
func naturalSeries(n int) []models.PressureSample {
	samples := make([]models.PressureSample, n)
	t := 0.0
	for i := 0; i < n; i++ {
		if i > 0 {
			t += 50 + 10*math.Sin(1.3*float64(i))
		}
		samples[i] = models.PressureSample{
			TimestampMs: t,
			Pressure:    0.4 + 0.1*math.Sin(0.7*float64(i)) + 0.05*math.Sin(2.3*float64(i)+1),
		}
	}
	return samples
}

// constantSeries builds a mechanically flat trace with jittered timing.
func constantSeries(n int, pressure float64) []models.PressureSample {
	samples := make([]models.PressureSample, n)
	t := 0.0
	for i := 0; i < n; i++ {
		if i > 0 {
			t += 50 + 10*math.Sin(1.3*float64(i))
		}
		samples[i] = models.PressureSample{TimestampMs: t, Pressure: pressure}
	}
	return samples
}

func newTestStrategy() *Strategy {
	return NewStrategy(DefaultConfig())
}

func TestPressureVariance(t *testing.T) {
	s := newTestStrategy()

	t.Run("natural tremor scores high", func(t *testing.T) {
		f := s.pressureVariance(naturalSeries(60), 1.0)
		assert.GreaterOrEqual(t, f.Score, 0.7)
		assert.InDelta(t, 0.2, f.Characteristics["pressure_cv"], 0.08)
	})

	t.Run("constant series scores the floor", func(t *testing.T) {
		f := s.pressureVariance(constantSeries(60, 0.4), 1.0)
		assert.InDelta(t, 0.25, f.Score, 1e-9)
	})

	t.Run("erratic series scores low", func(t *testing.T) {
		samples := make([]models.PressureSample, 40)
		for i := range samples {
			p := 0.05
			if i%2 == 0 {
				p = 0.95
			}
			samples[i] = models.PressureSample{TimestampMs: float64(i * 50), Pressure: p}
		}
		f := s.pressureVariance(samples, 1.0)
		assert.Less(t, f.Score, 0.5)
	})
}

func TestNaturalness(t *testing.T) {
	s := newTestStrategy()

	t.Run("natural series is not penalized", func(t *testing.T) {
		f := s.naturalness(naturalSeries(60))
		assert.GreaterOrEqual(t, f.Score, 0.8)
	})

	t.Run("linear ramp triggers the linearity penalty", func(t *testing.T) {
		samples := make([]models.PressureSample, 60)
		for i := range samples {
			samples[i] = models.PressureSample{
				TimestampMs: float64(i * 50),
				Pressure:    float64(i) / 60.0,
			}
		}
		f := s.naturalness(samples)
		assert.LessOrEqual(t, f.Score, 0.1)
		assert.Greater(t, f.Characteristics["linearity_r2"], 0.9)
	})

	t.Run("repeated values trigger the repetition penalty", func(t *testing.T) {
		samples := make([]models.PressureSample, 60)
		for i := range samples {
			samples[i] = models.PressureSample{
				TimestampMs: float64(i * 50),
				Pressure:    []float64{0.3, 0.5}[i%2],
			}
		}
		f := s.naturalness(samples)
		assert.Less(t, f.Score, 0.2)
	})
}

func TestTiming(t *testing.T) {
	s := newTestStrategy()

	t.Run("jittered human timing scores above the midpoint", func(t *testing.T) {
		f := s.timing(naturalSeries(60), 1.0)
		assert.Greater(t, f.Score, 0.5)
	})

	t.Run("metronomic timing scores low", func(t *testing.T) {
		samples := make([]models.PressureSample, 60)
		for i := range samples {
			samples[i] = models.PressureSample{TimestampMs: float64(i * 50), Pressure: 0.4}
		}
		f := s.timing(samples, 1.0)
		assert.LessOrEqual(t, f.Score, 0.2)
	})

	t.Run("sub-500ms capture is implausible", func(t *testing.T) {
		samples := make([]models.PressureSample, 10)
		for i := range samples {
			samples[i] = models.PressureSample{TimestampMs: float64(i * 20), Pressure: 0.4}
		}
		f := s.timing(samples, 1.0)
		assert.InDelta(t, 0.1, f.Score, 1e-9)
	})

	t.Run("multi-minute capture is implausible", func(t *testing.T) {
		samples := make([]models.PressureSample, 10)
		for i := range samples {
			samples[i] = models.PressureSample{TimestampMs: float64(i) * 60_000, Pressure: 0.4}
		}
		f := s.timing(samples, 1.0)
		assert.InDelta(t, 0.1, f.Score, 1e-9)
	})
}

func TestMotion(t *testing.T) {
	s := newTestStrategy()

	t.Run("absent motion is neutral", func(t *testing.T) {
		f := s.motion(nil)
		assert.InDelta(t, 0.5, f.Score, 1e-9)
	})

	t.Run("subtle device motion corroborates", func(t *testing.T) {
		samples := make([]models.MotionSample, 30)
		for i := range samples {
			fi := float64(i)
			samples[i] = models.MotionSample{
				TimestampMs: fi * 100,
				Acceleration: models.Vector3{
					X: 0.05 * math.Sin(fi),
					Y: 0.04 * math.Cos(1.3*fi),
					Z: 0.03 * math.Sin(2*fi+0.5),
				},
			}
		}
		f := s.motion(samples)
		assert.Greater(t, f.Score, 0.5)
	})

	t.Run("motionless device is penalized", func(t *testing.T) {
		samples := make([]models.MotionSample, 30)
		for i := range samples {
			samples[i] = models.MotionSample{
				TimestampMs:  float64(i * 100),
				Acceleration: models.Vector3{X: 0, Y: 0, Z: 9.81},
			}
		}
		f := s.motion(samples)
		assert.InDelta(t, 0.2, f.Score, 1e-9)
	})
}

func TestDevicePlausibility(t *testing.T) {
	s := newTestStrategy()

	t.Run("nil context is neutral", func(t *testing.T) {
		f := s.devicePlausibility(nil)
		assert.InDelta(t, 0.5, f.Score, 1e-9)
	})

	t.Run("plausible macbook context scores high", func(t *testing.T) {
		f := s.devicePlausibility(&models.DeviceContext{
			UserAgent:        "Mozilla/5.0 (Macintosh)",
			ScreenWidth:      1512,
			ScreenHeight:     982,
			PixelRatio:       2.0,
			TrackpadTypeHint: "force_touch",
			DetectionMethod:  models.DetectionForceTouch,
		})
		assert.GreaterOrEqual(t, f.Score, 0.9)
	})

	t.Run("implausible screen earns no boost", func(t *testing.T) {
		f := s.devicePlausibility(&models.DeviceContext{
			ScreenWidth:  10,
			ScreenHeight: 10,
			PixelRatio:   12,
		})
		assert.LessOrEqual(t, f.Score, 0.5)
	})
}

func TestProgression(t *testing.T) {
	s := newTestStrategy()

	t.Run("steady ramp scores high", func(t *testing.T) {
		samples := make([]models.PressureSample, 60)
		for i := range samples {
			fi := float64(i)
			samples[i] = models.PressureSample{
				TimestampMs: fi * 50,
				Pressure:    0.1 + 0.0125*fi + 0.004*math.Sin(2.3*fi),
			}
		}
		f := s.progression(samples)
		assert.GreaterOrEqual(t, f.Score, 0.8)
		assert.GreaterOrEqual(t, f.Characteristics["progression_ratio"], 2.0)
	})

	t.Run("flat hold fails the ramp requirement", func(t *testing.T) {
		f := s.progression(constantSeries(60, 0.4))
		assert.LessOrEqual(t, f.Score, 0.3)
	})

	t.Run("decreasing pressure fails", func(t *testing.T) {
		samples := make([]models.PressureSample, 60)
		for i := range samples {
			samples[i] = models.PressureSample{
				TimestampMs: float64(i * 50),
				Pressure:    0.8 - 0.01*float64(i),
			}
		}
		f := s.progression(samples)
		assert.LessOrEqual(t, f.Score, 0.3)
	})
}

// tapSeries builds a rhythm trace with tap onsets separated by the given
// intervals.
func tapSeries(intervals []float64) []models.PressureSample {
	var samples []models.PressureSample
	t := 200.0
	appendTap := func(onset float64) {
		samples = append(samples,
			models.PressureSample{TimestampMs: onset - 50, Pressure: 0.1},
			models.PressureSample{TimestampMs: onset, Pressure: 0.8},
			models.PressureSample{TimestampMs: onset + 60, Pressure: 0.75},
			models.PressureSample{TimestampMs: onset + 120, Pressure: 0.15},
		)
	}
	appendTap(t)
	for _, iv := range intervals {
		t += iv
		appendTap(t)
	}
	return samples
}

func TestRhythm(t *testing.T) {
	s := newTestStrategy()

	t.Run("human irregularity scores high", func(t *testing.T) {
		f := s.rhythm(tapSeries([]float64{300, 420, 260, 380, 240, 450, 310}), 1.0)
		assert.GreaterOrEqual(t, f.Score, 0.7)
		assert.GreaterOrEqual(t, f.Characteristics["tap_count"], 8.0)
	})

	t.Run("metronomic taps score the floor", func(t *testing.T) {
		f := s.rhythm(tapSeries([]float64{300, 300, 300, 300, 300, 300, 300}), 1.0)
		assert.InDelta(t, 0.15, f.Score, 1e-9)
	})

	t.Run("too few taps scores low", func(t *testing.T) {
		f := s.rhythm(tapSeries([]float64{300}), 1.0)
		assert.InDelta(t, 0.2, f.Score, 1e-9)
	})
}

func TestSustained(t *testing.T) {
	s := newTestStrategy()

	t.Run("stable hold with tremor scores high", func(t *testing.T) {
		samples := make([]models.PressureSample, 60)
		for i := range samples {
			fi := float64(i)
			samples[i] = models.PressureSample{
				TimestampMs: fi * 50,
				Pressure:    0.5 + 0.03*math.Sin(1.7*fi) + 0.015*math.Sin(3.1*fi+0.5),
			}
		}
		f := s.sustained(samples, 1.0)
		assert.Greater(t, f.Score, 0.6)
	})

	t.Run("perfectly constant hold scores the floor", func(t *testing.T) {
		f := s.sustained(constantSeries(60, 0.5), 1.0)
		assert.InDelta(t, 0.25, f.Score, 1e-9)
	})

	t.Run("regular circular movement is penalized", func(t *testing.T) {
		samples := make([]models.PressureSample, 60)
		for i := range samples {
			fi := float64(i)
			samples[i] = models.PressureSample{
				TimestampMs: fi * 50,
				Pressure:    0.5 + 0.03*math.Sin(1.7*fi),
				// Constant angular step: every inter-point distance is equal.
				Position: &models.Position{
					X: 0.5 + 0.1*math.Cos(0.2*fi),
					Y: 0.5 + 0.1*math.Sin(0.2*fi),
				},
			}
		}
		withMovement := s.sustained(samples, 1.0)

		for i := range samples {
			samples[i].Position = nil
		}
		without := s.sustained(samples, 1.0)

		assert.Less(t, withMovement.Score, without.Score)
	})
}

func TestScaleBand(t *testing.T) {
	low, high := scaleBand(0.10, 0.30, 1.5)
	require.InDelta(t, 0.1333, low, 0.001)
	require.InDelta(t, 0.2666, high, 0.001)

	low, high = scaleBand(0.10, 0.30, 0.7)
	require.Less(t, low, 0.10)
	require.Greater(t, high, 0.30)
}
