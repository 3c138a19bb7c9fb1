// Package analysis converts a raw pressure/motion sample series into a
// human/bot decision with a confidence score. The pipeline is pure and
// stateless per invocation; all calibration constants live in Config so
// distinct challenges can be scored fully in parallel.
package analysis

// Config holds every calibration threshold of the scoring pipeline. Values
// are empirical defaults, not derived from a formal study; they are the
// knobs an operator tunes against real capture data. A zero Config is not
// usable, construct via DefaultConfig.
type Config struct {
	// HumanThreshold is the single confidence cutoff for the human
	// decision. It never varies by challenge type.
	HumanThreshold float64

	// MinSamples is the hard floor below which no analysis runs.
	MinSamples int

	// Natural pressure-variance band. Human micro-tremor puts the pressure
	// CV in this range; mechanically constant or erratic traces fall
	// outside.
	NaturalCVLow  float64
	NaturalCVHigh float64

	// Inter-sample timing band.
	TimingCVLow  float64
	TimingCVHigh float64

	// Capture duration sanity window, milliseconds.
	MinDurationMs float64
	MaxDurationMs float64

	// Naturalness penalties: repeated-value ratio floor and the linearity
	// R2 above which the trace counts as synthetic.
	UniqueRatioMin float64
	LinearityR2Max float64

	// Rhythm inter-tap interval band.
	RhythmCVLow  float64
	RhythmCVHigh float64

	// Sustained-hold stability band (low but nonzero variation).
	SustainedCVLow  float64
	SustainedCVHigh float64

	// Motion magnitude dispersion band.
	MotionCVLow  float64
	MotionCVHigh float64

	// Progressive challenges require the late-window average pressure to
	// exceed the early-window average by at least this factor.
	ProgressionMinRatio float64

	// BonusThreshold gates the multiplicative confidence bonus applied
	// when variance and naturalness agree.
	BonusThreshold float64
}

// DefaultConfig returns the documented calibration defaults.
func DefaultConfig() Config {
	return Config{
		HumanThreshold:      0.65,
		MinSamples:          5,
		NaturalCVLow:        0.10,
		NaturalCVHigh:       0.30,
		TimingCVLow:         0.10,
		TimingCVHigh:        0.40,
		MinDurationMs:       500,
		MaxDurationMs:       300_000,
		UniqueRatioMin:      0.7,
		LinearityR2Max:      0.9,
		RhythmCVLow:         0.08,
		RhythmCVHigh:        0.45,
		SustainedCVLow:      0.02,
		SustainedCVHigh:     0.15,
		MotionCVLow:         0.05,
		MotionCVHigh:        0.80,
		ProgressionMinRatio: 2.0,
		BonusThreshold:      0.65,
	}
}

// Aggregation weights for the multi-signal model, not reconfigurable per
// request. Device stays low: the fingerprint is a weak corroborating signal,
// never load-bearing.
const (
	weightPressure  = 0.35
	weightTiming    = 0.25
	weightMotion    = 0.15
	weightDevice    = 0.10
	weightSignature = 0.15
)

// confidenceBonus is applied when variance and naturalness independently
// clear Config.BonusThreshold.
const confidenceBonus = 1.1
