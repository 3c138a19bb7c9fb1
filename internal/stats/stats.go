// Package stats provides the numeric helpers used by the signal analysis
// pipeline. All functions tolerate short inputs (length 0-2) by returning a
// neutral value instead of NaN or panicking, so extractors never have to
// guard their own arithmetic.
package stats

import "math"

// meanEpsilon guards divisions by a near-zero mean. CoefficientOfVariation
// returns 0 below it; a flat-at-zero trace carries no variation signal.
const meanEpsilon = 1e-9

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Variance returns the sample variance (n-1 denominator), 0 when fewer than
// two values are available.
func Variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := Mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values)-1)
}

// StdDev returns the sample standard deviation.
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// CoefficientOfVariation returns stddev/mean, the core dispersion signal.
// Returns 0 when fewer than two values exist or the mean is effectively zero.
func CoefficientOfVariation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := Mean(values)
	if math.Abs(m) < meanEpsilon {
		return 0
	}
	return StdDev(values) / math.Abs(m)
}

// LinearRegressionR2 fits values against their indices and returns the
// coefficient of determination. A perfectly constant series is perfectly
// predictable, so it reports 1. Fewer than three points report 0 (no
// meaningful fit).
func LinearRegressionR2(values []float64) float64 {
	n := len(values)
	if n < 3 {
		return 0
	}

	meanX := float64(n-1) / 2
	meanY := Mean(values)

	ssXY := 0.0
	ssXX := 0.0
	ssTot := 0.0
	for i, y := range values {
		dx := float64(i) - meanX
		dy := y - meanY
		ssXY += dx * dy
		ssXX += dx * dx
		ssTot += dy * dy
	}

	if ssTot < meanEpsilon {
		return 1
	}

	slope := ssXY / ssXX
	intercept := meanY - slope*meanX

	ssRes := 0.0
	for i, y := range values {
		pred := intercept + slope*float64(i)
		d := y - pred
		ssRes += d * d
	}

	r2 := 1 - ssRes/ssTot
	if r2 < 0 {
		return 0
	}
	return r2
}

// Intervals returns the consecutive differences of a timestamp series.
// Negative gaps (device jitter delivering samples out of order) are dropped.
func Intervals(timestamps []float64) []float64 {
	if len(timestamps) < 2 {
		return nil
	}
	out := make([]float64, 0, len(timestamps)-1)
	for i := 1; i < len(timestamps); i++ {
		d := timestamps[i] - timestamps[i-1]
		if d >= 0 {
			out = append(out, d)
		}
	}
	return out
}

// UniqueRatio returns the fraction of distinct values in the series, after
// rounding to the given precision. 0 for an empty series.
func UniqueRatio(values []float64, precision float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if precision <= 0 {
		precision = 1e-6
	}
	seen := make(map[int64]struct{}, len(values))
	for _, v := range values {
		seen[int64(math.Round(v/precision))] = struct{}{}
	}
	return float64(len(seen)) / float64(len(values))
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
