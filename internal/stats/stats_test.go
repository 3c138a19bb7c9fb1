package stats

import (
	"math"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{name: "empty slice", values: []float64{}, expected: 0},
		{name: "single value", values: []float64{4.0}, expected: 4.0},
		{name: "simple series", values: []float64{1.0, 2.0, 3.0}, expected: 2.0},
		{name: "negative values", values: []float64{-2.0, 2.0}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Mean(tt.values)
			if !approxEqual(result, tt.expected, 1e-9) {
				t.Errorf("Mean(%v) = %v, want %v", tt.values, result, tt.expected)
			}
		})
	}
}

func TestVariance(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{name: "empty slice", values: []float64{}, expected: 0},
		{name: "single value", values: []float64{3.0}, expected: 0},
		{name: "constant series", values: []float64{2.0, 2.0, 2.0, 2.0}, expected: 0},
		{name: "known variance", values: []float64{2.0, 4.0, 4.0, 4.0, 5.0, 5.0, 7.0, 9.0}, expected: 4.571428571},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Variance(tt.values)
			if !approxEqual(result, tt.expected, 1e-6) {
				t.Errorf("Variance(%v) = %v, want %v", tt.values, result, tt.expected)
			}
		})
	}
}

func TestCoefficientOfVariation(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{name: "empty slice", values: []float64{}, expected: 0},
		{name: "single value", values: []float64{1.0}, expected: 0},
		{name: "zero mean", values: []float64{-1.0, 1.0}, expected: 0},
		{name: "constant series", values: []float64{0.4, 0.4, 0.4, 0.4, 0.4}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CoefficientOfVariation(tt.values)
			if !approxEqual(result, tt.expected, 1e-9) {
				t.Errorf("CoefficientOfVariation(%v) = %v, want %v", tt.values, result, tt.expected)
			}
		})
	}

	t.Run("noisy series has positive CV", func(t *testing.T) {
		values := []float64{0.35, 0.45, 0.38, 0.42, 0.36, 0.44}
		cv := CoefficientOfVariation(values)
		if cv <= 0 || cv > 0.5 {
			t.Errorf("CoefficientOfVariation = %v, want small positive value", cv)
		}
	})
}

func TestLinearRegressionR2(t *testing.T) {
	t.Run("too few points", func(t *testing.T) {
		if r2 := LinearRegressionR2([]float64{1, 2}); r2 != 0 {
			t.Errorf("R2 for 2 points = %v, want 0", r2)
		}
	})

	t.Run("perfect line", func(t *testing.T) {
		values := make([]float64, 20)
		for i := range values {
			values[i] = float64(i) / 20.0
		}
		if r2 := LinearRegressionR2(values); !approxEqual(r2, 1.0, 1e-9) {
			t.Errorf("R2 for linear ramp = %v, want 1", r2)
		}
	})

	t.Run("constant series is perfectly predictable", func(t *testing.T) {
		values := []float64{0.4, 0.4, 0.4, 0.4, 0.4}
		if r2 := LinearRegressionR2(values); r2 != 1 {
			t.Errorf("R2 for constant series = %v, want 1", r2)
		}
	})

	t.Run("oscillation fits poorly", func(t *testing.T) {
		values := make([]float64, 40)
		for i := range values {
			values[i] = 0.4 + 0.1*math.Sin(float64(i)*0.9)
		}
		if r2 := LinearRegressionR2(values); r2 > 0.3 {
			t.Errorf("R2 for oscillation = %v, want < 0.3", r2)
		}
	})
}

func TestIntervals(t *testing.T) {
	t.Run("short input", func(t *testing.T) {
		if got := Intervals([]float64{100}); got != nil {
			t.Errorf("Intervals of single timestamp = %v, want nil", got)
		}
	})

	t.Run("regular spacing", func(t *testing.T) {
		got := Intervals([]float64{0, 50, 100, 150})
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
		for _, d := range got {
			if d != 50 {
				t.Errorf("interval = %v, want 50", d)
			}
		}
	})

	t.Run("out-of-order samples dropped", func(t *testing.T) {
		got := Intervals([]float64{0, 50, 40, 90})
		if len(got) != 2 {
			t.Errorf("len = %d, want 2 (negative gap dropped)", len(got))
		}
	})
}

func TestUniqueRatio(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{name: "empty", values: []float64{}, expected: 0},
		{name: "all distinct", values: []float64{0.1, 0.2, 0.3, 0.4}, expected: 1.0},
		{name: "all identical", values: []float64{0.4, 0.4, 0.4, 0.4}, expected: 0.25},
		{name: "half repeated", values: []float64{0.1, 0.1, 0.2, 0.2}, expected: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := UniqueRatio(tt.values, 1e-4)
			if !approxEqual(result, tt.expected, 1e-9) {
				t.Errorf("UniqueRatio(%v) = %v, want %v", tt.values, result, tt.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(1.3, 0, 1); got != 1 {
		t.Errorf("Clamp(1.3) = %v, want 1", got)
	}
	if got := Clamp(-0.2, 0, 1); got != 0 {
		t.Errorf("Clamp(-0.2) = %v, want 0", got)
	}
	if got := Clamp(0.65, 0, 1); got != 0.65 {
		t.Errorf("Clamp(0.65) = %v, want 0.65", got)
	}
}
