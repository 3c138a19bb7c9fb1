package models

import "math"

// PressureSample is one point of the client-captured pressure trace.
// Timestamps are milliseconds, monotonic within the series; pressure is
// normalized [0,1] on web captures and grams on the native bridge.
type PressureSample struct {
	TimestampMs float64   `json:"timestamp"`
	Pressure    float64   `json:"pressure"`
	TouchArea   float64   `json:"touchArea,omitempty"`
	Position    *Position `json:"position,omitempty"`
}

// Position is a normalized [0,1]^2 touch coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MotionSample is an optional accelerometer/gyro reading captured alongside
// the pressure trace. Its absence must never fail analysis.
type MotionSample struct {
	TimestampMs  float64   `json:"timestamp"`
	Acceleration Vector3   `json:"acceleration"`
	Rotation     *Rotation `json:"rotation,omitempty"`
}

type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Magnitude returns the euclidean norm of the vector.
func (v Vector3) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

type Rotation struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

// DetectionMethod names how the client captured pressure. It selects a
// calibration hint and a small confidence boost only, never a security
// boundary.
type DetectionMethod string

const (
	DetectionWebHID        DetectionMethod = "webHID"
	DetectionForceTouch    DetectionMethod = "forceTouch"
	DetectionPointerEvents DetectionMethod = "pointerEvents"
	DetectionMotionSensors DetectionMethod = "motionSensors"
	DetectionTouchEvents   DetectionMethod = "touchEvents"
	DetectionUnknown       DetectionMethod = "unknown"
)

// DeviceContext is the client-reported device fingerprint. Weak
// corroborating signal only.
type DeviceContext struct {
	UserAgent        string          `json:"userAgent"`
	ScreenWidth      int             `json:"screenWidth"`
	ScreenHeight     int             `json:"screenHeight"`
	PixelRatio       float64         `json:"pixelRatio"`
	TrackpadTypeHint string          `json:"trackpadType,omitempty"`
	DetectionMethod  DetectionMethod `json:"detectionMethod"`
}

// Method returns the detection method, defaulting to unknown.
func (d *DeviceContext) Method() DetectionMethod {
	if d == nil || d.DetectionMethod == "" {
		return DetectionUnknown
	}
	return d.DetectionMethod
}

// Pressures extracts the pressure column of a sample series.
func Pressures(samples []PressureSample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Pressure
	}
	return out
}

// Timestamps extracts the timestamp column of a sample series.
func Timestamps(samples []PressureSample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.TimestampMs
	}
	return out
}
