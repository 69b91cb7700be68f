package splitflap

const (
	// StepsPerRevolution is the modulus of one full wheel revolution for a 28BYJ-48 in half-step mode
	StepsPerRevolution = 4096

	// DefaultZeroOffsetDegrees is the angle between the hall sensor and the first flap on the reference build
	DefaultZeroOffsetDegrees = 91

	// DefaultStepOffset is the global trim applied to every target when nothing is stored
	DefaultStepOffset = 0
)

// DegreesToSteps converts an angle into steps on a wheel of stepsPerRevolution steps. It truncates toward zero.
func DegreesToSteps(degrees, stepsPerRevolution int64) int64 {
	return degrees * stepsPerRevolution / 360
}

// StepsToDegrees converts an absolute step count into degrees
func StepsToDegrees(steps, stepsPerRevolution int64) float64 {
	return float64(steps) / (float64(stepsPerRevolution) / 360.0)
}
