package math

// Abs returns |x|.
func Abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	return min(max(x, lo), hi)
}

// Approach moves current toward target by at most step and lands on
// target exactly once within reach.
func Approach(current, target, step float32) float32 {
	switch d := target - current; {
	case d > step:
		return current + step
	case d < -step:
		return current - step
	default:
		return target
	}
}
