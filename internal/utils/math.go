package utils

import "math/rand"

// RandomFloat returns a random float64 between 0.0 and 1.0
func RandomFloat() float64 {
	return rand.Float64() //nolint:gosec // Game logic randomness, not security critical
}

// RandomInt returns a random integer between min and max (inclusive)
func RandomInt(min, max int) int {
	if min > max {
		return min
	}
	return rand.Intn(max-min+1) + min //nolint:gosec // Game logic randomness, not security critical
}

// IndexFromRoll maps a roll in [0.0, 1.0) to an index in [0, n).
// A roll of exactly 1.0 is clamped to the last index.
func IndexFromRoll(roll float64, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(roll * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
