package errors

import (
	"math"
	"strconv"
	"strings"
)

// ValidatePositive rejects counts that are zero or negative.
func ValidatePositive(name string, v int) error {
	if v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be positive, got %d", name, v)
	}
	return nil
}

// ValidateNonNegative rejects negative or non-finite values.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be a finite number", name)
	}
	if v < 0 {
		return New(ErrCodeInvalidConfig, "%s must not be negative, got %g", name, v)
	}
	return nil
}

// ValidateIntRange checks that lo <= v <= hi.
func ValidateIntRange(name string, v, lo, hi int) error {
	if v < lo || v > hi {
		return New(ErrCodeInvalidConfig, "%s must be in [%d, %d], got %d", name, lo, hi, v)
	}
	return nil
}

// ValidateUnitInterval checks that 0 < v <= 1, the range of a smoothing
// factor.
func ValidateUnitInterval(name string, v float64) error {
	if math.IsNaN(v) || v <= 0 || v > 1 {
		return New(ErrCodeInvalidConfig, "%s must be in (0, 1], got %g", name, v)
	}
	return nil
}

// ParseHexColor parses "#rrggbb" or "#rgb" (the leading # is optional)
// into its channels.
func ParseHexColor(s string) (r, g, b uint8, err error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return 0, 0, 0, New(ErrCodeInvalidColor, "invalid color %q (want #rrggbb)", s)
	}
	v, parseErr := strconv.ParseUint(h, 16, 32)
	if parseErr != nil {
		return 0, 0, 0, Wrap(ErrCodeInvalidColor, parseErr, "invalid color %q", s)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}
