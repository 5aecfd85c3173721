package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxNameLength bounds node and arrow names.
const MaxNameLength = 256

// ValidateName validates a node or arrow name.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of MaxNameLength bytes
func ValidateName(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "%s name cannot be empty", kind)
	}

	if len(name) > MaxNameLength {
		return New(ErrCodeInvalidInput, "%s name too long (max %d characters)", kind, MaxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s name %q contains invalid control characters", kind, name)
		}
	}

	return nil
}

// ValidateFinite rejects NaN and infinite values. JSON cannot carry them,
// but in-memory specs can.
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number", field)
	}
	return nil
}

// ValidateMagnitude rejects non-finite values and values with |v| > limit.
func ValidateMagnitude(field string, v, limit float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if math.Abs(v) > limit {
		return New(ErrCodeInvalidInput, "%s must be between %g and %g, got %g", field, -limit, limit, v)
	}
	return nil
}

// ValidateRange checks lo <= v <= hi.
func ValidateRange(field string, v, lo, hi int) error {
	if v < lo || v > hi {
		return New(ErrCodeInvalidInput, "%s must be between %d and %d, got %d", field, lo, hi, v)
	}
	return nil
}

// ValidateRedisURL validates a Redis connection URL.
// It ensures the URL uses the redis or rediss scheme.
func ValidateRedisURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "redis URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "redis://") && !strings.HasPrefix(rawURL, "rediss://") {
		return New(ErrCodeInvalidURL, "redis URL must use the redis or rediss scheme")
	}

	return nil
}
