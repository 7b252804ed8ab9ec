package model

import (
	"fmt"
	"regexp"
	"strconv"
)

// Duration is the dual numeric/formatted view spec.md §3.3 requires:
// both fields are kept canonically in agreement by NewDuration and
// ParseDuration, and the transformer treats either field as
// authoritative when the other is absent.
type Duration struct {
	Seconds   float64
	Formatted string
}

// NewDuration builds a Duration from a numeric seconds value,
// computing its ISO-8601-style formatted view.
func NewDuration(seconds float64) Duration {
	return Duration{Seconds: seconds, Formatted: FormatDuration(seconds)}
}

// FormatDuration renders seconds as an ISO-8601 duration of the form
// PT#H#M#S, omitting zero-valued leading components, matching the
// teacher's fmt.Sprintf("PT%dS", …) precedent generalized to hours
// and minutes.
func FormatDuration(seconds float64) string {
	total := int64(seconds + 0.5) // round to nearest second
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	switch {
	case h > 0:
		return fmt.Sprintf("PT%dH%dM%dS", h, m, s)
	case m > 0:
		return fmt.Sprintf("PT%dM%dS", m, s)
	default:
		return fmt.Sprintf("PT%dS", s)
	}
}

var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?$`)

// ParseDuration recovers a numeric seconds value from an ISO-8601
// duration string of the form PT#H#M#S.
func ParseDuration(formatted string) (float64, error) {
	m := durationPattern.FindStringSubmatch(formatted)
	if m == nil {
		return 0, fmt.Errorf("invalid duration format: %q", formatted)
	}
	var total float64
	if m[1] != "" {
		h, _ := strconv.ParseFloat(m[1], 64)
		total += h * 3600
	}
	if m[2] != "" {
		mi, _ := strconv.ParseFloat(m[2], 64)
		total += mi * 60
	}
	if m[3] != "" {
		s, _ := strconv.ParseFloat(m[3], 64)
		total += s
	}
	return total, nil
}

// ParseOrDeriveDuration implements the "either field is authoritative
// when the other is absent" rule: if formatted is empty, it is derived
// from seconds; if seconds is zero and formatted is non-empty, it is
// parsed from formatted.
func ParseOrDeriveDuration(seconds float64, formatted string) (Duration, error) {
	switch {
	case formatted == "":
		return NewDuration(seconds), nil
	case seconds == 0:
		parsed, err := ParseDuration(formatted)
		if err != nil {
			return Duration{}, err
		}
		return Duration{Seconds: parsed, Formatted: formatted}, nil
	default:
		return Duration{Seconds: seconds, Formatted: formatted}, nil
	}
}
