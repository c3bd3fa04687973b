package engine

import (
	"math"
	"strconv"
	"strings"
)

// ErrorMarker is the literal the display shows while the error latch is set.
const ErrorMarker = "Error"

// Format canonicalizes a numeric value into the exact string the display
// must show.
//
// Rules:
//   - Non-finite values render as ErrorMarker.
//   - The value is rounded at 10 decimal places to absorb binary
//     floating-point tail noise (0.1+0.2 must display "0.3", not
//     "0.30000000000000004").
//   - Negative zero normalizes to "0".
//   - Integers render without a decimal point; non-integers with trailing
//     zeros and any dangling point trimmed.
//   - Plain decimal for every magnitude in [1e-6, 1e21); exponential
//     notation only outside that range, passed through unmodified.
//
// Pure function; always returns a string.
func Format(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return ErrorMarker
	}

	abs := math.Abs(n)
	if abs >= 1e21 {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}

	s := strconv.FormatFloat(n, 'f', -1, 64)

	// Round at 10 decimal places. Rounding in decimal space keeps large
	// magnitudes exact; a binary shift would lose integer precision above
	// 2^53/1e10.
	if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 > 10 {
		s = strconv.FormatFloat(n, 'f', 10, 64)
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}

	if s == "0" || s == "-0" {
		return "0"
	}

	// Nonzero after rounding but below the plain range.
	if abs < 1e-6 {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return s
}

// ParseDisplay reads the display string as a number.
//
// The transient sign-toggle states "", "-" and "." parse as 0, as does any
// other unparseable text. The silent zero fallback is deliberate: the
// display is syntactically valid by construction except during those
// transients, and a hard failure here would leak into every action
// operation.
func ParseDisplay(s string) float64 {
	switch s {
	case "", "-", ".":
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n
}
