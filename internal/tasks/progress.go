package tasks

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/desertthunder/skytunes/internal/shared"
)

// MissingClock stands in for an absent currentTime or duration when computing progress.
const MissingClock = "0:0"

// ParseClock converts "minutes:seconds" into total seconds.
//
// Each part is read like a number literal: surrounding whitespace is ignored and an
// empty part counts as zero. Parts after the second are ignored.
func ParseClock(clock string) (float64, error) {
	parts := strings.Split(clock, ":")
	if len(parts) < 2 {
		return math.NaN(), fmt.Errorf("%w: clock %q is not minutes:seconds", shared.ErrInvalidInput, clock)
	}

	minutes, err := clockPart(parts[0])
	if err != nil {
		return math.NaN(), fmt.Errorf("%w: clock %q: %v", shared.ErrInvalidInput, clock, err)
	}

	seconds, err := clockPart(parts[1])
	if err != nil {
		return math.NaN(), fmt.Errorf("%w: clock %q: %v", shared.ErrInvalidInput, clock, err)
	}

	return minutes*60 + seconds, nil
}

func clockPart(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// ComputeProgress returns current/total × 100.
//
// A zero total is not guarded: 0/0 yields NaN and x/0 yields +Inf.
// Malformed clocks yield NaN together with the parse error.
func ComputeProgress(current, total string) (float64, error) {
	c, err := ParseClock(current)
	if err != nil {
		return math.NaN(), err
	}

	t, err := ParseClock(total)
	if err != nil {
		return math.NaN(), err
	}

	return c / t * 100, nil
}

// RoundHalfUp rounds to the nearest integer with halves going towards +Inf (2.5 → 3, -2.5 → -2).
func RoundHalfUp(x float64) float64 {
	r := math.Floor(x + 0.5)
	if r == 0 {
		return 0 // drop the sign of -0
	}
	return r
}
