package contract

import (
	"fmt"
	"slices"
	"time"
)

// FollowingExpiration returns the next expiration after from that the resolver should use.
// Digit-only underlyings take the first one; others take the first standard monthly
// expiration (the Friday falling on day 15-21).
func FollowingExpiration(underlying string, dates []time.Time, from time.Time) (time.Time, error) {
	unexpired := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if d.After(from) {
			unexpired = append(unexpired, d)
		}
	}
	slices.SortFunc(unexpired, func(a, b time.Time) int {
		return a.Compare(b)
	})

	if IsNumeric(underlying) {
		if len(unexpired) > 0 {
			return unexpired[0], nil
		}
	} else {
		for _, d := range unexpired {
			if IsMonthly(d) {
				return d, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("no expiration for %s after %s: %w", underlying, from.Format(time.DateOnly), ErrNotFound)
}

// IsMonthly reports whether d is a third-Friday expiration.
func IsMonthly(d time.Time) bool {
	return d.Weekday() == time.Friday && d.Day() > 14 && d.Day() < 22
}
