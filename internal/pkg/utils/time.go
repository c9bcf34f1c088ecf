package utils

import "time"

// Entitlement dates carry day precision. All range arithmetic in the
// reconciliation core goes through these helpers so that segments produced
// with differing clock components still compare equal.

func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func SameDay(a, b time.Time) bool {
	return TruncateToDay(a).Equal(TruncateToDay(b))
}

func NextDay(t time.Time) time.Time {
	return TruncateToDay(t).AddDate(0, 0, 1)
}

func PrevDay(t time.Time) time.Time {
	return TruncateToDay(t).AddDate(0, 0, -1)
}

// DayAfter reports a > b at day precision.
func DayAfter(a, b time.Time) bool {
	return TruncateToDay(a).After(TruncateToDay(b))
}
