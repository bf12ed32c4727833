package shared

import "time"

// Clock abstracts the current time so date-sensitive rules
// (advance-per-day, depreciation periods, entry numbering years)
// can be tested deterministically.
type Clock interface {
	Now() time.Time
	Today() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Today returns the current date truncated to midnight UTC.
func (SystemClock) Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// FixedClock always reports the same instant. Test helper.
type FixedClock struct {
	Time time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.Time
}

// Today returns the fixed instant's date truncated to midnight UTC.
func (c FixedClock) Today() time.Time {
	t := c.Time.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
