package utils

import "time"

// DateLayout is the calendar-date key format used throughout storage.
const DateLayout = "2006-01-02"

// Today returns the current date as a YYYY-MM-DD key.
func Today() string {
	return time.Now().Format(DateLayout)
}

// IsDateKey reports whether s is a valid YYYY-MM-DD date.
func IsDateKey(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
