package weatherapi

import (
	"regexp"
	"time"
)

const dateLayout = "2006-01-02"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func parseDate(date string) (time.Time, error) {
	if !datePattern.MatchString(date) {
		return time.Time{}, &InvalidDateError{Date: date, Reason: "expected YYYY-MM-DD"}
	}
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, &InvalidDateError{Date: date, Reason: "not a calendar date"}
	}
	return t, nil
}

func today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateHistoryDate accepts dates up to and including today (UTC).
func ValidateHistoryDate(date string, now time.Time) error {
	t, err := parseDate(date)
	if err != nil {
		return err
	}
	if t.After(today(now)) {
		return &InvalidDateError{Date: date, Reason: "history date is in the future"}
	}
	return nil
}

// ValidateFutureDate accepts dates from today (UTC) onwards.
func ValidateFutureDate(date string, now time.Time) error {
	t, err := parseDate(date)
	if err != nil {
		return err
	}
	if t.Before(today(now)) {
		return &InvalidDateError{Date: date, Reason: "future date is in the past"}
	}
	return nil
}
