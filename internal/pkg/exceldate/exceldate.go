// Package exceldate converts between spreadsheet day serials and
// calendar dates. Serial 1 is 1899-12-31; the epoch sits at
// 1899-12-30 so that the conversion matches what common spreadsheet
// tools emit for modern dates.
package exceldate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var epoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

const (
	MinSerial = 1
	MaxSerial = 60000
)

var ErrOutOfRange = errors.New("day serial out of range")

// FromSerial converts a day serial to a UTC midnight date.
func FromSerial(serial int) (time.Time, error) {
	if serial < MinSerial || serial > MaxSerial {
		return time.Time{}, fmt.Errorf("%w: %d", ErrOutOfRange, serial)
	}
	return epoch.AddDate(0, 0, serial), nil
}

// ToSerial converts a date to its day serial. The time of day and
// zone are ignored.
func ToSerial(t time.Time) (int, error) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	serial := int(day.Sub(epoch).Hours() / 24)
	if serial < MinSerial || serial > MaxSerial {
		return 0, fmt.Errorf("%w: %d", ErrOutOfRange, serial)
	}
	return serial, nil
}

// Parse reads a date cell. It accepts ISO dates between the years
// 1900 and 2100, and bare integers as day serials.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date value")
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		if t.Year() < 1900 || t.Year() > 2100 {
			return time.Time{}, fmt.Errorf("date year %d out of range", t.Year())
		}
		return t, nil
	}

	serial, err := strconv.Atoi(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date value %q", s)
	}
	return FromSerial(serial)
}
