// Package xsdtime converts the lexical values of the dump's temporal literals (xsd:gYear,
// xsd:gYearMonth, xsd:date, xsd:dateTime and bare times of day) to integer seconds.
//
// Calendar values become signed seconds since the Unix epoch. A leading '-' marks a BC year
// using astronomical numbering: "-2001-10-13" is year -2001 of the proleptic Gregorian calendar
// (year 0 exists). Four digit BC years at or before -4800 are converted with the Julian year
// model instead, as calendar conversion is not defined that far back.
package xsdtime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// BC years (4 digits) at or before antiquityYear use the Julian year model
	antiquityYear = -4800

	// Julian year model: epoch J2000.0 (2000-01-01T12:00:00) in Unix seconds and the length of a Julian year
	j2000Unix  = 946728000
	julianYear = 31557600 // 365.25 * 86400
)

// ErrRange is returned when a value normalised to UTC falls outside years 1 to 9999, or when a
// BC month, date or dateTime value falls before year -4799.
var ErrRange = errors.New("year out of range")

// ParseError describes a lexical value that cannot be converted.
type ParseError struct {
	Value  string // lexical value as found in the dump
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("xsdtime: cannot convert %q: %s: %s", e.Value, e.Reason, e.Err)
	}
	return fmt.Sprintf("xsdtime: cannot convert %q: %s", e.Value, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	coefficients = [3]int64{3600, 60, 1}
	stripTZ      = strings.NewReplacer("T", "", "Z", "")
)

// TimeToSeconds converts a time of day e.g. "T10:30:30", "T01:00", "T10:00Z" to seconds since 00:00.
// Every 'T' and 'Z' is removed, the remainder is hours[:minutes[:seconds]].
func TimeToSeconds(value string) (int64, error) {

	parts := strings.Split(stripTZ.Replace(value), ":")
	if len(parts) > len(coefficients) {
		return 0, &ParseError{Value: value, Reason: "more than 3 time components"}
	}
	var seconds int64
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return 0, &ParseError{Value: value, Reason: "time component", Err: err}
		}
		seconds += n * coefficients[i]
	}
	return seconds, nil
}

// IsAntiquity reports whether value is converted with the Julian year model, ie. a BC year of
// exactly four digits at or before -4800.
func IsAntiquity(value string) bool {
	if !strings.HasPrefix(value, "-") || len(value) != 5 {
		return false
	}
	y, err := strconv.Atoi(value)
	return err == nil && y <= antiquityYear
}

// TimeToUnix converts a gYear, gYearMonth, date or dateTime lexical value to seconds since the Unix epoch.
// Fractional seconds are truncated. Values with a UTC offset are normalised to UTC.
func TimeToUnix(value string) (int64, error) {

	bc := strings.HasPrefix(value, "-")

	// pre 4799BC years
	if bc && len(value) == 5 {
		y, err := strconv.Atoi(value)
		if err != nil {
			return 0, &ParseError{Value: value, Reason: "year", Err: err}
		}
		if y <= antiquityYear {
			return julianYearToUnix(int64(y)), nil
		}
	}

	s := value
	if bc {
		s = s[1:]
	}
	// there is no year zero before the sign is applied
	if strings.HasPrefix(s, "0000") {
		s = "0001" + s[4:]
	}
	// year-month e.g. "2014-05", "0023-07"
	if len(s) == 7 {
		s += "-01"
	}

	t, err := parse(s)
	if err != nil {
		return 0, &ParseError{Value: value, Reason: "calendar value", Err: err}
	}
	t = t.UTC()
	if t.Year() < 1 || t.Year() > 9999 {
		return 0, &ParseError{Value: value, Reason: "calendar value", Err: ErrRange}
	}

	year := t.Year()
	if bc {
		year = -year
		// only whole BC years reach the Julian year model
		if year <= antiquityYear {
			return 0, &ParseError{Value: value, Reason: "calendar value", Err: ErrRange}
		}
	}
	// proleptic Gregorian, astronomical year numbering
	return time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC).Unix(), nil
}

// julianYearToUnix converts an (integer) Julian epoch year to Unix seconds.
func julianYearToUnix(y int64) int64 {
	return (y-2000)*julianYear + j2000Unix
}
