package xsdtime

import (
	"errors"
	"fmt"
	"time"
)

// parse is a lenient ISO-like calendar parser. It accepts
//
//	YYYY[-MM[-DD[(T| )hh[:mm[:ss[(.|,)f+]]]]]][zone]
//
// where zone is Z, or after a day or time component also ±hh[:mm] or ±hhmm.
// Missing components default to 0001-01-01T00:00:00 UTC.
func parse(s string) (time.Time, error) {

	var (
		c                   = cursor{s: s}
		month               = 1
		day                 = 1
		hour, min, sec, ns  int
		loc                 = time.UTC
		hasDay, ok, hasTime bool
		year                int
	)

	if year, ok = c.digits(4); !ok {
		return time.Time{}, errors.New("expected 4 digit year")
	}
	if c.accept('-') {
		if month, ok = c.digits(2); !ok {
			return time.Time{}, errors.New("expected 2 digit month")
		}
		if c.accept('-') {
			if day, ok = c.digits(2); !ok {
				return time.Time{}, errors.New("expected 2 digit day")
			}
			hasDay = true
		}
	}
	if hasDay && (c.accept('T') || c.accept(' ')) {
		hasTime = true
		if hour, ok = c.digits(2); !ok {
			return time.Time{}, errors.New("expected 2 digit hour")
		}
		if c.accept(':') {
			if min, ok = c.digits(2); !ok {
				return time.Time{}, errors.New("expected 2 digit minute")
			}
			if c.accept(':') {
				if sec, ok = c.digits(2); !ok {
					return time.Time{}, errors.New("expected 2 digit second")
				}
				if c.accept('.') || c.accept(',') {
					if ns, ok = c.fraction(); !ok {
						return time.Time{}, errors.New("expected fractional seconds")
					}
				}
			}
		}
	}

	switch {
	case c.accept('Z'):
	case (hasDay || hasTime) && (c.peek() == '+' || c.peek() == '-'):
		var err error
		if loc, err = c.offset(); err != nil {
			return time.Time{}, err
		}
	}
	if !c.eof() {
		return time.Time{}, fmt.Errorf("unexpected %q", s[c.i:])
	}

	switch {
	case month < 1 || month > 12:
		return time.Time{}, fmt.Errorf("month %d out of range", month)
	case day < 1 || day > daysIn(time.Month(month), year):
		return time.Time{}, fmt.Errorf("day %d out of range for month", day)
	case hour > 23:
		return time.Time{}, fmt.Errorf("hour %d out of range", hour)
	case min > 59:
		return time.Time{}, fmt.Errorf("minute %d out of range", min)
	case sec > 59:
		return time.Time{}, fmt.Errorf("second %d out of range", sec)
	}

	return time.Date(year, time.Month(month), day, hour, min, sec, ns, loc), nil
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

type cursor struct {
	s string
	i int
}

func (c *cursor) eof() bool {
	return c.i >= len(c.s)
}

func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.s[c.i]
}

func (c *cursor) accept(b byte) bool {
	if c.peek() == b && !c.eof() {
		c.i++
		return true
	}
	return false
}

// digits consumes exactly n decimal digits
func (c *cursor) digits(n int) (int, bool) {
	if c.i+n > len(c.s) {
		return 0, false
	}
	v := 0
	for _, b := range []byte(c.s[c.i : c.i+n]) {
		if b < '0' || b > '9' {
			return 0, false
		}
		v = v*10 + int(b-'0')
	}
	c.i += n
	return v, true
}

// fraction consumes one or more digits of fractional seconds and returns nanoseconds.
// Digits beyond nanosecond precision are ignored.
func (c *cursor) fraction() (int, bool) {
	var ns, n int
	scale := 100000000
	for !c.eof() && c.peek() >= '0' && c.peek() <= '9' {
		ns += int(c.s[c.i]-'0') * scale
		scale /= 10
		c.i++
		n++
	}
	return ns, n > 0
}

// offset consumes ±hh[:mm] or ±hhmm
func (c *cursor) offset() (*time.Location, error) {
	sign := 1
	if c.accept('-') {
		sign = -1
	} else {
		c.accept('+')
	}
	hh, ok := c.digits(2)
	if !ok {
		return nil, errors.New("expected 2 digit offset hour")
	}
	var mm int
	if c.accept(':') {
		if mm, ok = c.digits(2); !ok {
			return nil, errors.New("expected 2 digit offset minute")
		}
	} else if !c.eof() {
		if mm, ok = c.digits(2); !ok {
			return nil, errors.New("expected 2 digit offset minute")
		}
	}
	if hh > 23 || mm > 59 {
		return nil, fmt.Errorf("offset %02d:%02d out of range", hh, mm)
	}
	return time.FixedZone("", sign*(hh*3600+mm*60)), nil
}
