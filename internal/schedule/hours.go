package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrBadClock    = errors.New("invalid clock value, expected HH:MM")
	ErrBadHours    = errors.New("invalid opening hours")
	ErrBadInterval = errors.New("slot interval must be positive")
	ErrBadHorizon  = errors.New("max days ahead must not be negative")
	ErrBadDeadline = errors.New("deadline time out of range")
)

// MinuteOfDay is a time of day counted in minutes since midnight.
// All slot arithmetic happens on this type so there is no floating
// point and no time zone involved.
type MinuteOfDay int

func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

func (m MinuteOfDay) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (MinuteOfDay, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	return MinuteOfDay(h*60 + m), nil
}

// DayHours describes the opening hours for one weekday.
// Open and Close use the "HH:MM" 24-hour format and are ignored
// when Closed is set.
type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

// WeekHours holds one DayHours entry per weekday, indexed by
// time.Weekday (0 = Sunday .. 6 = Saturday).
type WeekHours [7]DayHours

// Validate checks that every open day has parseable hours with
// Open strictly before Close.
func (w WeekHours) Validate() error {
	for day, h := range w {
		if h.Closed {
			continue
		}
		open, err := ParseClock(h.Open)
		if err != nil {
			return fmt.Errorf("%w: %s open: %v", ErrBadHours, time.Weekday(day), err)
		}
		closeAt, err := ParseClock(h.Close)
		if err != nil {
			return fmt.Errorf("%w: %s close: %v", ErrBadHours, time.Weekday(day), err)
		}
		if open >= closeAt {
			return fmt.Errorf("%w: %s opens at %s but closes at %s", ErrBadHours, time.Weekday(day), open, closeAt)
		}
	}
	return nil
}
