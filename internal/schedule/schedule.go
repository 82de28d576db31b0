package schedule

import (
	"fmt"
	"time"
)

// Config carries the ordering rules: how far ahead pickup dates are
// offered, the slot granularity and the order deadline. The deadline
// is a time of day on the day BEFORE a pickup date; once "now" passes
// it, that pickup date can no longer be ordered.
type Config struct {
	MaxDaysAhead        int
	SlotIntervalMinutes int
	DeadlineHour        int
	DeadlineMinute      int
}

func (c Config) Validate() error {
	if c.MaxDaysAhead < 0 {
		return fmt.Errorf("%w: %d", ErrBadHorizon, c.MaxDaysAhead)
	}
	if c.SlotIntervalMinutes <= 0 {
		return fmt.Errorf("%w: %d", ErrBadInterval, c.SlotIntervalMinutes)
	}
	if c.DeadlineHour < 0 || c.DeadlineHour > 23 || c.DeadlineMinute < 0 || c.DeadlineMinute > 59 {
		return fmt.Errorf("%w: %02d:%02d", ErrBadDeadline, c.DeadlineHour, c.DeadlineMinute)
	}
	return nil
}

// TimeRange is one bookable pickup window, half-open [Start, End).
type TimeRange struct {
	Start MinuteOfDay `json:"start"`
	End   MinuteOfDay `json:"end"`
}

func (r TimeRange) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// Schedule answers ordering questions against a fixed weekly hours
// table and ordering config. It holds no mutable state and performs
// no I/O; "now" is always passed in by the caller, so a single
// Schedule is safe for any number of concurrent callers.
type Schedule struct {
	hours   WeekHours
	cfg     Config
	open    [7]MinuteOfDay
	closeAt [7]MinuteOfDay
}

// New validates the hours table and config and returns a Schedule.
// Malformed configuration is a deployment error, so callers are
// expected to fail fast on a non-nil error.
func New(hours WeekHours, cfg Config) (*Schedule, error) {
	if err := hours.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Schedule{hours: hours, cfg: cfg}
	for day, h := range hours {
		if h.Closed {
			continue
		}
		// Validate already parsed these successfully.
		s.open[day], _ = ParseClock(h.Open)
		s.closeAt[day], _ = ParseClock(h.Close)
	}
	return s, nil
}

// HoursFor returns the opening hours entry for the weekday of date.
func (s *Schedule) HoursFor(date time.Time) DayHours {
	return s.hours[date.Weekday()]
}

// deadlineFor returns the instant after which date can no longer be
// ordered: the configured deadline time on the day before date.
func (s *Schedule) deadlineFor(date time.Time) time.Time {
	eve := date.AddDate(0, 0, -1)
	return time.Date(eve.Year(), eve.Month(), eve.Day(),
		s.cfg.DeadlineHour, s.cfg.DeadlineMinute, 0, 0, date.Location())
}

// CanOrderForDate reports whether an order for pickup on date can
// still be placed at now. Closed weekdays are never orderable. For
// open days the cutoff is the deadline on the eve of date, and now
// equal to the cutoff still counts as orderable.
//
// The eve rule applies to every offset, including date == today,
// whose cutoff (yesterday's deadline) has necessarily passed. Same
// day pickup is therefore never offered; see DESIGN.md.
func (s *Schedule) CanOrderForDate(now, date time.Time) bool {
	if s.hours[date.Weekday()].Closed {
		return false
	}
	return !now.After(s.deadlineFor(date))
}

// TimeSlots returns the bookable pickup windows for date, ascending
// and contiguous, starting at the day's open time. Slots step by
// SlotIntervalMinutes and a new slot is emitted as long as its START
// is before closing time, so the last slot may run past closing
// (a 11:30 start with a 60 minute interval and a 12:00 close still
// yields 11:30-12:30). That is the shop's pickup policy, not a bug.
//
// The closed-day and deadline checks are repeated here so that a
// direct call can never hand out slots for an unorderable date; in
// that case the result is empty.
func (s *Schedule) TimeSlots(now, date time.Time) []TimeRange {
	day := date.Weekday()
	if s.hours[day].Closed {
		return nil
	}
	if !s.CanOrderForDate(now, date) {
		return nil
	}

	interval := MinuteOfDay(s.cfg.SlotIntervalMinutes)
	var slots []TimeRange
	for cur := s.open[day]; cur < s.closeAt[day]; cur += interval {
		slots = append(slots, TimeRange{Start: cur, End: cur + interval})
	}
	return slots
}

// AvailableDates returns the pickup dates currently orderable, from
// today through MaxDaysAhead days out, ascending. Each date is
// midnight in now's location. The result recomputes from scratch on
// every call since the answer changes as now moves past deadlines.
func (s *Schedule) AvailableDates(now time.Time) []time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var dates []time.Time
	for offset := 0; offset <= s.cfg.MaxDaysAhead; offset++ {
		date := today.AddDate(0, 0, offset)
		if s.hours[date.Weekday()].Closed {
			continue
		}
		if s.CanOrderForDate(now, date) {
			dates = append(dates, date)
		}
	}
	return dates
}
