package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Weekend-only bakery: Friday through Sunday 08:30-12:00, hourly
// slots, orders accepted until noon of the previous day, two weeks
// ahead. Mirrors the production defaults.
func weekendSchedule(t *testing.T) *Schedule {
	t.Helper()

	open := DayHours{Open: "08:30", Close: "12:00"}
	closed := DayHours{Closed: true}
	s, err := New(
		WeekHours{open, closed, closed, closed, closed, open, open},
		Config{
			MaxDaysAhead:        14,
			SlotIntervalMinutes: 60,
			DeadlineHour:        12,
			DeadlineMinute:      0,
		},
	)
	require.NoError(t, err)
	return s
}

// 2026-03-05 is a Thursday; the following Fri/Sat/Sun are open days.
var (
	thursday = time.Date(2026, 3, 5, 0, 0, 0, 0, time.Local)
	friday   = time.Date(2026, 3, 6, 0, 0, 0, 0, time.Local)
	saturday = time.Date(2026, 3, 7, 0, 0, 0, 0, time.Local)
	sunday   = time.Date(2026, 3, 8, 0, 0, 0, 0, time.Local)
)

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func TestNewRejectsBadConfig(t *testing.T) {
	open := DayHours{Open: "08:30", Close: "12:00"}
	closed := DayHours{Closed: true}
	hours := WeekHours{open, closed, closed, closed, closed, open, open}
	good := Config{MaxDaysAhead: 14, SlotIntervalMinutes: 60, DeadlineHour: 12}

	tests := []struct {
		name    string
		hours   WeekHours
		cfg     Config
		wantErr error
	}{
		{
			name:    "broken hours table",
			hours:   WeekHours{{Open: "12:00", Close: "08:00"}, closed, closed, closed, closed, open, open},
			cfg:     good,
			wantErr: ErrBadHours,
		},
		{
			name:    "zero slot interval",
			hours:   hours,
			cfg:     Config{MaxDaysAhead: 14, SlotIntervalMinutes: 0, DeadlineHour: 12},
			wantErr: ErrBadInterval,
		},
		{
			name:    "negative horizon",
			hours:   hours,
			cfg:     Config{MaxDaysAhead: -1, SlotIntervalMinutes: 60, DeadlineHour: 12},
			wantErr: ErrBadHorizon,
		},
		{
			name:    "deadline hour out of range",
			hours:   hours,
			cfg:     Config{MaxDaysAhead: 14, SlotIntervalMinutes: 60, DeadlineHour: 24},
			wantErr: ErrBadDeadline,
		},
		{
			name:    "deadline minute out of range",
			hours:   hours,
			cfg:     Config{MaxDaysAhead: 14, SlotIntervalMinutes: 60, DeadlineHour: 12, DeadlineMinute: 60},
			wantErr: ErrBadDeadline,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.hours, tc.cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCanOrderForDate(t *testing.T) {
	s := weekendSchedule(t)

	tests := []struct {
		name string
		now  time.Time
		date time.Time
		want bool
	}{
		{name: "before eve deadline", now: at(thursday, 11, 0), date: friday, want: true},
		{name: "exactly at eve deadline", now: at(thursday, 12, 0), date: friday, want: true},
		{name: "one minute past eve deadline", now: at(thursday, 12, 1), date: friday, want: false},
		{name: "one second past eve deadline", now: at(thursday, 12, 0).Add(time.Second), date: friday, want: false},
		{name: "well before, days out", now: at(thursday, 11, 0), date: sunday, want: true},
		{name: "closed monday", now: at(thursday, 8, 0), date: thursday.AddDate(0, 0, 4), want: false},
		{name: "closed thursday regardless of now", now: at(thursday.AddDate(0, 0, -7), 8, 0), date: thursday, want: false},
		// The cutoff for Saturday is Friday noon, even when now is
		// still days away from the pickup date.
		{name: "saturday before friday noon", now: at(friday, 11, 59), date: saturday, want: true},
		{name: "saturday after friday noon", now: at(friday, 12, 30), date: saturday, want: false},
		// Same-day pickup compares against yesterday's deadline,
		// which has always passed already.
		{name: "same day is never orderable", now: at(friday, 8, 0), date: friday, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.CanOrderForDate(tc.now, tc.date))
		})
	}
}

func TestCanOrderForDateClosedDayAnyTime(t *testing.T) {
	s := weekendSchedule(t)

	// Monday through Thursday are closed; no choice of now may make
	// them orderable.
	for offset := 4; offset <= 7; offset++ {
		date := thursday.AddDate(0, 0, offset) // Monday through next Thursday
		for _, now := range []time.Time{
			at(thursday, 0, 0),
			at(thursday.AddDate(0, 0, -30), 12, 0),
			at(date, 23, 59),
		} {
			assert.Falsef(t, s.CanOrderForDate(now, date),
				"closed %s must not be orderable at %s", date.Weekday(), now)
		}
	}
}

func TestTimeSlots(t *testing.T) {
	s := weekendSchedule(t)
	now := at(thursday, 11, 0)

	slots := s.TimeSlots(now, friday)
	require.Len(t, slots, 4)

	want := []string{"08:30-09:30", "09:30-10:30", "10:30-11:30", "11:30-12:30"}
	for i, slot := range slots {
		assert.Equal(t, want[i], slot.String())
	}

	// First slot opens with the shop, slots are contiguous and the
	// last one runs past closing because its start is before close.
	assert.Equal(t, "08:30", slots[0].Start.String())
	for i := 0; i < len(slots)-1; i++ {
		assert.Equal(t, slots[i].End, slots[i+1].Start)
		assert.Less(t, slots[i].Start, slots[i+1].Start)
	}
	assert.Greater(t, slots[len(slots)-1].End, MinuteOfDay(12*60))
}

func TestTimeSlotsUnorderableDates(t *testing.T) {
	s := weekendSchedule(t)

	t.Run("closed day yields nothing", func(t *testing.T) {
		assert.Empty(t, s.TimeSlots(at(thursday, 8, 0), thursday.AddDate(0, 0, 4)))
	})

	t.Run("past deadline yields nothing", func(t *testing.T) {
		assert.Empty(t, s.TimeSlots(at(thursday, 12, 1), friday))
	})

	t.Run("at deadline still yields slots", func(t *testing.T) {
		assert.Len(t, s.TimeSlots(at(thursday, 12, 0), friday), 4)
	})
}

func TestTimeSlotsShortInterval(t *testing.T) {
	open := DayHours{Open: "08:30", Close: "10:00"}
	closed := DayHours{Closed: true}
	s, err := New(
		WeekHours{closed, closed, closed, closed, closed, open, closed},
		Config{MaxDaysAhead: 7, SlotIntervalMinutes: 45, DeadlineHour: 12},
	)
	require.NoError(t, err)

	slots := s.TimeSlots(at(thursday, 9, 0), friday)
	require.Len(t, slots, 2)
	assert.Equal(t, "08:30-09:15", slots[0].String())
	// Start 09:15 is before the 10:00 close, so the slot is emitted
	// even though it ends at 10:00 exactly.
	assert.Equal(t, "09:15-10:00", slots[1].String())
}

func TestAvailableDates(t *testing.T) {
	s := weekendSchedule(t)

	t.Run("thursday morning sees both weekends", func(t *testing.T) {
		dates := s.AvailableDates(at(thursday, 11, 0))
		want := []time.Time{
			friday, saturday, sunday,
			friday.AddDate(0, 0, 7), saturday.AddDate(0, 0, 7), sunday.AddDate(0, 0, 7),
		}
		require.Len(t, dates, len(want))
		for i, d := range dates {
			assert.True(t, want[i].Equal(d), "index %d: want %s got %s", i, want[i], d)
		}
	})

	t.Run("past thursday noon drops friday", func(t *testing.T) {
		dates := s.AvailableDates(at(thursday, 12, 1))
		require.Len(t, dates, 5)
		assert.True(t, saturday.Equal(dates[0]))
	})

	t.Run("never longer than horizon plus one", func(t *testing.T) {
		for hour := 0; hour < 24; hour++ {
			dates := s.AvailableDates(at(thursday, hour, 30))
			assert.LessOrEqual(t, len(dates), 15)
		}
	})

	t.Run("strictly ascending and individually orderable", func(t *testing.T) {
		now := at(friday, 13, 0)
		dates := s.AvailableDates(now)
		for i, d := range dates {
			if i > 0 {
				assert.True(t, dates[i-1].Before(d))
			}
			assert.True(t, s.CanOrderForDate(now, d))
		}
	})

	t.Run("today is never offered", func(t *testing.T) {
		dates := s.AvailableDates(at(friday, 6, 0))
		for _, d := range dates {
			assert.False(t, friday.Equal(d))
		}
	})
}

func TestPureFunctions(t *testing.T) {
	s := weekendSchedule(t)
	now := at(thursday, 10, 15)

	assert.Equal(t, s.AvailableDates(now), s.AvailableDates(now))
	assert.Equal(t, s.TimeSlots(now, friday), s.TimeSlots(now, friday))
	assert.Equal(t, s.CanOrderForDate(now, friday), s.CanOrderForDate(now, friday))
}
