package schedule

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    MinuteOfDay
		wantErr bool
	}{
		{name: "midnight", in: "00:00", want: 0},
		{name: "half past eight", in: "08:30", want: 510},
		{name: "noon", in: "12:00", want: 720},
		{name: "last minute", in: "23:59", want: 1439},
		{name: "missing separator", in: "0830", wantErr: true},
		{name: "hour out of range", in: "24:00", wantErr: true},
		{name: "minute out of range", in: "12:60", wantErr: true},
		{name: "negative hour", in: "-1:00", wantErr: true},
		{name: "not a number", in: "ab:cd", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseClock(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrBadClock)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMinuteOfDayString(t *testing.T) {
	assert.Equal(t, "00:00", MinuteOfDay(0).String())
	assert.Equal(t, "08:30", MinuteOfDay(510).String())
	// Past-midnight overshoot still renders via plain division.
	assert.Equal(t, "12:30", MinuteOfDay(750).String())
}

func TestTimeRangeJSON(t *testing.T) {
	raw, err := json.Marshal(TimeRange{Start: 510, End: 570})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"08:30","end":"09:30"}`, string(raw))
}

func TestWeekHoursValidate(t *testing.T) {
	open := DayHours{Open: "08:30", Close: "12:00"}
	closed := DayHours{Open: "09:00", Close: "17:00", Closed: true}

	tests := []struct {
		name    string
		mutate  func(*WeekHours)
		wantErr bool
	}{
		{name: "weekend only", mutate: func(w *WeekHours) {}},
		{
			name: "closed day with garbage hours is fine",
			mutate: func(w *WeekHours) {
				w[1] = DayHours{Open: "zz", Close: "??", Closed: true}
			},
		},
		{
			name: "unparseable open time",
			mutate: func(w *WeekHours) {
				w[5] = DayHours{Open: "8h30", Close: "12:00"}
			},
			wantErr: true,
		},
		{
			name: "unparseable close time",
			mutate: func(w *WeekHours) {
				w[5] = DayHours{Open: "08:30", Close: "noon"}
			},
			wantErr: true,
		},
		{
			name: "open equal to close",
			mutate: func(w *WeekHours) {
				w[6] = DayHours{Open: "12:00", Close: "12:00"}
			},
			wantErr: true,
		},
		{
			name: "open after close",
			mutate: func(w *WeekHours) {
				w[0] = DayHours{Open: "13:00", Close: "12:00"}
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hours := WeekHours{open, closed, closed, closed, closed, open, open}
			tc.mutate(&hours)
			err := hours.Validate()
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrBadHours)
				return
			}
			require.NoError(t, err)
		})
	}
}
