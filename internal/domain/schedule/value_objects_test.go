//go:build unit

package schedule_test

import (
	"testing"
	"time"

	"mesa-reserve/internal/domain/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	t.Run("parsing", func(t *testing.T) {
		cases := []struct {
			name  string
			input string
			errIs error
		}{
			{name: "valid date", input: "2025-06-11"},
			{name: "valid date with surrounding spaces", input: " 2025-06-11 "},
			{name: "empty string", input: "", errIs: schedule.ErrInvalidDate},
			{name: "wrong separator", input: "2025/06/11", errIs: schedule.ErrInvalidDate},
			{name: "day first", input: "11-06-2025", errIs: schedule.ErrInvalidDate},
			{name: "nonexistent day", input: "2025-02-30", errIs: schedule.ErrInvalidDate},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				d, err := schedule.NewDate(tc.input)
				if tc.errIs != nil {
					assert.ErrorIs(t, err, tc.errIs)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, "2025-06-11", d.String())
			})
		}
	})

	t.Run("DateOf truncates the instant to its calendar day", func(t *testing.T) {
		instant := time.Date(2025, 6, 11, 23, 59, 59, 0, time.UTC)
		d := schedule.DateOf(instant)

		assert.Equal(t, "2025-06-11", d.String())

		sameDay := schedule.DateOf(time.Date(2025, 6, 11, 0, 0, 1, 0, time.UTC))
		assert.True(t, d.Equal(sameDay))
	})

	t.Run("ordering", func(t *testing.T) {
		earlier, err := schedule.NewDate("2025-06-10")
		require.NoError(t, err)
		later, err := schedule.NewDate("2025-06-11")
		require.NoError(t, err)

		assert.True(t, earlier.Before(later))
		assert.False(t, later.Before(earlier))
		assert.False(t, earlier.Equal(later))
	})
}

func TestTimeOfDay(t *testing.T) {
	t.Run("parsing", func(t *testing.T) {
		cases := []struct {
			name  string
			input string
			want  string
			errIs error
		}{
			{name: "valid time", input: "19:00", want: "19:00"},
			{name: "midnight", input: "00:00", want: "00:00"},
			{name: "last minute of the day", input: "23:59", want: "23:59"},
			{name: "missing minutes", input: "19", errIs: schedule.ErrInvalidTimeOfDay},
			{name: "out of range hour", input: "24:00", errIs: schedule.ErrInvalidTimeOfDay},
			{name: "empty string", input: "", errIs: schedule.ErrInvalidTimeOfDay},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				tod, err := schedule.NewTimeOfDay(tc.input)
				if tc.errIs != nil {
					assert.ErrorIs(t, err, tc.errIs)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tc.want, tod.String())
			})
		}
	})

	t.Run("ordering", func(t *testing.T) {
		early, err := schedule.NewTimeOfDay("18:00")
		require.NoError(t, err)
		late, err := schedule.NewTimeOfDay("20:00")
		require.NoError(t, err)

		assert.True(t, early.Before(late))
		assert.True(t, late.After(early))
		assert.False(t, early.Equal(late))
	})
}

func TestTimeRange(t *testing.T) {
	t.Run("parsing", func(t *testing.T) {
		cases := []struct {
			name  string
			input string
			errIs error
		}{
			{name: "valid range", input: "18:00-20:00"},
			{name: "start equals end", input: "18:00-18:00", errIs: schedule.ErrInvalidTimeRange},
			{name: "start after end", input: "20:00-18:00", errIs: schedule.ErrInvalidTimeRange},
			{name: "missing end", input: "18:00", errIs: schedule.ErrInvalidTimeRange},
			{name: "bad start time", input: "25:00-26:00", errIs: schedule.ErrInvalidTimeRange},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				r, err := schedule.ParseTimeRange(tc.input)
				if tc.errIs != nil {
					assert.ErrorIs(t, err, tc.errIs)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tc.input, r.String())
			})
		}
	})

	t.Run("overlap", func(t *testing.T) {
		mustRange := func(s string) schedule.TimeRange {
			r, err := schedule.ParseTimeRange(s)
			require.NoError(t, err)
			return r
		}

		cases := []struct {
			name string
			a, b string
			want bool
		}{
			{name: "disjoint ranges", a: "18:00-20:00", b: "20:30-22:00", want: false},
			{name: "adjacent ranges do not overlap", a: "18:00-20:00", b: "20:00-22:00", want: false},
			{name: "partial overlap", a: "18:00-20:00", b: "19:00-21:00", want: true},
			{name: "containment", a: "18:00-22:00", b: "19:00-20:00", want: true},
			{name: "identical ranges", a: "18:00-20:00", b: "18:00-20:00", want: true},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				a, b := mustRange(tc.a), mustRange(tc.b)
				assert.Equal(t, tc.want, a.Overlaps(b))
				assert.Equal(t, tc.want, b.Overlaps(a))
			})
		}
	})
}
