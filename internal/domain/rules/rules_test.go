//go:build unit

package rules_test

import (
	"testing"
	"time"

	"mesa-reserve/internal/domain/rules"
	"mesa-reserve/internal/domain/schedule"
	"mesa-reserve/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.RulesBuilder)
	errIs  error
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewRulesBuilder()
			tc.mutate(b)
			actual, err := b.BuildDomain()
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, actual)
		})
	}
}

func TestNewBookingRules(t *testing.T) {
	t.Run("all rules disabled", func(t *testing.T) {
		actual, err := builder.NewRulesBuilder().BuildDomain()
		require.NoError(t, err)

		assert.False(t, actual.OpeningHoursEnabled())
		assert.False(t, actual.AutoConfirmEnabled())
		assert.False(t, actual.ReservationLimitEnabled())
	})

	t.Run("opening hours validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "opening before closing",
				mutate: func(b *builder.RulesBuilder) { b.WithOpeningHours("09:00", "22:00") },
			},
			{
				name:   "opening equals closing",
				mutate: func(b *builder.RulesBuilder) { b.WithOpeningHours("09:00", "09:00") },
				errIs:  rules.ErrClosingBeforeOpening,
			},
			{
				name:   "closing before opening",
				mutate: func(b *builder.RulesBuilder) { b.WithOpeningHours("22:00", "09:00") },
				errIs:  rules.ErrClosingBeforeOpening,
			},
			{
				name:   "inverted hours are fine while the rule is off",
				mutate: func(b *builder.RulesBuilder) { b.OpeningHour, b.ClosingHour = "22:00", "09:00" },
			},
		})
	})

	t.Run("auto-confirm validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "positive delay",
				mutate: func(b *builder.RulesBuilder) { b.WithAutoConfirm(15) },
			},
			{
				name:   "zero delay",
				mutate: func(b *builder.RulesBuilder) { b.WithAutoConfirm(0) },
				errIs:  rules.ErrInvalidAutoConfirm,
			},
			{
				name:   "negative delay",
				mutate: func(b *builder.RulesBuilder) { b.WithAutoConfirm(-1) },
				errIs:  rules.ErrInvalidAutoConfirm,
			},
		})
	})

	t.Run("reservation limit validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "positive cap and window",
				mutate: func(b *builder.RulesBuilder) { b.WithReservationLimit(3, 24) },
			},
			{
				name:   "zero cap",
				mutate: func(b *builder.RulesBuilder) { b.WithReservationLimit(0, 24) },
				errIs:  rules.ErrInvalidReservationCap,
			},
			{
				name:   "zero window",
				mutate: func(b *builder.RulesBuilder) { b.WithReservationLimit(3, 0) },
				errIs:  rules.ErrInvalidLimitWindow,
			},
		})
	})
}

func TestWithinOpeningHours(t *testing.T) {
	mustTime := func(s string) schedule.TimeOfDay {
		tod, err := schedule.NewTimeOfDay(s)
		require.NoError(t, err)
		return tod
	}

	t.Run("disabled rule admits any start", func(t *testing.T) {
		r, err := builder.NewRulesBuilder().BuildDomain()
		require.NoError(t, err)

		assert.True(t, r.WithinOpeningHours(mustTime("03:00")))
	})

	t.Run("enabled rule bounds are inclusive", func(t *testing.T) {
		r, err := builder.NewRulesBuilder().WithOpeningHours("09:00", "22:00").BuildDomain()
		require.NoError(t, err)

		cases := []struct {
			start string
			want  bool
		}{
			{start: "08:59", want: false},
			{start: "09:00", want: true},
			{start: "15:00", want: true},
			{start: "22:00", want: true},
			{start: "22:01", want: false},
		}
		for _, tc := range cases {
			t.Run(tc.start, func(t *testing.T) {
				assert.Equal(t, tc.want, r.WithinOpeningHours(mustTime(tc.start)))
			})
		}
	})
}

func TestAutoConfirmDelay(t *testing.T) {
	t.Run("nil while disabled", func(t *testing.T) {
		r, err := builder.NewRulesBuilder().BuildDomain()
		require.NoError(t, err)
		assert.Nil(t, r.AutoConfirmDelay())
	})

	t.Run("minutes as a duration while enabled", func(t *testing.T) {
		r, err := builder.NewRulesBuilder().WithAutoConfirm(15).BuildDomain()
		require.NoError(t, err)

		d := r.AutoConfirmDelay()
		require.NotNil(t, d)
		assert.Equal(t, 15*time.Minute, *d)
	})
}

func TestLimitWindow(t *testing.T) {
	t.Run("zero while disabled", func(t *testing.T) {
		r, err := builder.NewRulesBuilder().BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, time.Duration(0), r.LimitWindow())
	})

	t.Run("hours as a duration while enabled", func(t *testing.T) {
		r, err := builder.NewRulesBuilder().WithReservationLimit(3, 24).BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, 24*time.Hour, r.LimitWindow())
	})
}
