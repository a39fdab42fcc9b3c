//go:build unit

package reservation_test

import (
	"strings"
	"testing"
	"time"

	"mesa-reserve/internal/domain/reservation"
	"mesa-reserve/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.ReservationBuilder)
	errIs  error
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewReservationBuilder()
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

func TestNewReservation(t *testing.T) {
	t.Run("confirmed on the spot when auto-confirm is off", func(t *testing.T) {
		actual, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, reservation.StatusConfirmed, actual.Status())
		assert.Nil(t, actual.ConfirmDueAt())
		assert.True(t, actual.IsActive())
		assert.False(t, actual.Cleared())
	})

	t.Run("pending with a due time when auto-confirm is armed", func(t *testing.T) {
		b := builder.NewReservationBuilder().WithAutoConfirmAfter(15 * time.Minute)
		actual, err := b.BuildDomain()
		require.NoError(t, err)

		assert.Equal(t, reservation.StatusPending, actual.Status())
		require.NotNil(t, actual.ConfirmDueAt())
		assert.Equal(t, b.Now.Add(15*time.Minute), *actual.ConfirmDueAt())
		assert.True(t, actual.IsActive())
	})

	t.Run("customer name validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "name is trimmed",
				mutate: func(b *builder.ReservationBuilder) { b.WithCustomerName("  Maria  ") },
			},
			{
				name:   "empty name",
				mutate: func(b *builder.ReservationBuilder) { b.WithCustomerName("") },
				errIs:  reservation.ErrEmptyCustomerName,
			},
			{
				name:   "whitespace only name",
				mutate: func(b *builder.ReservationBuilder) { b.WithCustomerName("   ") },
				errIs:  reservation.ErrEmptyCustomerName,
			},
		})
	})
}

func TestObservations(t *testing.T) {
	t.Run("maximum length", func(t *testing.T) {
		obs, err := reservation.NewObservations(strings.Repeat("a", reservation.MaxObservationsLength))
		require.NoError(t, err)
		assert.False(t, obs.IsEmpty())
	})

	t.Run("exceeds maximum length", func(t *testing.T) {
		_, err := reservation.NewObservations(strings.Repeat("a", reservation.MaxObservationsLength+1))
		assert.ErrorIs(t, err, reservation.ErrObservationsTooLong)
	})

	t.Run("trimmed before the length check", func(t *testing.T) {
		obs, err := reservation.NewObservations("  " + strings.Repeat("a", reservation.MaxObservationsLength) + "  ")
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("a", reservation.MaxObservationsLength), obs.String())
	})

	t.Run("empty is allowed", func(t *testing.T) {
		obs, err := reservation.NewObservations("")
		require.NoError(t, err)
		assert.True(t, obs.IsEmpty())
	})
}

func TestReservationTransitions(t *testing.T) {
	pending := func(t *testing.T) *reservation.Reservation {
		t.Helper()
		res, err := builder.NewReservationBuilder().WithAutoConfirmAfter(15 * time.Minute).BuildDomain()
		require.NoError(t, err)
		return res
	}
	confirmed := func(t *testing.T) *reservation.Reservation {
		t.Helper()
		res, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)
		return res
	}

	t.Run("manual confirm of a pending reservation", func(t *testing.T) {
		res := pending(t)
		require.NoError(t, res.Confirm())
		assert.Equal(t, reservation.StatusConfirmed, res.Status())
		assert.Nil(t, res.ConfirmDueAt())
	})

	t.Run("manual confirm of a confirmed reservation is refused", func(t *testing.T) {
		res := confirmed(t)
		assert.ErrorIs(t, res.Confirm(), reservation.ErrNotPending)
	})

	t.Run("auto-confirm fires on a pending reservation", func(t *testing.T) {
		res := pending(t)
		assert.True(t, res.AutoConfirm())
		assert.Equal(t, reservation.StatusConfirmed, res.Status())
		assert.Nil(t, res.ConfirmDueAt())
	})

	t.Run("auto-confirm is a no-op after a cancel", func(t *testing.T) {
		res := pending(t)
		require.NoError(t, res.Cancel())

		assert.False(t, res.AutoConfirm())
		assert.Equal(t, reservation.StatusCancelled, res.Status())
	})

	t.Run("cancel from pending and confirmed", func(t *testing.T) {
		for name, res := range map[string]*reservation.Reservation{
			"pending":   pending(t),
			"confirmed": confirmed(t),
		} {
			t.Run(name, func(t *testing.T) {
				require.NoError(t, res.Cancel())
				assert.Equal(t, reservation.StatusCancelled, res.Status())
				assert.False(t, res.IsActive())
			})
		}
	})

	t.Run("cancel twice is refused", func(t *testing.T) {
		res := confirmed(t)
		require.NoError(t, res.Cancel())
		assert.ErrorIs(t, res.Cancel(), reservation.ErrAlreadyCancelled)
	})

	t.Run("clear requires a cancelled reservation", func(t *testing.T) {
		res := confirmed(t)
		assert.ErrorIs(t, res.ClearFromView(), reservation.ErrNotCancelled)

		require.NoError(t, res.Cancel())
		require.NoError(t, res.ClearFromView())
		assert.True(t, res.Cleared())
	})

	t.Run("move preserves status and slot time", func(t *testing.T) {
		res := confirmed(t)
		target := uuid.New()

		res.MoveToTable(target)

		assert.Equal(t, target, res.TableID())
		assert.Equal(t, reservation.StatusConfirmed, res.Status())
		assert.Equal(t, "18:00", res.StartAt().String())
	})
}

func TestStatusCanTransitionTo(t *testing.T) {
	cases := []struct {
		from reservation.Status
		to   reservation.Status
		want bool
	}{
		{reservation.StatusPending, reservation.StatusConfirmed, true},
		{reservation.StatusPending, reservation.StatusCancelled, true},
		{reservation.StatusConfirmed, reservation.StatusCancelled, true},
		{reservation.StatusConfirmed, reservation.StatusPending, false},
		{reservation.StatusCancelled, reservation.StatusPending, false},
		{reservation.StatusCancelled, reservation.StatusConfirmed, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+" to "+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to))
		})
	}
}
