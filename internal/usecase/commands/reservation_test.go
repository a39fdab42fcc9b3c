//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"mesa-reserve/internal/domain/reservation"
	"mesa-reserve/internal/domain/table"
	"mesa-reserve/internal/domain/user"
	"mesa-reserve/internal/pkg/clock"
	"mesa-reserve/internal/usecase/commands"
	"mesa-reserve/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reservationFixture struct {
	tx    *fakeTx
	cache *fakeSlotCache
	clock *clock.MockClock
	uc    commands.ReservationCommands
	b     *builder.ReservationBuilder
}

func newReservationFixture(t *testing.T) *reservationFixture {
	t.Helper()

	b := builder.NewReservationBuilder()
	tx := newFakeTx()
	cache := &fakeSlotCache{}
	mockClock := clock.NewMockClock(b.Now)

	bookingRules, err := builder.NewRulesBuilder().BuildDomain()
	require.NoError(t, err)
	tx.rules.rules = bookingRules

	availability, err := builder.NewTableBuilder().BuildAvailability()
	require.NoError(t, err)
	tbl := table.ReconstructTable(b.TableID, "Mesa 1", 4, table.StatusAvailable, availability, b.Now, b.Now)
	tx.tables.byID[tbl.ID()] = tbl

	reader := &fakeReader{view: b.BuildView(uuid.Nil, "confirmed")}
	uc := commands.NewReservationUseCase(&fakeUoW{tx: tx}, reader, cache, mockClock)

	return &reservationFixture{tx: tx, cache: cache, clock: mockClock, uc: uc, b: b}
}

func (f *reservationFixture) seedReservation(t *testing.T, mutate ...func(*builder.ReservationBuilder)) *reservation.Reservation {
	t.Helper()
	b := builder.NewReservationBuilder()
	b.TableID = f.b.TableID
	for _, m := range mutate {
		m(b)
	}
	res, err := b.BuildDomain()
	require.NoError(t, err)
	f.tx.reservations.byID[res.ID()] = res
	return res
}

func TestCreateReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed immediately when auto-confirm is off", func(t *testing.T) {
		f := newReservationFixture(t)

		view, err := f.uc.CreateReservation(ctx, f.b.BuildDTO(), f.b.UserID)
		require.NoError(t, err)
		require.NotNil(t, view)

		require.Len(t, f.tx.reservations.created, 1)
		created := f.tx.reservations.created[0]
		assert.Equal(t, reservation.StatusConfirmed, created.Status())
		assert.Nil(t, created.ConfirmDueAt())
		assert.Equal(t, created.ID(), view.ID)

		assert.Equal(t, []string{"reservation_created"}, f.tx.outbox.topics)
		assert.Equal(t, []uuid.UUID{f.b.TableID}, f.cache.invalidated)
	})

	t.Run("table status is read under a share lock", func(t *testing.T) {
		f := newReservationFixture(t)

		_, err := f.uc.CreateReservation(ctx, f.b.BuildDTO(), f.b.UserID)
		require.NoError(t, err)

		// The insert must ride on the locked read so a concurrent
		// maintenance flip either sees the booking or waits behind it.
		assert.Equal(t, []uuid.UUID{f.b.TableID}, f.tx.tables.sharedReads)
	})

	t.Run("pending with a due time when auto-confirm is on", func(t *testing.T) {
		f := newReservationFixture(t)
		bookingRules, err := builder.NewRulesBuilder().WithAutoConfirm(15).BuildDomain()
		require.NoError(t, err)
		f.tx.rules.rules = bookingRules

		_, err = f.uc.CreateReservation(ctx, f.b.BuildDTO(), f.b.UserID)
		require.NoError(t, err)

		require.Len(t, f.tx.reservations.created, 1)
		created := f.tx.reservations.created[0]
		assert.Equal(t, reservation.StatusPending, created.Status())
		require.NotNil(t, created.ConfirmDueAt())
		assert.Equal(t, f.clock.Now().Add(15*time.Minute), *created.ConfirmDueAt())
	})

	t.Run("start outside opening hours", func(t *testing.T) {
		f := newReservationFixture(t)
		bookingRules, err := builder.NewRulesBuilder().WithOpeningHours("09:00", "17:00").BuildDomain()
		require.NoError(t, err)
		f.tx.rules.rules = bookingRules

		_, err = f.uc.CreateReservation(ctx, f.b.BuildDTO(), f.b.UserID)
		assert.ErrorIs(t, err, commands.ErrOutsideOpeningHours)
		assert.Empty(t, f.tx.reservations.created)
	})

	t.Run("rolling reservation limit reached", func(t *testing.T) {
		f := newReservationFixture(t)
		bookingRules, err := builder.NewRulesBuilder().WithReservationLimit(2, 24).BuildDomain()
		require.NoError(t, err)
		f.tx.rules.rules = bookingRules
		f.tx.reservations.countActive = 2

		_, err = f.uc.CreateReservation(ctx, f.b.BuildDTO(), f.b.UserID)
		assert.ErrorIs(t, err, commands.ErrRateLimitExceeded)
	})

	t.Run("limit not reached books normally", func(t *testing.T) {
		f := newReservationFixture(t)
		bookingRules, err := builder.NewRulesBuilder().WithReservationLimit(2, 24).BuildDomain()
		require.NoError(t, err)
		f.tx.rules.rules = bookingRules
		f.tx.reservations.countActive = 1

		_, err = f.uc.CreateReservation(ctx, f.b.BuildDTO(), f.b.UserID)
		assert.NoError(t, err)
		assert.Equal(t, []uuid.UUID{f.b.UserID}, f.tx.reservations.userLocks)
	})

	t.Run("no user lock while the limit is disabled", func(t *testing.T) {
		f := newReservationFixture(t)

		_, err := f.uc.CreateReservation(ctx, f.b.BuildDTO(), f.b.UserID)
		require.NoError(t, err)
		assert.Empty(t, f.tx.reservations.userLocks)
	})

	t.Run("table validation", func(t *testing.T) {
		cases := []struct {
			name  string
			setup func(f *reservationFixture)
			errIs error
		}{
			{
				name:  "unknown table",
				setup: func(f *reservationFixture) { delete(f.tx.tables.byID, f.b.TableID) },
				errIs: commands.ErrTableNotFound,
			},
			{
				name: "table under maintenance",
				setup: func(f *reservationFixture) {
					require.NoError(t, f.tx.tables.byID[f.b.TableID].EnterMaintenance())
				},
				errIs: commands.ErrTableNotBookable,
			},
			{
				name:  "party larger than the table",
				setup: func(f *reservationFixture) { f.b.PartySize = 5 },
				errIs: commands.ErrCapacityExceeded,
			},
			{
				name:  "start not offered by the table",
				setup: func(f *reservationFixture) { f.b.StartAt = "19:00" },
				errIs: commands.ErrSlotNotOffered,
			},
			{
				name:  "date without an availability block",
				setup: func(f *reservationFixture) { f.b.ReservedOn = "2025-06-12" },
				errIs: commands.ErrSlotNotOffered,
			},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				f := newReservationFixture(t)
				tc.setup(f)

				_, err := f.uc.CreateReservation(ctx, f.b.BuildDTO(), f.b.UserID)
				assert.ErrorIs(t, err, tc.errIs)
			})
		}
	})

	t.Run("losing the slot race", func(t *testing.T) {
		f := newReservationFixture(t)
		f.tx.reservations.createErr = conflictErr()

		_, err := f.uc.CreateReservation(ctx, f.b.BuildDTO(), f.b.UserID)
		assert.ErrorIs(t, err, commands.ErrSlotTaken)
		assert.Empty(t, f.cache.invalidated)
	})

	t.Run("malformed date", func(t *testing.T) {
		f := newReservationFixture(t)
		f.b.ReservedOn = "11/06/2025"

		_, err := f.uc.CreateReservation(ctx, f.b.BuildDTO(), f.b.UserID)
		assert.ErrorIs(t, err, commands.ErrDomainValidation)
	})
}

func TestConfirmReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("pending reservation is confirmed", func(t *testing.T) {
		f := newReservationFixture(t)
		res := f.seedReservation(t, func(b *builder.ReservationBuilder) {
			b.WithAutoConfirmAfter(15 * time.Minute)
		})

		require.NoError(t, f.uc.ConfirmReservation(ctx, res.ID()))
		assert.Equal(t, reservation.StatusConfirmed, res.Status())
		assert.Equal(t, []string{"reservation_confirmed"}, f.tx.outbox.topics)
	})

	t.Run("confirmed reservation is refused", func(t *testing.T) {
		f := newReservationFixture(t)
		res := f.seedReservation(t)

		err := f.uc.ConfirmReservation(ctx, res.ID())
		assert.ErrorIs(t, err, commands.ErrInvalidTransition)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		f := newReservationFixture(t)

		err := f.uc.ConfirmReservation(ctx, uuid.New())
		assert.ErrorIs(t, err, commands.ErrReservationNotFound)
	})
}

func TestCancelReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("owner cancels", func(t *testing.T) {
		f := newReservationFixture(t)
		res := f.seedReservation(t)
		actor := commands.Actor{ID: res.UserID(), Role: user.RoleCustomer}

		require.NoError(t, f.uc.CancelReservation(ctx, res.ID(), actor))
		assert.Equal(t, reservation.StatusCancelled, res.Status())
		assert.Equal(t, []string{"reservation_cancelled"}, f.tx.outbox.topics)
		assert.Equal(t, []uuid.UUID{res.TableID()}, f.cache.invalidated)
	})

	t.Run("another customer cannot cancel", func(t *testing.T) {
		f := newReservationFixture(t)
		res := f.seedReservation(t)
		actor := commands.Actor{ID: uuid.New(), Role: user.RoleCustomer}

		err := f.uc.CancelReservation(ctx, res.ID(), actor)
		assert.ErrorIs(t, err, commands.ErrNotReservationOwner)
		assert.Equal(t, reservation.StatusConfirmed, res.Status())
	})

	t.Run("admin cancels any reservation", func(t *testing.T) {
		f := newReservationFixture(t)
		res := f.seedReservation(t)
		actor := commands.Actor{ID: uuid.New(), Role: user.RoleAdmin}

		require.NoError(t, f.uc.CancelReservation(ctx, res.ID(), actor))
		assert.Equal(t, reservation.StatusCancelled, res.Status())
	})

	t.Run("cancelling twice is refused", func(t *testing.T) {
		f := newReservationFixture(t)
		res := f.seedReservation(t)
		actor := commands.Actor{ID: res.UserID(), Role: user.RoleCustomer}

		require.NoError(t, f.uc.CancelReservation(ctx, res.ID(), actor))
		err := f.uc.CancelReservation(ctx, res.ID(), actor)
		assert.ErrorIs(t, err, commands.ErrInvalidTransition)
	})
}

func TestClearReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("cancelled reservation is cleared", func(t *testing.T) {
		f := newReservationFixture(t)
		res := f.seedReservation(t)
		require.NoError(t, res.Cancel())

		require.NoError(t, f.uc.ClearReservation(ctx, res.ID(), res.UserID()))
		assert.True(t, res.Cleared())
	})

	t.Run("active reservation cannot be cleared", func(t *testing.T) {
		f := newReservationFixture(t)
		res := f.seedReservation(t)

		err := f.uc.ClearReservation(ctx, res.ID(), res.UserID())
		assert.ErrorIs(t, err, commands.ErrInvalidTransition)
		assert.False(t, res.Cleared())
	})

	t.Run("only the owner clears", func(t *testing.T) {
		f := newReservationFixture(t)
		res := f.seedReservation(t)
		require.NoError(t, res.Cancel())

		err := f.uc.ClearReservation(ctx, res.ID(), uuid.New())
		assert.ErrorIs(t, err, commands.ErrNotReservationOwner)
	})
}

func TestConfirmDueReservations(t *testing.T) {
	ctx := context.Background()

	t.Run("promotes every due reservation", func(t *testing.T) {
		f := newReservationFixture(t)
		due := []uuid.UUID{uuid.New(), uuid.New()}
		f.tx.reservations.confirmDueIDs = due

		promoted, err := f.uc.ConfirmDueReservations(ctx)
		require.NoError(t, err)
		assert.Equal(t, due, promoted)
		assert.Equal(t, []string{"reservation_confirmed", "reservation_confirmed"}, f.tx.outbox.topics)
	})

	t.Run("nothing due", func(t *testing.T) {
		f := newReservationFixture(t)

		promoted, err := f.uc.ConfirmDueReservations(ctx)
		require.NoError(t, err)
		assert.Empty(t, promoted)
		assert.Empty(t, f.tx.outbox.topics)
	})
}
