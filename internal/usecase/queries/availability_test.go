//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"mesa-reserve/internal/domain/schedule"
	"mesa-reserve/internal/infra"
	"mesa-reserve/internal/pkg/clock"
	"mesa-reserve/internal/usecase/queries"
	"mesa-reserve/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTableViewRepo struct {
	byID map[uuid.UUID]*queries.TableView
}

func (r *fakeTableViewRepo) FindByID(_ context.Context, id uuid.UUID) (*queries.TableView, error) {
	view, ok := r.byID[id]
	if !ok {
		return nil, infra.WrapRepoErr("not found", nil, infra.KindNotFound)
	}
	return view, nil
}

func (r *fakeTableViewRepo) List(_ context.Context) ([]*queries.TableView, error) {
	return nil, nil
}

func (r *fakeTableViewRepo) ListBookableWithCapacity(_ context.Context, _ int, _ uuid.UUID) ([]*queries.TableView, error) {
	return nil, nil
}

type fakeOccupiedRepo struct {
	byDate map[string][]string
	calls  int
}

func (r *fakeOccupiedRepo) OccupiedStarts(_ context.Context, _ uuid.UUID, date schedule.Date) ([]string, error) {
	r.calls++
	return r.byDate[date.String()], nil
}

type fakeSlotCacheStore struct {
	entries map[string][]queries.OpenSlot
}

func newFakeSlotCacheStore() *fakeSlotCacheStore {
	return &fakeSlotCacheStore{entries: make(map[string][]queries.OpenSlot)}
}

func (c *fakeSlotCacheStore) key(tableID uuid.UUID, date schedule.Date) string {
	return tableID.String() + ":" + date.String()
}

func (c *fakeSlotCacheStore) Get(_ context.Context, tableID uuid.UUID, date schedule.Date) ([]queries.OpenSlot, bool, error) {
	slots, ok := c.entries[c.key(tableID, date)]
	return slots, ok, nil
}

func (c *fakeSlotCacheStore) Set(_ context.Context, tableID uuid.UUID, date schedule.Date, slots []queries.OpenSlot) error {
	c.entries[c.key(tableID, date)] = slots
	return nil
}

type availabilityFixture struct {
	tableID  uuid.UUID
	tables   *fakeTableViewRepo
	occupied *fakeOccupiedRepo
	cache    *fakeSlotCacheStore
	clock    *clock.MockClock
	q        queries.AvailabilityQueries
}

func newAvailabilityFixture(blocks ...builder.BlockSpec) *availabilityFixture {
	tableID := uuid.New()
	b := builder.NewTableBuilder()
	if len(blocks) > 0 {
		b.WithBlocks(blocks...)
	}

	tables := &fakeTableViewRepo{byID: map[uuid.UUID]*queries.TableView{
		tableID: b.BuildView(tableID, "available"),
	}}
	occupied := &fakeOccupiedRepo{byDate: make(map[string][]string)}
	cache := newFakeSlotCacheStore()
	mockClock := clock.NewMockClock(b.Now)

	return &availabilityFixture{
		tableID:  tableID,
		tables:   tables,
		occupied: occupied,
		cache:    cache,
		clock:    mockClock,
		q:        queries.NewAvailabilityQueries(tables, occupied, cache, mockClock),
	}
}

func TestOpenSlots(t *testing.T) {
	ctx := context.Background()

	t.Run("occupied starts are annotated as reserved", func(t *testing.T) {
		f := newAvailabilityFixture()
		f.occupied.byDate["2025-06-11"] = []string{"18:00"}

		slots, err := f.q.OpenSlots(ctx, f.tableID, "2025-06-11")
		require.NoError(t, err)

		expected := []queries.OpenSlot{
			{StartAt: "18:00", Reserved: true},
			{StartAt: "20:00", Reserved: false},
		}
		if diff := cmp.Diff(expected, slots); diff != "" {
			t.Errorf("OpenSlots mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("past date yields no slots", func(t *testing.T) {
		f := newAvailabilityFixture()

		slots, err := f.q.OpenSlots(ctx, f.tableID, "2025-06-09")
		require.NoError(t, err)
		assert.Empty(t, slots)
		assert.Zero(t, f.occupied.calls)
	})

	t.Run("today hides starts that already passed", func(t *testing.T) {
		f := newAvailabilityFixture(builder.BlockSpec{
			Date:  "2025-06-10",
			Times: []string{"11:00-13:00", "18:00-20:00"},
		})
		f.clock.Set(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))

		slots, err := f.q.OpenSlots(ctx, f.tableID, "2025-06-10")
		require.NoError(t, err)

		assert.Equal(t, []queries.OpenSlot{{StartAt: "18:00", Reserved: false}}, slots)
	})

	t.Run("date without a block yields no slots", func(t *testing.T) {
		f := newAvailabilityFixture()

		slots, err := f.q.OpenSlots(ctx, f.tableID, "2025-07-01")
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("cache hit skips the store", func(t *testing.T) {
		f := newAvailabilityFixture()
		mustDate := func(s string) schedule.Date {
			d, err := schedule.NewDate(s)
			require.NoError(t, err)
			return d
		}
		cached := []queries.OpenSlot{{StartAt: "18:00", Reserved: true}}
		require.NoError(t, f.cache.Set(ctx, f.tableID, mustDate("2025-06-11"), cached))

		slots, err := f.q.OpenSlots(ctx, f.tableID, "2025-06-11")
		require.NoError(t, err)

		assert.Equal(t, cached, slots)
		assert.Zero(t, f.occupied.calls)
	})

	t.Run("miss populates the cache", func(t *testing.T) {
		f := newAvailabilityFixture()

		_, err := f.q.OpenSlots(ctx, f.tableID, "2025-06-11")
		require.NoError(t, err)
		require.Equal(t, 1, f.occupied.calls)

		_, err = f.q.OpenSlots(ctx, f.tableID, "2025-06-11")
		require.NoError(t, err)
		assert.Equal(t, 1, f.occupied.calls)
	})

	t.Run("malformed date", func(t *testing.T) {
		f := newAvailabilityFixture()

		_, err := f.q.OpenSlots(ctx, f.tableID, "11/06/2025")
		assert.ErrorIs(t, err, queries.ErrInvalidDate)
	})

	t.Run("unknown table", func(t *testing.T) {
		f := newAvailabilityFixture()

		_, err := f.q.OpenSlots(ctx, uuid.New(), "2025-06-11")
		assert.ErrorIs(t, err, queries.ErrTableNotFound)
	})
}

func TestAvailableDates(t *testing.T) {
	ctx := context.Background()

	t.Run("only dates with at least one free slot", func(t *testing.T) {
		f := newAvailabilityFixture(
			builder.BlockSpec{Date: "2025-06-11", Times: []string{"18:00-20:00"}},
			builder.BlockSpec{Date: "2025-06-12", Times: []string{"18:00-20:00", "20:00-22:00"}},
		)
		f.occupied.byDate["2025-06-11"] = []string{"18:00"}
		f.occupied.byDate["2025-06-12"] = []string{"18:00"}

		dates, err := f.q.AvailableDates(ctx, f.tableID)
		require.NoError(t, err)

		assert.Equal(t, []string{"2025-06-12"}, dates)
	})

	t.Run("past dates are skipped", func(t *testing.T) {
		f := newAvailabilityFixture(
			builder.BlockSpec{Date: "2025-06-09", Times: []string{"18:00-20:00"}},
			builder.BlockSpec{Date: "2025-06-11", Times: []string{"18:00-20:00"}},
		)

		dates, err := f.q.AvailableDates(ctx, f.tableID)
		require.NoError(t, err)

		assert.Equal(t, []string{"2025-06-11"}, dates)
	})

	t.Run("fully booked table has no dates", func(t *testing.T) {
		f := newAvailabilityFixture(builder.BlockSpec{Date: "2025-06-11", Times: []string{"18:00-20:00"}})
		f.occupied.byDate["2025-06-11"] = []string{"18:00"}

		dates, err := f.q.AvailableDates(ctx, f.tableID)
		require.NoError(t, err)
		assert.Empty(t, dates)
	})
}
