package queries

import (
	"context"
	"log/slog"

	"mesa-reserve/internal/domain/schedule"
	"mesa-reserve/internal/infra"
	"mesa-reserve/internal/pkg/clock"
	"mesa-reserve/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrTableNotFound = errs.New("table not found")
	ErrInvalidDate   = errs.New("invalid date")
)

type TableViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TableView, error)
	List(ctx context.Context) ([]*TableView, error)
	ListBookableWithCapacity(ctx context.Context, partySize int, excludeID uuid.UUID) ([]*TableView, error)
}

type OccupiedSlotRepo interface {
	OccupiedStarts(ctx context.Context, tableID uuid.UUID, date schedule.Date) ([]string, error)
}

type SlotCacheStore interface {
	Get(ctx context.Context, tableID uuid.UUID, date schedule.Date) ([]OpenSlot, bool, error)
	Set(ctx context.Context, tableID uuid.UUID, date schedule.Date, slots []OpenSlot) error
}

type AvailabilityQueries interface {
	// AvailableDates lists the dates on which the table still has at least
	// one open slot, today or later.
	AvailableDates(ctx context.Context, tableID uuid.UUID) ([]string, error)
	// OpenSlots lists every offered start on a date, each annotated with
	// whether an active reservation holds it.
	OpenSlots(ctx context.Context, tableID uuid.UUID, date string) ([]OpenSlot, error)
}

type availabilityQueriesImpl struct {
	tables   TableViewRepo
	occupied OccupiedSlotRepo
	cache    SlotCacheStore
	clock    clock.Clock
}

func NewAvailabilityQueries(
	tables TableViewRepo,
	occupied OccupiedSlotRepo,
	cache SlotCacheStore,
	clock clock.Clock,
) AvailabilityQueries {
	return &availabilityQueriesImpl{
		tables:   tables,
		occupied: occupied,
		cache:    cache,
		clock:    clock,
	}
}

func (q *availabilityQueriesImpl) AvailableDates(ctx context.Context, tableID uuid.UUID) ([]string, error) {
	view, err := q.findTable(ctx, tableID)
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0, len(view.Availability))
	for _, block := range view.Availability {
		date, err := schedule.NewDate(block.Date)
		if err != nil {
			return nil, errs.Mark(err, ErrQueryFailed)
		}
		slots, err := q.openSlots(ctx, view, date)
		if err != nil {
			return nil, err
		}
		for _, s := range slots {
			if !s.Reserved {
				dates = append(dates, block.Date)
				break
			}
		}
	}
	return dates, nil
}

func (q *availabilityQueriesImpl) OpenSlots(ctx context.Context, tableID uuid.UUID, dateStr string) ([]OpenSlot, error) {
	date, err := schedule.NewDate(dateStr)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidDate)
	}

	view, err := q.findTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	return q.openSlots(ctx, view, date)
}

func (q *availabilityQueriesImpl) findTable(ctx context.Context, tableID uuid.UUID) (*TableView, error) {
	view, err := q.tables.FindByID(ctx, tableID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return view, nil
}

func (q *availabilityQueriesImpl) openSlots(ctx context.Context, view *TableView, date schedule.Date) ([]OpenSlot, error) {
	now := q.clock.Now()
	today := schedule.DateOf(now)
	if date.Before(today) {
		return []OpenSlot{}, nil
	}

	if cached, hit, err := q.cache.Get(ctx, view.ID, date); err != nil {
		slog.Warn("slot cache read failed", "table_id", view.ID, "error", err.Error())
	} else if hit {
		return cached, nil
	}

	starts, err := offeredStarts(view, date)
	if err != nil {
		return nil, err
	}
	if len(starts) == 0 {
		return []OpenSlot{}, nil
	}

	occupied, err := q.occupied.OccupiedStarts(ctx, view.ID, date)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	taken := make(map[string]bool, len(occupied))
	for _, s := range occupied {
		taken[s] = true
	}

	timeNow := schedule.TimeOfDayOf(now)
	slots := make([]OpenSlot, 0, len(starts))
	for _, start := range starts {
		if date.Equal(today) && start.Before(timeNow) {
			continue
		}
		slots = append(slots, OpenSlot{
			StartAt:  start.String(),
			Reserved: taken[start.String()],
		})
	}

	if err := q.cache.Set(ctx, view.ID, date, slots); err != nil {
		slog.Warn("slot cache write failed", "table_id", view.ID, "error", err.Error())
	}
	return slots, nil
}

func offeredStarts(view *TableView, date schedule.Date) ([]schedule.TimeOfDay, error) {
	for _, block := range view.Availability {
		if block.Date != date.String() {
			continue
		}
		starts := make([]schedule.TimeOfDay, 0, len(block.Times))
		for _, ts := range block.Times {
			r, err := schedule.ParseTimeRange(ts)
			if err != nil {
				return nil, errs.Mark(err, ErrQueryFailed)
			}
			starts = append(starts, r.Start())
		}
		return starts, nil
	}
	return nil, nil
}
