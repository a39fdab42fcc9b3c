package queries

import (
	"context"

	"mesa-reserve/internal/domain/schedule"
	"mesa-reserve/internal/infra"
	"mesa-reserve/internal/pkg/errs"

	"github.com/google/uuid"
)

type TableQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*TableView, error)
	List(ctx context.Context) ([]*TableView, error)
	// RescheduleCandidates lists the tables a reservation could move to:
	// bookable, big enough, offering the same slot, and with that slot free.
	RescheduleCandidates(ctx context.Context, reservationID uuid.UUID) ([]*TableView, error)
}

type tableQueriesImpl struct {
	tables       TableViewRepo
	reservations ReservationViewRepo
	occupied     OccupiedSlotRepo
}

func NewTableQueries(tables TableViewRepo, reservations ReservationViewRepo, occupied OccupiedSlotRepo) TableQueries {
	return &tableQueriesImpl{
		tables:       tables,
		reservations: reservations,
		occupied:     occupied,
	}
}

func (q *tableQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*TableView, error) {
	view, err := q.tables.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return view, nil
}

func (q *tableQueriesImpl) List(ctx context.Context) ([]*TableView, error) {
	views, err := q.tables.List(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return views, nil
}

func (q *tableQueriesImpl) RescheduleCandidates(ctx context.Context, reservationID uuid.UUID) ([]*TableView, error) {
	res, err := q.reservations.FindByID(ctx, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	date, err := schedule.NewDate(res.ReservedOn)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	candidates, err := q.tables.ListBookableWithCapacity(ctx, res.PartySize, res.TableID)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	result := make([]*TableView, 0, len(candidates))
	for _, candidate := range candidates {
		offers, err := offersStart(candidate, res.ReservedOn, res.StartAt)
		if err != nil {
			return nil, err
		}
		if !offers {
			continue
		}

		occupied, err := q.occupied.OccupiedStarts(ctx, candidate.ID, date)
		if err != nil {
			return nil, errs.Mark(err, ErrQueryFailed)
		}
		if containsStart(occupied, res.StartAt) {
			continue
		}
		result = append(result, candidate)
	}
	return result, nil
}

func offersStart(view *TableView, date, startAt string) (bool, error) {
	for _, block := range view.Availability {
		if block.Date != date {
			continue
		}
		for _, ts := range block.Times {
			r, err := schedule.ParseTimeRange(ts)
			if err != nil {
				return false, errs.Mark(err, ErrQueryFailed)
			}
			if r.Start().String() == startAt {
				return true, nil
			}
		}
	}
	return false, nil
}

func containsStart(starts []string, startAt string) bool {
	for _, s := range starts {
		if s == startAt {
			return true
		}
	}
	return false
}
