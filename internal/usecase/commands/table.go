package commands

import (
	"context"
	"log/slog"

	"mesa-reserve/internal/domain/schedule"
	"mesa-reserve/internal/domain/table"
	reqdto "mesa-reserve/internal/handler/dto/request"
	"mesa-reserve/internal/infra"
	"mesa-reserve/internal/pkg/clock"
	"mesa-reserve/internal/pkg/errs"
	"mesa-reserve/internal/usecase/queries"
	"mesa-reserve/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrTableNameTaken         = errs.New("table name already in use")
	ErrTableHasActiveBookings = errs.New("table still has active reservations")
)

// TableReader is the read-after-write view source.
type TableReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*queries.TableView, error)
}

type TableCommands interface {
	CreateTable(ctx context.Context, req reqdto.CreateTableRequest) (*queries.TableView, error)
	UpdateTable(ctx context.Context, id uuid.UUID, req reqdto.UpdateTableRequest) (*queries.TableView, error)
	DeleteTable(ctx context.Context, id uuid.UUID) error
}

type tableUseCaseImpl struct {
	uow    shared.UnitOfWork
	reader TableReader
	cache  SlotCache
	clock  clock.Clock
}

func NewTableUseCase(uow shared.UnitOfWork, reader TableReader, cache SlotCache, clock clock.Clock) TableCommands {
	return &tableUseCaseImpl{uow: uow, reader: reader, cache: cache, clock: clock}
}

func (t *tableUseCaseImpl) CreateTable(ctx context.Context, req reqdto.CreateTableRequest) (*queries.TableView, error) {
	availability, err := t.buildAvailability(req.Availability)
	if err != nil {
		return nil, err
	}

	tbl, err := table.NewTable(req.Name, req.Capacity, availability)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	err = t.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Tables().Create(ctx, tbl); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrTableNameTaken
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := t.reader.FindByID(ctx, tbl.ID())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	return view, nil
}

func (t *tableUseCaseImpl) UpdateTable(ctx context.Context, id uuid.UUID, req reqdto.UpdateTableRequest) (*queries.TableView, error) {
	availability, err := t.buildAvailability(req.Availability)
	if err != nil {
		return nil, err
	}

	err = t.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		tbl, err := tx.Tables().FindByIDForUpdate(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrTableNotFound
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}

		if err := tbl.Rename(req.Name); err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}
		if err := tbl.Resize(req.Capacity); err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}
		tbl.ReplaceAvailability(availability)

		if err := tx.Tables().Update(ctx, tbl); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrTableNameTaken
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if cacheErr := t.cache.InvalidateTable(ctx, id); cacheErr != nil {
		slog.Warn("failed to invalidate slot cache", "table_id", id, "error", cacheErr.Error())
	}

	view, err := t.reader.FindByID(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	return view, nil
}

// DeleteTable refuses to orphan bookings: a table holding any active
// reservation must go through maintenance rescheduling first.
func (t *tableUseCaseImpl) DeleteTable(ctx context.Context, id uuid.UUID) error {
	err := t.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Tables().FindByIDForUpdate(ctx, id); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrTableNotFound
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}

		hasActive, err := tx.Reservations().HasActiveByTable(ctx, id)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}
		if hasActive {
			return ErrTableHasActiveBookings
		}

		if err := tx.Tables().Delete(ctx, id); err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if cacheErr := t.cache.InvalidateTable(ctx, id); cacheErr != nil {
		slog.Warn("failed to invalidate slot cache", "table_id", id, "error", cacheErr.Error())
	}
	return nil
}

func (t *tableUseCaseImpl) buildAvailability(blocks []reqdto.AvailabilityBlockRequest) (table.Availability, error) {
	domainBlocks := make([]table.AvailabilityBlock, 0, len(blocks))
	for _, rb := range blocks {
		date, err := schedule.NewDate(rb.Date)
		if err != nil {
			return table.Availability{}, errs.Mark(err, ErrDomainValidation)
		}
		ranges := make([]schedule.TimeRange, 0, len(rb.Times))
		for _, ts := range rb.Times {
			r, err := schedule.ParseTimeRange(ts)
			if err != nil {
				return table.Availability{}, errs.Mark(err, ErrDomainValidation)
			}
			ranges = append(ranges, r)
		}
		block, err := table.NewAvailabilityBlock(date, ranges)
		if err != nil {
			return table.Availability{}, errs.Mark(err, ErrDomainValidation)
		}
		domainBlocks = append(domainBlocks, block)
	}

	availability, err := table.NewAvailability(domainBlocks, t.clock.Now())
	if err != nil {
		return table.Availability{}, errs.Mark(err, ErrDomainValidation)
	}
	return availability, nil
}
