package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"mesa-reserve/internal/domain/reservation"
	"mesa-reserve/internal/domain/rules"
	"mesa-reserve/internal/domain/schedule"
	"mesa-reserve/internal/domain/table"
	"mesa-reserve/internal/domain/user"
	reqdto "mesa-reserve/internal/handler/dto/request"
	"mesa-reserve/internal/infra"
	"mesa-reserve/internal/pkg/clock"
	"mesa-reserve/internal/pkg/errs"
	"mesa-reserve/internal/usecase/queries"
	"mesa-reserve/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrTableNotFound       = errs.New("table not found")
	ErrReservationNotFound = errs.New("reservation not found")
	ErrTableNotBookable    = errs.New("table is not bookable")
	ErrSlotNotOffered      = errs.New("slot is not offered by the table")
	ErrSlotTaken           = errs.New("slot is already reserved")
	ErrOutsideOpeningHours = errs.New("slot is outside opening hours")
	ErrCapacityExceeded    = errs.New("party size exceeds table capacity")
	ErrRateLimitExceeded   = errs.New("reservation limit reached")
	ErrNotReservationOwner = errs.New("reservation belongs to another user")
	ErrInvalidTransition   = errs.New("invalid reservation transition")
	ErrDomainValidation    = errs.New("domain validation error")
	ErrDatabaseOperation   = errs.New("database operation failed")
)

// Actor identifies who is performing a command, for ownership checks.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == user.RoleAdmin
}

// ReservationReader is the read-after-write view source.
type ReservationReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error)
}

// SlotCache invalidation is best-effort: a stale entry only survives until
// its TTL.
type SlotCache interface {
	Invalidate(ctx context.Context, tableID uuid.UUID, date schedule.Date) error
	InvalidateTable(ctx context.Context, tableID uuid.UUID) error
}

type ReservationCommands interface {
	CreateReservation(ctx context.Context, req reqdto.CreateReservationRequest, userID uuid.UUID) (*queries.ReservationView, error)
	ConfirmReservation(ctx context.Context, id uuid.UUID) error
	CancelReservation(ctx context.Context, id uuid.UUID, actor Actor) error
	ClearReservation(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	DeleteReservation(ctx context.Context, id uuid.UUID) error
	ConfirmDueReservations(ctx context.Context) ([]uuid.UUID, error)
}

type reservationUseCaseImpl struct {
	uow    shared.UnitOfWork
	reader ReservationReader
	cache  SlotCache
	clock  clock.Clock
}

func NewReservationUseCase(
	uow shared.UnitOfWork,
	reader ReservationReader,
	cache SlotCache,
	clock clock.Clock,
) ReservationCommands {
	return &reservationUseCaseImpl{
		uow:    uow,
		reader: reader,
		cache:  cache,
		clock:  clock,
	}
}

func (r *reservationUseCaseImpl) CreateReservation(
	ctx context.Context,
	req reqdto.CreateReservationRequest,
	userID uuid.UUID,
) (*queries.ReservationView, error) {
	date, err := schedule.NewDate(req.ReservedOn)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	startAt, err := schedule.NewTimeOfDay(req.StartAt)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	observations, err := reservation.NewObservations(req.GetObservations())
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	var created *reservation.Reservation
	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		bookingRules, err := tx.Rules().Get(ctx)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}

		if !bookingRules.WithinOpeningHours(startAt) {
			return ErrOutsideOpeningHours
		}

		if err := r.checkRateLimit(ctx, tx, bookingRules, userID); err != nil {
			return err
		}

		tbl, err := r.validateTable(ctx, tx, req.TableID, req.PartySize, date, startAt)
		if err != nil {
			return err
		}

		now := r.clock.Now()
		res, err := reservation.NewReservation(
			tbl.ID(), userID, date, startAt, req.PartySize,
			req.CustomerName, req.CustomerEmail, observations,
			now, bookingRules.AutoConfirmDelay(),
		)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		// The unique index over active slots decides the winner between
		// concurrent bookings of the same slot.
		if err := tx.Reservations().Create(ctx, res); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrSlotTaken
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}

		if err := appendReservationEvent(ctx, tx, "reservation_created", res.ID()); err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}

		created = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.invalidateSlot(ctx, created.TableID(), created.Date())

	view, err := r.reader.FindByID(ctx, created.ID())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	return view, nil
}

func (r *reservationUseCaseImpl) checkRateLimit(
	ctx context.Context,
	tx shared.Tx,
	bookingRules *rules.BookingRules,
	userID uuid.UUID,
) error {
	window := bookingRules.LimitWindow()
	if window == 0 {
		return nil
	}

	// Same-user bookings serialize on an advisory lock so two inserts cannot
	// both pass the count at cap-1.
	if err := tx.Reservations().AcquireUserLock(ctx, userID); err != nil {
		return errs.Mark(err, ErrDatabaseOperation)
	}

	since := r.clock.Now().Add(-window)
	count, err := tx.Reservations().CountActiveByUserSince(ctx, userID, since)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperation)
	}
	if count >= bookingRules.MaxReservationsPerUser() {
		return ErrRateLimitExceeded
	}
	return nil
}

func (r *reservationUseCaseImpl) validateTable(
	ctx context.Context,
	tx shared.Tx,
	tableID uuid.UUID,
	partySize int,
	date schedule.Date,
	startAt schedule.TimeOfDay,
) (*table.Table, error) {
	// The share lock holds the table in its current status until commit:
	// maintenance takes the row FOR UPDATE, so it either sees this booking or
	// waits behind it. Other bookings share the lock and stay concurrent.
	tbl, err := tx.Tables().FindByIDForShare(ctx, tableID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	if !tbl.IsBookable() {
		return nil, ErrTableNotBookable
	}
	if partySize > tbl.Capacity() {
		return nil, ErrCapacityExceeded
	}
	if !tbl.HasSlot(date, startAt) {
		return nil, ErrSlotNotOffered
	}
	return tbl, nil
}

func (r *reservationUseCaseImpl) ConfirmReservation(ctx context.Context, id uuid.UUID) error {
	return r.transition(ctx, id, "reservation_confirmed", func(res *reservation.Reservation) error {
		if err := res.Confirm(); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}
		return nil
	})
}

func (r *reservationUseCaseImpl) CancelReservation(ctx context.Context, id uuid.UUID, actor Actor) error {
	var cancelled *reservation.Reservation
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := r.findForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && res.UserID() != actor.ID {
			return ErrNotReservationOwner
		}
		if err := res.Cancel(); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}
		if err := tx.Reservations().Update(ctx, res); err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}
		if err := appendReservationEvent(ctx, tx, "reservation_cancelled", res.ID()); err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}
		cancelled = res
		return nil
	})
	if err != nil {
		return err
	}

	r.invalidateSlot(ctx, cancelled.TableID(), cancelled.Date())
	return nil
}

// ClearReservation hides a cancelled reservation from the customer's own
// listing. It never touches slot state.
func (r *reservationUseCaseImpl) ClearReservation(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	return r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := r.findForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if res.UserID() != userID {
			return ErrNotReservationOwner
		}
		if err := res.ClearFromView(); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}
		if err := tx.Reservations().Update(ctx, res); err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}
		return nil
	})
}

func (r *reservationUseCaseImpl) DeleteReservation(ctx context.Context, id uuid.UUID) error {
	var removed *reservation.Reservation
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := r.findForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := tx.Reservations().Delete(ctx, res.ID()); err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}
		if err := appendReservationEvent(ctx, tx, "reservation_deleted", res.ID()); err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}
		removed = res
		return nil
	})
	if err != nil {
		return err
	}

	r.invalidateSlot(ctx, removed.TableID(), removed.Date())
	return nil
}

// ConfirmDueReservations promotes every pending reservation whose grace
// period has elapsed. The sweep is idempotent: reservations cancelled before
// their due time are simply not matched.
func (r *reservationUseCaseImpl) ConfirmDueReservations(ctx context.Context) ([]uuid.UUID, error) {
	var promoted []uuid.UUID
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ids, err := tx.Reservations().ConfirmDue(ctx, r.clock.Now())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}
		for _, id := range ids {
			if err := appendReservationEvent(ctx, tx, "reservation_confirmed", id); err != nil {
				return errs.Mark(err, ErrDatabaseOperation)
			}
		}
		promoted = ids
		return nil
	})
	if err != nil {
		return nil, err
	}
	return promoted, nil
}

func (r *reservationUseCaseImpl) transition(
	ctx context.Context,
	id uuid.UUID,
	topic string,
	apply func(res *reservation.Reservation) error,
) error {
	var changed *reservation.Reservation
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := r.findForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := apply(res); err != nil {
			return err
		}
		if err := tx.Reservations().Update(ctx, res); err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}
		if err := appendReservationEvent(ctx, tx, topic, res.ID()); err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}
		changed = res
		return nil
	})
	if err != nil {
		return err
	}

	r.invalidateSlot(ctx, changed.TableID(), changed.Date())
	return nil
}

func (r *reservationUseCaseImpl) findForUpdate(ctx context.Context, tx shared.Tx, id uuid.UUID) (*reservation.Reservation, error) {
	res, err := tx.Reservations().FindByIDForUpdate(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	return res, nil
}

func (r *reservationUseCaseImpl) invalidateSlot(ctx context.Context, tableID uuid.UUID, date schedule.Date) {
	if err := r.cache.Invalidate(ctx, tableID, date); err != nil {
		slog.Warn("failed to invalidate slot cache", "table_id", tableID, "error", err.Error())
	}
}

func appendReservationEvent(ctx context.Context, tx shared.Tx, topic string, reservationID uuid.UUID) error {
	payload, err := json.Marshal(map[string]any{
		"reservation_id": reservationID,
		"occurred_at":    time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return tx.Outbox().Append(ctx, topic, payload)
}
