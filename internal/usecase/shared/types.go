package shared

import (
	"context"
	"time"

	"mesa-reserve/internal/domain/reservation"
	"mesa-reserve/internal/domain/rules"
	"mesa-reserve/internal/domain/schedule"
	"mesa-reserve/internal/domain/table"

	"github.com/google/uuid"
)

type ReservationRepository interface {
	Create(ctx context.Context, res *reservation.Reservation) error
	Update(ctx context.Context, res *reservation.Reservation) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	// FindByIDForUpdate locks the row for a status transition.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	// ListActiveByTableForUpdate locks every active reservation of a table
	// for the maintenance disposition batch.
	ListActiveByTableForUpdate(ctx context.Context, tableID uuid.UUID) ([]*reservation.Reservation, error)
	// AcquireUserLock serializes same-user bookings for the duration of the
	// transaction so the rate-limit count cannot race its own insert.
	AcquireUserLock(ctx context.Context, userID uuid.UUID) error
	CountActiveByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
	HasActiveOnSlot(ctx context.Context, tableID uuid.UUID, date schedule.Date, start schedule.TimeOfDay) (bool, error)
	HasActiveByTable(ctx context.Context, tableID uuid.UUID) (bool, error)
	// ConfirmDue promotes every pending reservation whose due time has
	// passed and returns the promoted ids.
	ConfirmDue(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

type TableRepository interface {
	Create(ctx context.Context, t *table.Table) error
	Update(ctx context.Context, t *table.Table) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*table.Table, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*table.Table, error)
	// FindByIDForShare blocks the exclusive table-row lock without blocking
	// other share readers, so bookings stay concurrent with each other while
	// maintenance waits for them.
	FindByIDForShare(ctx context.Context, id uuid.UUID) (*table.Table, error)
}

type RulesRepository interface {
	Get(ctx context.Context) (*rules.BookingRules, error)
	Save(ctx context.Context, r *rules.BookingRules) error
}

type UserRepository interface {
	UpdateLastLogin(ctx context.Context, userID uuid.UUID) error
}

type OutboxRepository interface {
	Append(ctx context.Context, topic string, payload []byte) error
}
