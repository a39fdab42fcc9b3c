package shared

import (
	"context"

	"mesa-reserve/internal/infra/db"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbx db.Executor) error) error
}

type Tx interface {
	Reservations() ReservationRepository
	Tables() TableRepository
	Rules() RulesRepository
	Users() UserRepository
	Outbox() OutboxRepository
	DB() db.Executor
}
