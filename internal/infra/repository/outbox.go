package repository

import (
	"context"

	"mesa-reserve/internal/infra"
	"mesa-reserve/internal/infra/db"

	"github.com/google/uuid"
)

// OutboxRepository appends lifecycle events in the same transaction as the
// state change, so a relay can deliver them without a broker dependency here.
type OutboxRepository struct {
	dbx db.Executor
}

func NewOutboxRepository(dbx db.Executor) *OutboxRepository {
	return &OutboxRepository{dbx: dbx}
}

func (r *OutboxRepository) Append(ctx context.Context, topic string, payload []byte) error {
	_, err := r.dbx.Exec(ctx, `
		INSERT INTO outbox_events (id, topic, payload, created_at)
		VALUES ($1, $2, $3, now())`,
		uuid.New(), topic, payload,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append outbox event", err)
	}
	return nil
}
