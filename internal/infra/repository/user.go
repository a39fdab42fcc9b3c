package repository

import (
	"context"

	"mesa-reserve/internal/infra"
	"mesa-reserve/internal/infra/db"

	"github.com/google/uuid"
)

type UserRepository struct {
	dbx db.Executor
}

func NewUserRepository(dbx db.Executor) *UserRepository {
	return &UserRepository{dbx: dbx}
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	tag, err := r.dbx.Exec(ctx,
		`UPDATE users SET last_login = now(), updated_at = now() WHERE id = $1`, userID)
	if err != nil {
		return infra.WrapRepoErr("failed to update last login", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}
