package readstore

import (
	"context"

	"mesa-reserve/internal/infra"
	"mesa-reserve/internal/infra/db"
	"mesa-reserve/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserReadStore struct {
	dbx db.Executor
}

func NewUserReadStore(dbx db.Executor) *UserReadStore {
	return &UserReadStore{dbx: dbx}
}

func (r *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthenticatedUser, error) {
	var auth queries.AuthenticatedUser
	err := r.dbx.QueryRow(ctx, `
		SELECT id, email, password_hash, name, role, last_login, is_active
		FROM users WHERE email = $1`, email).Scan(
		&auth.User.ID, &auth.User.Email, &auth.PasswordHash,
		&auth.User.Name, &auth.User.Role, &auth.User.LastLogin, &auth.User.IsActive,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by email", err)
	}
	return &auth, nil
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.UserView, error) {
	var view queries.UserView
	err := r.dbx.QueryRow(ctx, `
		SELECT id, email, name, role, last_login, is_active
		FROM users WHERE id = $1`, id).Scan(
		&view.ID, &view.Email, &view.Name, &view.Role, &view.LastLogin, &view.IsActive,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}
	return &view, nil
}
