package repository

import (
	"context"
	"time"

	"mesa-reserve/internal/domain/table"
	"mesa-reserve/internal/infra"
	"mesa-reserve/internal/infra/converter"
	"mesa-reserve/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TableRepository struct {
	dbx db.Executor
}

func NewTableRepository(dbx db.Executor) *TableRepository {
	return &TableRepository{dbx: dbx}
}

func (r *TableRepository) Create(ctx context.Context, t *table.Table) error {
	availability, err := converter.AvailabilityToJSON(t.Availability())
	if err != nil {
		return infra.WrapRepoErr("failed to encode availability", err)
	}

	_, err = r.dbx.Exec(ctx, `
		INSERT INTO tables (id, name, capacity, status, availability, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())`,
		t.ID(), t.Name(), t.Capacity(), t.Status().String(), availability,
	)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return infra.WrapRepoErr("table name already in use", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to create table", err)
	}
	return nil
}

func (r *TableRepository) Update(ctx context.Context, t *table.Table) error {
	availability, err := converter.AvailabilityToJSON(t.Availability())
	if err != nil {
		return infra.WrapRepoErr("failed to encode availability", err)
	}

	tag, err := r.dbx.Exec(ctx, `
		UPDATE tables
		SET name = $2, capacity = $3, status = $4, availability = $5, updated_at = now()
		WHERE id = $1`,
		t.ID(), t.Name(), t.Capacity(), t.Status().String(), availability,
	)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return infra.WrapRepoErr("table name already in use", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to update table", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("table not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *TableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.dbx.Exec(ctx, `DELETE FROM tables WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete table", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("table not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *TableRepository) FindByID(ctx context.Context, id uuid.UUID) (*table.Table, error) {
	row := r.dbx.QueryRow(ctx, `
		SELECT id, name, capacity, status, availability, created_at, updated_at
		FROM tables WHERE id = $1`, id)
	return scanTable(row)
}

func (r *TableRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*table.Table, error) {
	row := r.dbx.QueryRow(ctx, `
		SELECT id, name, capacity, status, availability, created_at, updated_at
		FROM tables WHERE id = $1 FOR UPDATE`, id)
	return scanTable(row)
}

func (r *TableRepository) FindByIDForShare(ctx context.Context, id uuid.UUID) (*table.Table, error) {
	row := r.dbx.QueryRow(ctx, `
		SELECT id, name, capacity, status, availability, created_at, updated_at
		FROM tables WHERE id = $1 FOR SHARE`, id)
	return scanTable(row)
}

func scanTable(row pgx.Row) (*table.Table, error) {
	var (
		id                   uuid.UUID
		name                 string
		capacity             int
		statusStr            string
		availabilityRaw      []byte
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &name, &capacity, &statusStr, &availabilityRaw, &createdAt, &updatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("table not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan table", err)
	}

	status, err := table.NewStatus(statusStr)
	if err != nil {
		return nil, infra.WrapRepoErr("stored table status is invalid", err)
	}
	availability, err := converter.AvailabilityFromJSON(availabilityRaw)
	if err != nil {
		return nil, infra.WrapRepoErr("stored availability is invalid", err)
	}

	return table.ReconstructTable(id, name, capacity, status, availability, createdAt, updatedAt), nil
}
