package readstore

import (
	"context"
	"encoding/json"

	"mesa-reserve/internal/infra"
	"mesa-reserve/internal/infra/db"
	"mesa-reserve/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TableReadStore struct {
	dbx db.Executor
}

func NewTableReadStore(dbx db.Executor) *TableReadStore {
	return &TableReadStore{dbx: dbx}
}

func (r *TableReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.TableView, error) {
	row := r.dbx.QueryRow(ctx, `
		SELECT id, name, capacity, status, availability, created_at, updated_at
		FROM tables WHERE id = $1`, id)

	view, err := scanTableView(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("table not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find table by ID", err)
	}
	return view, nil
}

func (r *TableReadStore) List(ctx context.Context) ([]*queries.TableView, error) {
	rows, err := r.dbx.Query(ctx, `
		SELECT id, name, capacity, status, availability, created_at, updated_at
		FROM tables ORDER BY name`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list tables", err)
	}
	defer rows.Close()

	var result []*queries.TableView
	for rows.Next() {
		view, err := scanTableView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan table", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate tables", err)
	}
	return result, nil
}

// ListBookableWithCapacity returns available tables seating at least
// partySize, excluding one table. Candidate filtering against the calendar
// happens above this layer, where the domain rules live.
func (r *TableReadStore) ListBookableWithCapacity(ctx context.Context, partySize int, excludeID uuid.UUID) ([]*queries.TableView, error) {
	rows, err := r.dbx.Query(ctx, `
		SELECT id, name, capacity, status, availability, created_at, updated_at
		FROM tables
		WHERE status = 'available' AND capacity >= $1 AND id <> $2
		ORDER BY capacity, name`, partySize, excludeID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list candidate tables", err)
	}
	defer rows.Close()

	var result []*queries.TableView
	for rows.Next() {
		view, err := scanTableView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan candidate table", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate candidate tables", err)
	}
	return result, nil
}

func scanTableView(row pgx.Row) (*queries.TableView, error) {
	var (
		view            queries.TableView
		availabilityRaw []byte
	)
	err := row.Scan(
		&view.ID, &view.Name, &view.Capacity, &view.Status,
		&availabilityRaw, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Storage shape matches the view shape, so the JSONB decodes directly.
	if len(availabilityRaw) > 0 {
		if err := json.Unmarshal(availabilityRaw, &view.Availability); err != nil {
			return nil, err
		}
	}
	return &view, nil
}
