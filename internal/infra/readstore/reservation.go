package readstore

import (
	"context"
	"time"

	"mesa-reserve/internal/domain/schedule"
	"mesa-reserve/internal/infra"
	"mesa-reserve/internal/infra/db"
	"mesa-reserve/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ReservationReadStore struct {
	dbx db.Executor
}

func NewReservationReadStore(dbx db.Executor) *ReservationReadStore {
	return &ReservationReadStore{dbx: dbx}
}

const reservationViewColumns = `
	r.id, r.table_id, t.name, r.user_id, u.email,
	r.reserved_on, r.start_at, r.party_size,
	r.customer_name, r.customer_email, r.observations,
	r.status, r.confirm_due_at, r.created_at, r.updated_at`

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	row := r.dbx.QueryRow(ctx, `
		SELECT `+reservationViewColumns+`
		FROM reservations r
		JOIN tables t ON t.id = r.table_id
		JOIN users u ON u.id = r.user_id
		WHERE r.id = $1`, id)

	view, err := scanReservationView(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}
	return view, nil
}

// ListByUser returns the customer's own reservations, newest first. Cancelled
// reservations the customer cleared from their view are omitted.
func (r *ReservationReadStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*queries.ReservationListItem, error) {
	rows, err := r.dbx.Query(ctx, `
		SELECT r.id, r.table_id, t.name, r.reserved_on, r.start_at,
		       r.party_size, r.customer_name, r.status, r.created_at
		FROM reservations r
		JOIN tables t ON t.id = r.table_id
		WHERE r.user_id = $1 AND NOT r.cleared
		ORDER BY r.reserved_on DESC, r.start_at DESC, r.created_at DESC`, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations by user", err)
	}
	defer rows.Close()

	return collectListItems(rows)
}

func (r *ReservationReadStore) ListAll(ctx context.Context) ([]*queries.ReservationListItem, error) {
	rows, err := r.dbx.Query(ctx, `
		SELECT r.id, r.table_id, t.name, r.reserved_on, r.start_at,
		       r.party_size, r.customer_name, r.status, r.created_at
		FROM reservations r
		JOIN tables t ON t.id = r.table_id
		ORDER BY r.reserved_on DESC, r.start_at DESC, r.created_at DESC`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	return collectListItems(rows)
}

// OccupiedStarts returns the start times held by active reservations on a
// table for a given date.
func (r *ReservationReadStore) OccupiedStarts(ctx context.Context, tableID uuid.UUID, date schedule.Date) ([]string, error) {
	rows, err := r.dbx.Query(ctx, `
		SELECT start_at FROM reservations
		WHERE table_id = $1 AND reserved_on = $2 AND status IN ('pending', 'confirmed')
		ORDER BY start_at`, tableID, date.Time())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list occupied starts", err)
	}
	defer rows.Close()

	var starts []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, infra.WrapRepoErr("failed to scan occupied start", err)
		}
		starts = append(starts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate occupied starts", err)
	}
	return starts, nil
}

func scanReservationView(row pgx.Row) (*queries.ReservationView, error) {
	var (
		view         queries.ReservationView
		reservedOn   time.Time
		confirmDueAt *time.Time
	)
	err := row.Scan(
		&view.ID, &view.TableID, &view.TableName, &view.UserID, &view.UserEmail,
		&reservedOn, &view.StartAt, &view.PartySize,
		&view.CustomerName, &view.CustomerEmail, &view.Observations,
		&view.Status, &confirmDueAt, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	view.ReservedOn = schedule.DateOf(reservedOn).String()
	view.ConfirmDueAt = confirmDueAt
	return &view, nil
}

func collectListItems(rows pgx.Rows) ([]*queries.ReservationListItem, error) {
	var result []*queries.ReservationListItem
	for rows.Next() {
		var (
			item       queries.ReservationListItem
			reservedOn time.Time
		)
		err := rows.Scan(
			&item.ID, &item.TableID, &item.TableName, &reservedOn, &item.StartAt,
			&item.PartySize, &item.CustomerName, &item.Status, &item.CreatedAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation list item", err)
		}
		item.ReservedOn = schedule.DateOf(reservedOn).String()
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservation list", err)
	}
	return result, nil
}
