package repository

import (
	"context"
	"time"

	"mesa-reserve/internal/domain/reservation"
	"mesa-reserve/internal/domain/schedule"
	"mesa-reserve/internal/infra"
	"mesa-reserve/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const reservationColumns = `id, table_id, user_id, reserved_on, start_at, party_size,
customer_name, customer_email, observations, status, confirm_due_at, cleared,
created_at, updated_at`

type ReservationRepository struct {
	dbx db.Executor
}

func NewReservationRepository(dbx db.Executor) *ReservationRepository {
	return &ReservationRepository{dbx: dbx}
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	_, err := r.dbx.Exec(ctx, `
		INSERT INTO reservations
			(id, table_id, user_id, reserved_on, start_at, party_size,
			 customer_name, customer_email, observations, status, confirm_due_at,
			 cleared, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)`,
		res.ID(), res.TableID(), res.UserID(), res.Date().Time(), res.StartAt().String(),
		res.PartySize(), res.CustomerName(), res.CustomerEmail(), res.Observations().String(),
		res.Status().String(), res.ConfirmDueAt(), res.Cleared(), res.CreatedAt(),
	)
	if err != nil {
		// The partial unique index over active statuses is the slot
		// serialization point; a violation means the slot is taken.
		if infra.IsUniqueViolation(err) {
			return infra.WrapRepoErr("slot already held by an active reservation", err, infra.KindConflict)
		}
		if infra.IsForeignKeyViolation(err) {
			return infra.WrapRepoErr("reservation references missing row", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) Update(ctx context.Context, res *reservation.Reservation) error {
	tag, err := r.dbx.Exec(ctx, `
		UPDATE reservations
		SET table_id = $2, status = $3, confirm_due_at = $4, cleared = $5, updated_at = now()
		WHERE id = $1`,
		res.ID(), res.TableID(), res.Status().String(), res.ConfirmDueAt(), res.Cleared(),
	)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return infra.WrapRepoErr("target slot already held by an active reservation", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to update reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.dbx.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row := r.dbx.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
	return r.scanOne(row, "failed to find reservation by ID")
}

func (r *ReservationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row := r.dbx.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1 FOR UPDATE`, id)
	return r.scanOne(row, "failed to lock reservation")
}

func (r *ReservationRepository) ListActiveByTableForUpdate(ctx context.Context, tableID uuid.UUID) ([]*reservation.Reservation, error) {
	rows, err := r.dbx.Query(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE table_id = $1 AND status IN ('pending', 'confirmed')
		ORDER BY reserved_on, start_at
		FOR UPDATE`, tableID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active reservations", err)
	}
	defer rows.Close()

	var out []*reservation.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reservations", err)
	}
	return out, nil
}

// AcquireUserLock takes a transaction-scoped advisory lock keyed on the user,
// released automatically on commit or rollback.
func (r *ReservationRepository) AcquireUserLock(ctx context.Context, userID uuid.UUID) error {
	_, err := r.dbx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, userID)
	if err != nil {
		return infra.WrapRepoErr("failed to acquire user booking lock", err)
	}
	return nil
}

func (r *ReservationRepository) CountActiveByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	var count int
	err := r.dbx.QueryRow(ctx, `
		SELECT count(*)
		FROM reservations
		WHERE user_id = $1 AND status IN ('pending', 'confirmed') AND created_at >= $2`,
		userID, since,
	).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count user reservations", err)
	}
	return count, nil
}

func (r *ReservationRepository) HasActiveOnSlot(ctx context.Context, tableID uuid.UUID, date schedule.Date, start schedule.TimeOfDay) (bool, error) {
	var exists bool
	err := r.dbx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE table_id = $1 AND reserved_on = $2 AND start_at = $3
			  AND status IN ('pending', 'confirmed')
		)`,
		tableID, date.Time(), start.String(),
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check slot occupancy", err)
	}
	return exists, nil
}

func (r *ReservationRepository) HasActiveByTable(ctx context.Context, tableID uuid.UUID) (bool, error) {
	var exists bool
	err := r.dbx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE table_id = $1 AND status IN ('pending', 'confirmed')
		)`, tableID,
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check table reservations", err)
	}
	return exists, nil
}

func (r *ReservationRepository) ConfirmDue(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	rows, err := r.dbx.Query(ctx, `
		UPDATE reservations
		SET status = 'confirmed', confirm_due_at = NULL, updated_at = now()
		WHERE status = 'pending' AND confirm_due_at <= $1
		RETURNING id`, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to confirm due reservations", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan confirmed id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read confirmed ids", err)
	}
	return ids, nil
}

func (r *ReservationRepository) scanOne(row pgx.Row, msg string) (*reservation.Reservation, error) {
	res, err := scanReservation(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr(msg, err)
	}
	return res, nil
}

func scanReservation(row pgx.Row) (*reservation.Reservation, error) {
	var (
		id, tableID, userID  uuid.UUID
		reservedOn           time.Time
		startAt              string
		partySize            int
		name, email, obs     string
		statusStr            string
		confirmDueAt         *time.Time
		cleared              bool
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(
		&id, &tableID, &userID, &reservedOn, &startAt, &partySize,
		&name, &email, &obs, &statusStr, &confirmDueAt, &cleared,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	start, err := schedule.NewTimeOfDay(startAt)
	if err != nil {
		return nil, err
	}
	status, err := reservation.NewStatus(statusStr)
	if err != nil {
		return nil, err
	}
	observations, err := reservation.NewObservations(obs)
	if err != nil {
		return nil, err
	}

	return reservation.ReconstructReservation(
		id, tableID, userID,
		schedule.DateOf(reservedOn), start, partySize,
		name, email, observations,
		status, confirmDueAt, cleared,
		createdAt, updatedAt,
	), nil
}
