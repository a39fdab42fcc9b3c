package readstore

import (
	"context"

	"mesa-reserve/internal/infra"
	"mesa-reserve/internal/infra/db"
	"mesa-reserve/internal/usecase/queries"
)

type RulesReadStore struct {
	dbx db.Executor
}

func NewRulesReadStore(dbx db.Executor) *RulesReadStore {
	return &RulesReadStore{dbx: dbx}
}

func (r *RulesReadStore) Get(ctx context.Context) (*queries.RulesView, error) {
	var view queries.RulesView
	err := r.dbx.QueryRow(ctx, `
		SELECT opening_hours_enabled, opening_hour, closing_hour,
		       auto_confirm_enabled, auto_confirm_minutes,
		       reservation_limit_enabled, max_reservations_per_user, reservation_limit_hours,
		       updated_at
		FROM booking_rules WHERE singleton`).Scan(
		&view.OpeningHoursEnabled, &view.OpeningHour, &view.ClosingHour,
		&view.AutoConfirmEnabled, &view.AutoConfirmMinutes,
		&view.ReservationLimitEnabled, &view.MaxReservationsPerUser, &view.ReservationLimitHours,
		&view.UpdatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking rules not seeded", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load booking rules", err)
	}
	return &view, nil
}
