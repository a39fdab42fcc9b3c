package repository

import (
	"context"
	"time"

	"mesa-reserve/internal/domain/rules"
	"mesa-reserve/internal/domain/schedule"
	"mesa-reserve/internal/infra"
	"mesa-reserve/internal/infra/db"
)

// RulesRepository persists the booking-rules singleton row.
type RulesRepository struct {
	dbx db.Executor
}

func NewRulesRepository(dbx db.Executor) *RulesRepository {
	return &RulesRepository{dbx: dbx}
}

func (r *RulesRepository) Get(ctx context.Context) (*rules.BookingRules, error) {
	var (
		openingHoursEnabled     bool
		openingHour             string
		closingHour             string
		autoConfirmEnabled      bool
		autoConfirmMinutes      int
		reservationLimitEnabled bool
		maxReservationsPerUser  int
		reservationLimitHours   int
		updatedAt               time.Time
	)
	err := r.dbx.QueryRow(ctx, `
		SELECT opening_hours_enabled, opening_hour, closing_hour,
		       auto_confirm_enabled, auto_confirm_minutes,
		       reservation_limit_enabled, max_reservations_per_user, reservation_limit_hours,
		       updated_at
		FROM booking_rules WHERE singleton`).Scan(
		&openingHoursEnabled, &openingHour, &closingHour,
		&autoConfirmEnabled, &autoConfirmMinutes,
		&reservationLimitEnabled, &maxReservationsPerUser, &reservationLimitHours,
		&updatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking rules not seeded", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load booking rules", err)
	}

	opening, err := schedule.NewTimeOfDay(openingHour)
	if err != nil {
		return nil, infra.WrapRepoErr("stored opening hour is invalid", err)
	}
	closing, err := schedule.NewTimeOfDay(closingHour)
	if err != nil {
		return nil, infra.WrapRepoErr("stored closing hour is invalid", err)
	}

	return rules.ReconstructBookingRules(
		openingHoursEnabled, opening, closing,
		autoConfirmEnabled, autoConfirmMinutes,
		reservationLimitEnabled, maxReservationsPerUser, reservationLimitHours,
		updatedAt,
	), nil
}

func (r *RulesRepository) Save(ctx context.Context, br *rules.BookingRules) error {
	_, err := r.dbx.Exec(ctx, `
		INSERT INTO booking_rules
			(singleton, opening_hours_enabled, opening_hour, closing_hour,
			 auto_confirm_enabled, auto_confirm_minutes,
			 reservation_limit_enabled, max_reservations_per_user, reservation_limit_hours,
			 updated_at)
		VALUES (true, $1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (singleton) DO UPDATE SET
			opening_hours_enabled = EXCLUDED.opening_hours_enabled,
			opening_hour = EXCLUDED.opening_hour,
			closing_hour = EXCLUDED.closing_hour,
			auto_confirm_enabled = EXCLUDED.auto_confirm_enabled,
			auto_confirm_minutes = EXCLUDED.auto_confirm_minutes,
			reservation_limit_enabled = EXCLUDED.reservation_limit_enabled,
			max_reservations_per_user = EXCLUDED.max_reservations_per_user,
			reservation_limit_hours = EXCLUDED.reservation_limit_hours,
			updated_at = now()`,
		br.OpeningHoursEnabled(), br.OpeningHour().String(), br.ClosingHour().String(),
		br.AutoConfirmEnabled(), br.AutoConfirmMinutes(),
		br.ReservationLimitEnabled(), br.MaxReservationsPerUser(), br.ReservationLimitHours(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save booking rules", err)
	}
	return nil
}
