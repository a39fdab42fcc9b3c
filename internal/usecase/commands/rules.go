package commands

import (
	"context"

	"mesa-reserve/internal/domain/rules"
	"mesa-reserve/internal/domain/schedule"
	reqdto "mesa-reserve/internal/handler/dto/request"
	"mesa-reserve/internal/pkg/errs"
	"mesa-reserve/internal/usecase/shared"
)

type RulesCommands interface {
	UpdateRules(ctx context.Context, req reqdto.UpdateRulesRequest) error
}

type rulesUseCaseImpl struct {
	uow shared.UnitOfWork
}

func NewRulesUseCase(uow shared.UnitOfWork) RulesCommands {
	return &rulesUseCaseImpl{uow: uow}
}

func (u *rulesUseCaseImpl) UpdateRules(ctx context.Context, req reqdto.UpdateRulesRequest) error {
	opening, err := parseHourOrDefault(req.OpeningHour, "00:00")
	if err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}
	closing, err := parseHourOrDefault(req.ClosingHour, "23:59")
	if err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}

	bookingRules, err := rules.NewBookingRules(
		req.OpeningHoursEnabled, opening, closing,
		req.AutoConfirmEnabled, req.AutoConfirmMinutes,
		req.ReservationLimitEnabled, req.MaxReservationsPerUser, req.ReservationLimitHours,
	)
	if err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}

	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Rules().Save(ctx, bookingRules); err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}
		return nil
	})
}

func parseHourOrDefault(value, fallback string) (schedule.TimeOfDay, error) {
	if value == "" {
		value = fallback
	}
	return schedule.NewTimeOfDay(value)
}
