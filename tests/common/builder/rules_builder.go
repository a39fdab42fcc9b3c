//go:build unit || e2e

package builder

import (
	domrules "mesa-reserve/internal/domain/rules"
	"mesa-reserve/internal/domain/schedule"
)

type RulesBuilder struct {
	OpeningHoursEnabled     bool
	OpeningHour             string
	ClosingHour             string
	AutoConfirmEnabled      bool
	AutoConfirmMinutes      int
	ReservationLimitEnabled bool
	MaxReservationsPerUser  int
	ReservationLimitHours   int
}

func NewRulesBuilder() *RulesBuilder {
	return &RulesBuilder{
		OpeningHour: "09:00",
		ClosingHour: "22:00",
	}
}

func (r *RulesBuilder) With(mutate func(*RulesBuilder)) *RulesBuilder {
	mutate(r)
	return r
}

func (r *RulesBuilder) WithOpeningHours(opening, closing string) *RulesBuilder {
	r.OpeningHoursEnabled = true
	r.OpeningHour = opening
	r.ClosingHour = closing
	return r
}

func (r *RulesBuilder) WithAutoConfirm(minutes int) *RulesBuilder {
	r.AutoConfirmEnabled = true
	r.AutoConfirmMinutes = minutes
	return r
}

func (r *RulesBuilder) WithReservationLimit(max, windowHours int) *RulesBuilder {
	r.ReservationLimitEnabled = true
	r.MaxReservationsPerUser = max
	r.ReservationLimitHours = windowHours
	return r
}

func (r *RulesBuilder) BuildDomain() (*domrules.BookingRules, error) {
	opening, err := schedule.NewTimeOfDay(r.OpeningHour)
	if err != nil {
		return nil, err
	}
	closing, err := schedule.NewTimeOfDay(r.ClosingHour)
	if err != nil {
		return nil, err
	}
	return domrules.NewBookingRules(
		r.OpeningHoursEnabled, opening, closing,
		r.AutoConfirmEnabled, r.AutoConfirmMinutes,
		r.ReservationLimitEnabled, r.MaxReservationsPerUser, r.ReservationLimitHours,
	)
}
