package response

import (
	"time"

	"mesa-reserve/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type RulesResponse struct {
	OpeningHoursEnabled     bool      `json:"openingHoursEnabled"`
	OpeningHour             string    `json:"openingHour"`
	ClosingHour             string    `json:"closingHour"`
	AutoConfirmEnabled      bool      `json:"autoConfirmEnabled"`
	AutoConfirmMinutes      int       `json:"autoConfirmMinutes"`
	ReservationLimitEnabled bool      `json:"reservationLimitEnabled"`
	MaxReservationsPerUser  int       `json:"maxReservationsPerUser"`
	ReservationLimitHours   int       `json:"reservationLimitHours"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

func FromRulesView(rm *queries.RulesView) *RulesResponse {
	var resp RulesResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}
