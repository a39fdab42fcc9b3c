package request

type UpdateRulesRequest struct {
	OpeningHoursEnabled     bool   `json:"opening_hours_enabled"`
	OpeningHour             string `json:"opening_hour"`
	ClosingHour             string `json:"closing_hour"`
	AutoConfirmEnabled      bool   `json:"auto_confirm_enabled"`
	AutoConfirmMinutes      int    `json:"auto_confirm_minutes"`
	ReservationLimitEnabled bool   `json:"reservation_limit_enabled"`
	MaxReservationsPerUser  int    `json:"max_reservations_per_user"`
	ReservationLimitHours   int    `json:"reservation_limit_hours"`
}
