package rules

import (
	"errors"
	"time"

	"mesa-reserve/internal/domain/schedule"
)

var (
	ErrClosingBeforeOpening  = errors.New("closing hour must be after opening hour")
	ErrInvalidAutoConfirm    = errors.New("auto-confirm delay must be positive")
	ErrInvalidReservationCap = errors.New("max reservations per user must be positive")
	ErrInvalidLimitWindow    = errors.New("reservation limit window must be positive")
)

// BookingRules is the singleton configuration the booking pipeline reads:
// opening hours, the auto-confirm delay, and the per-user rolling rate
// limit. Each rule is independently toggleable.
//
// The legacy configuration called the auto-confirm delay
// "minIntervalBetweenReservations"; it never was a spacing rule, so the
// corrected name is used everywhere here.
type BookingRules struct {
	openingHoursEnabled bool
	openingHour         schedule.TimeOfDay
	closingHour         schedule.TimeOfDay

	autoConfirmEnabled bool
	autoConfirmMinutes int

	reservationLimitEnabled bool
	maxReservationsPerUser  int
	reservationLimitHours   int

	updatedAt time.Time
}

func NewBookingRules(
	openingHoursEnabled bool,
	openingHour, closingHour schedule.TimeOfDay,
	autoConfirmEnabled bool,
	autoConfirmMinutes int,
	reservationLimitEnabled bool,
	maxReservationsPerUser, reservationLimitHours int,
) (*BookingRules, error) {
	if openingHoursEnabled && !openingHour.Before(closingHour) {
		return nil, ErrClosingBeforeOpening
	}
	if autoConfirmEnabled && autoConfirmMinutes <= 0 {
		return nil, ErrInvalidAutoConfirm
	}
	if reservationLimitEnabled {
		if maxReservationsPerUser <= 0 {
			return nil, ErrInvalidReservationCap
		}
		if reservationLimitHours <= 0 {
			return nil, ErrInvalidLimitWindow
		}
	}

	return &BookingRules{
		openingHoursEnabled:     openingHoursEnabled,
		openingHour:             openingHour,
		closingHour:             closingHour,
		autoConfirmEnabled:      autoConfirmEnabled,
		autoConfirmMinutes:      autoConfirmMinutes,
		reservationLimitEnabled: reservationLimitEnabled,
		maxReservationsPerUser:  maxReservationsPerUser,
		reservationLimitHours:   reservationLimitHours,
	}, nil
}

func ReconstructBookingRules(
	openingHoursEnabled bool,
	openingHour, closingHour schedule.TimeOfDay,
	autoConfirmEnabled bool,
	autoConfirmMinutes int,
	reservationLimitEnabled bool,
	maxReservationsPerUser, reservationLimitHours int,
	updatedAt time.Time,
) *BookingRules {
	return &BookingRules{
		openingHoursEnabled:     openingHoursEnabled,
		openingHour:             openingHour,
		closingHour:             closingHour,
		autoConfirmEnabled:      autoConfirmEnabled,
		autoConfirmMinutes:      autoConfirmMinutes,
		reservationLimitEnabled: reservationLimitEnabled,
		maxReservationsPerUser:  maxReservationsPerUser,
		reservationLimitHours:   reservationLimitHours,
		updatedAt:               updatedAt,
	}
}

func (r *BookingRules) OpeningHoursEnabled() bool         { return r.openingHoursEnabled }
func (r *BookingRules) OpeningHour() schedule.TimeOfDay   { return r.openingHour }
func (r *BookingRules) ClosingHour() schedule.TimeOfDay   { return r.closingHour }
func (r *BookingRules) AutoConfirmEnabled() bool          { return r.autoConfirmEnabled }
func (r *BookingRules) AutoConfirmMinutes() int           { return r.autoConfirmMinutes }
func (r *BookingRules) ReservationLimitEnabled() bool     { return r.reservationLimitEnabled }
func (r *BookingRules) MaxReservationsPerUser() int       { return r.maxReservationsPerUser }
func (r *BookingRules) ReservationLimitHours() int        { return r.reservationLimitHours }
func (r *BookingRules) UpdatedAt() time.Time              { return r.updatedAt }

// WithinOpeningHours checks a slot start against [opening, closing].
// Always true when the rule is disabled.
func (r *BookingRules) WithinOpeningHours(start schedule.TimeOfDay) bool {
	if !r.openingHoursEnabled {
		return true
	}
	return !start.Before(r.openingHour) && !start.After(r.closingHour)
}

// AutoConfirmDelay returns the pending->confirmed delay, or nil when the
// rule is disabled and bookings confirm immediately.
func (r *BookingRules) AutoConfirmDelay() *time.Duration {
	if !r.autoConfirmEnabled {
		return nil
	}
	d := time.Duration(r.autoConfirmMinutes) * time.Minute
	return &d
}

// LimitWindow returns the rolling rate-limit window, or zero when disabled.
func (r *BookingRules) LimitWindow() time.Duration {
	if !r.reservationLimitEnabled {
		return 0
	}
	return time.Duration(r.reservationLimitHours) * time.Hour
}
