package reservation

import (
	"errors"
	"strings"
	"time"

	"mesa-reserve/internal/domain/schedule"

	"github.com/google/uuid"
)

const MaxObservationsLength = 50

var (
	ErrEmptyCustomerName   = errors.New("customer name is required")
	ErrObservationsTooLong = errors.New("observations exceed maximum length")
	ErrNotPending          = errors.New("reservation is not pending")
	ErrNotCancelled        = errors.New("reservation is not cancelled")
	ErrAlreadyCancelled    = errors.New("reservation is already cancelled")
	ErrInvalidStatus       = errors.New("invalid reservation status")
)

type Reservation struct {
	id            uuid.UUID
	tableID       uuid.UUID
	userID        uuid.UUID
	date          schedule.Date
	startAt       schedule.TimeOfDay
	partySize     int
	customerName  string
	customerEmail string
	observations  Observations
	status        Status
	confirmDueAt  *time.Time
	cleared       bool
	createdAt     time.Time
	updatedAt     time.Time
}

// NewReservation creates the initial record for a booking request. When the
// auto-confirm delay is armed the reservation starts pending with a due time;
// otherwise it is confirmed on the spot.
func NewReservation(
	tableID, userID uuid.UUID,
	date schedule.Date,
	startAt schedule.TimeOfDay,
	partySize int,
	customerName, customerEmail string,
	observations Observations,
	now time.Time,
	autoConfirmAfter *time.Duration,
) (*Reservation, error) {
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		return nil, ErrEmptyCustomerName
	}

	r := &Reservation{
		id:            uuid.New(),
		tableID:       tableID,
		userID:        userID,
		date:          date,
		startAt:       startAt,
		partySize:     partySize,
		customerName:  customerName,
		customerEmail: customerEmail,
		observations:  observations,
		status:        StatusConfirmed,
		createdAt:     now,
		updatedAt:     now,
	}

	if autoConfirmAfter != nil {
		due := now.Add(*autoConfirmAfter)
		r.status = StatusPending
		r.confirmDueAt = &due
	}

	return r, nil
}

func ReconstructReservation(
	id, tableID, userID uuid.UUID,
	date schedule.Date,
	startAt schedule.TimeOfDay,
	partySize int,
	customerName, customerEmail string,
	observations Observations,
	status Status,
	confirmDueAt *time.Time,
	cleared bool,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:            id,
		tableID:       tableID,
		userID:        userID,
		date:          date,
		startAt:       startAt,
		partySize:     partySize,
		customerName:  customerName,
		customerEmail: customerEmail,
		observations:  observations,
		status:        status,
		confirmDueAt:  confirmDueAt,
		cleared:       cleared,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (r *Reservation) ID() uuid.UUID               { return r.id }
func (r *Reservation) TableID() uuid.UUID          { return r.tableID }
func (r *Reservation) UserID() uuid.UUID           { return r.userID }
func (r *Reservation) Date() schedule.Date         { return r.date }
func (r *Reservation) StartAt() schedule.TimeOfDay { return r.startAt }
func (r *Reservation) PartySize() int              { return r.partySize }
func (r *Reservation) CustomerName() string        { return r.customerName }
func (r *Reservation) CustomerEmail() string       { return r.customerEmail }
func (r *Reservation) Observations() Observations  { return r.observations }
func (r *Reservation) Status() Status              { return r.status }
func (r *Reservation) ConfirmDueAt() *time.Time    { return r.confirmDueAt }
func (r *Reservation) Cleared() bool               { return r.cleared }
func (r *Reservation) CreatedAt() time.Time        { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time        { return r.updatedAt }

// IsActive reports whether the reservation occupies its slot.
func (r *Reservation) IsActive() bool {
	return r.status.IsActive()
}

// AutoConfirm applies the timer transition. It reports whether the
// reservation changed; firing against a non-pending reservation is a
// defined no-op, which absorbs the race with a just-in-time cancel.
func (r *Reservation) AutoConfirm() bool {
	if r.status != StatusPending {
		return false
	}
	r.status = StatusConfirmed
	r.confirmDueAt = nil
	return true
}

// Confirm is the admin's manual pending -> confirmed transition. It also
// voids the pending auto-confirm due time.
func (r *Reservation) Confirm() error {
	if r.status != StatusPending {
		return ErrNotPending
	}
	r.status = StatusConfirmed
	r.confirmDueAt = nil
	return nil
}

// Cancel is allowed from pending or confirmed. The slot is freed the moment
// the status leaves the active set.
func (r *Reservation) Cancel() error {
	if r.status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	r.status = StatusCancelled
	r.confirmDueAt = nil
	return nil
}

// MoveToTable reassigns the reservation during maintenance rescheduling.
// Status and slot time are preserved.
func (r *Reservation) MoveToTable(tableID uuid.UUID) {
	r.tableID = tableID
}

// ClearFromView hides a cancelled reservation from the customer's listing.
func (r *Reservation) ClearFromView() error {
	if r.status != StatusCancelled {
		return ErrNotCancelled
	}
	r.cleared = true
	return nil
}
