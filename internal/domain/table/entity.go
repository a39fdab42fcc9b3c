package table

import (
	"errors"
	"strings"
	"time"

	"mesa-reserve/internal/domain/schedule"

	"github.com/google/uuid"
)

const MaxNameLength = 20

var (
	ErrEmptyName          = errors.New("table name is required")
	ErrNameTooLong        = errors.New("table name exceeds maximum length")
	ErrInvalidCapacity    = errors.New("table capacity must be positive")
	ErrAlreadyMaintenance = errors.New("table is already under maintenance")
)

type Table struct {
	id           uuid.UUID
	name         string
	capacity     int
	status       Status
	availability Availability
	createdAt    time.Time
	updatedAt    time.Time
}

func NewTable(name string, capacity int, availability Availability) (*Table, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return nil, ErrNameTooLong
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	return &Table{
		id:           uuid.New(),
		name:         name,
		capacity:     capacity,
		status:       StatusAvailable,
		availability: availability,
	}, nil
}

func ReconstructTable(
	id uuid.UUID,
	name string,
	capacity int,
	status Status,
	availability Availability,
	createdAt, updatedAt time.Time,
) *Table {
	return &Table{
		id:           id,
		name:         name,
		capacity:     capacity,
		status:       status,
		availability: availability,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (t *Table) ID() uuid.UUID              { return t.id }
func (t *Table) Name() string               { return t.name }
func (t *Table) Capacity() int              { return t.capacity }
func (t *Table) Status() Status             { return t.status }
func (t *Table) Availability() Availability { return t.availability }
func (t *Table) CreatedAt() time.Time       { return t.createdAt }
func (t *Table) UpdatedAt() time.Time       { return t.updatedAt }

func (t *Table) IsBookable() bool {
	return t.status == StatusAvailable
}

// HasSlot reports whether the table offers a slot starting at the given
// date and time. Bookings may only start at the start of an authored range.
func (t *Table) HasSlot(date schedule.Date, start schedule.TimeOfDay) bool {
	block, ok := t.availability.BlockFor(date)
	if !ok {
		return false
	}
	for _, r := range block.Ranges() {
		if r.Start().Equal(start) {
			return true
		}
	}
	return false
}

func (t *Table) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	t.name = name
	return nil
}

func (t *Table) Resize(capacity int) error {
	if capacity <= 0 {
		return ErrInvalidCapacity
	}
	t.capacity = capacity
	return nil
}

func (t *Table) ReplaceAvailability(availability Availability) {
	t.availability = availability
}

// EnterMaintenance is only called by the maintenance coordinator after every
// active reservation has been dispositioned.
func (t *Table) EnterMaintenance() error {
	if t.status == StatusMaintenance {
		return ErrAlreadyMaintenance
	}
	t.status = StatusMaintenance
	return nil
}

func (t *Table) LeaveMaintenance() {
	t.status = StatusAvailable
}
