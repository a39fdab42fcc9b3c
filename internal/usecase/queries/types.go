package queries

import (
	"time"

	"github.com/google/uuid"
)

type ReservationView struct {
	ID            uuid.UUID  `json:"id"`
	TableID       uuid.UUID  `json:"table_id"`
	TableName     string     `json:"table_name"`
	UserID        uuid.UUID  `json:"user_id"`
	UserEmail     string     `json:"user_email"`
	ReservedOn    string     `json:"reserved_on"`
	StartAt       string     `json:"start_at"`
	PartySize     int        `json:"party_size"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	Observations  string     `json:"observations"`
	Status        string     `json:"status"`
	ConfirmDueAt  *time.Time `json:"confirm_due_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type ReservationListItem struct {
	ID           uuid.UUID `json:"id"`
	TableID      uuid.UUID `json:"table_id"`
	TableName    string    `json:"table_name"`
	ReservedOn   string    `json:"reserved_on"`
	StartAt      string    `json:"start_at"`
	PartySize    int       `json:"party_size"`
	CustomerName string    `json:"customer_name"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type AvailabilityBlockView struct {
	Date  string   `json:"date"`
	Times []string `json:"times"`
}

type TableView struct {
	ID           uuid.UUID               `json:"id"`
	Name         string                  `json:"name"`
	Capacity     int                     `json:"capacity"`
	Status       string                  `json:"status"`
	Availability []AvailabilityBlockView `json:"availability"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// OpenSlot is one offered start time of a table on a date, annotated with
// whether an active reservation already holds it.
type OpenSlot struct {
	StartAt  string `json:"start_at"`
	Reserved bool   `json:"reserved"`
}

type RulesView struct {
	OpeningHoursEnabled     bool      `json:"opening_hours_enabled"`
	OpeningHour             string    `json:"opening_hour"`
	ClosingHour             string    `json:"closing_hour"`
	AutoConfirmEnabled      bool      `json:"auto_confirm_enabled"`
	AutoConfirmMinutes      int       `json:"auto_confirm_minutes"`
	ReservationLimitEnabled bool      `json:"reservation_limit_enabled"`
	MaxReservationsPerUser  int       `json:"max_reservations_per_user"`
	ReservationLimitHours   int       `json:"reservation_limit_hours"`
	UpdatedAt               time.Time `json:"updated_at"`
}

type UserView struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	IsActive  bool       `json:"is_active"`
}

// AuthenticatedUser carries the stored hash for credential checks and is
// never serialized.
type AuthenticatedUser struct {
	User         UserView
	PasswordHash string
}
