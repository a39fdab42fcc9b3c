package request

import (
	"strings"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	TableID       uuid.UUID `json:"table_id" binding:"required"`
	ReservedOn    string    `json:"reserved_on" binding:"required"`
	StartAt       string    `json:"start_at" binding:"required"`
	PartySize     int       `json:"party_size" binding:"required,min=1"`
	CustomerName  string    `json:"customer_name" binding:"required"`
	CustomerEmail string    `json:"customer_email" binding:"required,email"`
	Observations  *string   `json:"observations,omitempty"`
}

func (r CreateReservationRequest) GetObservations() string {
	if r.Observations == nil {
		return ""
	}
	return strings.TrimSpace(*r.Observations)
}
