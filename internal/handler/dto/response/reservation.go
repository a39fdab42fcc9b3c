package response

import (
	"time"

	"mesa-reserve/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
	ID            uuid.UUID  `json:"id"`
	TableID       uuid.UUID  `json:"tableId"`
	TableName     string     `json:"tableName"`
	UserID        uuid.UUID  `json:"userId"`
	UserEmail     string     `json:"userEmail"`
	ReservedOn    string     `json:"reservedOn"`
	StartAt       string     `json:"startAt"`
	PartySize     int        `json:"partySize"`
	CustomerName  string     `json:"customerName"`
	CustomerEmail string     `json:"customerEmail"`
	Observations  string     `json:"observations,omitempty"`
	Status        string     `json:"status"`
	ConfirmDueAt  *time.Time `json:"confirmDueAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type ReservationListResponse struct {
	ID           uuid.UUID `json:"id"`
	TableID      uuid.UUID `json:"tableId"`
	TableName    string    `json:"tableName"`
	ReservedOn   string    `json:"reservedOn"`
	StartAt      string    `json:"startAt"`
	PartySize    int       `json:"partySize"`
	CustomerName string    `json:"customerName"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

func FromReservationView(rm *queries.ReservationView) *ReservationResponse {
	var resp ReservationResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}

func FromReservationListItem(rm *queries.ReservationListItem) *ReservationListResponse {
	var resp ReservationListResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}

func FromReservationList(items []*queries.ReservationListItem) []*ReservationListResponse {
	out := make([]*ReservationListResponse, len(items))
	for i, item := range items {
		out[i] = FromReservationListItem(item)
	}
	return out
}
