package response

import (
	"time"

	"mesa-reserve/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type AvailabilityBlockResponse struct {
	Date  string   `json:"date"`
	Times []string `json:"times"`
}

type TableResponse struct {
	ID           uuid.UUID                   `json:"id"`
	Name         string                      `json:"name"`
	Capacity     int                         `json:"capacity"`
	Status       string                      `json:"status"`
	Availability []AvailabilityBlockResponse `json:"availability"`
	CreatedAt    time.Time                   `json:"createdAt"`
	UpdatedAt    time.Time                   `json:"updatedAt"`
}

type OpenSlotResponse struct {
	StartAt  string `json:"startAt"`
	Reserved bool   `json:"reserved"`
}

type AvailableDatesResponse struct {
	TableID uuid.UUID `json:"tableId"`
	Dates   []string  `json:"dates"`
}

type OpenSlotsResponse struct {
	TableID uuid.UUID          `json:"tableId"`
	Date    string             `json:"date"`
	Slots   []OpenSlotResponse `json:"slots"`
}

func FromTableView(rm *queries.TableView) *TableResponse {
	var resp TableResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}

func FromTableList(views []*queries.TableView) []*TableResponse {
	out := make([]*TableResponse, len(views))
	for i, v := range views {
		out[i] = FromTableView(v)
	}
	return out
}

func FromOpenSlots(tableID uuid.UUID, date string, slots []queries.OpenSlot) *OpenSlotsResponse {
	resp := &OpenSlotsResponse{
		TableID: tableID,
		Date:    date,
		Slots:   make([]OpenSlotResponse, len(slots)),
	}
	_ = copier.Copy(&resp.Slots, &slots)
	return resp
}
