package response

import (
	"mesa-reserve/internal/usecase/commands"

	"github.com/google/uuid"
)

type MovedReservationResponse struct {
	ReservationID uuid.UUID `json:"reservationId"`
	TargetTableID uuid.UUID `json:"targetTableId"`
}

type MaintenanceResponse struct {
	TableID   uuid.UUID                  `json:"tableId"`
	Cancelled []uuid.UUID                `json:"cancelled"`
	Moved     []MovedReservationResponse `json:"moved"`
}

func FromMaintenanceResult(result *commands.MaintenanceResult) *MaintenanceResponse {
	resp := &MaintenanceResponse{
		TableID:   result.TableID,
		Cancelled: result.Cancelled,
		Moved:     make([]MovedReservationResponse, 0, len(result.Moved)),
	}
	for reservationID, targetID := range result.Moved {
		resp.Moved = append(resp.Moved, MovedReservationResponse{
			ReservationID: reservationID,
			TargetTableID: targetID,
		})
	}
	return resp
}
