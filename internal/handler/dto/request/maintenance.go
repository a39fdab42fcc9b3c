package request

import (
	"github.com/google/uuid"
)

const (
	DispositionCancel = "cancel"
	DispositionMove   = "move"
)

type DispositionRequest struct {
	ReservationID uuid.UUID  `json:"reservation_id" binding:"required"`
	Action        string     `json:"action" binding:"required,oneof=cancel move"`
	TargetTableID *uuid.UUID `json:"target_table_id,omitempty"`
}

type MaintenanceRequest struct {
	// CancelAll cancels every active reservation instead of listing
	// per-reservation dispositions.
	CancelAll    bool                 `json:"cancel_all"`
	Dispositions []DispositionRequest `json:"dispositions"`
}
