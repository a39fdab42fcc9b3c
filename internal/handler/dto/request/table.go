package request

type AvailabilityBlockRequest struct {
	Date  string   `json:"date" binding:"required"`
	Times []string `json:"times" binding:"required,min=1"`
}

type CreateTableRequest struct {
	Name         string                     `json:"name" binding:"required"`
	Capacity     int                        `json:"capacity" binding:"required,min=1"`
	Availability []AvailabilityBlockRequest `json:"availability"`
}

type UpdateTableRequest struct {
	Name         string                     `json:"name" binding:"required"`
	Capacity     int                        `json:"capacity" binding:"required,min=1"`
	Availability []AvailabilityBlockRequest `json:"availability"`
}
