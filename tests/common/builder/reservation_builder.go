//go:build unit || e2e

package builder

import (
	"time"

	domreservation "mesa-reserve/internal/domain/reservation"
	"mesa-reserve/internal/domain/schedule"
	reqdto "mesa-reserve/internal/handler/dto/request"
	"mesa-reserve/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	TableID          uuid.UUID
	UserID           uuid.UUID
	ReservedOn       string
	StartAt          string
	PartySize        int
	CustomerName     string
	CustomerEmail    string
	Observations     string
	Now              time.Time
	AutoConfirmAfter *time.Duration
}

func NewReservationBuilder() *ReservationBuilder {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	return &ReservationBuilder{
		TableID:       uuid.New(),
		UserID:        uuid.New(),
		ReservedOn:    "2025-06-11",
		StartAt:       "18:00",
		PartySize:     2,
		CustomerName:  "Maria Silva",
		CustomerEmail: "maria@example.com",
		Observations:  "window seat",
		Now:           now,
	}
}

func (r *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(r)
	return r
}

func (r *ReservationBuilder) WithCustomerName(name string) *ReservationBuilder {
	r.CustomerName = name
	return r
}

func (r *ReservationBuilder) WithObservations(obs string) *ReservationBuilder {
	r.Observations = obs
	return r
}

func (r *ReservationBuilder) WithAutoConfirmAfter(d time.Duration) *ReservationBuilder {
	r.AutoConfirmAfter = &d
	return r
}

func (r *ReservationBuilder) BuildDomain() (*domreservation.Reservation, error) {
	date, err := schedule.NewDate(r.ReservedOn)
	if err != nil {
		return nil, err
	}
	startAt, err := schedule.NewTimeOfDay(r.StartAt)
	if err != nil {
		return nil, err
	}
	observations, err := domreservation.NewObservations(r.Observations)
	if err != nil {
		return nil, err
	}
	return domreservation.NewReservation(
		r.TableID, r.UserID, date, startAt, r.PartySize,
		r.CustomerName, r.CustomerEmail, observations,
		r.Now, r.AutoConfirmAfter,
	)
}

func (r *ReservationBuilder) BuildDTO() reqdto.CreateReservationRequest {
	req := reqdto.CreateReservationRequest{
		TableID:       r.TableID,
		ReservedOn:    r.ReservedOn,
		StartAt:       r.StartAt,
		PartySize:     r.PartySize,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
	}
	if r.Observations != "" {
		obs := r.Observations
		req.Observations = &obs
	}
	return req
}

func (r *ReservationBuilder) BuildView(id uuid.UUID, status string) *queries.ReservationView {
	return &queries.ReservationView{
		ID:            id,
		TableID:       r.TableID,
		TableName:     "Mesa 1",
		UserID:        r.UserID,
		UserEmail:     "customer@example.com",
		ReservedOn:    r.ReservedOn,
		StartAt:       r.StartAt,
		PartySize:     r.PartySize,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		Observations:  r.Observations,
		Status:        status,
		CreatedAt:     r.Now,
		UpdatedAt:     r.Now,
	}
}
