package queries

import (
	"context"

	"mesa-reserve/internal/domain/user"
	"mesa-reserve/internal/infra"
	"mesa-reserve/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound = errs.New("reservation not found")
	ErrAccessDenied        = errs.New("access denied")
	ErrQueryFailed         = errs.New("query failed")
)

type ReservationQueries interface {
	// GetByID scopes access: customers only see their own reservations.
	GetByID(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, role user.Role) (*ReservationView, error)
	ListOwn(ctx context.Context, userID uuid.UUID) ([]*ReservationListItem, error)
	ListAll(ctx context.Context) ([]*ReservationListItem, error)
}

type ReservationViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*ReservationListItem, error)
	ListAll(ctx context.Context) ([]*ReservationListItem, error)
}

type reservationQueriesImpl struct {
	repo ReservationViewRepo
}

func NewReservationQueries(repo ReservationViewRepo) ReservationQueries {
	return &reservationQueriesImpl{repo: repo}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, role user.Role) (*ReservationView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	if role != user.RoleAdmin && view.UserID != requesterID {
		// Hidden rather than forbidden, so ids cannot be probed
		return nil, ErrReservationNotFound
	}
	return view, nil
}

func (q *reservationQueriesImpl) ListOwn(ctx context.Context, userID uuid.UUID) ([]*ReservationListItem, error) {
	items, err := q.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return items, nil
}

func (q *reservationQueriesImpl) ListAll(ctx context.Context) ([]*ReservationListItem, error) {
	items, err := q.repo.ListAll(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return items, nil
}
