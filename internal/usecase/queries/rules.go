package queries

import (
	"context"

	"mesa-reserve/internal/infra"
	"mesa-reserve/internal/pkg/errs"
)

var ErrRulesNotSeeded = errs.New("booking rules not seeded")

type RulesViewRepo interface {
	Get(ctx context.Context) (*RulesView, error)
}

type RulesQueries interface {
	Get(ctx context.Context) (*RulesView, error)
}

type rulesQueriesImpl struct {
	repo RulesViewRepo
}

func NewRulesQueries(repo RulesViewRepo) RulesQueries {
	return &rulesQueriesImpl{repo: repo}
}

func (q *rulesQueriesImpl) Get(ctx context.Context) (*RulesView, error) {
	view, err := q.repo.Get(ctx)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrRulesNotSeeded
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return view, nil
}
