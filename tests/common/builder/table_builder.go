//go:build unit || e2e

package builder

import (
	"time"

	"mesa-reserve/internal/domain/schedule"
	domtable "mesa-reserve/internal/domain/table"
	"mesa-reserve/internal/usecase/queries"

	"github.com/google/uuid"
)

type BlockSpec struct {
	Date  string
	Times []string
}

type TableBuilder struct {
	Name     string
	Capacity int
	Blocks   []BlockSpec
	Now      time.Time
}

func NewTableBuilder() *TableBuilder {
	return &TableBuilder{
		Name:     "Mesa 1",
		Capacity: 4,
		Blocks: []BlockSpec{
			{Date: "2025-06-11", Times: []string{"18:00-20:00", "20:00-22:00"}},
		},
		Now: time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC),
	}
}

func (t *TableBuilder) With(mutate func(*TableBuilder)) *TableBuilder {
	mutate(t)
	return t
}

func (t *TableBuilder) WithName(name string) *TableBuilder {
	t.Name = name
	return t
}

func (t *TableBuilder) WithCapacity(capacity int) *TableBuilder {
	t.Capacity = capacity
	return t
}

func (t *TableBuilder) WithBlocks(blocks ...BlockSpec) *TableBuilder {
	t.Blocks = blocks
	return t
}

func (t *TableBuilder) BuildBlocks() ([]domtable.AvailabilityBlock, error) {
	blocks := make([]domtable.AvailabilityBlock, 0, len(t.Blocks))
	for _, spec := range t.Blocks {
		date, err := schedule.NewDate(spec.Date)
		if err != nil {
			return nil, err
		}
		ranges := make([]schedule.TimeRange, 0, len(spec.Times))
		for _, ts := range spec.Times {
			r, err := schedule.ParseTimeRange(ts)
			if err != nil {
				return nil, err
			}
			ranges = append(ranges, r)
		}
		block, err := domtable.NewAvailabilityBlock(date, ranges)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

func (t *TableBuilder) BuildAvailability() (domtable.Availability, error) {
	blocks, err := t.BuildBlocks()
	if err != nil {
		return domtable.Availability{}, err
	}
	return domtable.NewAvailability(blocks, t.Now)
}

func (t *TableBuilder) BuildDomain() (*domtable.Table, error) {
	availability, err := t.BuildAvailability()
	if err != nil {
		return nil, err
	}
	return domtable.NewTable(t.Name, t.Capacity, availability)
}

func (t *TableBuilder) BuildView(id uuid.UUID, status string) *queries.TableView {
	blocks := make([]queries.AvailabilityBlockView, 0, len(t.Blocks))
	for _, spec := range t.Blocks {
		blocks = append(blocks, queries.AvailabilityBlockView{
			Date:  spec.Date,
			Times: spec.Times,
		})
	}
	return &queries.TableView{
		ID:           id,
		Name:         t.Name,
		Capacity:     t.Capacity,
		Status:       status,
		Availability: blocks,
		CreatedAt:    t.Now,
		UpdatedAt:    t.Now,
	}
}
