package table

import (
	"errors"
	"sort"
	"time"

	"mesa-reserve/internal/domain/schedule"
)

var (
	ErrInvalidStatus     = errors.New("invalid table status")
	ErrDuplicateDate     = errors.New("availability has more than one block for the same date")
	ErrOverlappingRanges = errors.New("availability block has overlapping time ranges")
	ErrEmptyBlock        = errors.New("availability block has no time ranges")
	ErrDateInPast        = errors.New("availability date is in the past")
	ErrStartInPast       = errors.New("availability start time has already passed")
)

// AvailabilityBlock is the set of bookable time ranges for one calendar day.
type AvailabilityBlock struct {
	date   schedule.Date
	ranges []schedule.TimeRange
}

func NewAvailabilityBlock(date schedule.Date, ranges []schedule.TimeRange) (AvailabilityBlock, error) {
	if len(ranges) == 0 {
		return AvailabilityBlock{}, ErrEmptyBlock
	}

	sorted := make([]schedule.TimeRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start().Before(sorted[j].Start())
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Overlaps(sorted[i]) {
			return AvailabilityBlock{}, ErrOverlappingRanges
		}
	}

	return AvailabilityBlock{date: date, ranges: sorted}, nil
}

func (b AvailabilityBlock) Date() schedule.Date {
	return b.date
}

func (b AvailabilityBlock) Ranges() []schedule.TimeRange {
	out := make([]schedule.TimeRange, len(b.ranges))
	copy(out, b.ranges)
	return out
}

// Availability is the per-table calendar: ordered blocks, one per date.
type Availability struct {
	blocks []AvailabilityBlock
}

// NewAvailability validates an authored calendar. Authoring (create/edit)
// rejects dates strictly before today and, for today, ranges starting
// before now.
func NewAvailability(blocks []AvailabilityBlock, now time.Time) (Availability, error) {
	today := schedule.DateOf(now)
	timeNow := schedule.TimeOfDayOf(now)

	seen := make(map[string]struct{}, len(blocks))
	for _, b := range blocks {
		if _, dup := seen[b.date.String()]; dup {
			return Availability{}, ErrDuplicateDate
		}
		seen[b.date.String()] = struct{}{}

		if b.date.Before(today) {
			return Availability{}, ErrDateInPast
		}
		if b.date.Equal(today) {
			for _, r := range b.ranges {
				if r.Start().Before(timeNow) {
					return Availability{}, ErrStartInPast
				}
			}
		}
	}

	sorted := make([]AvailabilityBlock, len(blocks))
	copy(sorted, blocks)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].date.Before(sorted[j].date)
	})

	return Availability{blocks: sorted}, nil
}

// ReconstructAvailability rebuilds a stored calendar without the authoring
// time checks; persisted blocks age into the past naturally.
func ReconstructAvailability(blocks []AvailabilityBlock) Availability {
	sorted := make([]AvailabilityBlock, len(blocks))
	copy(sorted, blocks)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].date.Before(sorted[j].date)
	})
	return Availability{blocks: sorted}
}

func (a Availability) Blocks() []AvailabilityBlock {
	out := make([]AvailabilityBlock, len(a.blocks))
	copy(out, a.blocks)
	return out
}

func (a Availability) BlockFor(date schedule.Date) (AvailabilityBlock, bool) {
	for _, b := range a.blocks {
		if b.date.Equal(date) {
			return b, true
		}
	}
	return AvailabilityBlock{}, false
}

func (a Availability) IsEmpty() bool {
	return len(a.blocks) == 0
}
