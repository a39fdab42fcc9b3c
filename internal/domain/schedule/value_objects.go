package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidDate      = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidTimeOfDay = errors.New("invalid time of day, expected HH:MM")
	ErrInvalidTimeRange = errors.New("invalid time range, expected HH:MM-HH:MM with start before end")
)

const dateLayout = "2006-01-02"

// Date is a calendar day without time zone. Reservations and availability
// blocks are keyed by the restaurant's local day, so wall-clock dates are
// compared as plain days, never as instants.
type Date struct {
	t time.Time
}

func NewDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{t: t}, nil
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.t.Format(dateLayout)
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

func (d Date) Time() time.Time {
	return d.t
}

// TimeOfDay is a minute-resolution wall-clock time.
type TimeOfDay struct {
	minutes int
}

func NewTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{minutes: t.Hour()*60 + t.Minute()}, nil
}

func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{minutes: t.Hour()*60 + t.Minute()}
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.minutes/60, t.minutes%60)
}

func (t TimeOfDay) Minutes() int {
	return t.minutes
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.minutes < other.minutes
}

func (t TimeOfDay) After(other TimeOfDay) bool {
	return t.minutes > other.minutes
}

func (t TimeOfDay) Equal(other TimeOfDay) bool {
	return t.minutes == other.minutes
}

// TimeRange is a half-open [start, end) window within a single day.
type TimeRange struct {
	start TimeOfDay
	end   TimeOfDay
}

func NewTimeRange(start, end TimeOfDay) (TimeRange, error) {
	if !start.Before(end) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{start: start, end: end}, nil
}

// ParseTimeRange parses the wire format "HH:MM-HH:MM".
func ParseTimeRange(s string) (TimeRange, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return TimeRange{}, ErrInvalidTimeRange
	}
	start, err := NewTimeOfDay(parts[0])
	if err != nil {
		return TimeRange{}, ErrInvalidTimeRange
	}
	end, err := NewTimeOfDay(parts[1])
	if err != nil {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return NewTimeRange(start, end)
}

func (r TimeRange) Start() TimeOfDay {
	return r.start
}

func (r TimeRange) End() TimeOfDay {
	return r.end
}

func (r TimeRange) String() string {
	return r.start.String() + "-" + r.end.String()
}

func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.start.Before(other.end) && other.start.Before(r.end)
}
