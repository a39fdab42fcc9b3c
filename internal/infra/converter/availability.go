package converter

import (
	"encoding/json"

	"mesa-reserve/internal/domain/schedule"
	"mesa-reserve/internal/domain/table"

	"mesa-reserve/internal/pkg/errs"
)

// availabilityBlockJSON is the storage shape of one calendar block, kept
// identical to the wire shape the clients send.
type availabilityBlockJSON struct {
	Date  string   `json:"date"`
	Times []string `json:"times"`
}

func AvailabilityToJSON(a table.Availability) ([]byte, error) {
	blocks := a.Blocks()
	out := make([]availabilityBlockJSON, len(blocks))
	for i, b := range blocks {
		ranges := b.Ranges()
		times := make([]string, len(ranges))
		for j, r := range ranges {
			times[j] = r.String()
		}
		out[i] = availabilityBlockJSON{Date: b.Date().String(), Times: times}
	}
	return json.Marshal(out)
}

func AvailabilityFromJSON(data []byte) (table.Availability, error) {
	if len(data) == 0 {
		return table.ReconstructAvailability(nil), nil
	}

	var raw []availabilityBlockJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return table.Availability{}, errs.Wrap(err, "malformed availability payload")
	}

	blocks := make([]table.AvailabilityBlock, 0, len(raw))
	for _, rb := range raw {
		date, err := schedule.NewDate(rb.Date)
		if err != nil {
			return table.Availability{}, errs.Wrap(err, "malformed availability date")
		}
		ranges := make([]schedule.TimeRange, 0, len(rb.Times))
		for _, ts := range rb.Times {
			r, err := schedule.ParseTimeRange(ts)
			if err != nil {
				return table.Availability{}, errs.Wrap(err, "malformed availability range")
			}
			ranges = append(ranges, r)
		}
		block, err := table.NewAvailabilityBlock(date, ranges)
		if err != nil {
			return table.Availability{}, errs.Wrap(err, "invalid availability block")
		}
		blocks = append(blocks, block)
	}

	return table.ReconstructAvailability(blocks), nil
}
