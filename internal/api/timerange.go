package api

import (
	"encoding/json"
	"fmt"
)

// TimeRangeBeginBounded is the range tag for windows with a start and an optional end
const TimeRangeBeginBounded = "BeginBoundedTimeRange"

// DefaultRelativeTime is the open-ended window used when nothing else applies
const DefaultRelativeTime = "-15m"

// BoundaryType tags one endpoint of a time range
type BoundaryType string

const (
	BoundaryEpoch    BoundaryType = "EpochTimeRangeBoundary"
	BoundaryRelative BoundaryType = "RelativeTimeRangeBoundary"
)

// TimeRange is shared by classic panels and v2 documents. A nil To means open-ended.
type TimeRange struct {
	Type string    `json:"type"`
	From *Boundary `json:"from"`
	To   *Boundary `json:"to"`
}

// Boundary is either an absolute epoch-millisecond boundary or a relative
// duration such as "-15m", depending on Type.
type Boundary struct {
	Type         BoundaryType
	EpochMillis  int64
	RelativeTime string
}

// RelativeBoundary creates a relative boundary
func RelativeBoundary(relative string) *Boundary {
	return &Boundary{Type: BoundaryRelative, RelativeTime: relative}
}

// EpochBoundary creates an absolute boundary
func EpochBoundary(millis int64) *Boundary {
	return &Boundary{Type: BoundaryEpoch, EpochMillis: millis}
}

// DefaultTimeRange returns a fresh "last 15 minutes" window
func DefaultTimeRange() *TimeRange {
	return &TimeRange{
		Type: TimeRangeBeginBounded,
		From: RelativeBoundary(DefaultRelativeTime),
		To:   nil,
	}
}

// Valid reports whether the boundary carries a known tag with its value
func (b *Boundary) Valid() bool {
	if b == nil {
		return false
	}
	switch b.Type {
	case BoundaryEpoch:
		return true
	case BoundaryRelative:
		return b.RelativeTime != ""
	default:
		return false
	}
}

// Clone returns a deep copy
func (tr *TimeRange) Clone() *TimeRange {
	if tr == nil {
		return nil
	}
	out := &TimeRange{Type: tr.Type}
	if tr.From != nil {
		from := *tr.From
		out.From = &from
	}
	if tr.To != nil {
		to := *tr.To
		out.To = &to
	}
	return out
}

type epochBoundaryJSON struct {
	Type        BoundaryType `json:"type"`
	EpochMillis int64        `json:"epochMillis"`
}

type relativeBoundaryJSON struct {
	Type         BoundaryType `json:"type"`
	RelativeTime string       `json:"relativeTime"`
}

func (b Boundary) MarshalJSON() ([]byte, error) {
	switch b.Type {
	case BoundaryEpoch:
		return json.Marshal(epochBoundaryJSON{Type: b.Type, EpochMillis: b.EpochMillis})
	case BoundaryRelative:
		return json.Marshal(relativeBoundaryJSON{Type: b.Type, RelativeTime: b.RelativeTime})
	default:
		return nil, fmt.Errorf("unknown time range boundary type %q", b.Type)
	}
}

func (b *Boundary) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type         BoundaryType `json:"type"`
		EpochMillis  *int64       `json:"epochMillis"`
		RelativeTime string       `json:"relativeTime"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*b = Boundary{Type: raw.Type, RelativeTime: raw.RelativeTime}
	if raw.EpochMillis != nil {
		b.EpochMillis = *raw.EpochMillis
	} else if raw.Type == BoundaryEpoch {
		// an epoch tag without a value is unusable
		b.Type = ""
	}
	return nil
}
