package converter

import "github.com/tobilg/dashconv/internal/api"

// TranslateTimeRange maps a source panel time range to the v2 panel time range.
//
// Text panels never carry one. A missing source range becomes the open-ended
// "-15m" default and a usable one is copied through with its tags. The second
// result is false when no range should be emitted, which for non-text panels
// means the source range was present but unusable.
func TranslateTimeRange(kind Kind, src *api.TimeRange) (*api.TimeRange, bool) {
	if kind == KindText {
		return nil, false
	}
	if src == nil {
		return api.DefaultTimeRange(), true
	}
	if !usableTimeRange(src) {
		return nil, false
	}

	out := src.Clone()
	if out.Type == "" {
		out.Type = api.TimeRangeBeginBounded
	}
	return out, true
}

func usableTimeRange(tr *api.TimeRange) bool {
	if !tr.From.Valid() {
		return false
	}
	return tr.To == nil || tr.To.Valid()
}
