package converter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tobilg/dashconv/internal/api"
)

func TestTranslateTimeRange_TextPanelsNeverCarryRange(t *testing.T) {
	src := &api.TimeRange{
		Type: api.TimeRangeBeginBounded,
		From: api.RelativeBoundary("-1h"),
	}

	tr, ok := TranslateTimeRange(KindText, src)
	if ok || tr != nil {
		t.Errorf("TranslateTimeRange(KindText) = %+v, %v; want nil, false", tr, ok)
	}
}

func TestTranslateTimeRange_DefaultWhenMissing(t *testing.T) {
	for _, kind := range []Kind{KindTimeSeries, KindDistribution} {
		tr, ok := TranslateTimeRange(kind, nil)
		if !ok {
			t.Fatalf("TranslateTimeRange(%v, nil) not ok", kind)
		}
		if diff := cmp.Diff(api.DefaultTimeRange(), tr); diff != "" {
			t.Errorf("default range mismatch (-want +got):\n%s", diff)
		}
		if tr.To != nil {
			t.Errorf("expected open-ended range, got to = %+v", tr.To)
		}
	}
}

func TestTranslateTimeRange_PreservesSourceRange(t *testing.T) {
	tests := []struct {
		name string
		src  *api.TimeRange
		want *api.TimeRange
	}{
		{
			name: "relative window other than the default",
			src: &api.TimeRange{
				Type: api.TimeRangeBeginBounded,
				From: api.RelativeBoundary("-24h"),
			},
			want: &api.TimeRange{
				Type: api.TimeRangeBeginBounded,
				From: api.RelativeBoundary("-24h"),
			},
		},
		{
			name: "absolute window",
			src: &api.TimeRange{
				Type: api.TimeRangeBeginBounded,
				From: api.EpochBoundary(1700000000000),
				To:   api.EpochBoundary(1700003600000),
			},
			want: &api.TimeRange{
				Type: api.TimeRangeBeginBounded,
				From: api.EpochBoundary(1700000000000),
				To:   api.EpochBoundary(1700003600000),
			},
		},
		{
			name: "range tag kept verbatim",
			src: &api.TimeRange{
				Type: "CompleteLiteralTimeRange",
				From: api.RelativeBoundary("-7d"),
				To:   api.RelativeBoundary("-1d"),
			},
			want: &api.TimeRange{
				Type: "CompleteLiteralTimeRange",
				From: api.RelativeBoundary("-7d"),
				To:   api.RelativeBoundary("-1d"),
			},
		},
		{
			name: "blank range tag defaults",
			src:  &api.TimeRange{From: api.RelativeBoundary("-30m")},
			want: &api.TimeRange{
				Type: api.TimeRangeBeginBounded,
				From: api.RelativeBoundary("-30m"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TranslateTimeRange(KindTimeSeries, tt.src)
			if !ok {
				t.Fatal("expected usable time range")
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("TranslateTimeRange mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTranslateTimeRange_DoesNotAliasSource(t *testing.T) {
	src := &api.TimeRange{Type: api.TimeRangeBeginBounded, From: api.RelativeBoundary("-2h")}

	got, ok := TranslateTimeRange(KindDistribution, src)
	if !ok {
		t.Fatal("expected usable time range")
	}
	got.From.RelativeTime = "-5m"

	if src.From.RelativeTime != "-2h" {
		t.Errorf("source range was modified through the result: %q", src.From.RelativeTime)
	}
}

func TestTranslateTimeRange_Unusable(t *testing.T) {
	tests := []struct {
		name string
		src  *api.TimeRange
	}{
		{"missing from", &api.TimeRange{Type: api.TimeRangeBeginBounded}},
		{"unknown from tag", &api.TimeRange{From: &api.Boundary{Type: "LiteralTimeRangeBoundary"}}},
		{"relative without value", &api.TimeRange{From: &api.Boundary{Type: api.BoundaryRelative}}},
		{"invalid to", &api.TimeRange{From: api.RelativeBoundary("-1h"), To: &api.Boundary{Type: "bogus"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, ok := TranslateTimeRange(KindTimeSeries, tt.src)
			if ok || tr != nil {
				t.Errorf("TranslateTimeRange = %+v, %v; want nil, false", tr, ok)
			}
		})
	}
}
