package datalode

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"
)

func TestGetCoverage(t *testing.T) {
	var query url.Values
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/data/coverage" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		query = r.URL.Query()
		w.Write([]byte(`[
			{"deviceId": "dev_1", "start": "2026-08-01T10:00:00Z", "end": "2026-08-01T11:00:00Z"},
			{"deviceId": "dev_1", "start": "2026-08-01T12:00:00Z", "end": "2026-08-01T13:30:00Z"}
		]`))
	}))

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	ranges, err := client.GetCoverage(context.Background(), CoverageFilter{
		Start:     start,
		End:       start.Add(24 * time.Hour),
		DeviceID:  "dev_1",
		Tolerance: 90 * time.Second,
	})
	if err != nil {
		t.Fatalf("GetCoverage: %v", err)
	}
	if len(ranges) != 2 {
		t.Fatalf("expected 2 ranges, got %d", len(ranges))
	}
	if ranges[1].End.Sub(ranges[1].Start) != 90*time.Minute {
		t.Fatalf("range = %+v", ranges[1])
	}
	if query.Get("tolerance") != "90" {
		t.Fatalf("tolerance should be whole seconds, got %q", query.Get("tolerance"))
	}
	if query.Get("deviceId") != "dev_1" || query.Get("start") != "2026-08-01T00:00:00Z" {
		t.Fatalf("query = %v", query)
	}
}

func TestGetCoverageValidatesRange(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
	}))

	start := time.Now()
	cases := []CoverageFilter{
		{Start: start},
		{End: start},
		{Start: start, End: start},
		{Start: start.Add(time.Hour), End: start},
	}
	for i, f := range cases {
		_, err := client.GetCoverage(context.Background(), f)
		if !IsValidationError(err) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
	if requests != 0 {
		t.Fatalf("local validation must not issue requests, got %d", requests)
	}
}

func TestGetCoverageEmptyNeverNil(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`null`))
	}))

	start := time.Now().Add(-time.Hour)
	ranges, err := client.GetCoverage(context.Background(), CoverageFilter{Start: start, End: start.Add(time.Hour)})
	if err != nil {
		t.Fatalf("GetCoverage: %v", err)
	}
	if ranges == nil || len(ranges) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", ranges)
	}
}
