package datalode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"
)

func TestCreateEventDecodesPayload(t *testing.T) {
	payload := `{
		"id": "evt_1",
		"deviceId": "dev_1",
		"start": "2026-08-01T10:00:00Z",
		"end": "2026-08-01T10:05:00Z",
		"metadata": {"severity": "high"},
		"createdAt": "2026-08-01T10:06:00Z",
		"updatedAt": "2026-08-01T10:06:00Z"
	}`
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/events" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(payload))
	}))

	evt, err := client.CreateEvent(context.Background(), CreateEventParams{
		DeviceID: "dev_1",
		Start:    time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		Duration: 5 * time.Minute,
		Metadata: map[string]string{"severity": "high"},
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if evt.ID != "evt_1" || evt.DeviceID != "dev_1" {
		t.Fatalf("unexpected event: %+v", evt)
	}
	if !evt.Start.Equal(time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("Start = %v", evt.Start)
	}
	if evt.Duration() != 5*time.Minute {
		t.Fatalf("Duration = %v", evt.Duration())
	}
	if evt.Metadata["severity"] != "high" {
		t.Fatalf("Metadata = %v", evt.Metadata)
	}
}

func TestCreateEventSendsInstantaneousEnd(t *testing.T) {
	var body createEventRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Write([]byte(`{"id": "evt_1", "deviceId": "dev_1"}`))
	}))

	start := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	if _, err := client.CreateEvent(context.Background(), CreateEventParams{
		DeviceName: "forklift-a",
		Start:      start,
	}); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if body.DeviceName != "forklift-a" || body.DeviceID != "" {
		t.Fatalf("device fields = %q/%q", body.DeviceID, body.DeviceName)
	}
	if body.Start != body.End {
		t.Fatalf("zero duration should produce start == end, got %q / %q", body.Start, body.End)
	}
}

func TestCreateEventValidatesLocally(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
	}))

	start := time.Now()
	cases := []CreateEventParams{
		{Start: start},
		{DeviceID: "dev_1"},
		{DeviceID: "dev_1", Start: start, Duration: -time.Second},
	}
	for i, p := range cases {
		_, err := client.CreateEvent(context.Background(), p)
		if !IsValidationError(err) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
	if requests != 0 {
		t.Fatalf("local validation must not issue requests, got %d", requests)
	}
}

func TestCreateThenListRoundTrip(t *testing.T) {
	var stored map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/events":
			var req map[string]any
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode create body: %v", err)
			}
			stored = map[string]any{
				"id":        "evt_42",
				"deviceId":  req["deviceId"],
				"start":     req["start"],
				"end":       req["end"],
				"metadata":  req["metadata"],
				"createdAt": "2026-08-01T00:00:00Z",
				"updatedAt": "2026-08-01T00:00:00Z",
			}
			json.NewEncoder(w).Encode(stored)
		case r.Method == http.MethodGet && r.URL.Path == "/v1/events":
			if r.URL.Query().Get("deviceId") != "dev_1" {
				json.NewEncoder(w).Encode([]any{})
				return
			}
			json.NewEncoder(w).Encode([]any{stored})
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))

	start := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)
	created, err := client.CreateEvent(context.Background(), CreateEventParams{
		DeviceID: "dev_1",
		Start:    start,
		Duration: time.Minute,
		Metadata: map[string]string{"op": "load"},
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	events, err := client.ListEvents(context.Background(), EventFilter{DeviceID: "dev_1"})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	got := events[0]
	if got.ID != created.ID || got.DeviceID != created.DeviceID {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, created)
	}
	if !got.Start.Equal(created.Start) || !got.End.Equal(created.End) {
		t.Fatalf("time mismatch: %v..%v vs %v..%v", got.Start, got.End, created.Start, created.End)
	}
	if got.Metadata["op"] != "load" {
		t.Fatalf("metadata mismatch: %v", got.Metadata)
	}
}

func TestListEventsEmptyNeverNil(t *testing.T) {
	for _, body := range []string{`[]`, `null`} {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, body)
		}))
		events, err := client.ListEvents(context.Background(), EventFilter{Query: "no-match"})
		if err != nil {
			t.Fatalf("body %q: ListEvents: %v", body, err)
		}
		if events == nil {
			t.Fatalf("body %q: expected non-nil slice", body)
		}
		if len(events) != 0 {
			t.Fatalf("body %q: expected empty slice, got %d", body, len(events))
		}
	}
}

func TestListEventsQueryParams(t *testing.T) {
	var query url.Values
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(`[]`))
	}))

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	_, err := client.ListEvents(context.Background(), EventFilter{
		DeviceID:  "dev_1",
		Start:     start,
		End:       start.Add(time.Hour),
		SortBy:    "created_at",
		SortOrder: "desc",
		Limit:     25,
		Offset:    50,
	})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if query.Get("deviceId") != "dev_1" {
		t.Fatalf("deviceId = %q", query.Get("deviceId"))
	}
	if query.Get("sortBy") != "createdAt" {
		t.Fatalf("sortBy should be camelized, got %q", query.Get("sortBy"))
	}
	if query.Get("sortOrder") != "desc" {
		t.Fatalf("sortOrder = %q", query.Get("sortOrder"))
	}
	if query.Get("start") != "2026-08-01T00:00:00Z" {
		t.Fatalf("start = %q", query.Get("start"))
	}
	if query.Get("limit") != "25" || query.Get("offset") != "50" {
		t.Fatalf("paging = %q/%q", query.Get("limit"), query.Get("offset"))
	}
	if query.Has("deviceName") || query.Has("query") {
		t.Fatalf("zero filters must be omitted: %v", query)
	}
}

func TestDeleteEvent(t *testing.T) {
	var method, path string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.Write([]byte(`{"id": "evt_1"}`))
	}))

	if err := client.DeleteEvent(context.Background(), "evt_1"); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if method != http.MethodDelete || path != "/v1/events/evt_1" {
		t.Fatalf("unexpected request: %s %s", method, path)
	}

	if err := client.DeleteEvent(context.Background(), " "); !IsValidationError(err) {
		t.Fatalf("expected validation error for blank id, got %v", err)
	}
}
