package datalode

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func TestCreateSession(t *testing.T) {
	var body createSessionRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/sessions" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Write([]byte(`{"id": "ses_1", "key": "shift-42", "device": {"id": "dev_1"}}`))
	}))

	sess, err := client.CreateSession(context.Background(), CreateSessionParams{
		DeviceID: "dev_1",
		Key:      "shift-42",
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if sess.ID != "ses_1" || sess.Key != "shift-42" {
		t.Fatalf("session = %+v", sess)
	}
	if sess.Device == nil || sess.Device.ID != "dev_1" {
		t.Fatalf("device = %+v", sess.Device)
	}
	if body.DeviceID != "dev_1" || body.Key != "shift-42" {
		t.Fatalf("request body = %+v", body)
	}
}

func TestCreateSessionValidatesLocally(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
	}))

	cases := []CreateSessionParams{
		{Key: "shift-42"},
		{DeviceID: "dev_1"},
	}
	for i, p := range cases {
		_, err := client.CreateSession(context.Background(), p)
		if !IsValidationError(err) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
	if requests != 0 {
		t.Fatalf("local validation must not issue requests, got %d", requests)
	}
}

func TestGetSessionByKey(t *testing.T) {
	var path, project string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		project = r.URL.Query().Get("projectId")
		w.Write([]byte(`{"id": "ses_1", "key": "shift-42", "recordings": [{"id": "rec_1"}, {"id": "rec_2"}]}`))
	}))

	sess, err := client.GetSession(context.Background(), "shift-42", "prj_1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if path != "/v1/sessions/shift-42" || project != "prj_1" {
		t.Fatalf("request: path=%q projectId=%q", path, project)
	}
	if len(sess.Recordings) != 2 || sess.Recordings[1].ID != "rec_2" {
		t.Fatalf("recordings = %+v", sess.Recordings)
	}
}

func TestUpdateSessionMembership(t *testing.T) {
	var method string
	var body updateSessionRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Write([]byte(`{"id": "ses_1", "key": "shift-42"}`))
	}))

	_, err := client.UpdateSession(context.Background(), "ses_1", UpdateSessionParams{
		AddRecordingIDs:    []string{"rec_3"},
		RemoveRecordingIDs: []string{"rec_1"},
	})
	if err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}
	if method != http.MethodPatch {
		t.Fatalf("method = %s", method)
	}
	if len(body.AddRecordingIDs) != 1 || body.AddRecordingIDs[0] != "rec_3" {
		t.Fatalf("addRecordingIds = %v", body.AddRecordingIDs)
	}
	if len(body.RemoveRecordingIDs) != 1 || body.RemoveRecordingIDs[0] != "rec_1" {
		t.Fatalf("removeRecordingIds = %v", body.RemoveRecordingIDs)
	}
}

func TestDeleteSession(t *testing.T) {
	var method, path, project string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		project = r.URL.Query().Get("projectId")
		w.Write([]byte(`{}`))
	}))

	if err := client.DeleteSession(context.Background(), "ses_1", "prj_1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if method != http.MethodDelete || path != "/v1/sessions/ses_1" || project != "prj_1" {
		t.Fatalf("request: %s %s projectId=%q", method, path, project)
	}
}

func TestListSessionsEmptyNeverNil(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`))
	}))

	sessions, err := client.ListSessions(context.Background(), SessionFilter{ProjectID: "prj_1"})
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if sessions == nil || len(sessions) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", sessions)
	}
}

func TestListProjects(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/projects" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`[
			{"id": "prj_1", "name": "warehouse", "orgMemberCount": 12},
			{"id": "prj_2", "name": "yard"}
		]`))
	}))

	projects, err := client.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	if projects[0].Name != "warehouse" || projects[0].OrgMemberCount != 12 {
		t.Fatalf("project = %+v", projects[0])
	}
	if projects[1].OrgMemberCount != 0 {
		t.Fatalf("missing count should decode to zero, got %d", projects[1].OrgMemberCount)
	}
}
