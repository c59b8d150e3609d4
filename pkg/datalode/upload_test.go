package datalode

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestUploadDataTwoPhase(t *testing.T) {
	payload := bytes.Repeat([]byte("mcap"), 5_000)
	var mintBody uploadLinkRequest
	var putBody []byte
	var putContentType string
	handler := http.NewServeMux()
	handler.HandleFunc("/v1/data/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("mint method = %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&mintBody); err != nil {
			t.Fatalf("decode mint body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"link": "http://" + r.Host + "/storage/put"})
	})
	handler.HandleFunc("/storage/put", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Fatalf("storage method = %s", r.Method)
		}
		putContentType = r.Header.Get("Content-Type")
		var err error
		putBody, err = io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read put body: %v", err)
		}
		w.Write([]byte("stored"))
	})

	client, _ := newTestClient(t, handler)

	var progress []int64
	res, err := client.UploadData(context.Background(), UploadParams{
		DeviceID: "dev_1",
		Filename: "run-0042.mcap",
		Data:     bytes.NewReader(payload),
		Progress: func(n int64) { progress = append(progress, n) },
	})
	if err != nil {
		t.Fatalf("UploadData: %v", err)
	}
	if mintBody.DeviceID != "dev_1" || mintBody.Filename != "run-0042.mcap" {
		t.Fatalf("mint body = %+v", mintBody)
	}
	if putContentType != "application/octet-stream" {
		t.Fatalf("Content-Type = %q", putContentType)
	}
	if !bytes.Equal(putBody, payload) {
		t.Fatalf("stored %d bytes, want %d", len(putBody), len(payload))
	}
	if res.StatusCode != http.StatusOK || res.Body != "stored" {
		t.Fatalf("result = %+v", res)
	}
	if !strings.HasSuffix(res.Link, "/storage/put") {
		t.Fatalf("link = %q", res.Link)
	}
	if len(progress) == 0 || progress[len(progress)-1] != int64(len(payload)) {
		t.Fatalf("progress = %v", progress)
	}
}

func TestUploadDataByKeyOnly(t *testing.T) {
	var mintBody uploadLinkRequest
	handler := http.NewServeMux()
	handler.HandleFunc("/v1/data/upload", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&mintBody); err != nil {
			t.Fatalf("decode mint body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"link": "http://" + r.Host + "/storage/put"})
	})
	handler.HandleFunc("/storage/put", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})

	client, _ := newTestClient(t, handler)
	_, err := client.UploadData(context.Background(), UploadParams{
		Key:      "shared/run.mcap",
		Filename: "run.mcap",
		Data:     strings.NewReader("bytes"),
	})
	if err != nil {
		t.Fatalf("UploadData: %v", err)
	}
	if mintBody.Key != "shared/run.mcap" {
		t.Fatalf("key = %q", mintBody.Key)
	}
	if mintBody.DeviceID != "" || mintBody.DeviceName != "" {
		t.Fatalf("device fields must be omitted: %+v", mintBody)
	}
}

func TestUploadDataValidatesLocally(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
	}))

	cases := []UploadParams{
		{DeviceID: "dev_1", Data: strings.NewReader("x")},
		{DeviceID: "dev_1", Filename: "run.mcap"},
		{Filename: "run.mcap", Data: strings.NewReader("x")},
	}
	for i, p := range cases {
		_, err := client.UploadData(context.Background(), p)
		if !IsValidationError(err) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
	if requests != 0 {
		t.Fatalf("local validation must not issue requests, got %d", requests)
	}
}

func TestUploadDataStoragePutFailure(t *testing.T) {
	handler := http.NewServeMux()
	handler.HandleFunc("/v1/data/upload", func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		json.NewEncoder(w).Encode(map[string]string{"link": "http://" + r.Host + "/storage/put"})
	})
	handler.HandleFunc("/storage/put", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": "upload link expired"}`))
	})

	client, _ := newTestClient(t, handler)
	_, err := client.UploadData(context.Background(), UploadParams{
		DeviceName: "forklift-a",
		Filename:   "run.mcap",
		Data:       strings.NewReader("bytes"),
	})
	if !IsAuthenticationError(err) {
		t.Fatalf("expected authentication error, got %v", err)
	}
	apiErr := err.(*Error)
	if apiErr.Message != "upload link expired" {
		t.Fatalf("Message = %q", apiErr.Message)
	}
}
