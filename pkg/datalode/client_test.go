package datalode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient("test-token", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, srv
}

func TestNewClientRequiresToken(t *testing.T) {
	for _, token := range []string{"", "   "} {
		_, err := NewClient(token)
		if err == nil {
			t.Fatalf("expected error for token %q", token)
		}
		if !IsAuthenticationError(err) {
			t.Fatalf("expected authentication error, got %v", err)
		}
	}
}

func TestZeroValueClientFailsBeforeTransport(t *testing.T) {
	var c Client
	_, err := c.ListEvents(context.Background(), EventFilter{})
	if err == nil {
		t.Fatalf("expected error from uninitialized client")
	}
	if !IsAuthenticationError(err) {
		t.Fatalf("expected authentication error before transport, got %v", err)
	}
}

func TestRequestsCarryBearerToken(t *testing.T) {
	var authHeader string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))

	if _, err := client.ListDevices(context.Background(), DeviceFilter{}); err != nil {
		t.Fatalf("ListDevices: %v", err)
	}
	if authHeader != "Bearer test-token" {
		t.Fatalf("Authorization = %q", authHeader)
	}
}

func TestUnauthorizedMapsToAuthenticationError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "token expired"}`))
	}))

	_, err := client.ListEvents(context.Background(), EventFilter{})
	if !IsAuthenticationError(err) {
		t.Fatalf("expected authentication error, got %v", err)
	}
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("StatusCode = %d", apiErr.StatusCode)
	}
	if apiErr.Message != "token expired" {
		t.Fatalf("Message = %q", apiErr.Message)
	}
}

func TestForbiddenMapsToAuthenticationError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))

	_, err := client.GetDevice(context.Background(), "dev_1")
	if !IsAuthenticationError(err) {
		t.Fatalf("expected authentication error, got %v", err)
	}
}

func TestNetworkFailureMapsToTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close()

	client, err := NewClient("test-token", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.ListProjects(context.Background())
	if !IsTransportError(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
	apiErr, ok := err.(*Error)
	if !ok || apiErr.Unwrap() == nil {
		t.Fatalf("transport error should expose its cause: %v", err)
	}
}

func TestServerMessageFallsBackToStatusText(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("not json"))
	}))

	_, err := client.ListEvents(context.Background(), EventFilter{})
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Kind != KindAPI {
		t.Fatalf("Kind = %v", apiErr.Kind)
	}
	if apiErr.Message != "Internal Server Error" {
		t.Fatalf("Message = %q", apiErr.Message)
	}
}

func TestMalformedSuccessBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>proxy interference</html>"))
	}))

	_, err := client.ListEvents(context.Background(), EventFilter{})
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Kind != KindAPI || apiErr.Message != "unexpected response format" {
		t.Fatalf("unexpected error: %v", apiErr)
	}
}

func TestWithUserAgent(t *testing.T) {
	var ua string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		w.Write([]byte(`[]`))
	}))

	if _, err := client.ListProjects(context.Background()); err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if ua != userAgent {
		t.Fatalf("User-Agent = %q, want %q", ua, userAgent)
	}
}
