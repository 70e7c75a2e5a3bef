package notes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetch_Success(t *testing.T) {
	var gotAuth, gotAPIKey string
	var gotBody map[string]int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/notes" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotAPIKey = r.Header.Get("apikey")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"notes": "contenu réservé"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "public-anon-key")
	notes, err := client.Fetch(context.Background(), "session-jwt", 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if notes == nil || *notes != "contenu réservé" {
		t.Fatalf("unexpected notes: %v", notes)
	}
	if gotAuth != "Bearer session-jwt" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotAPIKey != "public-anon-key" {
		t.Fatalf("expected apikey header, got %q", gotAPIKey)
	}
	if gotBody["formation_id"] != 42 {
		t.Fatalf("expected formation_id 42 in body, got %v", gotBody)
	}
}

func TestFetch_NullNotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"notes": null}`))
	}))
	defer srv.Close()

	notes, err := NewClient(srv.URL, "k").Fetch(context.Background(), "t", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notes != nil {
		t.Fatalf("expected nil notes, got %v", *notes)
	}
}

func TestFetch_ForbiddenReturnsParsedMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": "insufficient tokens"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k").Fetch(context.Background(), "t", 1)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", apiErr.Status)
	}
	if apiErr.Error() != "insufficient tokens" {
		t.Fatalf("expected verbatim remote message, got %q", apiErr.Error())
	}
}

func TestFetch_FailureWithUnparsableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k").Fetch(context.Background(), "t", 1)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "notes service returned status 502" {
		t.Fatalf("unexpected fallback message: %q", apiErr.Message)
	}
}

func TestFetch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := NewClient(srv.URL, "k").Fetch(context.Background(), "t", 1)
	if err == nil {
		t.Fatal("expected transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failures must not be APIErrors: %v", err)
	}
}

func TestFetch_MalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"notes": `))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k").Fetch(context.Background(), "t", 1)
	if err == nil {
		t.Fatal("expected decode error")
	}
}
