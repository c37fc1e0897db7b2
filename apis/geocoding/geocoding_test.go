package geocoding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"weatherdash/manager"
)

func newServer(t *testing.T, status int, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetSendsQuery(t *testing.T) {
	queries := make(chan url.Values, 1)
	srv := newServer(t, http.StatusOK, `{"results":[{"name":"Dhaka","country":"Bangladesh","latitude":23.7104,"longitude":90.40744,"timezone":"Asia/Dhaka"}]}`,
		func(r *http.Request) { queries <- r.URL.Query() })

	loc, err := New(Config{Endpoint: srv.URL}, nil).Get(context.Background(), "Dhaka")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := <-queries
	if q.Get("name") != "Dhaka" || q.Get("count") != "5" {
		t.Fatalf("unexpected query %v", q)
	}

	want := manager.Location{Latitude: 23.7104, Longitude: 90.40744, Timezone: "Asia/Dhaka", DisplayName: "Dhaka, Bangladesh"}
	if loc != want {
		t.Fatalf("got %+v, want %+v", loc, want)
	}
}

func TestGetPrefersExactNameMatch(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"results":[
		{"name":"Springfield, IL","country":"United States","latitude":39.8,"longitude":-89.6,"timezone":"America/Chicago"},
		{"name":"Springfield","country":"United States","latitude":37.2,"longitude":-93.3,"timezone":"America/Chicago"}
	]}`, nil)

	loc, err := New(Config{Endpoint: srv.URL}, nil).Get(context.Background(), "springfield")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Latitude != 37.2 || loc.DisplayName != "Springfield, United States" {
		t.Fatalf("expected exact match candidate, got %+v", loc)
	}
}

func TestGetFallsBackToFirstCandidate(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"results":[
		{"name":"Londrina","country":"Brazil","latitude":-23.3,"longitude":-51.1,"timezone":"America/Sao_Paulo"},
		{"name":"London","country":"Canada","latitude":42.9,"longitude":-81.2,"timezone":"America/Toronto"}
	]}`, nil)

	loc, err := New(Config{Endpoint: srv.URL}, nil).Get(context.Background(), "Lond")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.DisplayName != "Londrina, Brazil" {
		t.Fatalf("expected first candidate, got %+v", loc)
	}
}

func TestGetMissingCountryAndTimezone(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"results":[{"name":"Atlantis","latitude":1,"longitude":2}]}`, nil)

	loc, err := New(Config{Endpoint: srv.URL}, nil).Get(context.Background(), "Atlantis")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.DisplayName != "Atlantis" {
		t.Fatalf("expected trailing separator trimmed, got %q", loc.DisplayName)
	}
	if loc.Timezone != "UTC" {
		t.Fatalf("expected UTC default timezone, got %q", loc.Timezone)
	}
}

func TestGetNotFound(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"no results key", http.StatusOK, `{"generationtime_ms":0.5}`},
		{"empty results", http.StatusOK, `{"results":[]}`},
		{"server error", http.StatusInternalServerError, `{"error":true}`},
		{"bad json", http.StatusOK, `{"results":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.status, tt.body, nil)

			_, err := New(Config{Endpoint: srv.URL}, nil).Get(context.Background(), "Nowhere")
			if !errors.Is(err, manager.ErrLocationNotFound) {
				t.Fatalf("expected ErrLocationNotFound, got %v", err)
			}
		})
	}
}

func TestGetTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(Config{Endpoint: srv.URL, Timeout: 50 * time.Millisecond}, nil).Get(context.Background(), "Slow")
	if !errors.Is(err, manager.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound on timeout, got %v", err)
	}
}
