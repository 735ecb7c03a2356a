package jellyseerr

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmcdole/foyer/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequestsMapsLifecycleStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "key" {
			t.Errorf("missing api key")
		}
		if r.URL.Path != "/api/v1/request" {
			t.Errorf("path = %q", r.URL.Path)
		}
		io.WriteString(w, `{"results":[
			{"id":1,"status":1,"type":"movie","media":{"tmdbId":100,"status":5,"title":"Done"}},
			{"id":2,"status":2,"type":"movie","media":{"tmdbId":101,"status":4,"title":"Grabbing"}},
			{"id":3,"status":2,"type":"tv","media":{"tmdbId":102,"status":3,"name":"Sent"}},
			{"id":4,"status":2,"type":"movie","media":{"tmdbId":103,"status":1,"title":"Okayed"}},
			{"id":5,"status":1,"type":"movie","media":{"tmdbId":104,"status":1,"title":"Waiting","posterPath":"/p.jpg"}}
		]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", testLogger())

	records, err := c.Requests(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}

	want := []domain.RequestStatus{
		domain.StatusAvailable,
		domain.StatusDownloading,
		domain.StatusQueued,
		domain.StatusApproved,
		domain.StatusPending,
	}
	for i, w := range want {
		if records[i].Status != w {
			t.Errorf("record %d: status = %q, want %q", i, records[i].Status, w)
		}
	}

	if records[2].Title != "Sent" {
		t.Errorf("tv title fallback: got %q", records[2].Title)
	}
	if records[4].PosterURL != "https://image.tmdb.org/t/p/w500/p.jpg" {
		t.Errorf("poster url: got %q", records[4].PosterURL)
	}
}

func TestSearchTitleFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("query") != "severance" {
			t.Errorf("query = %q", r.URL.Query().Get("query"))
		}
		io.WriteString(w, `{"results":[
			{"id":10,"mediaType":"tv","name":"Severance"},
			{"id":11,"mediaType":"movie","title":"Severance Pay","mediaInfo":{"status":5}}
		]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", testLogger())

	records, err := c.Search(context.Background(), "severance")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Title != "Severance" || records[0].MediaKind != "tv" {
		t.Errorf("tv result: %+v", records[0])
	}
	if records[1].Status != domain.StatusAvailable {
		t.Errorf("mediaInfo status not mapped: %q", records[1].Status)
	}
}

func TestDiscoverInterleavesPopularRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/discover/movies":
			io.WriteString(w, `{"results":[{"id":1,"title":"M1"},{"id":2,"title":"M2"},{"id":3,"title":"M3"}]}`)
		case "/api/v1/discover/tv":
			io.WriteString(w, `{"results":[{"id":4,"name":"T1"}]}`)
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", testLogger())

	rows, err := c.Discover(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var titles []string
	for _, rec := range rows.PopularMixed {
		titles = append(titles, rec.Title)
	}
	want := []string{"M1", "T1", "M2", "M3"}
	if len(titles) != len(want) {
		t.Fatalf("popular row: got %v, want %v", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("popular row: got %v, want %v", titles, want)
		}
	}

	if rows.TrendingMovies[0].MediaKind != "movie" || rows.TrendingSeries[0].MediaKind != "tv" {
		t.Errorf("kind override not applied to discovery rows")
	}
}

func TestSubmitSendsRequestPayload(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/request" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", testLogger())

	if err := c.Submit(context.Background(), 603, "movie"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody != `{"mediaId":603,"mediaType":"movie","is4k":false}` {
		t.Errorf("body = %q", gotBody)
	}
}

func TestUnconfiguredClient(t *testing.T) {
	c := NewClient("", "", testLogger())

	if _, err := c.Requests(context.Background()); !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
