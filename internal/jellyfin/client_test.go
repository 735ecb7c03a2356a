package jellyfin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/mmcdole/foyer/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const usersPayload = `[{"Id":"u1","Name":"kiosk"}]`

func mustParseQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	q, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("bad query %q: %v", raw, err)
	}
	return q
}

func TestItemsResolvesUserOnceAndSendsToken(t *testing.T) {
	userCalls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Emby-Token") != "secret" {
			t.Errorf("missing auth token on %s", r.URL.Path)
		}
		switch r.URL.Path {
		case "/Users":
			userCalls++
			io.WriteString(w, usersPayload)
		case "/Users/u1/Items":
			q := r.URL.Query()
			if q.Get("IncludeItemTypes") != "Movie" {
				t.Errorf("IncludeItemTypes = %q", q.Get("IncludeItemTypes"))
			}
			if q.Get("SortBy") != "DateCreated" || q.Get("SortOrder") != "Descending" {
				t.Errorf("unexpected sort: %q %q", q.Get("SortBy"), q.Get("SortOrder"))
			}
			if q.Get("Limit") != "100" {
				t.Errorf("Limit = %q", q.Get("Limit"))
			}
			io.WriteString(w, `{"Items":[{"Id":"m1","Name":"Heat","Type":"Movie"}],"TotalRecordCount":1}`)
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", testLogger())

	for i := 0; i < 2; i++ {
		items, err := c.Items(context.Background(), domain.KindMovie)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 1 || items[0].Name != "Heat" {
			t.Fatalf("unexpected items: %+v", items)
		}
	}

	if userCalls != 1 {
		t.Errorf("expected one /Users call, got %d", userCalls)
	}
}

func TestDoGetRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", testLogger())

	if _, err := c.Sessions(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestDoGetAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad", testLogger())

	if _, err := c.Sessions(context.Background()); !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestDoGetHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Sessions(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPlaySendsPlayNow(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", testLogger())

	if err := c.Play(context.Background(), "s1", "item42"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/Sessions/s1/Playing" {
		t.Errorf("path = %q", gotPath)
	}
	q := mustParseQuery(t, gotQuery)
	if q.Get("ItemIds") != "item42" || q.Get("PlayCommand") != "PlayNow" {
		t.Errorf("query = %q", gotQuery)
	}
}

func TestCommandSeekAndVolume(t *testing.T) {
	type call struct {
		path  string
		query string
		body  string
	}
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, call{path: r.URL.Path, query: r.URL.RawQuery, body: string(body)})
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", testLogger())

	if err := c.Command(context.Background(), "s1", domain.CmdSeek, 1234567890); err != nil {
		t.Fatalf("seek: %v", err)
	}
	if err := c.Command(context.Background(), "s1", domain.CmdVolume, 40); err != nil {
		t.Fatalf("volume: %v", err)
	}

	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	if calls[0].path != "/Sessions/s1/Playing/Seek" || calls[0].query != "SeekPositionTicks=1234567890" {
		t.Errorf("seek call: %+v", calls[0])
	}
	if calls[1].path != "/Sessions/s1/Command/SetVolume" {
		t.Errorf("volume path: %q", calls[1].path)
	}
	if calls[1].body != `{"Arguments":{"Volume":40}}` {
		t.Errorf("volume body: %q", calls[1].body)
	}
}

func TestSessionsMapsPlayState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{
			"Id":"s1","DeviceId":"d1","DeviceName":"Living Room TV","Client":"JMP",
			"SupportsRemoteControl":true,
			"NowPlayingItem":{"Id":"ep1","Name":"Pilot","SeriesName":"Severance","ParentIndexNumber":1,"IndexNumber":1,"Width":3840,"RunTimeTicks":600000000},
			"PlayState":{"IsPaused":true,"PositionTicks":300000000}
		}]`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", testLogger())

	sessions, err := c.Sessions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	s := sessions[0]
	if s.NowPlaying == nil || s.NowPlaying.Width != 3840 {
		t.Fatalf("now playing not mapped: %+v", s.NowPlaying)
	}
	if !s.IsPaused || s.PositionTicks != 300000000 {
		t.Errorf("play state not mapped: paused=%v pos=%d", s.IsPaused, s.PositionTicks)
	}
}

func TestImageURL(t *testing.T) {
	c := NewClient("http://server/", "secret", testLogger())

	if got := c.ImageURL("m1", "tag1"); got != "http://server/Items/m1/Images/Primary?tag=tag1" {
		t.Errorf("ImageURL = %q", got)
	}
	if got := c.ImageURL("m1", ""); got != "" {
		t.Errorf("expected empty URL for missing tag, got %q", got)
	}
}
