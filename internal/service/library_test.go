package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mmcdole/foyer/internal/domain"
	"github.com/mmcdole/foyer/internal/store"
)

// fakeCatalog implements domain.CatalogClient for tests
type fakeCatalog struct {
	items    []domain.MediaItem
	sessions []domain.RemoteSession
	itemsErr error
	sessErr  error
	playErr  error
	calls    []string
}

func (f *fakeCatalog) Items(ctx context.Context, kind domain.MediaKind) ([]domain.MediaItem, error) {
	f.calls = append(f.calls, "items")
	return f.items, f.itemsErr
}

func (f *fakeCatalog) Seasons(ctx context.Context, seriesID string) ([]domain.MediaItem, error) {
	return f.items, f.itemsErr
}

func (f *fakeCatalog) Episodes(ctx context.Context, seriesID, seasonID string) ([]domain.MediaItem, error) {
	return f.items, f.itemsErr
}

func (f *fakeCatalog) Channels(ctx context.Context) ([]domain.MediaItem, error) {
	return f.items, f.itemsErr
}

func (f *fakeCatalog) Sessions(ctx context.Context) ([]domain.RemoteSession, error) {
	f.calls = append(f.calls, "sessions")
	return f.sessions, f.sessErr
}

func (f *fakeCatalog) Play(ctx context.Context, sessionID, itemID string) error {
	f.calls = append(f.calls, "play:"+itemID)
	return f.playErr
}

func (f *fakeCatalog) Stop(ctx context.Context, sessionID string) error {
	f.calls = append(f.calls, "stop")
	return nil
}

func (f *fakeCatalog) Command(ctx context.Context, sessionID string, cmd domain.TransportCommand, value int64) error {
	f.calls = append(f.calls, "cmd:"+string(cmd))
	return nil
}

func (f *fakeCatalog) ImageURL(itemID, tag string) string {
	if tag == "" {
		return ""
	}
	return "http://server/Items/" + itemID + "/Images/Primary?tag=" + tag
}

// fakeRequests implements domain.RequestClient for tests
type fakeRequests struct {
	records []domain.RequestRecord
	err     error
}

func (f *fakeRequests) Search(ctx context.Context, query string) ([]domain.RequestRecord, error) {
	return f.records, f.err
}

func (f *fakeRequests) Discover(ctx context.Context) (domain.DiscoveryRows, error) {
	return domain.DiscoveryRows{}, f.err
}

func (f *fakeRequests) Requests(ctx context.Context) ([]domain.RequestRecord, error) {
	return f.records, f.err
}

func (f *fakeRequests) Submit(ctx context.Context, mediaID int, mediaKind string) error {
	return f.err
}

func (f *fakeRequests) Status(ctx context.Context) (string, error) {
	return "1.0.0", f.err
}

func movie(id, name string) domain.MediaItem {
	return domain.MediaItem{ID: id, Kind: domain.KindMovie, Name: name}
}

func request(id int, title string, status domain.RequestStatus) domain.RequestRecord {
	return domain.RequestRecord{ID: id, MediaID: id, MediaKind: "movie", Title: title, Status: status}
}

func TestMergeSectionRequestsLeadCatalogFollows(t *testing.T) {
	reqs := []domain.RequestRecord{
		request(1, "Dune Part Three", domain.StatusPending),
		request(2, "Blade Runner 2099", domain.StatusDownloading),
	}
	items := []domain.MediaItem{movie("a", "Heat"), movie("b", "Ronin")}

	merged := MergeSection(domain.KindMovie, reqs, items)

	if len(merged) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(merged))
	}
	for i := 0; i < 2; i++ {
		if !merged[i].IsRequest() {
			t.Errorf("entry %d: expected request, got item %q", i, merged[i].Title())
		}
	}
	for i := 2; i < 4; i++ {
		if merged[i].IsRequest() {
			t.Errorf("entry %d: expected catalog item, got request %q", i, merged[i].Title())
		}
	}
	if merged[2].Title() != "Heat" || merged[3].Title() != "Ronin" {
		t.Errorf("catalog order not preserved: %q, %q", merged[2].Title(), merged[3].Title())
	}
}

func TestMergeSectionDropsAvailableRequests(t *testing.T) {
	reqs := []domain.RequestRecord{
		request(1, "Heat", domain.StatusAvailable),
		request(2, "Dune Part Three", domain.StatusPending),
	}

	merged := MergeSection(domain.KindMovie, reqs, []domain.MediaItem{movie("a", "Heat")})

	if len(merged) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(merged))
	}
	if merged[0].Title() != "Dune Part Three" {
		t.Errorf("expected pending request first, got %q", merged[0].Title())
	}
}

func TestMergeSectionKeepsRequestsSharingACatalogTitle(t *testing.T) {
	// A remake in the library shares a title with a live request.
	// Entries are keyed by identity, so the request stays visible
	// until its own status reports available.
	reqs := []domain.RequestRecord{request(1, "heat", domain.StatusDownloading)}

	merged := MergeSection(domain.KindMovie, reqs, []domain.MediaItem{movie("a", "Heat")})

	if len(merged) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(merged))
	}
	if !merged[0].IsRequest() {
		t.Error("downloading request should lead the row")
	}
	if merged[1].IsRequest() || merged[1].Title() != "Heat" {
		t.Errorf("catalog item should follow, got %q", merged[1].Title())
	}
}

func TestMergeSectionFiltersRequestsByKind(t *testing.T) {
	reqs := []domain.RequestRecord{
		request(1, "Dune Part Three", domain.StatusPending),
		{ID: 2, MediaID: 2, MediaKind: "tv", Title: "Severance", Status: domain.StatusPending},
	}

	merged := MergeSection(domain.KindMovie, reqs, nil)

	if len(merged) != 1 || merged[0].Title() != "Dune Part Three" {
		t.Fatalf("expected only the movie request, got %d entries", len(merged))
	}
}

func TestMergeSectionNoDuplicateIDs(t *testing.T) {
	reqs := []domain.RequestRecord{
		request(1, "Dune Part Three", domain.StatusPending),
		request(2, "Blade Runner 2099", domain.StatusQueued),
	}
	items := []domain.MediaItem{movie("a", "Heat"), movie("b", "Ronin")}

	merged := MergeSection(domain.KindMovie, reqs, items)

	seen := make(map[string]bool)
	for _, e := range merged {
		id := e.ID()
		if seen[id] {
			t.Errorf("duplicate id %q in merged list", id)
		}
		seen[id] = true
	}
}

func TestReplaceRequestPrefixPreservesCatalogSuffix(t *testing.T) {
	initial := MergeSection(domain.KindMovie,
		[]domain.RequestRecord{request(1, "Dune Part Three", domain.StatusPending)},
		[]domain.MediaItem{movie("a", "Heat"), movie("b", "Ronin")},
	)

	fresh := []domain.RequestRecord{
		request(1, "Dune Part Three", domain.StatusDownloading),
		request(2, "Blade Runner 2099", domain.StatusPending),
	}

	updated := ReplaceRequestPrefix(domain.KindMovie, initial, fresh)

	if len(updated) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(updated))
	}
	if updated[0].Request.Status != domain.StatusDownloading {
		t.Errorf("expected refreshed status, got %q", updated[0].Request.Status)
	}
	if updated[2].Title() != "Heat" || updated[3].Title() != "Ronin" {
		t.Errorf("catalog suffix changed: %q, %q", updated[2].Title(), updated[3].Title())
	}
}

func TestReplaceRequestPrefixEmptiesFulfilledRequests(t *testing.T) {
	initial := MergeSection(domain.KindMovie,
		[]domain.RequestRecord{request(1, "Dune Part Three", domain.StatusPending)},
		[]domain.MediaItem{movie("a", "Heat")},
	)

	updated := ReplaceRequestPrefix(domain.KindMovie, initial, nil)

	if len(updated) != 1 {
		t.Fatalf("expected catalog suffix only, got %d entries", len(updated))
	}
	if updated[0].IsRequest() {
		t.Error("stale request prefix survived")
	}
}

func TestLoadSectionDegradesToCatalogOnRequestFailure(t *testing.T) {
	catalog := &fakeCatalog{items: []domain.MediaItem{movie("a", "Heat")}}
	requests := &fakeRequests{err: errors.New("boom")}
	svc := NewLibraryService(catalog, requests, nil, true, nil)

	merged, err := svc.LoadSection(context.Background(), domain.KindMovie)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(merged) != 1 || merged[0].IsRequest() {
		t.Fatalf("expected catalog-only row, got %d entries", len(merged))
	}
}

func TestLoadSectionFailsOnCatalogError(t *testing.T) {
	catalog := &fakeCatalog{itemsErr: domain.ErrServerOffline}
	svc := NewLibraryService(catalog, &fakeRequests{}, nil, true, nil)

	if _, err := svc.LoadSection(context.Background(), domain.KindMovie); !errors.Is(err, domain.ErrServerOffline) {
		t.Fatalf("expected ErrServerOffline, got %v", err)
	}
}

func TestInvalidateSeriesForcesNextSeasonsFetch(t *testing.T) {
	cache, err := store.NewSectionStore("", "")
	if err != nil {
		t.Fatalf("NewSectionStore: %v", err)
	}
	catalog := &fakeCatalog{items: []domain.MediaItem{{ID: "s1", Kind: domain.KindSeason, Name: "Season 1"}}}
	svc := NewLibraryService(catalog, &fakeRequests{}, cache, true, nil)

	if _, err := svc.Seasons(context.Background(), "series-1"); err != nil {
		t.Fatalf("seed fetch: %v", err)
	}

	catalog.itemsErr = domain.ErrServerOffline
	if seasons, err := svc.Seasons(context.Background(), "series-1"); err != nil || len(seasons) != 1 {
		t.Fatalf("expected cached seasons while offline, got %d entries, err %v", len(seasons), err)
	}

	svc.InvalidateSeries("series-1")
	if _, err := svc.Seasons(context.Background(), "series-1"); !errors.Is(err, domain.ErrServerOffline) {
		t.Fatalf("expected fetch error after invalidation, got %v", err)
	}
}

func TestLoadSectionSkipsRequestsWhenDisabled(t *testing.T) {
	catalog := &fakeCatalog{items: []domain.MediaItem{movie("a", "Heat")}}
	requests := &fakeRequests{records: []domain.RequestRecord{request(1, "Dune Part Three", domain.StatusPending)}}
	svc := NewLibraryService(catalog, requests, nil, false, nil)

	merged, err := svc.LoadSection(context.Background(), domain.KindMovie)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(merged) != 1 || merged[0].IsRequest() {
		t.Fatal("requests merged despite being disabled")
	}
}
