package service

import (
	"context"
	"log/slog"

	"github.com/mmcdole/foyer/internal/domain"
	"github.com/mmcdole/foyer/internal/store"
)

// LibraryService merges catalog items with pending media requests into
// the section rows the kiosk renders. Requests lead the row; catalog
// items follow in the server's recency order.
type LibraryService struct {
	catalog         domain.CatalogClient
	requests        domain.RequestClient
	cache           *store.SectionStore
	logger          *slog.Logger
	requestsEnabled bool
}

// NewLibraryService creates a new library service
func NewLibraryService(catalog domain.CatalogClient, requests domain.RequestClient, cache *store.SectionStore, requestsEnabled bool, logger *slog.Logger) *LibraryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LibraryService{
		catalog:         catalog,
		requests:        requests,
		cache:           cache,
		logger:          logger,
		requestsEnabled: requestsEnabled,
	}
}

// SetRequestsEnabled toggles the request merge without restarting.
// Called when the feature flag changes in settings.
func (s *LibraryService) SetRequestsEnabled(enabled bool) {
	s.requestsEnabled = enabled
}

// CachedSection returns the last persisted section contents, if any.
// Used to paint a grid before the first network load completes.
func (s *LibraryService) CachedSection(kind domain.MediaKind) []domain.MergedEntry {
	if s.cache == nil {
		return nil
	}
	entries, ok := s.cache.GetSection(kind)
	if !ok {
		return nil
	}
	return entries
}

// LoadSection fetches catalog items and request records for a section
// and merges them. A request fetch failure degrades to a catalog-only
// row; a catalog fetch failure fails the load.
func (s *LibraryService) LoadSection(ctx context.Context, kind domain.MediaKind) ([]domain.MergedEntry, error) {
	items, err := s.catalog.Items(ctx, kind)
	if err != nil {
		s.logger.Error("failed to load section", "kind", kind, "error", err)
		return nil, err
	}

	var reqs []domain.RequestRecord
	if s.requestsEnabled && requestKindFor(kind) != "" {
		reqs, err = s.requests.Requests(ctx)
		if err != nil {
			s.logger.Warn("request fetch failed, rendering catalog only", "kind", kind, "error", err)
			reqs = nil
		}
	}

	merged := MergeSection(kind, reqs, items)

	if s.cache != nil {
		if err := s.cache.SaveSection(kind, merged); err != nil {
			s.logger.Warn("failed to cache section", "kind", kind, "error", err)
		}
	}

	s.logger.Info("loaded section", "kind", kind, "items", len(items), "requests", len(reqs), "merged", len(merged))
	return merged, nil
}

// RefreshRequests fetches only the request records, for the partial
// refresh path that leaves the catalog suffix untouched.
func (s *LibraryService) RefreshRequests(ctx context.Context) ([]domain.RequestRecord, error) {
	if !s.requestsEnabled {
		return nil, nil
	}
	return s.requests.Requests(ctx)
}

// Seasons returns the seasons of a series, newest fetch wins the cache
func (s *LibraryService) Seasons(ctx context.Context, seriesID string) ([]domain.MediaItem, error) {
	seasons, err := s.catalog.Seasons(ctx, seriesID)
	if err != nil {
		if s.cache != nil {
			if cached, ok := s.cache.GetSeasons(seriesID); ok {
				s.logger.Warn("season fetch failed, serving cache", "seriesID", seriesID, "error", err)
				return cached, nil
			}
		}
		return nil, err
	}
	if s.cache != nil {
		s.cache.SaveSeasons(seriesID, seasons)
	}
	return seasons, nil
}

// Episodes returns the episodes of one season of a series
func (s *LibraryService) Episodes(ctx context.Context, seriesID, seasonID string) ([]domain.MediaItem, error) {
	episodes, err := s.catalog.Episodes(ctx, seriesID, seasonID)
	if err != nil {
		if s.cache != nil {
			if cached, ok := s.cache.GetEpisodes(seriesID, seasonID); ok {
				s.logger.Warn("episode fetch failed, serving cache", "seriesID", seriesID, "error", err)
				return cached, nil
			}
		}
		return nil, err
	}
	if s.cache != nil {
		s.cache.SaveEpisodes(seriesID, seasonID, episodes)
	}
	return episodes, nil
}

// Channels returns the live TV channel list
func (s *LibraryService) Channels(ctx context.Context) ([]domain.MediaItem, error) {
	channels, err := s.catalog.Channels(ctx)
	if err != nil {
		if s.cache != nil {
			if cached, ok := s.cache.GetChannels(); ok {
				s.logger.Warn("channel fetch failed, serving cache", "error", err)
				return cached, nil
			}
		}
		return nil, err
	}
	if s.cache != nil {
		s.cache.SaveChannels(channels)
	}
	return channels, nil
}

// ImageURL resolves an item's poster URL via the catalog server
func (s *LibraryService) ImageURL(item domain.MediaItem) string {
	return s.catalog.ImageURL(item.ID, item.ImageTag)
}

// Invalidate wipes the persisted cache. Called after connection
// settings change.
func (s *LibraryService) Invalidate() {
	if s.cache != nil {
		s.cache.InvalidateAll()
	}
}

// InvalidateSeries drops the cached seasons and episodes of one
// series, forcing the next drill-down fetch to go to the server.
func (s *LibraryService) InvalidateSeries(seriesID string) {
	if s.cache != nil {
		s.cache.InvalidateSeries(seriesID)
	}
}

// MergeSection builds a section row: request records first, catalog
// items after. A request is dropped only once its status reports the
// media available; entries stay keyed by their own identities, so a
// catalog remake sharing a title never hides a live request.
func MergeSection(kind domain.MediaKind, reqs []domain.RequestRecord, items []domain.MediaItem) []domain.MergedEntry {
	merged := make([]domain.MergedEntry, 0, len(reqs)+len(items))

	want := requestKindFor(kind)
	for i := range reqs {
		r := &reqs[i]
		if want == "" || r.MediaKind != want {
			continue
		}
		if r.Status == domain.StatusAvailable {
			continue
		}
		merged = append(merged, domain.MergedEntry{Request: r})
	}

	for i := range items {
		merged = append(merged, domain.MergedEntry{Item: &items[i]})
	}

	return merged
}

// ReplaceRequestPrefix swaps the request records at the head of a
// merged row for fresh ones, preserving the catalog suffix exactly.
// Scroll position over catalog items survives a request-only refresh.
func ReplaceRequestPrefix(kind domain.MediaKind, entries []domain.MergedEntry, reqs []domain.RequestRecord) []domain.MergedEntry {
	suffix := entries
	for len(suffix) > 0 && suffix[0].IsRequest() {
		suffix = suffix[1:]
	}

	fresh := MergeSection(kind, reqs, nil)
	return append(fresh, suffix...)
}

// requestKindFor maps a section kind to the request media type that
// belongs in it. Sections without a request counterpart return "".
func requestKindFor(kind domain.MediaKind) string {
	switch kind {
	case domain.KindMovie:
		return "movie"
	case domain.KindSeries:
		return "tv"
	}
	return ""
}
