package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/foyer/internal/domain"
)

// SearchService queries the request service for media candidates and
// re-ranks the server's results by closeness to the query.
type SearchService struct {
	requests domain.RequestClient
	logger   *slog.Logger
}

// NewSearchService creates a new search service
func NewSearchService(requests domain.RequestClient, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{requests: requests, logger: logger}
}

// Search returns ranked request candidates for a query
func (s *SearchService) Search(ctx context.Context, query string) ([]domain.RequestRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	results, err := s.requests.Search(ctx, query)
	if err != nil {
		s.logger.Error("search failed", "query", query, "error", err)
		return nil, err
	}

	ranked := rankResults(results, query)
	s.logger.Debug("search complete", "query", query, "results", len(ranked))
	return ranked, nil
}

// Discover returns the grouped discovery rows
func (s *SearchService) Discover(ctx context.Context) (domain.DiscoveryRows, error) {
	return s.requests.Discover(ctx)
}

// Submit files a request for a search or discovery candidate
func (s *SearchService) Submit(ctx context.Context, rec domain.RequestRecord) error {
	if err := s.requests.Submit(ctx, rec.MediaID, rec.MediaKind); err != nil {
		s.logger.Error("request submit failed", "mediaID", rec.MediaID, "error", err)
		return err
	}
	s.logger.Info("request submitted", "title", rec.Title, "mediaID", rec.MediaID)
	return nil
}

// rankResults orders server results by closeness to the query
func rankResults(records []domain.RequestRecord, query string) []domain.RequestRecord {
	if len(records) == 0 {
		return records
	}

	query = strings.ToLower(query)

	type ranked struct {
		rec   domain.RequestRecord
		score int
	}

	out := make([]ranked, 0, len(records))
	for _, rec := range records {
		out = append(out, ranked{rec: rec, score: matchScore(strings.ToLower(rec.Title), query)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].score < out[j].score
	})

	results := make([]domain.RequestRecord, len(out))
	for i, r := range out {
		results[i] = r.rec
	}
	return results
}

// matchScore scores a title against a query, lower is better
func matchScore(title, query string) int {
	if title == query {
		return 0
	}
	if strings.HasPrefix(title, query) {
		return 10
	}
	if strings.Contains(title, query) {
		return 50
	}
	return 100 + fuzzy.LevenshteinDistance(query, title)
}
