package service

import (
	"context"
	"testing"

	"github.com/mmcdole/foyer/internal/domain"
)

func TestSearchRanksExactAndPrefixFirst(t *testing.T) {
	requests := &fakeRequests{records: []domain.RequestRecord{
		{ID: 1, Title: "Heat Wave"},
		{ID: 2, Title: "The Heat"},
		{ID: 3, Title: "Heat"},
	}}
	svc := NewSearchService(requests, nil)

	results, err := svc.Search(context.Background(), "heat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Title != "Heat" {
		t.Errorf("exact match should rank first, got %q", results[0].Title)
	}
	if results[1].Title != "Heat Wave" {
		t.Errorf("prefix match should rank second, got %q", results[1].Title)
	}
}

func TestSearchEmptyQueryShortCircuits(t *testing.T) {
	svc := NewSearchService(&fakeRequests{}, nil)

	results, err := svc.Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results != nil {
		t.Fatalf("expected nil results, got %v", results)
	}
}
