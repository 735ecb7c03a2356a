package tui

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/foyer/internal/domain"
)

// visibleEntries returns the grid entries filtered by the in-grid
// fuzzy filter. An empty query passes everything through.
func (m *Model) visibleEntries() []domain.MergedEntry {
	if !m.filterActive {
		return m.entries
	}
	query := strings.ToLower(m.filterInput.Value())
	if query == "" {
		return m.entries
	}

	lowerTitles := make([]string, len(m.entries))
	for i, e := range m.entries {
		lowerTitles[i] = strings.ToLower(e.Title())
	}

	matches := fuzzy.Find(query, lowerTitles)
	out := make([]domain.MergedEntry, len(matches))
	for i, match := range matches {
		out[i] = m.entries[match.Index]
	}
	return out
}

func (m *Model) clearFilter() {
	m.filterActive = false
	m.filterInput.SetValue("")
	m.filterInput.Blur()
}
