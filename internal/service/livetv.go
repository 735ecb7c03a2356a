package service

import (
	"strings"

	"github.com/mmcdole/foyer/internal/config"
	"github.com/mmcdole/foyer/internal/domain"
)

// ResolveTab returns the channels a Live TV tab shows. Dynamic tabs
// mirror the full lineup; static tabs keep only their pinned channel
// ids, in lineup order. Pinned ids that no longer exist on the server
// drop out silently.
func ResolveTab(tab config.LiveTVTab, channels []domain.MediaItem) []domain.MediaItem {
	if tab.Mode == config.TabModeDynamic {
		return channels
	}

	pinned := make(map[string]struct{}, len(tab.ChannelIDs))
	for _, id := range tab.ChannelIDs {
		pinned[id] = struct{}{}
	}

	out := make([]domain.MediaItem, 0, len(tab.ChannelIDs))
	for _, ch := range channels {
		if _, ok := pinned[ch.ID]; ok {
			out = append(out, ch)
		}
	}
	return out
}

// FilterChannels narrows a channel list by a case-insensitive
// substring match against name and channel number.
func FilterChannels(channels []domain.MediaItem, query string) []domain.MediaItem {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return channels
	}

	out := make([]domain.MediaItem, 0, len(channels))
	for _, ch := range channels {
		if strings.Contains(strings.ToLower(ch.Name), query) ||
			strings.Contains(strings.ToLower(ch.ChannelNumber), query) {
			out = append(out, ch)
		}
	}
	return out
}

// SelectMatching adds every channel in matched to the selection,
// preserving existing order and skipping ids already present.
// Applying it twice with the same arguments changes nothing.
func SelectMatching(selected []string, matched []domain.MediaItem) []string {
	have := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		have[id] = struct{}{}
	}

	out := selected
	for _, ch := range matched {
		if _, ok := have[ch.ID]; ok {
			continue
		}
		have[ch.ID] = struct{}{}
		out = append(out, ch.ID)
	}
	return out
}

// ToggleChannel adds the id to the selection if absent, removes it if
// present.
func ToggleChannel(selected []string, id string) []string {
	for i, s := range selected {
		if s == id {
			return append(selected[:i:i], selected[i+1:]...)
		}
	}
	return append(selected, id)
}
