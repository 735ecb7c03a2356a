package tui

import (
	"github.com/mmcdole/foyer/internal/config"
	"github.com/mmcdole/foyer/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// SectionLoadedMsg carries a freshly merged section row. Gen is the
// navigation generation the load was issued under; stale generations
// are dropped on receipt.
type SectionLoadedMsg struct {
	Gen     uint64
	Kind    domain.MediaKind
	Entries []domain.MergedEntry
}

// RequestsRefreshedMsg carries fresh request records for the partial
// prefix-replace refresh path.
type RequestsRefreshedMsg struct {
	Gen     uint64
	Records []domain.RequestRecord
}

// SeasonsLoadedMsg signals that a series' seasons have been loaded
type SeasonsLoadedMsg struct {
	Gen      uint64
	SeriesID string
	Seasons  []domain.MediaItem
}

// EpisodesLoadedMsg signals that a season's episodes have been loaded
type EpisodesLoadedMsg struct {
	Gen      uint64
	SeriesID string
	SeasonID string
	Episodes []domain.MediaItem
}

// ChannelsLoadedMsg signals that the Live TV lineup has been loaded
type ChannelsLoadedMsg struct {
	Gen      uint64
	Channels []domain.MediaItem
}

// PlayerStatusMsg carries the result of one player poll. A nil Status
// with a nil Err means the target device is idle.
type PlayerStatusMsg struct {
	Status *domain.PlayerStatus
	Err    error
}

// PlaybackStartedMsg signals that a play command was accepted
type PlaybackStartedMsg struct {
	Title string
}

// SearchResultsMsg carries ranked request candidates
type SearchResultsMsg struct {
	Query   string
	Results []domain.RequestRecord
}

// DiscoverLoadedMsg carries the discovery rows
type DiscoverLoadedMsg struct {
	Rows domain.DiscoveryRows
}

// RequestSubmittedMsg signals the outcome of a request submission
type RequestSubmittedMsg struct {
	Title string
	Err   error
}

// DevicesLoadedMsg carries the result of a device scan
type DevicesLoadedMsg struct {
	Devices []domain.DeviceInfo
	Err     error
}

// DiagnosticsMsg carries connectivity check results for both backends
type DiagnosticsMsg struct {
	CatalogErr      error
	RequestsVersion string
	RequestsErr     error
}

// SettingsSavedMsg carries the saved draft back to the update loop,
// which owns the live config and applies the change there.
type SettingsSavedMsg struct {
	Draft config.Config
	Err   error
}

// RefreshTickMsg fires on the section refresh interval
type RefreshTickMsg struct{}

// PlayerTickMsg fires on the player poll interval
type PlayerTickMsg struct{}

// StatusMsg sets a temporary status bar message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}
