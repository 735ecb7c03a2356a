package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/foyer/internal/domain"
	"github.com/mmcdole/foyer/internal/service"
)

// Refresh cadence. Sections re-merge on a slow cycle; the player bar
// polls every second so transport feedback feels immediate.
const (
	sectionRefreshInterval = 15 * time.Second
	playerPollInterval     = 1 * time.Second
	statusMessageTTL       = 4 * time.Second

	loadTimeout    = 30 * time.Second
	commandTimeout = 10 * time.Second

	skipBackSeconds  = -10
	skipAheadSeconds = 30
	volumeStep       = 5
)

// Command factories for async operations

// LoadSectionCmd merges a section's requests and catalog items
func LoadSectionCmd(svc *service.LibraryService, kind domain.MediaKind, gen uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		entries, err := svc.LoadSection(ctx, kind)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading library"}
		}
		return SectionLoadedMsg{Gen: gen, Kind: kind, Entries: entries}
	}
}

// RefreshRequestsCmd fetches only the request records for the partial
// prefix-replace path
func RefreshRequestsCmd(svc *service.LibraryService, gen uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		records, err := svc.RefreshRequests(ctx)
		if err != nil {
			// Passive refresh; keep the stale prefix rather than erroring.
			return nil
		}
		return RequestsRefreshedMsg{Gen: gen, Records: records}
	}
}

// LoadSeasonsCmd loads seasons for a series
func LoadSeasonsCmd(svc *service.LibraryService, seriesID string, gen uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		seasons, err := svc.Seasons(ctx, seriesID)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading seasons"}
		}
		return SeasonsLoadedMsg{Gen: gen, SeriesID: seriesID, Seasons: seasons}
	}
}

// LoadEpisodesCmd loads episodes for a season
func LoadEpisodesCmd(svc *service.LibraryService, seriesID, seasonID string, gen uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		episodes, err := svc.Episodes(ctx, seriesID, seasonID)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading episodes"}
		}
		return EpisodesLoadedMsg{Gen: gen, SeriesID: seriesID, SeasonID: seasonID, Episodes: episodes}
	}
}

// LoadChannelsCmd loads the Live TV lineup
func LoadChannelsCmd(svc *service.LibraryService, gen uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		channels, err := svc.Channels(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading channels"}
		}
		return ChannelsLoadedMsg{Gen: gen, Channels: channels}
	}
}

// PlayItemCmd starts playback of an item on the target device
func PlayItemCmd(svc *service.SessionService, itemID, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		if err := svc.Play(ctx, itemID); err != nil {
			return ErrMsg{Err: err, Context: "starting playback"}
		}
		return PlaybackStartedMsg{Title: title}
	}
}

// StopPlaybackCmd halts playback on the target device
func StopPlaybackCmd(svc *service.SessionService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		if err := svc.Stop(ctx); err != nil {
			return ErrMsg{Err: err, Context: "stopping playback"}
		}
		return nil
	}
}

// TransportCmd sends a fire-and-forget transport command
func TransportCmd(svc *service.SessionService, cmd domain.TransportCommand, value int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		svc.Transport(ctx, cmd, value)
		return nil
	}
}

// PollPlayerCmd fetches the target device's playback state
func PollPlayerCmd(svc *service.SessionService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		status, err := svc.Status(ctx)
		return PlayerStatusMsg{Status: status, Err: err}
	}
}

// SearchRequestsCmd queries the request service
func SearchRequestsCmd(svc *service.SearchService, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		results, err := svc.Search(ctx, query)
		if err != nil {
			return ErrMsg{Err: err, Context: "searching"}
		}
		return SearchResultsMsg{Query: query, Results: results}
	}
}

// LoadDiscoverCmd fetches the discovery rows
func LoadDiscoverCmd(svc *service.SearchService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		rows, err := svc.Discover(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading discovery"}
		}
		return DiscoverLoadedMsg{Rows: rows}
	}
}

// SubmitRequestCmd files a media request
func SubmitRequestCmd(svc *service.SearchService, rec domain.RequestRecord) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		err := svc.Submit(ctx, rec)
		return RequestSubmittedMsg{Title: rec.Title, Err: err}
	}
}

// ScanDevicesCmd lists active sessions for the settings device picker
func ScanDevicesCmd(svc *service.SessionService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		devices, err := svc.Devices(ctx)
		return DevicesLoadedMsg{Devices: devices, Err: err}
	}
}

// RunDiagnosticsCmd checks connectivity to both backends
func RunDiagnosticsCmd(catalog domain.CatalogClient, requests domain.RequestClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		var msg DiagnosticsMsg
		_, msg.CatalogErr = catalog.Sessions(ctx)
		msg.RequestsVersion, msg.RequestsErr = requests.Status(ctx)
		return msg
	}
}

// RefreshTickCmd drives the slow section refresh cycle
func RefreshTickCmd() tea.Cmd {
	return tea.Tick(sectionRefreshInterval, func(time.Time) tea.Msg {
		return RefreshTickMsg{}
	})
}

// PlayerTickCmd drives the per-second player poll
func PlayerTickCmd() tea.Cmd {
	return tea.Tick(playerPollInterval, func(time.Time) tea.Msg {
		return PlayerTickMsg{}
	})
}

// ClearStatusCmd clears the status bar after a delay
func ClearStatusCmd() tea.Cmd {
	return tea.Tick(statusMessageTTL, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
