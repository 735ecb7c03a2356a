package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/foyer/internal/domain"
	"github.com/mmcdole/foyer/internal/service"
)

const scrubStepPct = 2.0

// handleKey routes key presses by application state
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.State {
	case StateHelp:
		m.State = StateBrowsing
		return m, nil
	case StateSearching:
		return m.handleSearchKey(msg)
	case StateConfirmRequest:
		return m.handleConfirmKey(msg)
	case StateSettings:
		return m.handleSettingsKey(msg)
	default:
		return m.handleBrowseKey(msg)
	}
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The grid filter captures everything except its own exit keys.
	if m.filterActive && m.filterInput.Focused() {
		switch {
		case key.Matches(msg, Keys.Escape):
			m.clearFilter()
			return m, nil
		case key.Matches(msg, Keys.Enter):
			m.filterInput.Blur()
			return m, nil
		case msg.Type == tea.KeyUp, msg.Type == tea.KeyDown:
			// fall through to cursor movement below
		default:
			var cmd tea.Cmd
			m.filterInput, cmd = m.filterInput.Update(msg)
			m.clampCursor(m.currentListLen())
			return m, cmd
		}
	}

	// Scrub mode owns the horizontal keys until committed.
	if m.scrubbing {
		switch {
		case key.Matches(msg, Keys.Left):
			m.scrubPct -= scrubStepPct
			if m.scrubPct < 0 {
				m.scrubPct = 0
			}
			return m, nil
		case key.Matches(msg, Keys.Right):
			m.scrubPct += scrubStepPct
			if m.scrubPct > 100 {
				m.scrubPct = 100
			}
			return m, nil
		case key.Matches(msg, Keys.Enter):
			m.scrubbing = false
			if m.player == nil {
				return m, nil
			}
			ticks := service.PercentToTicks(m.scrubPct, m.player.DurationTicks)
			return m, TransportCmd(m.SessionSvc, domain.CmdSeek, ticks)
		case key.Matches(msg, Keys.Escape):
			m.scrubbing = false
			if m.player != nil {
				m.scrubPct = m.player.Progress()
			}
			return m, nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.NextSection):
		return m, m.resetToSection(m.sectionIdx + 1)

	case key.Matches(msg, Keys.PrevSection):
		return m, m.resetToSection(m.sectionIdx - 1)

	case key.Matches(msg, Keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, Keys.Down):
		if m.cursor < m.currentListLen()-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, Keys.Home):
		m.cursor = 0
		return m, nil

	case key.Matches(msg, Keys.End):
		if n := m.currentListLen(); n > 0 {
			m.cursor = n - 1
		}
		return m, nil

	case key.Matches(msg, Keys.Enter):
		return m, m.activateSelected()

	case key.Matches(msg, Keys.Back):
		return m, m.goBack()

	case key.Matches(msg, Keys.Filter):
		m.filterActive = true
		m.filterInput.SetValue("")
		m.filterInput.Focus()
		return m, nil

	case key.Matches(msg, Keys.Search):
		if !m.Cfg.Features.RequestsEnabled {
			return m, nil
		}
		m.State = StateSearching
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		m.searchResults = nil
		m.searchCursor = 0
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		// Manual refresh inside a drill-down must not be answered
		// from the season cache.
		if m.view.Parent != nil && m.view.Parent.SeriesID != "" {
			m.LibrarySvc.InvalidateSeries(m.view.Parent.SeriesID)
		}
		m.Loading = true
		return m, m.loadCurrentView()

	case key.Matches(msg, Keys.Settings):
		m.State = StateSettings
		m.settings = NewSettingsModel(m.Cfg)
		return m, tea.Batch(
			ScanDevicesCmd(m.SessionSvc),
			RunDiagnosticsCmd(m.Catalog, m.Requests),
			LoadChannelsCmd(m.LibrarySvc, m.gen),
		)

	// Playback transport. All of these are fire-and-forget; the
	// per-second poll reconciles the bar.
	case key.Matches(msg, Keys.PlayPause):
		if m.player == nil {
			return m, nil
		}
		return m, TransportCmd(m.SessionSvc, domain.CmdPlayPause, 0)

	case key.Matches(msg, Keys.StopPlay):
		if m.player == nil {
			return m, nil
		}
		return m, StopPlaybackCmd(m.SessionSvc)

	case key.Matches(msg, Keys.NextTrack):
		if m.player == nil {
			return m, nil
		}
		return m, TransportCmd(m.SessionSvc, domain.CmdNext, 0)

	case key.Matches(msg, Keys.PrevTrack):
		if m.player == nil {
			return m, nil
		}
		return m, TransportCmd(m.SessionSvc, domain.CmdPrev, 0)

	case key.Matches(msg, Keys.Scrub):
		if m.player == nil {
			return m, nil
		}
		m.scrubbing = true
		m.scrubPct = m.player.Progress()
		return m, nil

	case key.Matches(msg, Keys.SkipBack):
		return m, m.skip(skipBackSeconds)

	case key.Matches(msg, Keys.SkipAhead):
		return m, m.skip(skipAheadSeconds)

	case key.Matches(msg, Keys.VolumeUp):
		return m, m.adjustVolume(volumeStep)

	case key.Matches(msg, Keys.VolumeDown):
		return m, m.adjustVolume(-volumeStep)
	}

	return m, nil
}

// skip converts a relative skip into an absolute seek
func (m *Model) skip(seconds int64) tea.Cmd {
	if m.player == nil {
		return nil
	}
	target := service.SkipTarget(m.player.PositionTicks, m.player.DurationTicks, seconds)
	return TransportCmd(m.SessionSvc, domain.CmdSeek, target)
}

// adjustVolume tracks the level locally and sends the absolute value
func (m *Model) adjustVolume(delta int) tea.Cmd {
	if m.player == nil {
		return nil
	}
	m.volume += delta
	if m.volume < 0 {
		m.volume = 0
	}
	if m.volume > 100 {
		m.volume = 100
	}
	return TransportCmd(m.SessionSvc, domain.CmdVolume, int64(m.volume))
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Escape):
		m.State = StateBrowsing
		m.searchInput.Blur()
		return m, nil

	// Arrow keys only: j/k are literal input while the box is live.
	case msg.Type == tea.KeyUp:
		if m.searchCursor > 0 {
			m.searchCursor--
		}
		return m, nil

	case msg.Type == tea.KeyDown:
		if m.searchCursor < len(m.searchResults)-1 {
			m.searchCursor++
		}
		return m, nil

	case key.Matches(msg, Keys.Enter):
		if len(m.searchResults) > 0 && m.searchCursor < len(m.searchResults) {
			rec := m.searchResults[m.searchCursor]
			if rec.Status == domain.StatusAvailable {
				return m.setStatus(rec.Title+" is already in the library", false)
			}
			m.pendingRequest = &rec
			m.confirmReturn = StateSearching
			m.State = StateConfirmRequest
			return m, nil
		}
		if q := m.searchInput.Value(); q != "" {
			m.Loading = true
			return m, SearchRequestsCmd(m.SearchSvc, q)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Confirm):
		rec := m.pendingRequest
		m.pendingRequest = nil
		m.State = StateBrowsing
		m.searchInput.Blur()
		if rec == nil {
			return m, nil
		}
		return m, SubmitRequestCmd(m.SearchSvc, *rec)

	case key.Matches(msg, Keys.Deny):
		m.pendingRequest = nil
		m.State = m.confirmReturn
		return m, nil
	}
	return m, nil
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.settings == nil {
		m.State = StateBrowsing
		return m, nil
	}

	action, cmd := m.settings.HandleKey(msg)
	switch action {
	case settingsCancel:
		m.State = StateBrowsing
		m.settings = nil
		return m, nil
	case settingsSave:
		return m, SaveSettingsCmd(m.settings)
	}
	return m, cmd
}
