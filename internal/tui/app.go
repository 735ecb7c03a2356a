package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/foyer/internal/config"
	"github.com/mmcdole/foyer/internal/domain"
	"github.com/mmcdole/foyer/internal/service"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateSearching
	StateConfirmRequest
	StateSettings
	StateHelp
)

// Section is one entry in the top section bar
type Section struct {
	ID       string
	Name     string
	Kind     domain.MediaKind // library sections only
	TabID    string           // Live TV sections only
	Discover bool
}

// endpointSetter is implemented by clients that can rebind to a new
// server without a restart.
type endpointSetter interface {
	SetEndpoint(baseURL, credential string)
}

// navFrame is one saved navigation level for back traversal
type navFrame struct {
	view   domain.ViewState
	cursor int
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Config and services
	Cfg        *config.Config
	LibrarySvc *service.LibraryService
	SessionSvc *service.SessionService
	SearchSvc  *service.SearchService
	Catalog    domain.CatalogClient
	Requests   domain.RequestClient

	// Section bar
	Sections   []Section
	sectionIdx int

	// Navigation state machine
	view     domain.ViewState
	navStack []navFrame
	cursor   int

	// Generation counter: bumped on every navigation change so that
	// responses from abandoned views are dropped on arrival.
	gen uint64

	// View data
	entries        []domain.MergedEntry
	seasons        []domain.MediaItem
	episodes       []domain.MediaItem
	channels       []domain.MediaItem
	discover       domain.DiscoveryRows
	activeRequests []domain.RequestRecord

	// Grid filter
	filterActive bool
	filterInput  textinput.Model

	// Player bar
	player    *domain.PlayerStatus
	scrubbing bool
	scrubPct  float64
	volume    int

	// Request search modal
	searchInput    textinput.Model
	searchResults  []domain.RequestRecord
	searchCursor   int
	pendingRequest *domain.RequestRecord
	confirmReturn  ApplicationState // state to restore when a confirm is denied

	// Settings overlay
	settings *SettingsModel

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusText  string
	StatusIsErr bool
	Loading     bool
}

// NewModel creates the application model. The section bar reflects
// the feature toggles: disabled features get no section at all.
func NewModel(
	cfg *config.Config,
	librarySvc *service.LibraryService,
	sessionSvc *service.SessionService,
	searchSvc *service.SearchService,
	catalog domain.CatalogClient,
	requests domain.RequestClient,
) Model {
	filterInput := textinput.New()
	filterInput.Prompt = "/"
	filterInput.CharLimit = 64

	searchInput := textinput.New()
	searchInput.Prompt = "> "
	searchInput.Placeholder = "Search movies and series..."
	searchInput.CharLimit = 128

	m := Model{
		State:       StateBrowsing,
		Cfg:         cfg,
		LibrarySvc:  librarySvc,
		SessionSvc:  sessionSvc,
		SearchSvc:   searchSvc,
		Catalog:     catalog,
		Requests:    requests,
		Sections:    buildSections(cfg),
		view:        domain.GridView(),
		filterInput: filterInput,
		searchInput: searchInput,
		volume:      50,
	}

	// Paint the cached section immediately; the network merge
	// replaces it when it lands.
	if sec := m.CurrentSection(); sec.Kind != "" {
		m.entries = librarySvc.CachedSection(sec.Kind)
	}
	return m
}

// buildSections derives the section bar from the configuration
func buildSections(cfg *config.Config) []Section {
	sections := []Section{
		{ID: "movies", Name: "Movies", Kind: domain.KindMovie},
		{ID: "series", Name: "Series", Kind: domain.KindSeries},
	}
	if cfg.Features.LiveTVEnabled {
		for _, tab := range cfg.LiveTV {
			sections = append(sections, Section{ID: tab.ID, Name: tab.Name, TabID: tab.ID})
		}
	}
	if cfg.Features.RequestsEnabled {
		sections = append(sections, Section{ID: "discover", Name: "Discover", Discover: true})
	}
	return sections
}

// CurrentSection returns the active section bar entry
func (m *Model) CurrentSection() Section {
	if len(m.Sections) == 0 {
		return Section{}
	}
	return m.Sections[m.sectionIdx]
}

// View state accessors used by rendering and tests

func (m *Model) ViewState() domain.ViewState { return m.view }
func (m *Model) Generation() uint64          { return m.gen }
func (m *Model) Cursor() int                 { return m.cursor }
func (m *Model) Entries() []domain.MergedEntry {
	return m.entries
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadCurrentView(),
		RefreshTickCmd(),
		PlayerTickCmd(),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SectionLoadedMsg:
		if msg.Gen != m.gen || msg.Kind != m.CurrentSection().Kind {
			return m, nil
		}
		m.Loading = false
		prevID := m.selectedEntryID()
		m.entries = msg.Entries
		m.restoreEntryCursor(prevID)
		return m, nil

	case RequestsRefreshedMsg:
		if msg.Gen != m.gen || m.view.Kind != domain.ViewGrid {
			return m, nil
		}
		if m.CurrentSection().Discover {
			// The discover view shows in-flight requests as a
			// display-only row instead of merging them.
			m.activeRequests = inFlightRequests(msg.Records)
			return m, nil
		}
		prevID := m.selectedEntryID()
		m.entries = service.ReplaceRequestPrefix(m.CurrentSection().Kind, m.entries, msg.Records)
		m.restoreEntryCursor(prevID)
		return m, nil

	case SeasonsLoadedMsg:
		if msg.Gen != m.gen || m.view.Kind != domain.ViewSeasons {
			return m, nil
		}
		m.Loading = false
		m.seasons = msg.Seasons
		m.clampCursor(len(m.seasons))
		return m, nil

	case EpisodesLoadedMsg:
		if msg.Gen != m.gen || m.view.Kind != domain.ViewEpisodes {
			return m, nil
		}
		m.Loading = false
		m.episodes = msg.Episodes
		m.clampCursor(len(m.episodes))
		return m, nil

	case ChannelsLoadedMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		m.Loading = false
		m.channels = msg.Channels
		m.clampCursor(len(m.visibleChannels()))
		if m.settings != nil {
			m.settings.SetChannels(msg.Channels)
		}
		return m, nil

	case DiscoverLoadedMsg:
		m.Loading = false
		m.discover = msg.Rows
		return m, nil

	case PlayerStatusMsg:
		// A failed poll means no controllable session; the bar hides.
		if msg.Err != nil || msg.Status == nil {
			m.player = nil
			m.scrubbing = false
			return m, nil
		}
		m.player = msg.Status
		// Scrub position is frozen while the user is adjusting it;
		// only the rest of the bar follows the poll.
		if !m.scrubbing {
			m.scrubPct = msg.Status.Progress()
		}
		return m, nil

	case PlaybackStartedMsg:
		return m.setStatus("Playing "+msg.Title, false)

	case SearchResultsMsg:
		if m.State != StateSearching || msg.Query != m.searchInput.Value() {
			return m, nil
		}
		m.Loading = false
		m.searchResults = msg.Results
		m.searchCursor = 0
		return m, nil

	case RequestSubmittedMsg:
		if msg.Err != nil {
			return m.setStatus("Request failed: "+msg.Err.Error(), true)
		}
		model, cmd := m.setStatus("Requested "+msg.Title, false)
		// Pull the fresh request prefix so the placeholder appears
		// without waiting for the next full refresh.
		return model, tea.Batch(cmd, RefreshRequestsCmd(m.LibrarySvc, m.gen))

	case DevicesLoadedMsg:
		if m.settings != nil {
			m.settings.SetDevices(msg.Devices, msg.Err)
		}
		return m, nil

	case DiagnosticsMsg:
		if m.settings != nil {
			m.settings.SetDiagnostics(msg)
		}
		return m, nil

	case SettingsSavedMsg:
		if msg.Err != nil {
			return m.setStatus("Save failed: "+msg.Err.Error(), true)
		}
		*m.Cfg = msg.Draft
		// Connection settings changed: drop every cached section and
		// rebuild the bar in case toggles or tabs moved.
		m.LibrarySvc.Invalidate()
		m.LibrarySvc.SetRequestsEnabled(m.Cfg.Features.RequestsEnabled)
		m.SessionSvc.SetTarget(m.Cfg.Device.Target)
		if c, ok := m.Catalog.(endpointSetter); ok {
			c.SetEndpoint(m.Cfg.Catalog.URL, m.Cfg.Catalog.APIKey)
		}
		if c, ok := m.Requests.(endpointSetter); ok {
			c.SetEndpoint(m.Cfg.Requests.URL, m.Cfg.Requests.APIKey)
		}
		m.Sections = buildSections(m.Cfg)
		if m.sectionIdx >= len(m.Sections) {
			m.sectionIdx = 0
		}
		m.State = StateBrowsing
		m.settings = nil
		model, cmd := m.setStatus("Settings saved", false)
		return model, tea.Batch(cmd, model.resetToSection(model.sectionIdx))

	case RefreshTickMsg:
		cmds := []tea.Cmd{RefreshTickCmd()}
		if m.State == StateBrowsing {
			if cmd := m.refreshCurrentView(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)

	case PlayerTickMsg:
		return m, tea.Batch(PlayerTickCmd(), PollPlayerCmd(m.SessionSvc))

	case StatusMsg:
		return m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusText = ""
		m.StatusIsErr = false
		return m, nil

	case ErrMsg:
		m.Loading = false
		return m.setStatus(friendlyError(msg), true)
	}

	return m, nil
}

// friendlyError maps domain errors to kiosk-appropriate wording
func friendlyError(msg ErrMsg) string {
	switch {
	case errors.Is(msg.Err, domain.ErrServerOffline):
		return "Server unreachable"
	case errors.Is(msg.Err, domain.ErrAuthFailed):
		return "Authentication failed, check the API key"
	case errors.Is(msg.Err, domain.ErrDeviceNotFound):
		return "Playback device not found"
	case errors.Is(msg.Err, domain.ErrNotConfigured):
		return "Not configured, open settings"
	default:
		return msg.Error()
	}
}

func (m Model) setStatus(text string, isErr bool) (Model, tea.Cmd) {
	m.StatusText = text
	m.StatusIsErr = isErr
	return m, ClearStatusCmd()
}

// === Navigation ===

// resetToSection switches to a section bar entry, clearing the
// navigation stack and issuing the loads for the section's root view.
func (m *Model) resetToSection(idx int) tea.Cmd {
	if len(m.Sections) == 0 {
		return nil
	}
	if idx < 0 {
		idx = len(m.Sections) - 1
	}
	if idx >= len(m.Sections) {
		idx = 0
	}

	m.sectionIdx = idx
	m.navStack = nil
	m.cursor = 0
	m.gen++
	m.clearFilter()

	sec := m.Sections[idx]
	switch {
	case sec.TabID != "":
		m.view = domain.LiveTVView(sec.TabID)
	default:
		m.view = domain.GridView()
	}

	if sec.Kind != "" {
		m.entries = m.LibrarySvc.CachedSection(sec.Kind)
	} else {
		m.entries = nil
	}
	m.activeRequests = nil

	return m.loadCurrentView()
}

// loadCurrentView issues the async load for the active view
func (m *Model) loadCurrentView() tea.Cmd {
	sec := m.CurrentSection()
	m.Loading = true

	switch {
	case sec.Discover:
		return tea.Batch(LoadDiscoverCmd(m.SearchSvc), RefreshRequestsCmd(m.LibrarySvc, m.gen))
	case sec.TabID != "":
		return LoadChannelsCmd(m.LibrarySvc, m.gen)
	default:
		switch m.view.Kind {
		case domain.ViewGrid:
			return LoadSectionCmd(m.LibrarySvc, sec.Kind, m.gen)
		case domain.ViewSeasons:
			return LoadSeasonsCmd(m.LibrarySvc, m.view.Parent.SeriesID, m.gen)
		case domain.ViewEpisodes:
			return LoadEpisodesCmd(m.LibrarySvc, m.view.Parent.SeriesID, m.view.Parent.SeasonID, m.gen)
		}
	}
	return nil
}

// refreshCurrentView re-issues loads on the slow refresh cycle.
// Drill-down views refresh on entry, not on the timer.
func (m *Model) refreshCurrentView() tea.Cmd {
	sec := m.CurrentSection()
	switch {
	case sec.Discover:
		// Discovery rows are stable; only the in-flight requests
		// row follows the refresh cycle.
		return RefreshRequestsCmd(m.LibrarySvc, m.gen)
	case sec.TabID != "":
		return LoadChannelsCmd(m.LibrarySvc, m.gen)
	default:
		// Library grids re-fetch only the request records on the
		// timer; the catalog suffix stays as loaded. A full reload
		// happens on section entry and after a settings save.
		if m.view.Kind == domain.ViewGrid {
			return RefreshRequestsCmd(m.LibrarySvc, m.gen)
		}
	}
	return nil
}

// activateSelected acts on the highlighted row: playable items start
// playback, series and seasons drill down, request placeholders and
// inert containers do nothing.
func (m *Model) activateSelected() tea.Cmd {
	switch m.view.Kind {
	case domain.ViewLiveTV:
		channels := m.visibleChannels()
		if m.cursor >= len(channels) {
			return nil
		}
		ch := channels[m.cursor]
		return PlayItemCmd(m.SessionSvc, ch.ID, ch.Name)

	case domain.ViewSeasons:
		if m.cursor >= len(m.seasons) {
			return nil
		}
		season := m.seasons[m.cursor]
		m.pushView(domain.EpisodesView(m.view.Parent.SeriesID, m.view.Parent.SeriesName, season.ID, season.SeasonNum))
		return m.loadCurrentView()

	case domain.ViewEpisodes:
		if m.cursor >= len(m.episodes) {
			return nil
		}
		ep := m.episodes[m.cursor]
		return PlayItemCmd(m.SessionSvc, ep.ID, ep.Name)

	case domain.ViewGrid:
		if m.CurrentSection().Discover {
			records := m.discoverList()
			if m.cursor >= len(records) {
				return nil
			}
			rec := records[m.cursor]
			if rec.Status == domain.StatusAvailable {
				model, _ := m.setStatus(rec.Title+" is already in your library", false)
				*m = model
				return ClearStatusCmd()
			}
			m.pendingRequest = &rec
			m.confirmReturn = StateBrowsing
			m.State = StateConfirmRequest
			return nil
		}
		entries := m.visibleEntries()
		if m.cursor >= len(entries) {
			return nil
		}
		entry := entries[m.cursor]
		if entry.IsRequest() {
			model, _ := m.setStatus(entry.Title()+" is not available yet", false)
			*m = model
			return ClearStatusCmd()
		}
		item := entry.Item
		switch item.Kind {
		case domain.KindSeries:
			m.pushView(domain.SeasonsView(item.ID, item.Name))
			return m.loadCurrentView()
		case domain.KindBoxSet, domain.KindFolder, domain.KindCollection:
			// Containers without a drill path stay put.
			return nil
		default:
			return PlayItemCmd(m.SessionSvc, item.ID, item.Name)
		}
	}
	return nil
}

// pushView descends one navigation level
func (m *Model) pushView(next domain.ViewState) {
	m.navStack = append(m.navStack, navFrame{view: m.view, cursor: m.cursor})
	m.view = next
	m.cursor = 0
	m.gen++
	m.clearFilter()
	m.Loading = true
}

// goBack pops one navigation level. Every back transition re-fetches
// so progress badges stay current; at a section root it reloads the
// section in place.
func (m *Model) goBack() tea.Cmd {
	if len(m.navStack) == 0 {
		m.gen++
		m.clearFilter()
		m.Loading = true
		return m.loadCurrentView()
	}
	frame := m.navStack[len(m.navStack)-1]
	m.navStack = m.navStack[:len(m.navStack)-1]
	m.view = frame.view
	m.cursor = frame.cursor
	m.gen++
	m.clearFilter()
	return m.loadCurrentView()
}

// === Cursor helpers ===

func (m *Model) selectedEntryID() string {
	entries := m.visibleEntries()
	if m.cursor < len(entries) {
		return entries[m.cursor].ID()
	}
	return ""
}

// restoreEntryCursor re-finds the previously selected entry after a
// refresh so the highlight survives data replacement.
func (m *Model) restoreEntryCursor(prevID string) {
	entries := m.visibleEntries()
	if prevID != "" {
		for i, e := range entries {
			if e.ID() == prevID {
				m.cursor = i
				return
			}
		}
	}
	m.clampCursor(len(entries))
}

func (m *Model) clampCursor(n int) {
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// currentListLen returns the row count of the active view
func (m *Model) currentListLen() int {
	switch m.view.Kind {
	case domain.ViewSeasons:
		return len(m.seasons)
	case domain.ViewEpisodes:
		return len(m.episodes)
	case domain.ViewLiveTV:
		return len(m.visibleChannels())
	default:
		if m.CurrentSection().Discover {
			return len(m.discoverList())
		}
		return len(m.visibleEntries())
	}
}

// inFlightRequests keeps only records still moving through the
// request pipeline; fulfilled ones belong to the library sections.
func inFlightRequests(records []domain.RequestRecord) []domain.RequestRecord {
	out := make([]domain.RequestRecord, 0, len(records))
	for _, rec := range records {
		if rec.Status != domain.StatusAvailable {
			out = append(out, rec)
		}
	}
	return out
}

// discoverList flattens the discovery rows in their display order so
// a single cursor can walk them.
func (m *Model) discoverList() []domain.RequestRecord {
	out := make([]domain.RequestRecord, 0,
		len(m.discover.TrendingMovies)+len(m.discover.TrendingSeries)+len(m.discover.PopularMixed))
	out = append(out, m.discover.TrendingMovies...)
	out = append(out, m.discover.TrendingSeries...)
	out = append(out, m.discover.PopularMixed...)
	return out
}

// visibleChannels resolves the active Live TV tab through its mode
// and the grid filter.
func (m *Model) visibleChannels() []domain.MediaItem {
	tab := m.Cfg.Tab(m.view.LiveTabID)
	if tab == nil {
		return nil
	}
	channels := service.ResolveTab(*tab, m.channels)
	if m.filterActive {
		return service.FilterChannels(channels, m.filterInput.Value())
	}
	return channels
}
