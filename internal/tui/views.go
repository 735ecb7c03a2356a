package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/foyer/internal/domain"
	"github.com/mmcdole/foyer/internal/tui/styles"
)

const (
	cellWidth = 24

	// Lines consumed by fixed chrome: section bar, context line,
	// footer, and the player bar when something is playing.
	chromeHeight = 3
)

// View renders the whole screen
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	contentHeight := m.Height - chromeHeight
	playerBar := ""
	if m.player != nil {
		playerBar = m.renderPlayerBar()
		contentHeight -= lipgloss.Height(playerBar)
	}

	var content string
	switch m.view.Kind {
	case domain.ViewSeasons:
		content = m.renderSeasons(contentHeight)
	case domain.ViewEpisodes:
		content = m.renderEpisodes(contentHeight)
	case domain.ViewLiveTV:
		content = m.renderChannels(contentHeight)
	default:
		if m.CurrentSection().Discover {
			content = m.renderDiscover(contentHeight)
		} else {
			content = m.renderGrid(contentHeight)
		}
	}
	content = lipgloss.NewStyle().Height(contentHeight).Render(content)

	parts := []string{
		m.renderSectionBar(),
		m.renderContextLine(),
		content,
	}
	if playerBar != "" {
		parts = append(parts, playerBar)
	}
	parts = append(parts, m.renderFooter())

	view := lipgloss.JoinVertical(lipgloss.Left, parts...)

	// Modal overlays replace the screen like the help view does
	switch m.State {
	case StateSearching:
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.renderSearchModal())
	case StateConfirmRequest:
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.renderConfirmModal())
	case StateSettings:
		if m.settings != nil {
			view = lipgloss.Place(m.Width, m.Height,
				lipgloss.Center, lipgloss.Center,
				m.settings.View(m.Width))
		}
	}

	return view
}

// renderSectionBar renders the top tab strip
func (m Model) renderSectionBar() string {
	var tabs []string
	for i, sec := range m.Sections {
		if i == m.sectionIdx {
			tabs = append(tabs, styles.SectionActiveStyle.Render(sec.Name))
		} else {
			tabs = append(tabs, styles.SectionInactiveStyle.Render(sec.Name))
		}
	}
	bar := strings.Join(tabs, " ")
	if pad := m.Width - lipgloss.Width(bar); pad > 0 {
		bar += strings.Repeat(" ", pad)
	}
	return bar
}

// renderContextLine renders the breadcrumb line, sharing space with
// the grid filter input when it is active.
func (m Model) renderContextLine() string {
	crumb := m.CurrentSection().Name
	if p := m.view.Parent; p != nil {
		crumb += " > " + p.SeriesName
		if m.view.Kind == domain.ViewEpisodes {
			if p.SeasonNum > 0 {
				crumb += fmt.Sprintf(" > Season %d", p.SeasonNum)
			} else {
				crumb += " > Specials"
			}
		}
	}

	line := styles.AccentStyle.Render(crumb)
	if m.filterActive {
		line += "  " + m.filterInput.View()
	}
	if pad := m.Width - lipgloss.Width(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	return line
}

// renderGrid renders the merged library grid
func (m Model) renderGrid(height int) string {
	entries := m.visibleEntries()
	if len(entries) == 0 {
		if m.Loading {
			return styles.DimStyle.Render("  Loading library...")
		}
		return styles.DimStyle.Render("  Nothing here yet")
	}

	cols := m.Width / cellWidth
	if cols < 1 {
		cols = 1
	}

	var rows []string
	for start := 0; start < len(entries); start += cols {
		end := start + cols
		if end > len(entries) {
			end = len(entries)
		}
		var cells []string
		for i := start; i < end; i++ {
			cells = append(cells, m.renderEntryCell(entries[i], i == m.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	// Keep the cursor row on screen
	rowHeight := lipgloss.Height(rows[0])
	visibleRows := height / rowHeight
	if visibleRows < 1 {
		visibleRows = 1
	}
	cursorRow := m.cursor / cols
	first := 0
	if cursorRow >= visibleRows {
		first = cursorRow - visibleRows + 1
	}
	last := first + visibleRows
	if last > len(rows) {
		last = len(rows)
	}

	return strings.Join(rows[first:last], "\n")
}

// renderEntryCell renders one grid cell. Request placeholders get a
// lifecycle badge instead of runtime metadata.
func (m Model) renderEntryCell(entry domain.MergedEntry, selected bool) string {
	title := styles.Truncate(entry.Title(), cellWidth-4)

	var body string
	if entry.IsRequest() {
		body = title + "\n" + requestBadge(entry.Request.Status)
	} else {
		meta := ""
		if entry.Item.RunTimeTicks > 0 {
			meta = styles.DimStyle.Render(styles.FormatTicks(entry.Item.RunTimeTicks))
		} else if entry.Item.UnplayedCount > 0 {
			meta = styles.DimStyle.Render(fmt.Sprintf("%d unwatched", entry.Item.UnplayedCount))
		}
		body = title + "\n" + meta
	}

	style := styles.CellStyle
	if entry.IsRequest() {
		style = styles.CellRequestStyle
	}
	if selected {
		style = styles.CellSelectedStyle
	}
	return style.Width(cellWidth - 2).Render(body)
}

func requestBadge(status domain.RequestStatus) string {
	switch status {
	case domain.StatusDownloading:
		return styles.BadgeDownloadingStyle.Render("downloading")
	case domain.StatusQueued:
		return styles.BadgeDownloadingStyle.Render("queued")
	case domain.StatusApproved:
		return styles.BadgePendingStyle.Render("approved")
	default:
		return styles.BadgePendingStyle.Render("requested")
	}
}

// renderSeasons renders the season list for the drilled-in series
func (m Model) renderSeasons(height int) string {
	if len(m.seasons) == 0 {
		if m.Loading {
			return styles.DimStyle.Render("  Loading seasons...")
		}
		return styles.DimStyle.Render("  No seasons")
	}

	var b strings.Builder
	for i, season := range listWindow(m.seasons, m.cursor, height) {
		name := season.Name
		if season.UnplayedCount > 0 {
			name += styles.DimStyle.Render(fmt.Sprintf("  %d unwatched", season.UnplayedCount))
		}
		writeListRow(&b, name, i == windowCursor(m.cursor, height))
	}
	return b.String()
}

// renderEpisodes renders the episode list for the drilled-in season
func (m Model) renderEpisodes(height int) string {
	if len(m.episodes) == 0 {
		if m.Loading {
			return styles.DimStyle.Render("  Loading episodes...")
		}
		return styles.DimStyle.Render("  No episodes")
	}

	var b strings.Builder
	for i, ep := range listWindow(m.episodes, m.cursor, height) {
		line := fmt.Sprintf("%s  %s", ep.EpisodeCode(), styles.Truncate(ep.Name, m.Width-20))
		if ep.RunTimeTicks > 0 {
			line += styles.DimStyle.Render("  " + styles.FormatTicks(ep.RunTimeTicks))
		}
		writeListRow(&b, line, i == windowCursor(m.cursor, height))
	}
	return b.String()
}

// renderChannels renders the active Live TV tab's lineup
func (m Model) renderChannels(height int) string {
	channels := m.visibleChannels()
	if len(channels) == 0 {
		if m.Loading {
			return styles.DimStyle.Render("  Loading channels...")
		}
		if m.filterActive {
			return styles.DimStyle.Render("  No channels match")
		}
		return styles.DimStyle.Render("  No channels in this tab")
	}

	var b strings.Builder
	for i, ch := range listWindow(channels, m.cursor, height) {
		line := fmt.Sprintf("%-6s %s", ch.ChannelNumber, styles.Truncate(ch.Name, m.Width-12))
		writeListRow(&b, line, i == windowCursor(m.cursor, height))
	}
	return b.String()
}

// renderDiscover renders the three discovery rows. The cursor walks a
// single flattened list so the existing movement keys work unchanged.
func (m Model) renderDiscover(height int) string {
	rows := []struct {
		name    string
		records []domain.RequestRecord
	}{
		{"Trending Movies", m.discover.TrendingMovies},
		{"Trending Series", m.discover.TrendingSeries},
		{"Popular", m.discover.PopularMixed},
	}

	empty := true
	offset := 0
	var b strings.Builder

	// In-flight requests sit above the discovery rows, display only.
	if len(m.activeRequests) > 0 {
		empty = false
		b.WriteString(styles.SubtitleStyle.Render("Processing"))
		b.WriteString("\n")
		for _, rec := range m.activeRequests {
			line := "  " + styles.Truncate(rec.Title, m.Width-24) + "  " + requestBadge(rec.Status)
			b.WriteString(styles.NormalItemStyle.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	for _, row := range rows {
		if len(row.records) == 0 {
			continue
		}
		empty = false
		b.WriteString(styles.SubtitleStyle.Render(row.name))
		b.WriteString("\n")
		for i, rec := range row.records {
			line := styles.Truncate(rec.Title, m.Width-24)
			if rec.Status != "" {
				line += "  " + requestBadge(rec.Status)
			}
			writeListRow(&b, line, offset+i == m.cursor)
		}
		offset += len(row.records)
	}

	if empty {
		if m.Loading {
			return styles.DimStyle.Render("  Loading discovery...")
		}
		return styles.DimStyle.Render("  Discovery unavailable")
	}
	return b.String()
}

// renderPlayerBar renders the now-playing strip above the footer
func (m Model) renderPlayerBar() string {
	p := m.player

	title := p.Title
	if p.SeriesName != "" {
		title = fmt.Sprintf("%s %s S%02dE%02d", p.SeriesName, p.Title, p.SeasonNum, p.EpisodeNum)
	}

	state := "▶"
	if !p.IsPlaying {
		state = "⏸"
	}

	pct := p.Progress()
	posTicks := p.PositionTicks
	if m.scrubbing {
		pct = m.scrubPct
		posTicks = int64(m.scrubPct / 100 * float64(p.DurationTicks))
	}

	left := fmt.Sprintf("%s %s %s",
		state,
		styles.TitleStyle.Render(styles.Truncate(title, m.Width/2)),
		styles.QualityBadgeStyle.Render(p.Quality))
	times := styles.DimStyle.Render(
		styles.FormatTicks(posTicks) + " / " + styles.FormatTicks(p.DurationTicks))

	barWidth := m.Width - lipgloss.Width(left) - lipgloss.Width(times) - 6
	if barWidth < 10 {
		barWidth = 10
	}
	bar := styles.RenderProgressBar(pct, barWidth)
	if m.scrubbing {
		bar += styles.AccentStyle.Render(" scrub")
	}

	return styles.PlayerBarStyle.Width(m.Width).Render(left + "  " + bar + "  " + times)
}

// renderFooter renders the single-line status footer
func (m Model) renderFooter() string {
	var left string
	if m.Loading {
		left = styles.DimStyle.Render("Loading...")
	} else if m.StatusText != "" {
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusText)
		} else {
			left = styles.DimStyle.Render(m.StatusText)
		}
	}

	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderSearchModal renders the request search overlay
func (m Model) renderSearchModal() string {
	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Request Media"))
	b.WriteString("\n")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	if len(m.searchResults) == 0 {
		b.WriteString(styles.DimStyle.Render("Type a title and press enter to search"))
		b.WriteString("\n")
	}
	for i, rec := range m.searchResults {
		line := styles.Truncate(rec.Title, 48)
		if rec.MediaKind == "tv" {
			line += styles.DimStyle.Render("  series")
		}
		if rec.Status == domain.StatusAvailable {
			line += styles.SuccessStyle.Render("  in library")
		} else if rec.Status != "" && rec.Status != domain.StatusPending {
			line += "  " + requestBadge(rec.Status)
		}
		if i == m.searchCursor {
			b.WriteString(styles.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(styles.NormalItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("enter request · esc close"))
	return styles.ModalStyle.Render(b.String())
}

// renderConfirmModal renders the request confirmation prompt
func (m Model) renderConfirmModal() string {
	title := ""
	if m.pendingRequest != nil {
		title = m.pendingRequest.Title
	}
	modal := fmt.Sprintf(`
        Request %q?

  The request server will search for
  this title and download it.

        [Y] Yes      [N] No
`, title)
	return styles.ModalStyle.Render(modal)
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
NAVIGATION                      PLAYBACK
  j/k        Up/down               Enter  Play on device
  h/l        Left/right            Space  Play/pause
  Tab/L      Next section          x      Stop
  S-Tab/H    Previous section      [ ]    Previous/next
  g/G        First/last item       , .    Skip back/ahead
  Backspace  Back up a level       s      Scrub mode
                                   - +    Volume

SEARCH & VIEW                   OTHER
  /          Filter list           r      Refresh
  f          Request search        o      Settings
                                   q      Quit
                                   ?      This help
                                   Esc    Close / Cancel

Press any key to return...
`
	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

// writeListRow renders one list line with the selection style applied.
func writeListRow(b *strings.Builder, line string, selected bool) {
	if selected {
		b.WriteString(styles.SelectedItemStyle.Render(line))
	} else {
		b.WriteString(styles.NormalItemStyle.Render(line))
	}
	b.WriteString("\n")
}

// listWindow returns the slice of items that fits on screen while
// keeping the cursor visible.
func listWindow(items []domain.MediaItem, cursor, height int) []domain.MediaItem {
	if height < 1 {
		height = 1
	}
	first := 0
	if cursor >= height {
		first = cursor - height + 1
	}
	last := first + height
	if last > len(items) {
		last = len(items)
	}
	if first > last {
		first = last
	}
	return items[first:last]
}

// windowCursor maps the absolute cursor to its index inside the
// window returned by listWindow.
func windowCursor(cursor, height int) int {
	if height < 1 {
		height = 1
	}
	if cursor >= height {
		return height - 1
	}
	return cursor
}
