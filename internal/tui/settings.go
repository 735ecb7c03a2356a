package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/foyer/internal/config"
	"github.com/mmcdole/foyer/internal/domain"
	"github.com/mmcdole/foyer/internal/service"
	"github.com/mmcdole/foyer/internal/tui/styles"
)

// settingsAction tells the parent model what to do after a key press
type settingsAction int

const (
	settingsNone settingsAction = iota
	settingsCancel
	settingsSave
)

// settingsPane is the active panel inside the settings overlay
type settingsPane int

const (
	paneFields settingsPane = iota
	paneDevices
	paneTabs
	paneChannels
)

// Field indexes in the root settings list
const (
	fieldCatalogURL = iota
	fieldCatalogKey
	fieldRequestsURL
	fieldRequestsKey
	fieldDeviceTarget
	fieldRequestsEnabled
	fieldLiveTVEnabled
	fieldDevicePicker
	fieldTabEditor
	fieldCount
)

// SettingsModel edits a draft of the configuration. Nothing touches
// the live config until the user saves.
type SettingsModel struct {
	draft config.Config

	pane     settingsPane
	fieldIdx int
	editing  bool
	input    textinput.Model

	devices    []domain.DeviceInfo
	devicesErr error
	deviceIdx  int

	tabIdx        int
	channels      []domain.MediaItem
	channelFilter textinput.Model
	channelIdx    int

	diag *DiagnosticsMsg
}

// NewSettingsModel starts an editing session over a copy of the
// current configuration.
func NewSettingsModel(cfg *config.Config) *SettingsModel {
	draft := *cfg
	draft.LiveTV = append([]config.LiveTVTab(nil), cfg.LiveTV...)
	for i := range draft.LiveTV {
		draft.LiveTV[i].ChannelIDs = append([]string(nil), cfg.LiveTV[i].ChannelIDs...)
	}

	input := textinput.New()
	input.CharLimit = 256

	channelFilter := textinput.New()
	channelFilter.Prompt = "/"
	channelFilter.CharLimit = 64

	return &SettingsModel{
		draft:         draft,
		input:         input,
		channelFilter: channelFilter,
	}
}

// Draft returns the edited configuration
func (s *SettingsModel) Draft() config.Config { return s.draft }

// SetDevices stores the device scan result
func (s *SettingsModel) SetDevices(devices []domain.DeviceInfo, err error) {
	s.devices = devices
	s.devicesErr = err
	if s.deviceIdx >= len(devices) {
		s.deviceIdx = 0
	}
}

// SetChannels stores the lineup for the static tab channel picker
func (s *SettingsModel) SetChannels(channels []domain.MediaItem) {
	s.channels = channels
}

// SetDiagnostics stores the connectivity check result
func (s *SettingsModel) SetDiagnostics(msg DiagnosticsMsg) {
	s.diag = &msg
}

// HandleKey processes a key press and reports the resulting action
func (s *SettingsModel) HandleKey(msg tea.KeyMsg) (settingsAction, tea.Cmd) {
	switch s.pane {
	case paneDevices:
		return s.handleDevicesKey(msg)
	case paneTabs:
		return s.handleTabsKey(msg)
	case paneChannels:
		return s.handleChannelsKey(msg)
	default:
		return s.handleFieldsKey(msg)
	}
}

func (s *SettingsModel) handleFieldsKey(msg tea.KeyMsg) (settingsAction, tea.Cmd) {
	if s.editing {
		switch {
		case key.Matches(msg, Keys.Escape):
			s.editing = false
			s.input.Blur()
			return settingsNone, nil
		case key.Matches(msg, Keys.Enter):
			s.commitField()
			s.editing = false
			s.input.Blur()
			return settingsNone, nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return settingsNone, cmd
	}

	switch {
	case key.Matches(msg, Keys.Escape):
		return settingsCancel, nil

	case msg.String() == "ctrl+s":
		return settingsSave, nil

	case key.Matches(msg, Keys.Up):
		if s.fieldIdx > 0 {
			s.fieldIdx--
		}
		return settingsNone, nil

	case key.Matches(msg, Keys.Down):
		if s.fieldIdx < fieldCount-1 {
			s.fieldIdx++
		}
		return settingsNone, nil

	case key.Matches(msg, Keys.Enter):
		switch s.fieldIdx {
		case fieldRequestsEnabled:
			s.draft.Features.RequestsEnabled = !s.draft.Features.RequestsEnabled
		case fieldLiveTVEnabled:
			s.draft.Features.LiveTVEnabled = !s.draft.Features.LiveTVEnabled
		case fieldDevicePicker:
			s.pane = paneDevices
		case fieldTabEditor:
			s.pane = paneTabs
		default:
			s.beginEdit()
		}
		return settingsNone, nil
	}

	return settingsNone, nil
}

// beginEdit focuses the text input on the selected field's value
func (s *SettingsModel) beginEdit() {
	s.editing = true
	s.input.SetValue(s.fieldValue(s.fieldIdx))
	s.input.CursorEnd()
	s.input.Focus()
}

func (s *SettingsModel) commitField() {
	v := strings.TrimSpace(s.input.Value())
	switch s.fieldIdx {
	case fieldCatalogURL:
		s.draft.Catalog.URL = v
	case fieldCatalogKey:
		s.draft.Catalog.APIKey = v
	case fieldRequestsURL:
		s.draft.Requests.URL = v
	case fieldRequestsKey:
		s.draft.Requests.APIKey = v
	case fieldDeviceTarget:
		s.draft.Device.Target = v
	}
}

func (s *SettingsModel) fieldValue(idx int) string {
	switch idx {
	case fieldCatalogURL:
		return s.draft.Catalog.URL
	case fieldCatalogKey:
		return s.draft.Catalog.APIKey
	case fieldRequestsURL:
		return s.draft.Requests.URL
	case fieldRequestsKey:
		return s.draft.Requests.APIKey
	case fieldDeviceTarget:
		return s.draft.Device.Target
	}
	return ""
}

func (s *SettingsModel) handleDevicesKey(msg tea.KeyMsg) (settingsAction, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Escape):
		s.pane = paneFields
		return settingsNone, nil

	case key.Matches(msg, Keys.Up):
		if s.deviceIdx > 0 {
			s.deviceIdx--
		}
		return settingsNone, nil

	case key.Matches(msg, Keys.Down):
		if s.deviceIdx < len(s.devices)-1 {
			s.deviceIdx++
		}
		return settingsNone, nil

	case key.Matches(msg, Keys.Enter):
		if s.deviceIdx < len(s.devices) {
			// Prefer the stable device id over a name substring.
			s.draft.Device.Target = s.devices[s.deviceIdx].ID
			s.pane = paneFields
		}
		return settingsNone, nil
	}
	return settingsNone, nil
}

func (s *SettingsModel) handleTabsKey(msg tea.KeyMsg) (settingsAction, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Escape):
		s.pane = paneFields
		return settingsNone, nil

	case key.Matches(msg, Keys.Up):
		if s.tabIdx > 0 {
			s.tabIdx--
		}
		return settingsNone, nil

	case key.Matches(msg, Keys.Down):
		if s.tabIdx < len(s.draft.LiveTV)-1 {
			s.tabIdx++
		}
		return settingsNone, nil

	case msg.String() == "a":
		name := fmt.Sprintf("Live TV %d", len(s.draft.LiveTV)+1)
		if _, err := s.draft.AddLiveTVTab(name, config.TabModeDynamic); err == nil {
			s.tabIdx = len(s.draft.LiveTV) - 1
		}
		return settingsNone, nil

	case msg.String() == "d":
		if s.tabIdx < len(s.draft.LiveTV) {
			s.draft.RemoveLiveTVTab(s.draft.LiveTV[s.tabIdx].ID)
			if s.tabIdx >= len(s.draft.LiveTV) && s.tabIdx > 0 {
				s.tabIdx--
			}
		}
		return settingsNone, nil

	case msg.String() == "m":
		if s.tabIdx < len(s.draft.LiveTV) {
			tab := &s.draft.LiveTV[s.tabIdx]
			if tab.Mode == config.TabModeDynamic {
				tab.Mode = config.TabModeStatic
			} else {
				tab.Mode = config.TabModeDynamic
				tab.ChannelIDs = nil
			}
		}
		return settingsNone, nil

	case key.Matches(msg, Keys.Enter):
		if s.tabIdx < len(s.draft.LiveTV) && s.draft.LiveTV[s.tabIdx].Mode == config.TabModeStatic {
			s.pane = paneChannels
			s.channelIdx = 0
			s.channelFilter.SetValue("")
			s.channelFilter.Focus()
		}
		return settingsNone, nil
	}
	return settingsNone, nil
}

func (s *SettingsModel) handleChannelsKey(msg tea.KeyMsg) (settingsAction, tea.Cmd) {
	tab := &s.draft.LiveTV[s.tabIdx]
	matched := service.FilterChannels(s.channels, s.channelFilter.Value())

	switch {
	case key.Matches(msg, Keys.Escape):
		s.pane = paneTabs
		s.channelFilter.Blur()
		return settingsNone, nil

	// Arrow keys only: letters are literal input for the filter.
	case msg.Type == tea.KeyUp:
		if s.channelIdx > 0 {
			s.channelIdx--
		}
		return settingsNone, nil

	case msg.Type == tea.KeyDown:
		if s.channelIdx < len(matched)-1 {
			s.channelIdx++
		}
		return settingsNone, nil

	case key.Matches(msg, Keys.Enter):
		if s.channelIdx < len(matched) {
			tab.ChannelIDs = service.ToggleChannel(tab.ChannelIDs, matched[s.channelIdx].ID)
		}
		return settingsNone, nil

	case msg.String() == "ctrl+a":
		// Pin everything the filter currently matches.
		tab.ChannelIDs = service.SelectMatching(tab.ChannelIDs, matched)
		return settingsNone, nil
	}

	var cmd tea.Cmd
	s.channelFilter, cmd = s.channelFilter.Update(msg)
	if n := len(service.FilterChannels(s.channels, s.channelFilter.Value())); s.channelIdx >= n && n > 0 {
		s.channelIdx = n - 1
	}
	return settingsNone, cmd
}

// SaveSettingsCmd persists the draft and hands it back through the
// saved message. The live config is only written in the update loop.
func SaveSettingsCmd(s *SettingsModel) tea.Cmd {
	draft := s.Draft()
	return func() tea.Msg {
		return SettingsSavedMsg{Draft: draft, Err: config.SaveConfig(&draft)}
	}
}

// View renders the settings overlay
func (s *SettingsModel) View(width int) string {
	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Settings"))
	b.WriteString("\n")

	switch s.pane {
	case paneDevices:
		s.renderDevices(&b)
	case paneTabs:
		s.renderTabs(&b)
	case paneChannels:
		s.renderChannels(&b)
	default:
		s.renderFields(&b)
	}

	if s.diag != nil && s.pane == paneFields {
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render("Connectivity"))
		b.WriteString("\n")
		if s.diag.CatalogErr != nil {
			b.WriteString(styles.ErrorStyle.Render("  media server: " + s.diag.CatalogErr.Error()))
		} else {
			b.WriteString(styles.SuccessStyle.Render("  media server: ok"))
		}
		b.WriteString("\n")
		if s.diag.RequestsErr != nil {
			b.WriteString(styles.ErrorStyle.Render("  request server: " + s.diag.RequestsErr.Error()))
		} else {
			b.WriteString(styles.SuccessStyle.Render("  request server: v" + s.diag.RequestsVersion))
		}
		b.WriteString("\n")
	}

	return styles.ModalStyle.Width(min(width-4, 76)).Render(b.String())
}

func (s *SettingsModel) renderFields(b *strings.Builder) {
	labels := []string{
		"Media server URL",
		"Media server API key",
		"Request server URL",
		"Request server API key",
		"Playback device",
		"Requests enabled",
		"Live TV enabled",
		"Scan for devices...",
		"Live TV tabs...",
	}

	for i, label := range labels {
		value := s.fieldValue(i)
		switch i {
		case fieldCatalogKey, fieldRequestsKey:
			value = maskKey(value)
		case fieldRequestsEnabled:
			value = onOff(s.draft.Features.RequestsEnabled)
		case fieldLiveTVEnabled:
			value = onOff(s.draft.Features.LiveTVEnabled)
		}

		line := fmt.Sprintf("%-24s %s", label, value)
		if i == s.fieldIdx && s.editing {
			line = fmt.Sprintf("%-24s %s", label, s.input.View())
		}
		if i == s.fieldIdx {
			b.WriteString(styles.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(styles.NormalItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("enter edit · ctrl+s save · esc cancel"))
	b.WriteString("\n")
}

func (s *SettingsModel) renderDevices(b *strings.Builder) {
	b.WriteString(styles.SubtitleStyle.Render("Active sessions"))
	b.WriteString("\n")

	if s.devicesErr != nil {
		b.WriteString(styles.ErrorStyle.Render("scan failed: " + s.devicesErr.Error()))
		b.WriteString("\n")
		return
	}
	if len(s.devices) == 0 {
		b.WriteString(styles.DimStyle.Render("no active sessions found"))
		b.WriteString("\n")
		return
	}

	for i, d := range s.devices {
		marker := "  "
		if d.Current {
			marker = styles.AccentStyle.Render("● ")
		}
		line := fmt.Sprintf("%s%s (%s)", marker, d.Name, d.Client)
		if !d.Controllable {
			line += styles.DimStyle.Render(" [not controllable]")
		}
		if i == s.deviceIdx {
			b.WriteString(styles.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(styles.NormalItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("enter select · esc back"))
	b.WriteString("\n")
}

func (s *SettingsModel) renderTabs(b *strings.Builder) {
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("Live TV tabs (%d/%d)", len(s.draft.LiveTV), config.MaxLiveTVTabs)))
	b.WriteString("\n")

	for i, tab := range s.draft.LiveTV {
		desc := "all channels"
		if tab.Mode == config.TabModeStatic {
			desc = fmt.Sprintf("%d pinned", len(tab.ChannelIDs))
		}
		line := fmt.Sprintf("%-20s %s", tab.Name, desc)
		if i == s.tabIdx {
			b.WriteString(styles.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(styles.NormalItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("a add · d delete · m mode · enter pick channels · esc back"))
	b.WriteString("\n")
}

func (s *SettingsModel) renderChannels(b *strings.Builder) {
	tab := s.draft.LiveTV[s.tabIdx]
	pinned := make(map[string]struct{}, len(tab.ChannelIDs))
	for _, id := range tab.ChannelIDs {
		pinned[id] = struct{}{}
	}

	b.WriteString(styles.SubtitleStyle.Render("Channels for " + tab.Name))
	b.WriteString("  ")
	b.WriteString(s.channelFilter.View())
	b.WriteString("\n")

	matched := service.FilterChannels(s.channels, s.channelFilter.Value())
	const maxRows = 12
	for i, ch := range matched {
		if i >= maxRows {
			b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  ... and %d more", len(matched)-maxRows)))
			b.WriteString("\n")
			break
		}
		mark := "[ ]"
		if _, ok := pinned[ch.ID]; ok {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %-6s %s", mark, ch.ChannelNumber, ch.Name)
		if i == s.channelIdx {
			b.WriteString(styles.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(styles.NormalItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("enter toggle · ctrl+a pin matching · esc back"))
	b.WriteString("\n")
}

func maskKey(v string) string {
	if v == "" {
		return ""
	}
	return strings.Repeat("•", 8)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
