package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Enter       key.Binding
	Back        key.Binding
	PrevSection key.Binding
	NextSection key.Binding
	Home        key.Binding
	End         key.Binding

	// Actions
	Quit     key.Binding
	Help     key.Binding
	Escape   key.Binding
	Filter   key.Binding
	Search   key.Binding
	Refresh  key.Binding
	Settings key.Binding

	// Playback transport
	PlayPause  key.Binding
	StopPlay   key.Binding
	NextTrack  key.Binding
	PrevTrack  key.Binding
	Scrub      key.Binding
	SkipBack   key.Binding
	SkipAhead  key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding

	// Confirmations
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "right"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open/play"),
		),
		Back: key.NewBinding(
			key.WithKeys("backspace", "esc"),
			key.WithHelp("bksp", "back"),
		),
		PrevSection: key.NewBinding(
			key.WithKeys("shift+tab", "H"),
			key.WithHelp("S-tab", "previous section"),
		),
		NextSection: key.NewBinding(
			key.WithKeys("tab", "L"),
			key.WithHelp("tab", "next section"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Search: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "request search"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Settings: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "settings"),
		),

		PlayPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		StopPlay: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "stop"),
		),
		NextTrack: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next"),
		),
		PrevTrack: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous"),
		),
		Scrub: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "scrub"),
		),
		SkipBack: key.NewBinding(
			key.WithKeys(","),
			key.WithHelp(",", "skip back 10s"),
		),
		SkipAhead: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "skip ahead 30s"),
		),
		VolumeUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "volume up"),
		),
		VolumeDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "volume down"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("y", "Y", "enter"),
			key.WithHelp("y", "confirm"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
