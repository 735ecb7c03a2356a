package domain

// ViewKind identifies which browsing view is active
type ViewKind int

const (
	ViewGrid ViewKind = iota
	ViewSeasons
	ViewEpisodes
	ViewLiveTV
)

// String returns a human-readable name for the view kind
func (k ViewKind) String() string {
	switch k {
	case ViewGrid:
		return "grid"
	case ViewSeasons:
		return "seasons"
	case ViewEpisodes:
		return "episodes"
	case ViewLiveTV:
		return "livetv"
	default:
		return "unknown"
	}
}

// ParentContext identifies the series (and season, for the episodes
// view) whose children are being displayed. An episodes view never
// exists without a resolvable series id.
type ParentContext struct {
	SeriesID   string
	SeriesName string
	SeasonID   string // episodes view only
	SeasonNum  int    // episodes view only
}

// ViewState is the browsing position inside one section: a view kind
// plus the parent context valid for that kind. Constructed only
// through the helpers below so the kind and context stay consistent.
type ViewState struct {
	Kind     ViewKind
	Parent   *ParentContext // seasons and episodes only
	LiveTabID string        // livetv only
}

// GridView returns the flat listing state for a library or discovery
// section.
func GridView() ViewState {
	return ViewState{Kind: ViewGrid}
}

// SeasonsView returns the state showing the seasons of one series.
func SeasonsView(seriesID, seriesName string) ViewState {
	return ViewState{
		Kind:   ViewSeasons,
		Parent: &ParentContext{SeriesID: seriesID, SeriesName: seriesName},
	}
}

// EpisodesView returns the state showing the episodes of one season.
func EpisodesView(seriesID, seriesName, seasonID string, seasonNum int) ViewState {
	return ViewState{
		Kind: ViewEpisodes,
		Parent: &ParentContext{
			SeriesID:   seriesID,
			SeriesName: seriesName,
			SeasonID:   seasonID,
			SeasonNum:  seasonNum,
		},
	}
}

// LiveTVView returns the channel listing state for one configured tab.
func LiveTVView(tabID string) ViewState {
	return ViewState{Kind: ViewLiveTV, LiveTabID: tabID}
}
