package domain

import "fmt"

// TicksPerSecond is the resolution of all position/duration fields.
const TicksPerSecond = 10_000_000

// MediaKind distinguishes catalog item types
type MediaKind string

const (
	KindMovie      MediaKind = "Movie"
	KindSeries     MediaKind = "Series"
	KindSeason     MediaKind = "Season"
	KindEpisode    MediaKind = "Episode"
	KindChannel    MediaKind = "Channel"
	KindBoxSet     MediaKind = "BoxSet"
	KindFolder     MediaKind = "Folder"
	KindCollection MediaKind = "Collection"
)

// IsContainer reports whether the kind can hold children. BoxSet,
// Folder and Collection are containers with no drill path in this
// application; activating them leaves the view unchanged.
func (k MediaKind) IsContainer() bool {
	switch k {
	case KindSeries, KindSeason, KindBoxSet, KindFolder, KindCollection:
		return true
	default:
		return false
	}
}

// MediaItem is an immutable snapshot of one catalog item
type MediaItem struct {
	ID            string    // Server-specific unique identifier
	Kind          MediaKind // Movie, Series, Season, Episode, Channel, ...
	Name          string    // Display name
	SeriesID      string    // Parent series ID (seasons/episodes)
	SeriesName    string    // Parent series name (may be empty on season payloads)
	SeasonID      string    // Parent season ID (episodes)
	SeasonNum     int       // Season index (0 = specials)
	IndexNum      int       // Episode number within season
	RunTimeTicks  int64     // Runtime duration in ticks
	ChannelNumber string    // Live TV channel number (channels only)
	Played        bool      // Marked watched
	PositionTicks int64     // Resume position in ticks
	UnplayedCount int       // Unwatched children (series/seasons)
	ImageTag      string    // Primary image tag, empty if none
}

// EpisodeCode returns the formatted episode code (e.g., "S01E05")
func (m MediaItem) EpisodeCode() string {
	if m.Kind != KindEpisode {
		return ""
	}
	return fmt.Sprintf("S%02dE%02d", m.SeasonNum, m.IndexNum)
}

// RequestStatus is the lifecycle state of a media request
type RequestStatus string

const (
	StatusPending     RequestStatus = "Pending"
	StatusApproved    RequestStatus = "Approved"
	StatusQueued      RequestStatus = "Queued"
	StatusDownloading RequestStatus = "Downloading"
	StatusAvailable   RequestStatus = "Available"
)

// RequestRecord is one pending or fulfilled request from the request
// service. A record with status Available already exists in the
// library and must never be rendered as a pending placeholder.
type RequestRecord struct {
	ID        int           // Request identity
	MediaID   int           // TMDB media identity
	MediaKind string        // "movie" or "tv"
	Title     string        // Display title
	Status    RequestStatus // Lifecycle state
	PosterURL string        // Absolute poster URL, empty if none
}

// MergedEntry is one row of a merged library list: either an in-flight
// request placeholder or a catalog item, never both.
type MergedEntry struct {
	Request *RequestRecord
	Item    *MediaItem
}

// ID returns the entry identity used for de-duplication. Request and
// catalog identities live in different namespaces, so request ids are
// prefixed.
func (e MergedEntry) ID() string {
	if e.Request != nil {
		return fmt.Sprintf("req:%d", e.Request.ID)
	}
	if e.Item != nil {
		return e.Item.ID
	}
	return ""
}

// IsRequest reports whether the entry is an in-flight request placeholder.
func (e MergedEntry) IsRequest() bool { return e.Request != nil }

// Title returns the display title regardless of variant.
func (e MergedEntry) Title() string {
	if e.Request != nil {
		return e.Request.Title
	}
	if e.Item != nil {
		return e.Item.Name
	}
	return ""
}

// RemoteSession is one active playback session reported by the catalog
// service. Rebuilt on every poll, never cached across polls.
type RemoteSession struct {
	SessionID             string
	DeviceID              string
	DeviceName            string
	Client                string
	SupportsRemoteControl bool
	NowPlaying            *NowPlayingItem // nil when idle
	IsPaused              bool
	PositionTicks         int64
}

// NowPlayingItem is the item a remote session is currently presenting
type NowPlayingItem struct {
	ID           string
	Name         string
	SeriesName   string
	SeasonNum    int
	EpisodeNum   int
	Width        int // Frame width in pixels, 0 when unreported
	RunTimeTicks int64
	ImageTag     string
}

// PlayerStatus is the per-second projection of the target session's
// playback state shown in the player bar.
type PlayerStatus struct {
	SessionID     string
	ItemID        string
	Title         string
	SeriesName    string
	SeasonNum     int
	EpisodeNum    int
	Quality       string // "4K", "1080p", "720p", "SD" or "HD"
	ImageURL      string
	IsPlaying     bool
	PositionTicks int64
	DurationTicks int64
}

// Progress returns playback progress as a percentage in [0,100].
func (p PlayerStatus) Progress() float64 {
	if p.DurationTicks <= 0 {
		return 0
	}
	return float64(p.PositionTicks) / float64(p.DurationTicks) * 100
}

// DeviceInfo is one row of a device scan
type DeviceInfo struct {
	ID           string
	Name         string
	Client       string
	Controllable bool
	Current      bool // Matches the configured device target
}

// DiscoveryRows groups the request service's discovery sections
type DiscoveryRows struct {
	TrendingMovies []RequestRecord
	TrendingSeries []RequestRecord
	PopularMixed   []RequestRecord
}
