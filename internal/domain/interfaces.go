package domain

import "context"

// TransportCommand is a remote playback transport verb
type TransportCommand string

const (
	CmdPlayPause TransportCommand = "playpause"
	CmdStop      TransportCommand = "stop"
	CmdNext      TransportCommand = "next"
	CmdPrev      TransportCommand = "prev"
	CmdSeek      TransportCommand = "seek"
	CmdVolume    TransportCommand = "volume"
)

// CatalogClient is the read/command interface to the media library and
// playback service.
type CatalogClient interface {
	// Items returns recent-first catalog items of one kind, capped at
	// the client's page size.
	Items(ctx context.Context, kind MediaKind) ([]MediaItem, error)

	// Seasons returns the seasons of a series in index order.
	Seasons(ctx context.Context, seriesID string) ([]MediaItem, error)

	// Episodes returns the episodes of one season of a series.
	Episodes(ctx context.Context, seriesID, seasonID string) ([]MediaItem, error)

	// Channels returns the full Live TV channel collection.
	Channels(ctx context.Context) ([]MediaItem, error)

	// Sessions returns all currently active remote sessions.
	Sessions(ctx context.Context) ([]RemoteSession, error)

	// Play issues a play-now command for an item on a session.
	Play(ctx context.Context, sessionID, itemID string) error

	// Stop halts playback on a session.
	Stop(ctx context.Context, sessionID string) error

	// Command issues a transport command. value carries the seek
	// position in ticks or the volume level; it is ignored otherwise.
	Command(ctx context.Context, sessionID string, cmd TransportCommand, value int64) error

	// ImageURL resolves the primary image URL for an item, or empty
	// when the item has no image tag.
	ImageURL(itemID, tag string) string
}

// RequestClient is the read/write interface to the discovery and
// request service.
type RequestClient interface {
	// Search returns request candidates for a free-text query.
	Search(ctx context.Context, query string) ([]RequestRecord, error)

	// Discover returns the grouped discovery rows.
	Discover(ctx context.Context) (DiscoveryRows, error)

	// Requests returns the current request records, newest first.
	Requests(ctx context.Context) ([]RequestRecord, error)

	// Submit files a new request for a media identity.
	Submit(ctx context.Context, mediaID int, mediaKind string) error

	// Status pings the service and returns its reported version.
	Status(ctx context.Context) (string, error)
}
