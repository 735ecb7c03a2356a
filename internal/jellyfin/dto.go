package jellyfin

// User represents a Jellyfin user
type User struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// ItemsResponse represents a paginated list of items from Jellyfin
type ItemsResponse struct {
	Items            []Item `json:"Items"`
	TotalRecordCount int    `json:"TotalRecordCount"`
	StartIndex       int    `json:"StartIndex"`
}

// Item represents a media item from Jellyfin (movie, series, season,
// episode or Live TV channel)
type Item struct {
	ID                string    `json:"Id"`
	Name              string    `json:"Name"`
	Type              string    `json:"Type"`
	SeriesID          string    `json:"SeriesId,omitempty"`
	SeriesName        string    `json:"SeriesName,omitempty"`
	SeasonID          string    `json:"SeasonId,omitempty"`
	ParentIndexNumber int       `json:"ParentIndexNumber,omitempty"` // Season number
	IndexNumber       int       `json:"IndexNumber,omitempty"`       // Episode number
	RunTimeTicks      int64     `json:"RunTimeTicks,omitempty"`      // Duration in 100-nanosecond units
	ChannelNumber     string    `json:"ChannelNumber,omitempty"`
	Width             int       `json:"Width,omitempty"`
	ImageTags         ImageTags `json:"ImageTags,omitempty"`
	PrimaryImageTag   string    `json:"PrimaryImageTag,omitempty"`
	UserData          *UserData `json:"UserData,omitempty"`
}

// ImageTags contains image tag IDs for various image types
type ImageTags struct {
	Primary string `json:"Primary,omitempty"`
}

// UserData contains user-specific data for an item (watch status, progress)
type UserData struct {
	Played                bool  `json:"Played"`
	PlaybackPositionTicks int64 `json:"PlaybackPositionTicks"`
	UnplayedItemCount     int   `json:"UnplayedItemCount"`
}

// Session represents one active session from /Sessions
type Session struct {
	ID                    string     `json:"Id"`
	DeviceID              string     `json:"DeviceId"`
	DeviceName            string     `json:"DeviceName"`
	Client                string     `json:"Client"`
	SupportsRemoteControl bool       `json:"SupportsRemoteControl"`
	NowPlayingItem        *Item      `json:"NowPlayingItem,omitempty"`
	PlayState             *PlayState `json:"PlayState,omitempty"`
}

// PlayState carries a session's transport state
type PlayState struct {
	IsPaused      bool  `json:"IsPaused"`
	PositionTicks int64 `json:"PositionTicks"`
}
