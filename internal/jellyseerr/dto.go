package jellyseerr

// Media status codes reported by Jellyseerr's mediaInfo payloads.
const (
	mediaStatusProcessing = 3
	mediaStatusPartial    = 4
	mediaStatusAvailable  = 5
)

// Request status codes on request records themselves.
const (
	requestStatusApproved = 2
)

// searchResponse wraps paginated result lists
type searchResponse struct {
	Results []result `json:"results"`
}

// result is one discovery or search candidate
type result struct {
	ID         int        `json:"id"`
	MediaType  string     `json:"mediaType"`
	Title      string     `json:"title"`
	Name       string     `json:"name"` // series results use name instead of title
	PosterPath string     `json:"posterPath"`
	MediaInfo  *mediaInfo `json:"mediaInfo"`
}

// mediaInfo carries library availability for a candidate or request
type mediaInfo struct {
	TmdbID     int    `json:"tmdbId"`
	Status     int    `json:"status"`
	Title      string `json:"title"`
	Name       string `json:"name"`
	PosterPath string `json:"posterPath"`
}

// requestsResponse wraps the /request listing
type requestsResponse struct {
	Results []requestRecord `json:"results"`
}

// requestRecord is one request row from /request
type requestRecord struct {
	ID     int       `json:"id"`
	Status int       `json:"status"`
	Type   string    `json:"type"`
	Media  mediaInfo `json:"media"`
}

// statusResponse is the /status payload
type statusResponse struct {
	Version string `json:"version"`
}
