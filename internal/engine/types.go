package engine

// VideoType partitions results into the platform's two video surfaces.
type VideoType string

const (
	TypeShort VideoType = "Short"
	TypeVideo VideoType = "Video"
)

// VideoEntry is one ranked search result for a keyword.
// Counts stay in provider units (strings); "N/A" marks an absent statistic.
type VideoEntry struct {
	ID        string
	Title     string
	Channel   string
	Views     string
	Likes     string
	Comments  string
	PostedAgo string
	Type      VideoType
	URL       string
	// Links is every absolute http(s) URL found in the description,
	// comma-joined in order, or "None".
	Links string
	// Rank is 1-based within the entry's bucket, assigned once the final
	// truncated list is known.
	Rank int
}

// SearchPage is one page of keyword search results: candidate video IDs in
// provider relevance order plus the continuation token, empty when the
// provider has no further pages.
type SearchPage struct {
	IDs           []string
	NextPageToken string
}

// VideoDetail carries the snippet + statistics fields the collector needs
// for a single video.
type VideoDetail struct {
	Title       string
	Channel     string
	Description string
	Views       string
	Likes       string
	Comments    string
	PublishedAt string
}
