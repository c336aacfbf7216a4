package engine

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	videoIDRE = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:.*&)?v=|shorts/)|youtu\.be/)([a-zA-Z0-9_-]+)`)
	linkRE    = regexp.MustCompile(`https?://[^\s]+`)
)

// ExtractVideoID pulls the video ID from any YouTube URL shape — watch URL,
// youtu.be short link, or shorts URL — tolerating trailing query parameters.
// Returns "" when the URL carries no recognizable ID.
func ExtractVideoID(rawURL string) string {
	m := videoIDRE.FindStringSubmatch(rawURL)
	if len(m) >= 2 {
		return m[1]
	}
	return ""
}

// ExtractLinks returns every absolute http(s) URL in a description,
// comma-joined in order of appearance, or "None" when there are none.
func ExtractLinks(description string) string {
	links := linkRE.FindAllString(description, -1)
	if len(links) == 0 {
		return "None"
	}
	return strings.Join(links, ", ")
}

// WatchURL synthesizes the canonical long-form URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// ShortsURL synthesizes the short-form URL for a video ID.
func ShortsURL(videoID string) string {
	return "https://www.youtube.com/shorts/" + videoID
}

// TimeAgo renders an ISO publish timestamp (2006-01-02T15:04:05Z) as a
// coarse relative-age label: the largest nonzero calendar unit wins
// ("1 year ago", "2 days ago"), or "Today" when under a minute.
// Unparseable input is returned verbatim.
func TimeAgo(publishedAt string, now time.Time) string {
	published, err := time.Parse("2006-01-02T15:04:05Z", publishedAt)
	if err != nil {
		return publishedAt
	}
	now = now.UTC()

	years := now.Year() - published.Year()
	months := int(now.Month()) - int(published.Month())
	days := now.Day() - published.Day()
	hours := now.Hour() - published.Hour()
	minutes := now.Minute() - published.Minute()

	// Borrow down the chain so every component is non-negative.
	if minutes < 0 {
		minutes += 60
		hours--
	}
	if hours < 0 {
		hours += 24
		days--
	}
	if days < 0 {
		// Days in the month preceding `now`.
		firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		days += firstOfMonth.AddDate(0, 0, -1).Day()
		months--
	}
	if months < 0 {
		months += 12
		years--
	}

	switch {
	case years > 0:
		return plural(years, "year")
	case months > 0:
		return plural(months, "month")
	case days > 0:
		return plural(days, "day")
	case hours > 0:
		return plural(hours, "hour")
	case minutes > 0:
		return plural(minutes, "minute")
	}
	return "Today"
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
