package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// YouTube Data API v3 — paged keyword search plus batched detail lookup.

const ytDataAPIBase = "https://www.googleapis.com/youtube/v3"

// UserAgentBot identifies the tracker's own API traffic.
const UserAgentBot = "ytrank/1.0"

// Client talks to the YouTube Data API.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a YouTube Data API client using the engine HTTP client.
func NewClient() *Client {
	return &Client{base: ytDataAPIBase, http: Cfg.HTTPClient}
}

// NewClientWithBase is for tests that point the client at a local server.
func NewClientWithBase(base string, hc *http.Client) *Client {
	return &Client{base: base, http: hc}
}

// apiError is the explicit error payload the Data API returns in place of
// results. The collector treats it as fatal for the current keyword.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("youtube API error %d: %s", e.Code, e.Message)
}

// --- wire types ---

type ytSearchResp struct {
	Error         *apiError      `json:"error"`
	NextPageToken string         `json:"nextPageToken"`
	Items         []ytSearchItem `json:"items"`
}

type ytSearchItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
}

type ytVideosResp struct {
	Error *apiError     `json:"error"`
	Items []ytVideoItem `json:"items"`
}

type ytVideoItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title        string `json:"title"`
		ChannelTitle string `json:"channelTitle"`
		Description  string `json:"description"`
		PublishedAt  string `json:"publishedAt"`
	} `json:"snippet"`
	Statistics struct {
		ViewCount    string `json:"viewCount"`
		LikeCount    string `json:"likeCount"`
		CommentCount string `json:"commentCount"`
	} `json:"statistics"`
}

// SearchPage fetches one page of keyword search results, regionally scoped,
// returning candidate IDs in provider relevance order.
// Falls back to the secondary API key on an explicit API error (quota).
func (c *Client) SearchPage(ctx context.Context, keyword, pageToken string) (SearchPage, error) {
	IncrSearchRequests()

	var lastErr error
	for _, key := range apiKeys() {
		page, err := c.searchWithKey(ctx, keyword, pageToken, key)
		if err == nil {
			return page, nil
		}
		lastErr = err
		slog.Debug("youtube search key failed, trying fallback", slog.Any("error", err))
	}
	return SearchPage{}, lastErr
}

func (c *Client) searchWithKey(ctx context.Context, keyword, pageToken, key string) (SearchPage, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", keyword)
	params.Set("type", "video")
	params.Set("maxResults", fmt.Sprintf("%d", Cfg.PageSize))
	params.Set("regionCode", Cfg.Region)
	params.Set("key", key)
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var result ytSearchResp
	if err := c.getJSON(ctx, c.base+"/search?"+params.Encode(), &result); err != nil {
		return SearchPage{}, fmt.Errorf("youtube search: %w", err)
	}
	if result.Error != nil {
		return SearchPage{}, fmt.Errorf("youtube search: %w", result.Error)
	}

	page := SearchPage{NextPageToken: result.NextPageToken}
	for _, item := range result.Items {
		if item.ID.VideoID == "" {
			continue
		}
		page.IDs = append(page.IDs, item.ID.VideoID)
	}
	return page, nil
}

// VideoDetails batch-fetches snippet + statistics for the given IDs in one
// call. The response is keyed by ID — the provider may reorder or omit
// entries, so callers must iterate their own ID order.
func (c *Client) VideoDetails(ctx context.Context, ids []string) (map[string]VideoDetail, error) {
	IncrDetailRequests()

	var lastErr error
	for _, key := range apiKeys() {
		details, err := c.detailsWithKey(ctx, ids, key)
		if err == nil {
			return details, nil
		}
		lastErr = err
		slog.Debug("youtube details key failed, trying fallback", slog.Any("error", err))
	}
	return nil, lastErr
}

func (c *Client) detailsWithKey(ctx context.Context, ids []string, key string) (map[string]VideoDetail, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("id", strings.Join(ids, ","))
	params.Set("key", key)

	var result ytVideosResp
	if err := c.getJSON(ctx, c.base+"/videos?"+params.Encode(), &result); err != nil {
		return nil, fmt.Errorf("youtube videos: %w", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("youtube videos: %w", result.Error)
	}

	details := make(map[string]VideoDetail, len(result.Items))
	for _, item := range result.Items {
		views := item.Statistics.ViewCount
		if views == "" {
			views = "N/A"
		}
		details[item.ID] = VideoDetail{
			Title:       orDefault(item.Snippet.Title, "Untitled"),
			Channel:     orDefault(item.Snippet.ChannelTitle, "Unknown Channel"),
			Description: item.Snippet.Description,
			Views:       views,
			Likes:       orDefault(item.Statistics.LikeCount, "N/A"),
			Comments:    orDefault(item.Statistics.CommentCount, "N/A"),
			PublishedAt: item.Snippet.PublishedAt,
		}
	}
	return details, nil
}

func (c *Client) getJSON(ctx context.Context, apiURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", UserAgentBot)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8*1024*1024))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	// Decode even on non-200: the Data API carries its diagnostic in the
	// error payload, which callers surface verbatim.
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	return nil
}

func apiKeys() []string {
	keys := []string{Cfg.APIKey}
	if Cfg.APIKeyFallback != "" {
		keys = append(keys, Cfg.APIKeyFallback)
	}
	return keys
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
