package engine

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// SearchProvider is the paged keyword-search collaborator.
type SearchProvider interface {
	SearchPage(ctx context.Context, keyword, pageToken string) (SearchPage, error)
	VideoDetails(ctx context.Context, ids []string) (map[string]VideoDetail, error)
}

// VideoClassifier resolves a video ID to its surface and canonical URL.
type VideoClassifier interface {
	Classify(ctx context.Context, videoID string) Classification
}

// Collector drives paginated keyword search, applies the classifier, and
// returns two rank-capped lists per keyword.
type Collector struct {
	Provider   SearchProvider
	Classifier VideoClassifier
	// Now supplies the reference time for relative-age labels.
	// Defaults to time.Now; fixed in tests.
	Now func() time.Time
}

// Result is the outcome of collecting one keyword.
type Result struct {
	Keyword string
	Shorts  []VideoEntry
	Videos  []VideoEntry
	// Err is set when a provider call failed. Entries gathered before the
	// failure are kept — the error is terminal for the keyword, not the run.
	Err error
}

// Failed reports whether the keyword produced no usable entries at all.
func (r Result) Failed() bool {
	return len(r.Shorts) == 0 && len(r.Videos) == 0
}

// Collect gathers up to TargetPerType shorts and TargetPerType videos for a
// keyword. Pages while either bucket is short of target and pages remain,
// honoring the fixed inter-call delay. Entries are bucketed in provider
// relevance order; dense 1-based ranks are assigned per bucket once the
// final truncated lists are known.
func (c *Collector) Collect(ctx context.Context, keyword string) Result {
	keyword = strings.TrimSpace(keyword)
	res := Result{Keyword: keyword}
	if keyword == "" {
		slog.Warn("collector: skipping blank keyword")
		return res
	}

	target := Cfg.TargetPerType
	pageToken := ""
	pagesChecked := 0

	for pagesChecked < Cfg.MaxPages && (len(res.Shorts) < target || len(res.Videos) < target) {
		pagesChecked++

		page, err := c.Provider.SearchPage(ctx, keyword, pageToken)
		if err != nil {
			slog.Error("collector: search failed",
				slog.String("keyword", keyword), slog.Int("page", pagesChecked), slog.Any("error", err))
			res.Err = err
			break
		}
		if len(page.IDs) == 0 {
			slog.Warn("collector: no results on page",
				slog.String("keyword", keyword), slog.Int("page", pagesChecked))
			break
		}

		details, err := c.Provider.VideoDetails(ctx, page.IDs)
		if err != nil {
			slog.Error("collector: detail fetch failed",
				slog.String("keyword", keyword), slog.Int("page", pagesChecked), slog.Any("error", err))
			res.Err = err
			break
		}

		// Iterate the search order, not the detail-response order: the
		// detail batch is an unordered map that may omit entries, and the
		// provider's relevance order is what "rank" means here.
		for _, id := range page.IDs {
			if len(res.Shorts) >= target && len(res.Videos) >= target {
				break
			}
			detail, ok := details[id]
			if !ok {
				continue
			}

			entry := c.buildEntry(ctx, id, detail)
			if entry.Type == TypeShort {
				if len(res.Shorts) < target {
					res.Shorts = append(res.Shorts, entry)
				}
			} else if len(res.Videos) < target {
				res.Videos = append(res.Videos, entry)
			}
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
		if err := Cfg.Pacer.Wait(ctx); err != nil {
			res.Err = err
			break
		}
	}

	for i := range res.Shorts {
		res.Shorts[i].Rank = i + 1
	}
	for i := range res.Videos {
		res.Videos[i].Rank = i + 1
	}

	slog.Info("collector: keyword done",
		slog.String("keyword", keyword),
		slog.Int("shorts", len(res.Shorts)),
		slog.Int("videos", len(res.Videos)),
		slog.Int("pages", pagesChecked))
	return res
}

func (c *Collector) buildEntry(ctx context.Context, id string, detail VideoDetail) VideoEntry {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	cls := c.Classifier.Classify(ctx, id)
	return VideoEntry{
		ID:        id,
		Title:     detail.Title,
		Channel:   detail.Channel,
		Views:     detail.Views,
		Likes:     detail.Likes,
		Comments:  detail.Comments,
		PostedAgo: TimeAgo(detail.PublishedAt, now()),
		Type:      cls.Type,
		URL:       cls.URL,
		Links:     ExtractLinks(detail.Description),
	}
}

// DedupeKeywords trims and de-duplicates keywords, preserving first-seen
// order. Blank entries are dropped.
func DedupeKeywords(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, kw := range raw {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}
