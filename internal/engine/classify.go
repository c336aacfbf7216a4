package engine

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Classifier resolves whether a video ID is a short-form or long-form asset
// by probing the shorts URL and watching where the redirect lands.
//
// Probe outcomes are cached: L1 in-memory, optional L2 Redis so repeat runs
// skip the probe entirely. A video's surface never changes, so entries get a
// generous TTL. The run is strictly sequential, so L1 needs no locking.
type Classifier struct {
	http *http.Client
	l1   map[string]Classification
	rdb  *redis.Client // nil = L2 disabled
	ttl  time.Duration
	// probeBase overrides the platform host in tests.
	probeBase string
}

// Classification is the definite outcome of classifying a video ID.
type Classification struct {
	Type VideoType
	URL  string
}

// NewClassifier creates a classifier with its own redirect-following client
// bounded by the probe timeout. redisURL may be empty to disable L2.
func NewClassifier(redisURL string) *Classifier {
	c := &Classifier{
		http: &http.Client{Timeout: Cfg.ProbeTimeout},
		l1:   make(map[string]Classification),
		ttl:  7 * 24 * time.Hour,
	}
	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			slog.Warn("classifier: invalid redis URL, L2 disabled", slog.Any("error", err))
			return c
		}
		rdb := redis.NewClient(opts)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("classifier: redis unreachable, L2 disabled", slog.Any("error", err))
		} else {
			c.rdb = rdb
			slog.Info("classifier: L2 redis connected", slog.String("addr", opts.Addr))
		}
	}
	return c
}

// Classify resolves the type and canonical URL for a video ID.
// Policy: any probe failure — timeout, transport error, non-matching
// redirect — falls back to the long-form classification with a synthesized
// watch URL. Classification always terminates with a definite type.
func (c *Classifier) Classify(ctx context.Context, videoID string) Classification {
	if cached, ok := c.cacheGet(ctx, videoID); ok {
		IncrProbeCacheHits()
		return cached
	}

	result, err := c.probe(ctx, videoID)
	if err != nil {
		IncrProbeFailures()
		slog.Debug("classifier: probe failed, defaulting to Video",
			slog.String("id", videoID), slog.Any("error", err))
		result = Classification{Type: TypeVideo, URL: WatchURL(videoID)}
	}

	c.cacheSet(ctx, videoID, result)
	return result
}

// probe issues a redirect-following HEAD against the shorts URL. If the
// final resolved URL still contains the shorts path segment the video is a
// Short; a redirect elsewhere means long-form.
func (c *Classifier) probe(ctx context.Context, videoID string) (Classification, error) {
	IncrProbeRequests()

	probeURL := ShortsURL(videoID)
	if c.probeBase != "" {
		probeURL = c.probeBase + "/shorts/" + videoID
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, probeURL, nil)
	if err != nil {
		return Classification{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return Classification{}, err
	}
	resp.Body.Close()

	final := resp.Request.URL.String()
	if strings.Contains(strings.ToLower(final), "/shorts/") {
		return Classification{Type: TypeShort, URL: final}, nil
	}
	return Classification{Type: TypeVideo, URL: WatchURL(videoID)}, nil
}

func (c *Classifier) cacheGet(ctx context.Context, videoID string) (Classification, bool) {
	if cached, ok := c.l1[videoID]; ok {
		return cached, true
	}
	if c.rdb != nil {
		val, err := c.rdb.Get(ctx, probeKey(videoID)).Result()
		if err == nil {
			if cls, ok := decodeProbe(val); ok {
				c.l1[videoID] = cls
				return cls, true
			}
		}
	}
	return Classification{}, false
}

func (c *Classifier) cacheSet(ctx context.Context, videoID string, cls Classification) {
	c.l1[videoID] = cls
	if c.rdb != nil {
		if err := c.rdb.Set(ctx, probeKey(videoID), string(cls.Type)+"|"+cls.URL, c.ttl).Err(); err != nil {
			slog.Debug("classifier: L2 set failed", slog.Any("error", err))
		}
	}
}

func probeKey(videoID string) string {
	return "ytrank:probe:" + videoID
}

func decodeProbe(val string) (Classification, bool) {
	typ, url, ok := strings.Cut(val, "|")
	if !ok || url == "" {
		return Classification{}, false
	}
	switch VideoType(typ) {
	case TypeShort, TypeVideo:
		return Classification{Type: VideoType(typ), URL: url}, true
	}
	return Classification{}, false
}
