package engine

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	APIKey         string
	APIKeyFallback string

	// Region scopes searches geographically (regionCode param).
	Region string

	// TargetPerType is how many ranked entries each bucket (shorts, videos)
	// should reach before collection for a keyword stops.
	TargetPerType int
	MaxPages      int
	PageSize      int

	// CallDelay is the fixed pause between provider calls — between search
	// pages and between keywords. Self-imposed quota protection, not a
	// reaction to any rate-limit signal.
	CallDelay time.Duration

	ProbeTimeout time.Duration

	HTTPClient *http.Client

	// Pacer enforces CallDelay. Set by Init when nil.
	Pacer *rate.Limiter
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages.
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
// Zero-valued knobs fall back to the defaults the production sheet runs with.
func Init(c Config) {
	if c.TargetPerType <= 0 {
		c.TargetPerType = 10
	}
	if c.MaxPages <= 0 {
		c.MaxPages = 5
	}
	if c.PageSize <= 0 || c.PageSize > 50 {
		c.PageSize = 50
	}
	if c.Region == "" {
		c.Region = "IN"
	}
	if c.CallDelay <= 0 {
		c.CallDelay = 2 * time.Second
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = 5 * time.Second
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if c.Pacer == nil {
		c.Pacer = rate.NewLimiter(rate.Every(c.CallDelay), 1)
	}
	cfg = c
	Cfg = &cfg
}
