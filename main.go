// ytrank — keyword rank tracker for YouTube.
//
// Each run searches the configured keyword list, classifies results into
// shorts and long-form videos, writes ranked per-date snapshot tabs, appends
// tracked-brand rows to the cross-run ledger, and derives the daily summary
// and rank-movement tabs.
//
// Runs against a Google Sheet when SHEET_ID is set, otherwise a local
// SQLite store.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/wakefit-labs/ytrank/internal/analyzer"
	"github.com/wakefit-labs/ytrank/internal/engine"
	"github.com/wakefit-labs/ytrank/internal/envutil"
	"github.com/wakefit-labs/ytrank/internal/runner"
	"github.com/wakefit-labs/ytrank/internal/store"
)

func main() {
	var (
		collectFlag = flag.Bool("collect", false, "collect keyword rankings and exit")
		analyzeFlag = flag.Bool("analyze", false, "build summary and movement tabs and exit")
		dateFlag    = flag.String("date", "", "run date (YYYY-MM-DD), default today UTC")
		everyFlag   = flag.Duration("every", 0, "re-run on this interval instead of exiting")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", slog.Any("error", err))
	}
	initEngine()

	apiKey := envutil.Str("YT_API_KEY", "")
	if apiKey == "" && !justAnalyze(*collectFlag, *analyzeFlag) {
		slog.Error("YT_API_KEY is required")
		os.Exit(1)
	}

	ctx := context.Background()
	st, err := openStore(ctx)
	if err != nil {
		slog.Error("store init failed", slog.Any("error", err))
		os.Exit(1)
	}

	run := func() {
		date := *dateFlag
		if date == "" {
			date = time.Now().UTC().Format("2006-01-02")
		}
		// Default with no mode flags: collect, then analyze.
		doCollect := *collectFlag || !*analyzeFlag
		doAnalyze := *analyzeFlag || !*collectFlag

		if doCollect {
			r := &runner.Runner{
				Store: st,
				Collector: &engine.Collector{
					Provider:   engine.NewClient(),
					Classifier: engine.NewClassifier(envutil.Str("REDIS_URL", "")),
				},
			}
			if err := r.Run(ctx, date); err != nil {
				slog.Error("collect run failed", slog.String("date", date), slog.Any("error", err))
				return
			}
		}
		if doAnalyze {
			if err := analyzer.Analyze(ctx, st, date); err != nil {
				slog.Error("analysis failed", slog.String("date", date), slog.Any("error", err))
			}
		}
	}

	run()
	if *everyFlag <= 0 {
		return
	}

	slog.Info("daemon mode", slog.Duration("every", *everyFlag))
	ticker := time.NewTicker(*everyFlag)
	defer ticker.Stop()
	for range ticker.C {
		run()
	}
}

func initEngine() {
	engine.Init(engine.Config{
		APIKey:         envutil.Str("YT_API_KEY", ""),
		APIKeyFallback: envutil.Str("YT_API_KEY_FALLBACK", ""),
		Region:         envutil.Str("YT_REGION", "IN"),
		TargetPerType:  envutil.Int("TARGET_PER_TYPE", 10),
		MaxPages:       envutil.Int("MAX_PAGES", 5),
		PageSize:       envutil.Int("PAGE_SIZE", 50),
		CallDelay:      envutil.Duration("CALL_DELAY", 2*time.Second),
		ProbeTimeout:   envutil.Duration("PROBE_TIMEOUT", 5*time.Second),
	})
}

// openStore picks the backend: Google Sheets when SHEET_ID is set, local
// SQLite otherwise. A configured sheet without credentials is a
// configuration error — fatal before any work.
func openStore(ctx context.Context) (store.TabularStore, error) {
	if sheetID := envutil.Str("SHEET_ID", ""); sheetID != "" {
		creds := envutil.Str("GOOGLE_CREDENTIALS_FILE", "service_account.json")
		return store.NewSheetsStore(ctx, creds, sheetID)
	}
	path := envutil.Str("SQLITE_PATH", "")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".ytrank", "ranks.db")
	}
	return store.OpenSQLiteStore(path)
}

// justAnalyze reports whether this invocation never touches the provider.
func justAnalyze(collect, analyze bool) bool {
	return analyze && !collect
}
