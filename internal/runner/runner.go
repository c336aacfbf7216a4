// Package runner drives one collection run: keywords in, ranked snapshot
// tabs and ledger appends out.
package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wakefit-labs/ytrank/internal/analyzer"
	"github.com/wakefit-labs/ytrank/internal/engine"
	"github.com/wakefit-labs/ytrank/internal/store"
)

// Runner wires the collector to the tabular store.
type Runner struct {
	Store     store.TabularStore
	Collector *engine.Collector
}

// Run executes one full collection pass for the given date: reads the
// keyword list, resets the per-run tabs, collects and ranks every keyword,
// appends the snapshot rows, and appends tracked-brand rows to the ledger.
// Provider failures are terminal per keyword, never for the run.
func (r *Runner) Run(ctx context.Context, date string) error {
	keywords, err := r.loadKeywords(ctx)
	if err != nil {
		return err
	}
	if len(keywords) == 0 {
		slog.Warn("run: no keywords to process", slog.String("tab", analyzer.KeywordsTab))
		return nil
	}
	slog.Info("run: starting", slog.String("date", date), slog.Int("keywords", len(keywords)))

	tracked := r.loadTracked(ctx)

	shortsTab := analyzer.ShortsTab(date)
	videosTab := analyzer.VideosTab(date)
	if err := prepareRunTab(ctx, r.Store, shortsTab); err != nil {
		return fmt.Errorf("prepare %s: %w", shortsTab, err)
	}
	if err := prepareRunTab(ctx, r.Store, videosTab); err != nil {
		return fmt.Errorf("prepare %s: %w", videosTab, err)
	}
	if err := prepareLedgerTab(ctx, r.Store); err != nil {
		return fmt.Errorf("prepare %s: %w", analyzer.LedgerTab, err)
	}

	var succeeded, failed []string
	for kwIndex, keyword := range keywords {
		res := r.Collector.Collect(ctx, keyword)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if res.Failed() {
			failed = append(failed, keyword)
			r.pace(ctx)
			continue
		}
		succeeded = append(succeeded, keyword)

		if err := r.writeSnapshot(ctx, shortsTab, kwIndex+1, keyword, res.Shorts); err != nil {
			return err
		}
		if err := r.writeSnapshot(ctx, videosTab, kwIndex+1, keyword, res.Videos); err != nil {
			return err
		}
		if err := r.appendTrackedRows(ctx, date, keyword, res, tracked); err != nil {
			return err
		}
		r.pace(ctx)
	}

	slog.Info("run: summary",
		slog.String("date", date),
		slog.Int("succeeded", len(succeeded)),
		slog.Int("failed", len(failed)),
		slog.Any("failed_keywords", failed))
	fmt.Print(engine.FormatMetrics())
	return nil
}

// loadKeywords reads the first column of the keywords tab, skipping the
// header, trimmed and de-duplicated in order.
func (r *Runner) loadKeywords(ctx context.Context) ([]string, error) {
	rows, err := r.Store.GetAllRows(ctx, analyzer.KeywordsTab)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", analyzer.KeywordsTab, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	raw := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) > 0 {
			raw = append(raw, row[0])
		}
	}
	return engine.DedupeKeywords(raw), nil
}

// loadTracked builds the allow-list once per run. An absent registry or a
// registry schema error disables ledger tracking for this run but never
// aborts collection.
func (r *Runner) loadTracked(ctx context.Context) map[string]struct{} {
	rows, err := r.Store.GetAllRows(ctx, analyzer.RegistryTab)
	if err != nil {
		slog.Error("run: registry read failed, ledger tracking disabled", slog.Any("error", err))
		return nil
	}
	if len(rows) == 0 {
		slog.Info("run: no tracked-video registry, ledger tracking disabled",
			slog.String("tab", analyzer.RegistryTab))
		return nil
	}
	tracked, err := analyzer.TrackedIDs(rows)
	if err != nil {
		slog.Error("run: registry schema invalid, ledger tracking disabled", slog.Any("error", err))
		return nil
	}
	slog.Info("run: tracked registry loaded", slog.Int("ids", len(tracked)))
	return tracked
}

func (r *Runner) writeSnapshot(ctx context.Context, tab string, kwIndex int, keyword string, entries []engine.VideoEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = runRow(kwIndex, keyword, e)
	}
	if err := r.Store.AppendRows(ctx, tab, rows); err != nil {
		return fmt.Errorf("append %s for %q: %w", tab, keyword, err)
	}
	return nil
}

func (r *Runner) appendTrackedRows(ctx context.Context, date, keyword string, res engine.Result, tracked map[string]struct{}) error {
	if len(tracked) == 0 {
		return nil
	}
	candidates := make([]analyzer.LedgerRow, 0, len(res.Shorts)+len(res.Videos))
	for _, e := range res.Shorts {
		candidates = append(candidates, ledgerRow(date, keyword, e))
	}
	for _, e := range res.Videos {
		candidates = append(candidates, ledgerRow(date, keyword, e))
	}

	kept := analyzer.FilterTracked(candidates, tracked)
	if len(kept) == 0 {
		return nil
	}
	rows := make([][]string, len(kept))
	for i, lr := range kept {
		rows[i] = lr.Cells()
	}
	if err := r.Store.AppendRows(ctx, analyzer.LedgerTab, rows); err != nil {
		return fmt.Errorf("append %s for %q: %w", analyzer.LedgerTab, keyword, err)
	}
	slog.Info("run: tracked rows appended", slog.String("keyword", keyword), slog.Int("rows", len(rows)))
	return nil
}

// pace inserts the fixed inter-keyword delay.
func (r *Runner) pace(ctx context.Context) {
	if err := engine.Cfg.Pacer.Wait(ctx); err != nil {
		slog.Debug("run: pacing interrupted", slog.Any("error", err))
	}
}
