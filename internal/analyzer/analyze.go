package analyzer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wakefit-labs/ytrank/internal/store"
)

// Analyze builds the Summary_<date> and Movement_<date> tabs from the
// ledger. The two steps are independent: a schema or store failure in one is
// logged and does not abort the other. Empty data is an informational no-op.
func Analyze(ctx context.Context, st store.TabularStore, date string) error {
	rows, err := st.GetAllRows(ctx, LedgerTab)
	if err != nil {
		return fmt.Errorf("read %s: %w", LedgerTab, err)
	}
	if len(rows) <= 1 {
		slog.Info("analyze: no ledger data, nothing to build", slog.String("tab", LedgerTab))
		return nil
	}

	ledger, err := DecodeLedger(rows)
	if err != nil {
		return fmt.Errorf("%s: %w", LedgerTab, err)
	}

	if err := buildSummaryTab(ctx, st, ledger, date); err != nil {
		slog.Error("analyze: summary step failed", slog.String("date", date), slog.Any("error", err))
	}
	if err := buildMovementTab(ctx, st, ledger, date); err != nil {
		slog.Error("analyze: movement step failed", slog.String("date", date), slog.Any("error", err))
	}
	return nil
}

func buildSummaryTab(ctx context.Context, st store.TabularStore, ledger []LedgerRow, date string) error {
	summary := BuildSummary(ledger, date)
	if len(summary) == 0 {
		slog.Info("analyze: no tracked rankings for date, skipping summary", slog.String("date", date))
		return nil
	}

	tab := SummaryTab(date)
	if err := writeTab(ctx, st, tab, SummaryHeader, summary); err != nil {
		return err
	}
	slog.Info("analyze: summary built", slog.String("tab", tab), slog.Int("rows", len(summary)))
	return nil
}

func buildMovementTab(ctx context.Context, st store.TabularStore, ledger []LedgerRow, date string) error {
	movement, ok := ComputeMovement(ledger, date)
	if !ok {
		slog.Info("analyze: no previous date to compare with", slog.String("date", date))
		return nil
	}
	if len(movement) == 0 {
		slog.Info("analyze: no overlapping videos for movement", slog.String("date", date))
		return nil
	}

	rows := make([][]string, len(movement))
	for i, m := range movement {
		rows[i] = m.Cells()
	}
	tab := MovementTab(date)
	if err := writeTab(ctx, st, tab, MovementHeader, rows); err != nil {
		return err
	}
	slog.Info("analyze: movement built", slog.String("tab", tab), slog.Int("rows", len(rows)))
	return nil
}

// writeTab rebuilds a derived tab from scratch: ensure, clear, header, rows.
func writeTab(ctx context.Context, st store.TabularStore, tab string, header []string, rows [][]string) error {
	if err := st.EnsureTab(ctx, tab); err != nil {
		return err
	}
	if err := st.Clear(ctx, tab); err != nil {
		return err
	}
	if err := st.WriteHeader(ctx, tab, header); err != nil {
		return err
	}
	return st.AppendRows(ctx, tab, rows)
}
