package runner

import (
	"context"
	"strconv"

	"github.com/wakefit-labs/ytrank/internal/analyzer"
	"github.com/wakefit-labs/ytrank/internal/engine"
	"github.com/wakefit-labs/ytrank/internal/store"
)

// runRow serializes one entry into the per-run tab shape, tagged with the
// keyword index and text so a keyword's rows form a labeled block.
func runRow(kwIndex int, keyword string, e engine.VideoEntry) []string {
	return []string{
		strconv.Itoa(kwIndex),
		keyword,
		strconv.Itoa(e.Rank),
		e.Title,
		e.Channel,
		e.Views,
		e.PostedAgo,
		string(e.Type),
		e.URL,
		e.Links,
	}
}

// ledgerRow projects one entry into the cross-run ledger shape for a date.
func ledgerRow(date, keyword string, e engine.VideoEntry) analyzer.LedgerRow {
	return analyzer.LedgerRow{
		Date:     date,
		Keyword:  keyword,
		Type:     string(e.Type),
		Rank:     strconv.Itoa(e.Rank),
		Title:    e.Title,
		Channel:  e.Channel,
		URL:      e.URL,
		Views:    e.Views,
		Likes:    e.Likes,
		Comments: e.Comments,
	}
}

// prepareRunTab resets a per-run tab for today's snapshot: created if
// absent, then cleared and re-headered. Runs are idempotent snapshots, not
// incremental updates.
func prepareRunTab(ctx context.Context, st store.TabularStore, tab string) error {
	if err := st.EnsureTab(ctx, tab); err != nil {
		return err
	}
	if err := st.Clear(ctx, tab); err != nil {
		return err
	}
	return st.WriteHeader(ctx, tab, analyzer.RunHeader)
}

// prepareLedgerTab creates the ledger and writes its header when the tab is
// new. Existing rows are never touched — the ledger is append-only.
func prepareLedgerTab(ctx context.Context, st store.TabularStore) error {
	if err := st.EnsureTab(ctx, analyzer.LedgerTab); err != nil {
		return err
	}
	rows, err := st.GetAllRows(ctx, analyzer.LedgerTab)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return st.WriteHeader(ctx, analyzer.LedgerTab, analyzer.LedgerHeader)
	}
	return nil
}
