// Package store abstracts the tabular sink the tracker persists into.
// Production runs write a Google Sheet; local runs and tests use the SQLite
// or in-memory backends behind the same interface.
package store

import "context"

// TabularStore is a named-tab table store. Rows are positional string
// cells; row 1 is the header.
type TabularStore interface {
	// GetAllRows returns every row of a tab including the header.
	// A missing tab yields (nil, nil) — absence is informational, not fatal.
	GetAllRows(ctx context.Context, tab string) ([][]string, error)
	// EnsureTab creates the tab when absent.
	EnsureTab(ctx context.Context, tab string) error
	// Clear removes all rows from a tab.
	Clear(ctx context.Context, tab string) error
	// WriteHeader sets row 1.
	WriteHeader(ctx context.Context, tab string, header []string) error
	// AppendRows appends after the last non-empty row.
	AppendRows(ctx context.Context, tab string, rows [][]string) error
}
