// Package analyzer derives day-over-day analytics from persisted rank
// snapshots: the daily summary, rank movement against the previous observed
// date, and the tracked-brand allow-list filter.
package analyzer

// Tab naming convention: date-suffixed tabs per run, stable names for
// cross-run aggregation.
const (
	// KeywordsTab holds the keyword list in its first column, header row 1.
	KeywordsTab = "Keywords"
	// LedgerTab accumulates tracked-brand rank rows across runs.
	// Append-only — never cleared, unlike the per-run tabs.
	LedgerTab = "Wakefit_Daily_Ranks"
	// RegistryTab lists the tracked videos, one per row, with their long-form
	// and short-form URLs.
	RegistryTab = "Wakefit_Videos"
)

// ShortsTab names the per-run short-form tab for a date.
func ShortsTab(date string) string { return "Shorts_" + date }

// VideosTab names the per-run long-form tab for a date.
func VideosTab(date string) string { return "Videos_" + date }

// SummaryTab names the per-date summary tab.
func SummaryTab(date string) string { return "Summary_" + date }

// MovementTab names the per-date movement tab.
func MovementTab(date string) string { return "Movement_" + date }

// Column contracts. The decoders in rows.go validate these once per table
// load; a missing column is a hard stop with a named diagnostic.
var (
	// RunHeader is the per-run tab layout (Shorts_<date>, Videos_<date>).
	RunHeader = []string{
		"Keyword_Sr_No", "Keyword", "Rank", "Title", "Channel",
		"Views", "Posted_Ago", "Type", "Video URL", "Description_Links",
	}

	// LedgerHeader is the cross-run ledger layout.
	LedgerHeader = []string{
		"Date", "Keyword", "Type", "Rank", "Title",
		"Channel", "Video URL", "Views", "Likes", "Comments",
	}

	// SummaryHeader is the per-date summary layout.
	SummaryHeader = []string{
		"Keyword", "Type", "Channel", "Title",
		"Video_URL", "Rank", "Views", "Likes", "Comments",
	}

	// MovementHeader is the per-date movement layout.
	MovementHeader = []string{
		"Keyword", "Type", "Channel", "Title", "Video_URL",
		"Today_Rank", "Prev_Date", "Prev_Rank", "Rank_Change",
		"Today_Views", "Today_Likes", "Today_Comments",
		"Prev_Views", "Prev_Likes", "Prev_Comments",
	}

	// registryURLColumns are the two registry columns IDs are recovered from.
	registryURLColumns = []string{"Video URL", "Shorts URL"}
)
