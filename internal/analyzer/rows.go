package analyzer

import "fmt"

// colIndex maps column names to positions for one validated header.
type colIndex map[string]int

// indexColumns validates that every required column is present in the
// header, returning a name→position index. Validation happens once per
// table load so row access never hits a bad index mid-table.
func indexColumns(header, required []string) (colIndex, error) {
	idx := make(colIndex, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("required column missing: %s", name)
		}
	}
	return idx, nil
}

// cell reads a named column from a row, tolerating short rows.
func (c colIndex) cell(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// LedgerRow is one decoded row of the cross-run ledger.
type LedgerRow struct {
	Date     string
	Keyword  string
	Type     string
	Rank     string
	Title    string
	Channel  string
	URL      string
	Views    string
	Likes    string
	Comments string
}

// DecodeLedger validates the ledger header and decodes every data row.
// Input includes the header row; output does not.
func DecodeLedger(rows [][]string) ([]LedgerRow, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	idx, err := indexColumns(rows[0], LedgerHeader)
	if err != nil {
		return nil, fmt.Errorf("ledger: %w", err)
	}

	out := make([]LedgerRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, LedgerRow{
			Date:     idx.cell(row, "Date"),
			Keyword:  idx.cell(row, "Keyword"),
			Type:     idx.cell(row, "Type"),
			Rank:     idx.cell(row, "Rank"),
			Title:    idx.cell(row, "Title"),
			Channel:  idx.cell(row, "Channel"),
			URL:      idx.cell(row, "Video URL"),
			Views:    idx.cell(row, "Views"),
			Likes:    idx.cell(row, "Likes"),
			Comments: idx.cell(row, "Comments"),
		})
	}
	return out, nil
}

// Cells renders a ledger row back into the positional LedgerHeader shape.
func (r LedgerRow) Cells() []string {
	return []string{
		r.Date, r.Keyword, r.Type, r.Rank, r.Title,
		r.Channel, r.URL, r.Views, r.Likes, r.Comments,
	}
}
