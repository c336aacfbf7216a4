package analyzer

// BuildSummary projects one date's ledger rows into the SummaryHeader shape,
// in ledger order. An empty result means the date had no tracked rankings.
func BuildSummary(ledger []LedgerRow, date string) [][]string {
	var out [][]string
	for _, r := range ledger {
		if r.Date != date {
			continue
		}
		out = append(out, []string{
			r.Keyword, r.Type, r.Channel, r.Title,
			r.URL, r.Rank, r.Views, r.Likes, r.Comments,
		})
	}
	return out
}
