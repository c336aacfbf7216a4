package analyzer

import (
	"sort"
	"strconv"
)

// MovementRow compares one entity's rank between the two most recent
// observed dates. All figures stay in provider string units; RankChange is
// the signed prevRank−todayRank, or "" when either rank is non-numeric.
type MovementRow struct {
	Keyword       string
	Type          string
	Channel       string
	Title         string
	URL           string
	TodayRank     string
	PrevDate      string
	PrevRank      string
	RankChange    string
	TodayViews    string
	TodayLikes    string
	TodayComments string
	PrevViews     string
	PrevLikes     string
	PrevComments  string
}

// Cells renders the row in the positional MovementHeader shape.
func (m MovementRow) Cells() []string {
	return []string{
		m.Keyword, m.Type, m.Channel, m.Title, m.URL,
		m.TodayRank, m.PrevDate, m.PrevRank, m.RankChange,
		m.TodayViews, m.TodayLikes, m.TodayComments,
		m.PrevViews, m.PrevLikes, m.PrevComments,
	}
}

type movementKey struct {
	keyword string
	vtype   string
	url     string
}

// ComputeMovement diffs todayDate's ledger rows against the most recent
// prior observed date. Returns ok=false — an informational no-op, not an
// error — when todayDate is absent from the ledger or is the earliest date.
//
// The result is a strict inner join on (keyword, type, URL): entities seen
// only today (new entrants) or only previously (dropouts) produce no row.
// That is deliberate — this is an intersection report, not a full diff.
// Output order follows the first appearance of each key in today's rows.
func ComputeMovement(ledger []LedgerRow, todayDate string) (movement []MovementRow, ok bool) {
	dateSet := make(map[string]struct{})
	for _, r := range ledger {
		if r.Date != "" {
			dateSet[r.Date] = struct{}{}
		}
	}
	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	pos := -1
	for i, d := range dates {
		if d == todayDate {
			pos = i
			break
		}
	}
	if pos < 0 || pos == 0 {
		return nil, false
	}
	prevDate := dates[pos-1]

	todayMap := make(map[movementKey]LedgerRow)
	prevMap := make(map[movementKey]LedgerRow)
	var todayOrder []movementKey

	for _, r := range ledger {
		key := movementKey{r.Keyword, r.Type, r.URL}
		switch r.Date {
		case todayDate:
			if _, seen := todayMap[key]; !seen {
				todayOrder = append(todayOrder, key)
			}
			todayMap[key] = r
		case prevDate:
			prevMap[key] = r
		}
	}

	for _, key := range todayOrder {
		prev, found := prevMap[key]
		if !found {
			continue
		}
		today := todayMap[key]

		rankChange := ""
		if prevRank, err := strconv.Atoi(prev.Rank); err == nil {
			if todayRank, err := strconv.Atoi(today.Rank); err == nil {
				rankChange = strconv.Itoa(prevRank - todayRank)
			}
		}

		movement = append(movement, MovementRow{
			Keyword:       key.keyword,
			Type:          key.vtype,
			Channel:       today.Channel,
			Title:         today.Title,
			URL:           key.url,
			TodayRank:     today.Rank,
			PrevDate:      prevDate,
			PrevRank:      prev.Rank,
			RankChange:    rankChange,
			TodayViews:    today.Views,
			TodayLikes:    today.Likes,
			TodayComments: today.Comments,
			PrevViews:     prev.Views,
			PrevLikes:     prev.Likes,
			PrevComments:  prev.Comments,
		})
	}
	return movement, true
}
