package matching

import "sort"

func SortByScore(items []MatchedJob) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
}

func FilterMinScore(items []MatchedJob, minScore int) []MatchedJob {
	out := make([]MatchedJob, 0, len(items))
	for _, it := range items {
		if it.Score < minScore {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Paginate returns a copy of items[offset:offset+limit]. A non-positive limit
// returns everything after offset.
func Paginate(items []MatchedJob, limit, offset int) []MatchedJob {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []MatchedJob{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]MatchedJob, end-offset)
	copy(out, items[offset:end])
	return out
}
