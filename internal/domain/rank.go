package domain

// RankedEntry is a leaderboard row annotated with its competition rank.
type RankedEntry struct {
	Rank  int
	Entry UserScore
}

// AssignCompetitionRanks annotates a page of entries, already sorted by
// score descending, with competition ranks: tied scores share a rank and the
// sequence skips after a tie ([50 50 40] → [1 1 3]).
//
// offset is the number of entries that precede the page in the full ordering;
// greaterThanFirst is the count of users whose score strictly exceeds the
// first entry's score, which anchors the page when it starts mid-tie.
func AssignCompetitionRanks(entries []UserScore, offset, greaterThanFirst int) []RankedEntry {
	ranked := make([]RankedEntry, 0, len(entries))
	for i, entry := range entries {
		rank := 0
		switch {
		case i == 0:
			rank = greaterThanFirst + 1
		case entry.Score == entries[i-1].Score:
			rank = ranked[i-1].Rank
		default:
			// First entry of a new score group: every preceding entry in the
			// full ordering scores strictly higher.
			rank = offset + i + 1
		}
		ranked = append(ranked, RankedEntry{Rank: rank, Entry: entry})
	}
	return ranked
}
