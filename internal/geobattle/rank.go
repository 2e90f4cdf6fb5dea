package geobattle

import "sort"

// Rank returns the 1-based position of the (userName, score) entry within
// the stored population merged with that candidate. The candidate is
// counted exactly once: if an identical row is already stored it is not
// added again. Ties rank in insertion order (stable sort), with the
// candidate sorting after stored entries of equal score.
func Rank(stored []HighscoreEntry, userName string, score int) (int, bool) {
	merged := make([]HighscoreEntry, len(stored), len(stored)+1)
	copy(merged, stored)

	present := false
	for _, e := range stored {
		if e.UserName == userName && e.Score == score {
			present = true
			break
		}
	}
	if !present {
		merged = append(merged, HighscoreEntry{UserName: userName, Score: score})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	for i, e := range merged {
		if e.UserName == userName && e.Score == score {
			return i + 1, true
		}
	}
	return 0, false
}
