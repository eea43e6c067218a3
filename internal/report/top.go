package report

import (
	"sort"

	"github.com/verte-zerg/letterfreq/internal/tally"
)

// LetterStat pairs a letter with its count.
type LetterStat struct {
	Letter rune
	Count  int
}

// ByFrequency returns all letters ordered by descending count, ties broken alphabetically.
func ByFrequency(counts tally.Counts) []LetterStat {
	items := make([]LetterStat, 0, tally.LetterCount)
	for i, letter := range tally.Letters() {
		items = append(items, LetterStat{Letter: letter, Count: counts.Letters[i]})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Letter < items[j].Letter
		}
		return items[i].Count > items[j].Count
	})
	return items
}

// TopLetters returns up to n letters with a non-zero count, most frequent first.
func TopLetters(counts tally.Counts, n int) []rune {
	if n <= 0 {
		return nil
	}
	out := make([]rune, 0, n)
	for _, item := range ByFrequency(counts) {
		if len(out) == n || item.Count == 0 {
			break
		}
		out = append(out, item.Letter)
	}
	return out
}
