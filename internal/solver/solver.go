// Package solver narrows a word list with Wordle-style feedback and picks the
// next guess from letter percentages.
package solver

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/verte-zerg/letterfreq/internal/tally"
)

// ErrNoCandidates is returned when no word is left to suggest.
var ErrNoCandidates = errors.New("no candidate words left")

// State is the feedback for one letter of a guess.
type State int

const (
	Absent State = iota
	Present
	Correct
)

func (s State) String() string {
	switch s {
	case Present:
		return "present"
	case Correct:
		return "correct"
	default:
		return "absent"
	}
}

// ParseState maps a feedback mark to a State: g for correct, y for present,
// x, '.' or '-' for absent.
func ParseState(mark rune) (State, error) {
	switch mark {
	case 'g', 'G':
		return Correct, nil
	case 'y', 'Y':
		return Present, nil
	case 'x', 'X', '.', '-':
		return Absent, nil
	}
	return Absent, fmt.Errorf("unknown feedback mark %q (use g, y or x)", mark)
}

// Guess is a played word with its per-letter feedback.
type Guess struct {
	Word   string
	States []State
}

// ParseGuess reads "word:marks", for example "crane:xygxx".
func ParseGuess(s string) (Guess, error) {
	word, marks, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Guess{}, fmt.Errorf("invalid guess %q (expected word:marks)", s)
	}
	word = strings.ToLower(word)
	if len([]rune(marks)) != len([]rune(word)) {
		return Guess{}, fmt.Errorf("invalid guess %q: %d letters but %d marks", s, len([]rune(word)), len([]rune(marks)))
	}
	states := make([]State, 0, len(marks))
	for _, mark := range marks {
		state, err := ParseState(mark)
		if err != nil {
			return Guess{}, fmt.Errorf("invalid guess %q: %w", s, err)
		}
		states = append(states, state)
	}
	return Guess{Word: word, States: states}, nil
}

// Solver holds the constraints learned from guesses.
type Solver struct {
	words   []string
	length  int
	correct map[int]rune
	banned  map[int]map[rune]struct{}
	min     map[rune]int
	max     map[rune]int
}

// New returns a solver over words. Words are matched as given.
func New(words []string) *Solver {
	return &Solver{
		words:   words,
		correct: make(map[int]rune),
		banned:  make(map[int]map[rune]struct{}),
		min:     make(map[rune]int),
		max:     make(map[rune]int),
	}
}

// Apply records the feedback of g.
//
// Correct pins the letter to its position. Present bans the position and
// requires the letter elsewhere. Absent bans the position; when the same
// letter is also correct or present in g, it caps the letter count at the
// number of those marks, otherwise the letter is excluded entirely.
func (s *Solver) Apply(g Guess) error {
	letters := []rune(g.Word)
	if len(letters) != len(g.States) {
		return fmt.Errorf("guess %q has %d letters but %d states", g.Word, len(letters), len(g.States))
	}
	if s.length != 0 && len(letters) != s.length {
		return fmt.Errorf("guess %q has %d letters, previous guesses had %d", g.Word, len(letters), s.length)
	}
	for i, r := range letters {
		if r < 'a' || r > 'z' {
			return fmt.Errorf("guess %q: unrecognized character %q at column %d", g.Word, r, i+1)
		}
	}
	s.length = len(letters)

	marked := make(map[rune]int)
	capped := make(map[rune]bool)
	for i, r := range letters {
		switch g.States[i] {
		case Correct:
			if prev, ok := s.correct[i]; ok && prev != r {
				return fmt.Errorf("guess %q: position %d already correct as %q", g.Word, i+1, prev)
			}
			s.correct[i] = r
			marked[r]++
		case Present:
			s.ban(i, r)
			marked[r]++
		default:
			s.ban(i, r)
			capped[r] = true
		}
	}
	for r, n := range marked {
		if n > s.min[r] {
			s.min[r] = n
		}
	}
	for r := range capped {
		n := marked[r]
		if cur, ok := s.max[r]; !ok || n < cur {
			s.max[r] = n
		}
	}
	return nil
}

func (s *Solver) ban(pos int, r rune) {
	set, ok := s.banned[pos]
	if !ok {
		set = make(map[rune]struct{})
		s.banned[pos] = set
	}
	set[r] = struct{}{}
}

// Match reports whether word satisfies every recorded constraint.
func (s *Solver) Match(word string) bool {
	letters := []rune(word)
	if s.length != 0 && len(letters) != s.length {
		return false
	}
	seen := make(map[rune]int, len(letters))
	for i, r := range letters {
		if want, ok := s.correct[i]; ok && want != r {
			return false
		}
		if _, ok := s.banned[i][r]; ok {
			return false
		}
		seen[r]++
	}
	for r, n := range s.min {
		if seen[r] < n {
			return false
		}
	}
	for r, n := range s.max {
		if seen[r] > n {
			return false
		}
	}
	return true
}

// Candidates returns the words that match, in input order.
func (s *Solver) Candidates() []string {
	out := make([]string, 0, len(s.words))
	for _, word := range s.words {
		if s.Match(word) {
			out = append(out, word)
		}
	}
	return out
}

// Score sums the percentage of every letter of word. A letter already seen in
// the word scores half. Characters outside a-z score nothing.
func Score(word string, pcts [tally.LetterCount]float64) float64 {
	var seen [tally.LetterCount]bool
	score := 0.0
	for _, r := range word {
		if r < 'a' || r > 'z' {
			continue
		}
		idx := r - 'a'
		if seen[idx] {
			score += pcts[idx] / 2
			continue
		}
		seen[idx] = true
		score += pcts[idx]
	}
	return score
}

// Best returns the highest scoring word. On a tie the later word wins.
func Best(words []string, pcts [tally.LetterCount]float64) (string, float64, error) {
	if len(words) == 0 {
		return "", 0, ErrNoCandidates
	}
	best, bestScore := 0, Score(words[0], pcts)
	for i := 1; i < len(words); i++ {
		if score := Score(words[i], pcts); score >= bestScore {
			best, bestScore = i, score
		}
	}
	return words[best], bestScore, nil
}

// Ranked is a scored word.
type Ranked struct {
	Word  string
	Score float64
}

// Rank orders words by descending score, later words first on ties, and
// keeps the first n. n <= 0 keeps all. Rank(words, pcts, 1) agrees with Best.
func Rank(words []string, pcts [tally.LetterCount]float64, n int) []Ranked {
	type entry struct {
		Ranked
		index int
	}
	entries := make([]entry, len(words))
	for i, word := range words {
		entries[i] = entry{Ranked: Ranked{Word: word, Score: Score(word, pcts)}, index: i}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].index > entries[j].index
	})
	if n > 0 && n < len(entries) {
		entries = entries[:n]
	}
	out := make([]Ranked, len(entries))
	for i, e := range entries {
		out[i] = e.Ranked
	}
	return out
}
