// Package tally counts lowercase Latin letters across a word corpus.
package tally

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Alphabet lists the recognized letters in reporting order.
const Alphabet = "abcdefghijklmnopqrstuvwxyz"

// LetterCount is the number of recognized letters.
const LetterCount = len(Alphabet)

// ErrEmptyCorpus is returned when percentages are requested for a tally with no characters.
var ErrEmptyCorpus = errors.New("empty input: no characters to tally")

// Policy decides what happens to characters outside a-z.
type Policy string

const (
	// PolicyStrict counts every character toward the total and fails on the first unrecognized one.
	PolicyStrict Policy = "strict"
	// PolicySkip ignores unrecognized characters for both the total and the buckets.
	PolicySkip Policy = "skip"
	// PolicyCountTotal counts unrecognized characters toward the total but no bucket.
	PolicyCountTotal Policy = "count-total"
)

// Policies returns the supported policy names.
func Policies() []Policy {
	return []Policy{PolicyStrict, PolicySkip, PolicyCountTotal}
}

// PolicyNames joins the supported policy names with sep.
func PolicyNames(sep string) string {
	names := make([]string, 0, len(Policies()))
	for _, p := range Policies() {
		names = append(names, string(p))
	}
	return strings.Join(names, sep)
}

// Measure selects what a bucket counts.
type Measure string

const (
	// MeasureChars counts every occurrence of a letter; Total is the number of characters.
	MeasureChars Measure = "chars"
	// MeasurePresence counts the words containing a letter; Total is the number of words.
	MeasurePresence Measure = "presence"
)

// ParseMeasure validates a measure name. An empty name selects MeasureChars.
func ParseMeasure(name string) (Measure, error) {
	switch Measure(strings.ToLower(strings.TrimSpace(name))) {
	case "", MeasureChars:
		return MeasureChars, nil
	case MeasurePresence:
		return MeasurePresence, nil
	}
	return "", fmt.Errorf("unknown measure %q (available: chars, presence)", name)
}

// ParsePolicy validates a policy name. An empty name selects PolicyStrict.
func ParsePolicy(name string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(name))) {
	case "", PolicyStrict:
		return PolicyStrict, nil
	case PolicySkip:
		return PolicySkip, nil
	case PolicyCountTotal:
		return PolicyCountTotal, nil
	}
	return "", fmt.Errorf("unknown policy %q (available: %s)", name, PolicyNames(", "))
}

// UnrecognizedCharError reports a character outside a-z under PolicyStrict.
type UnrecognizedCharError struct {
	Char   rune
	Line   int
	Column int
}

func (e *UnrecognizedCharError) Error() string {
	return fmt.Sprintf("unrecognized character %q at line %d, column %d", e.Char, e.Line, e.Column)
}

// Counts holds the result of a tally.
type Counts struct {
	Letters [LetterCount]int
	Total   int
	Skipped int
}

// Count returns the count for letter, or 0 when letter is not in the alphabet.
func (c Counts) Count(letter rune) int {
	idx, ok := letterIndex(letter)
	if !ok {
		return 0
	}
	return c.Letters[idx]
}

// Sum adds up all letter buckets.
func (c Counts) Sum() int {
	sum := 0
	for _, n := range c.Letters {
		sum += n
	}
	return sum
}

// Percent returns the share of letter in the total, scaled to 0-100.
func (c Counts) Percent(letter rune) (float64, error) {
	if c.Total == 0 {
		return 0, ErrEmptyCorpus
	}
	return float64(c.Count(letter)) / float64(c.Total) * 100, nil
}

// Percentages returns the share of every letter in alphabet order.
func (c Counts) Percentages() ([LetterCount]float64, error) {
	var out [LetterCount]float64
	if c.Total == 0 {
		return out, ErrEmptyCorpus
	}
	for i, n := range c.Letters {
		out[i] = float64(n) / float64(c.Total) * 100
	}
	return out, nil
}

// Letters returns the alphabet as runes.
func Letters() []rune {
	return []rune(Alphabet)
}

// stripLineTerminator removes a trailing "\n", "\r\n" or "\r".
func stripLineTerminator(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// Tally counts letter occurrences across corpus. Each entry is one line of input.
func Tally(corpus []string, policy Policy) (Counts, error) {
	return CountLines(corpus, policy, MeasureChars)
}

// TallyReader counts letter occurrences line by line from r.
func TallyReader(r io.Reader, policy Policy) (Counts, error) {
	return Count(r, policy, MeasureChars)
}

// CountLines tallies corpus with the given measure.
func CountLines(corpus []string, policy Policy, measure Measure) (Counts, error) {
	acc, err := newAccumulator(policy, measure)
	if err != nil {
		return Counts{}, err
	}
	for i, line := range corpus {
		if err := acc.add(stripLineTerminator(line), i+1); err != nil {
			return Counts{}, err
		}
	}
	return acc.counts, nil
}

// Count streams r through ScanLines and tallies it with the given measure.
func Count(r io.Reader, policy Policy, measure Measure) (Counts, error) {
	acc, err := newAccumulator(policy, measure)
	if err != nil {
		return Counts{}, err
	}
	if err := ScanLines(r, acc.add); err != nil {
		return Counts{}, err
	}
	return acc.counts, nil
}

type accumulator struct {
	counts  Counts
	policy  Policy
	measure Measure
}

func newAccumulator(policy Policy, measure Measure) (*accumulator, error) {
	policy, err := ParsePolicy(string(policy))
	if err != nil {
		return nil, err
	}
	measure, err = ParseMeasure(string(measure))
	if err != nil {
		return nil, err
	}
	return &accumulator{policy: policy, measure: measure}, nil
}

func (a *accumulator) add(line string, lineNo int) error {
	var seen [LetterCount]bool
	column := 0
	counted := false
	for _, r := range line {
		column++
		idx, ok := letterIndex(r)
		if ok {
			counted = true
			if a.measure == MeasurePresence {
				seen[idx] = true
				continue
			}
			a.counts.Total++
			a.counts.Letters[idx]++
			continue
		}
		switch a.policy {
		case PolicySkip:
			a.counts.Skipped++
		case PolicyCountTotal:
			counted = true
			a.counts.Skipped++
			if a.measure == MeasureChars {
				a.counts.Total++
			}
		default:
			return &UnrecognizedCharError{Char: r, Line: lineNo, Column: column}
		}
	}
	if a.measure == MeasurePresence && counted {
		a.counts.Total++
		for i, ok := range seen {
			if ok {
				a.counts.Letters[i]++
			}
		}
	}
	return nil
}

func letterIndex(r rune) (int, bool) {
	if r < 'a' || r > 'z' {
		return 0, false
	}
	return int(r - 'a'), true
}
