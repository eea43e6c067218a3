package tally

import (
	"errors"
	"strings"
	"testing"
)

func TestTallySingleWord(t *testing.T) {
	counts, err := Tally([]string{"aaa\n"}, PolicyStrict)
	if err != nil {
		t.Fatalf("Tally failed: %v", err)
	}
	if counts.Count('a') != 3 {
		t.Fatalf("expected 3 a's, got %d", counts.Count('a'))
	}
	for _, letter := range Alphabet[1:] {
		if n := counts.Count(letter); n != 0 {
			t.Fatalf("expected 0 for %q, got %d", letter, n)
		}
	}
	if counts.Total != 3 {
		t.Fatalf("expected total 3, got %d", counts.Total)
	}
	pct, err := counts.Percent('a')
	if err != nil {
		t.Fatalf("Percent failed: %v", err)
	}
	if pct != 100 {
		t.Fatalf("expected 100%%, got %v", pct)
	}
}

func TestTallyTwoWords(t *testing.T) {
	counts, err := Tally([]string{"ab", "ba"}, PolicyStrict)
	if err != nil {
		t.Fatalf("Tally failed: %v", err)
	}
	if counts.Count('a') != 2 || counts.Count('b') != 2 {
		t.Fatalf("unexpected counts: %+v", counts.Letters)
	}
	if counts.Total != 4 {
		t.Fatalf("expected total 4, got %d", counts.Total)
	}
	pcts, err := counts.Percentages()
	if err != nil {
		t.Fatalf("Percentages failed: %v", err)
	}
	for i, pct := range pcts {
		want := 0.0
		if i < 2 {
			want = 50
		}
		if pct != want {
			t.Fatalf("expected %v for %q, got %v", want, Alphabet[i], pct)
		}
	}
}

func TestTallySumMatchesTotalForLettersOnly(t *testing.T) {
	corpora := [][]string{
		{"hello", "world"},
		{"the", "quick", "brown", "fox", "jumps", "over", "the", "lazy", "dog"},
		{"", "z", ""},
		{"abcdefghijklmnopqrstuvwxyz\r\n"},
	}
	for _, corpus := range corpora {
		counts, err := Tally(corpus, PolicyStrict)
		if err != nil {
			t.Fatalf("Tally(%q) failed: %v", corpus, err)
		}
		if counts.Sum() != counts.Total {
			t.Fatalf("Tally(%q): sum %d != total %d", corpus, counts.Sum(), counts.Total)
		}
	}
}

func TestTallyIsIdempotent(t *testing.T) {
	corpus := []string{"crane", "adieu", "audio"}
	first, err := Tally(corpus, PolicyStrict)
	if err != nil {
		t.Fatalf("Tally failed: %v", err)
	}
	second, err := Tally(corpus, PolicyStrict)
	if err != nil {
		t.Fatalf("Tally failed: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical counts, got %+v and %+v", first, second)
	}
}

func TestTallyStrictRejectsUnknownChars(t *testing.T) {
	_, err := Tally([]string{"ok", "don't"}, PolicyStrict)
	var charErr *UnrecognizedCharError
	if !errors.As(err, &charErr) {
		t.Fatalf("expected UnrecognizedCharError, got %v", err)
	}
	if charErr.Char != '\'' || charErr.Line != 2 || charErr.Column != 4 {
		t.Fatalf("unexpected error details: %+v", charErr)
	}
}

func TestTallyPolicies(t *testing.T) {
	corpus := []string{"Ab-c", "é"}
	tests := []struct {
		policy  Policy
		total   int
		skipped int
	}{
		{policy: PolicySkip, total: 2, skipped: 3},
		{policy: PolicyCountTotal, total: 5, skipped: 3},
	}
	for _, tt := range tests {
		counts, err := Tally(corpus, tt.policy)
		if err != nil {
			t.Fatalf("%s: Tally failed: %v", tt.policy, err)
		}
		if counts.Total != tt.total {
			t.Fatalf("%s: expected total %d, got %d", tt.policy, tt.total, counts.Total)
		}
		if counts.Skipped != tt.skipped {
			t.Fatalf("%s: expected skipped %d, got %d", tt.policy, tt.skipped, counts.Skipped)
		}
		if counts.Count('b') != 1 || counts.Count('c') != 1 || counts.Count('a') != 0 {
			t.Fatalf("%s: unexpected buckets: %+v", tt.policy, counts.Letters)
		}
	}
}

func TestTallyEmptyCorpus(t *testing.T) {
	counts, err := Tally(nil, PolicyStrict)
	if err != nil {
		t.Fatalf("Tally failed: %v", err)
	}
	if counts.Total != 0 {
		t.Fatalf("expected total 0, got %d", counts.Total)
	}
	if _, err := counts.Percent('a'); !errors.Is(err, ErrEmptyCorpus) {
		t.Fatalf("expected ErrEmptyCorpus, got %v", err)
	}
	if _, err := counts.Percentages(); !errors.Is(err, ErrEmptyCorpus) {
		t.Fatalf("expected ErrEmptyCorpus, got %v", err)
	}
}

func TestTallyReaderMatchesTally(t *testing.T) {
	input := "crane\r\nslate\n\nadieu"
	fromReader, err := TallyReader(strings.NewReader(input), PolicyStrict)
	if err != nil {
		t.Fatalf("TallyReader failed: %v", err)
	}
	fromSlice, err := Tally(strings.Split(input, "\n"), PolicyStrict)
	if err != nil {
		t.Fatalf("Tally failed: %v", err)
	}
	if fromReader != fromSlice {
		t.Fatalf("reader and slice tallies differ: %+v vs %+v", fromReader, fromSlice)
	}
	if fromReader.Total != 15 {
		t.Fatalf("expected total 15, got %d", fromReader.Total)
	}
}

func TestTallyReaderReportsLine(t *testing.T) {
	_, err := TallyReader(strings.NewReader("abc\nab1\n"), PolicyStrict)
	var charErr *UnrecognizedCharError
	if !errors.As(err, &charErr) {
		t.Fatalf("expected UnrecognizedCharError, got %v", err)
	}
	if charErr.Line != 2 || charErr.Column != 3 {
		t.Fatalf("unexpected position: line %d column %d", charErr.Line, charErr.Column)
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy(""); err != nil || p != PolicyStrict {
		t.Fatalf("expected strict default, got %q (%v)", p, err)
	}
	if p, err := ParsePolicy(" Skip "); err != nil || p != PolicySkip {
		t.Fatalf("expected skip, got %q (%v)", p, err)
	}
	if _, err := ParsePolicy("lenient"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}

func TestStripLineTerminator(t *testing.T) {
	cases := map[string]string{
		"word\n":   "word",
		"word\r":   "word",
		"word\r\n": "word",
		"word":     "word",
		"wo rd \n": "wo rd ",
		"\n":       "",
	}
	for in, want := range cases {
		if got := stripLineTerminator(in); got != want {
			t.Fatalf("stripLineTerminator(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTallyReaderBareCarriageReturn(t *testing.T) {
	counts, err := TallyReader(strings.NewReader("ab\rcd\r"), PolicyStrict)
	if err != nil {
		t.Fatalf("TallyReader failed: %v", err)
	}
	if counts.Total != 4 {
		t.Fatalf("expected total 4, got %d", counts.Total)
	}
	_, err = TallyReader(strings.NewReader("ok\rno!"), PolicyStrict)
	var charErr *UnrecognizedCharError
	if !errors.As(err, &charErr) {
		t.Fatalf("expected UnrecognizedCharError, got %v", err)
	}
	if charErr.Line != 2 || charErr.Column != 3 {
		t.Fatalf("unexpected position: line %d column %d", charErr.Line, charErr.Column)
	}
}

func TestScanLines(t *testing.T) {
	var got []string
	err := ScanLines(strings.NewReader("a\r\nb\rc\n\nd"), func(line string, lineNo int) error {
		if lineNo != len(got)+1 {
			t.Fatalf("unexpected line number %d", lineNo)
		}
		got = append(got, line)
		return nil
	})
	if err != nil {
		t.Fatalf("ScanLines failed: %v", err)
	}
	expected := []string{"a", "b", "c", "", "d"}
	if strings.Join(got, "|") != strings.Join(expected, "|") {
		t.Fatalf("expected %q, got %q", expected, got)
	}
}

func TestCountPresence(t *testing.T) {
	corpus := []string{"eerie", "crane", "", "xyz"}
	counts, err := CountLines(corpus, PolicyStrict, MeasurePresence)
	if err != nil {
		t.Fatalf("CountLines failed: %v", err)
	}
	if counts.Total != 3 {
		t.Fatalf("expected 3 words, got %d", counts.Total)
	}
	if counts.Count('e') != 2 || counts.Count('r') != 2 || counts.Count('x') != 1 {
		t.Fatalf("unexpected presence counts: %+v", counts.Letters)
	}
	pct, err := counts.Percent('e')
	if err != nil {
		t.Fatalf("Percent failed: %v", err)
	}
	if pct < 66.66 || pct > 66.67 {
		t.Fatalf("expected e in two thirds of words, got %v", pct)
	}

	fromReader, err := Count(strings.NewReader("eerie\ncrane\n\nxyz\n"), PolicyStrict, MeasurePresence)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if fromReader != counts {
		t.Fatalf("reader and slice differ: %+v vs %+v", fromReader, counts)
	}
}

func TestCountPresencePolicies(t *testing.T) {
	corpus := []string{"it's", "!!"}
	skip, err := CountLines(corpus, PolicySkip, MeasurePresence)
	if err != nil {
		t.Fatalf("CountLines failed: %v", err)
	}
	if skip.Total != 1 || skip.Skipped != 3 {
		t.Fatalf("unexpected skip counts: total %d skipped %d", skip.Total, skip.Skipped)
	}
	countTotal, err := CountLines(corpus, PolicyCountTotal, MeasurePresence)
	if err != nil {
		t.Fatalf("CountLines failed: %v", err)
	}
	if countTotal.Total != 2 {
		t.Fatalf("expected 2 words, got %d", countTotal.Total)
	}
}

func TestParseMeasure(t *testing.T) {
	if m, err := ParseMeasure(""); err != nil || m != MeasureChars {
		t.Fatalf("expected chars default, got %q (%v)", m, err)
	}
	if m, err := ParseMeasure("Presence"); err != nil || m != MeasurePresence {
		t.Fatalf("expected presence, got %q (%v)", m, err)
	}
	if _, err := ParseMeasure("words"); err == nil {
		t.Fatalf("expected error for unknown measure")
	}
}

func TestPolicyNames(t *testing.T) {
	if got := PolicyNames(", "); got != "strict, skip, count-total" {
		t.Fatalf("unexpected policy names: %q", got)
	}
}
