// Package wordlist loads line-delimited corpora from files or stdin.
package wordlist

import (
	"fmt"
	"io"
	"os"

	"github.com/verte-zerg/letterfreq/internal/tally"
)

// StdinPath selects standard input instead of a file.
const StdinPath = "-"

// Open returns a reader for path. StdinPath reads from os.Stdin, which is not closed.
func Open(path string) (io.ReadCloser, error) {
	if path == "" {
		return nil, fmt.Errorf("corpus path is empty")
	}
	if path == StdinPath {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// Label returns a display name for path.
func Label(path string) string {
	if path == StdinPath {
		return "<stdin>"
	}
	return path
}

// LoadCorpus reads every line from path with its line terminator stripped.
// Empty lines are kept.
func LoadCorpus(path string) ([]string, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			// Best-effort close for read-only corpus.
			_ = cerr
		}
	}()
	return ReadCorpus(rc)
}

// ReadCorpus reads every line from r with its line terminator stripped.
// Line breaks follow tally.ScanLines.
func ReadCorpus(r io.Reader) ([]string, error) {
	var lines []string
	err := tally.ScanLines(r, func(line string, _ int) error {
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// Words returns the non-empty lines of corpus.
func Words(corpus []string) []string {
	words := make([]string, 0, len(corpus))
	for _, line := range corpus {
		if line != "" {
			words = append(words, line)
		}
	}
	return words
}
