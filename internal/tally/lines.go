package tally

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// MaxLineSize bounds a single corpus line.
const MaxLineSize = 64 << 20

// ScanLines calls fn for every line of r with its terminator removed. "\n",
// "\r\n" and a bare "\r" all end a line. Line numbers start at 1.
func ScanLines(r io.Reader, fn func(line string, lineNo int) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	scanner.Split(scanUniversalLines)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := fn(scanner.Text(), lineNo); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read corpus: %w", err)
	}
	return nil
}

func scanUniversalLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// A trailing "\r" may be the first half of "\r\n".
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
