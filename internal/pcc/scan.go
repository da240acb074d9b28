package pcc

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// maxLineBytes bounds a single descriptor or list line.
const maxLineBytes = 4 << 20

// lineScanner yields the content lines of a data file, skipping blank lines
// and '#' comments. Files may carry a UTF-8 or UTF-16 byte order mark.
type lineScanner struct {
	sc   *bufio.Scanner
	line int
	text string
}

func newLineScanner(r io.Reader) *lineScanner {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	sc := bufio.NewScanner(decoded)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &lineScanner{sc: sc}
}

// Next advances to the next content line.
func (s *lineScanner) Next() bool {
	for s.sc.Scan() {
		s.line++
		text := strings.TrimSuffix(s.sc.Text(), "\r")
		if isSkippable(text) {
			continue
		}
		s.text = text
		return true
	}
	return false
}

// Text returns the current line without its line terminator.
func (s *lineScanner) Text() string {
	return s.text
}

// Line returns the 1-based physical line number of the current line.
func (s *lineScanner) Line() int {
	return s.line
}

func (s *lineScanner) Err() error {
	return s.sc.Err()
}

func isSkippable(line string) bool {
	if strings.HasPrefix(line, "#") {
		return true
	}
	return strings.TrimSpace(line) == ""
}
