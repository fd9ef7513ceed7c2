// Package source reads log lines from a file, either once or following
// appended data.
package source

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"

	"github.com/charliek/slotview/internal/domain"
)

// Batch is a group of lines read together, in file order. Err is set when
// the source failed; Lines read before the failure are still delivered.
type Batch struct {
	Lines []string
	Err   error
}

// Check verifies that path can be opened for reading
func Check(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &domain.SourceError{Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return &domain.SourceError{Path: path, Err: err}
	}
	if info.IsDir() {
		return &domain.SourceError{Path: path, Err: errors.New("is a directory")}
	}
	return nil
}

// ReadAll returns every line of the file at path. It reads with the same
// line splitting as a Follower, so a line of any length stays whole.
func ReadAll(path string) ([]string, error) {
	var lines []string
	f := NewFollower(path, FollowerConfig{Follow: false})
	err := f.Run(context.Background(), func(b Batch) {
		lines = append(lines, b.Lines...)
	})
	return lines, err
}

// lineSplitter cuts a byte stream into lines. An unterminated tail is held
// until the rest of it arrives or it is flushed.
type lineSplitter struct {
	partial []byte
}

// split appends the complete lines in data to lines
func (s *lineSplitter) split(data []byte, lines []string) []string {
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			s.partial = append(s.partial, data...)
			return lines
		}
		line := data[:i]
		if len(s.partial) > 0 {
			line = append(s.partial, line...)
			s.partial = nil
		}
		lines = append(lines, trimLine(string(line)))
		data = data[i+1:]
	}
}

// flush returns the held tail as a line, if there is one
func (s *lineSplitter) flush() (string, bool) {
	if len(s.partial) == 0 {
		return "", false
	}
	line := trimLine(string(s.partial))
	s.partial = nil
	return line, true
}

func (s *lineSplitter) reset() {
	s.partial = nil
}

func trimLine(s string) string {
	return strings.TrimRight(s, "\r")
}
