// Package input reads command lines from the interactive input stream and
// splits them into a command name and its arguments.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadError is returned when the underlying stream fails for a reason other
// than reaching its end.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read input: %v", e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// LineReader reads one line at a time from an input stream.
type LineReader struct {
	reader *bufio.Reader
}

// NewLineReader creates a LineReader over r. Reads are buffered, so on piped
// input a child process sharing r cannot see lines already read ahead.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{
		reader: bufio.NewReader(r),
	}
}

// ReadLine blocks until a full line is available and returns it with
// surrounding whitespace removed.
//
// A final line that is not newline terminated is returned normally; the
// following call reports io.EOF. Any other failure is wrapped in a ReadError.
func (l *LineReader) ReadLine() (string, error) {
	line, err := l.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line != "" {
				return strings.TrimSpace(line), nil
			}
			return "", io.EOF
		}
		return "", &ReadError{Err: err}
	}

	return strings.TrimSpace(line), nil
}
