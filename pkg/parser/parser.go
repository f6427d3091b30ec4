package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// ReaderSource implements LineSource over any byte stream: a request body,
// an uploaded file part or stdin. Lines are validated as UTF-8 before they
// are handed out. Line length is unbounded; callers that need a limit cap
// the reader itself.
type ReaderSource struct {
	name    string
	reader  *bufio.Reader
	closer  io.Closer
	lineNum int
	done    bool
}

// NewReaderSource creates a LineSource reading from r. The name is used in
// error messages. If r is an io.Closer, Close closes it.
func NewReaderSource(name string, r io.Reader) *ReaderSource {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, 64*1024)
	}

	s := &ReaderSource{
		name:   name,
		reader: br,
	}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Next returns the next line without its "\n" or "\r\n" terminator.
// A final line without a terminator is still returned; a trailing
// terminator does not produce an extra empty line.
// Returns io.EOF when the stream is exhausted.
func (s *ReaderSource) Next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	if s.done {
		return "", io.EOF
	}

	line, err := s.reader.ReadString('\n')
	if err == io.EOF {
		s.done = true
		if line == "" {
			return "", io.EOF
		}
	} else if err != nil {
		return "", fmt.Errorf("reading %s: %w", s.name, err)
	}
	s.lineNum++

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	if !utf8.ValidString(line) {
		return "", fmt.Errorf("%s line %d: %w", s.name, s.lineNum, ErrInvalidEncoding)
	}
	return line, nil
}

// LineNum returns the number of lines read so far.
func (s *ReaderSource) LineNum() int {
	return s.lineNum
}

// Close releases the underlying reader if it is closable.
func (s *ReaderSource) Close() error {
	if s.closer != nil {
		err := s.closer.Close()
		s.closer = nil
		return err
	}
	return nil
}

// FileSource implements LineSource for a single log file.
// The file is opened on the first call to Next.
type FileSource struct {
	path   string
	reader *ReaderSource
}

// NewFileSource creates a LineSource that reads the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Next returns the next line of the file.
// Returns io.EOF when the file has been exhausted.
func (s *FileSource) Next(ctx context.Context) (string, error) {
	if s.reader == nil {
		f, err := os.Open(s.path) // #nosec G304 -- user-provided paths are expected
		if err != nil {
			return "", fmt.Errorf("opening log file %s: %w", s.path, err)
		}
		s.reader = NewReaderSource(s.path, f)
	}
	return s.reader.Next(ctx)
}

// Close releases the file handle.
func (s *FileSource) Close() error {
	if s.reader == nil {
		return nil
	}
	return s.reader.Close()
}
