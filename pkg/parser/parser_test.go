package parser

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readAll(t *testing.T, source LineSource) []string {
	t.Helper()
	ctx := context.Background()
	var lines []string
	for {
		line, err := source.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		lines = append(lines, line)
	}
	return lines
}

func TestReaderSource_Next(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty input", "", nil},
		{"single line without terminator", "only line", []string{"only line"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"blank lines kept", "   \n\n", []string{"   ", ""}},
		{"crlf stripped", "a\r\nb\r\n", []string{"a", "b"}},
		{"final line without terminator", "a\nb", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := NewReaderSource("test", strings.NewReader(tt.input))
			defer source.Close()

			got := readAll(t, source)
			if len(got) != len(tt.want) {
				t.Fatalf("Got %d lines %q, want %d %q", len(got), got, len(tt.want), tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
			if source.LineNum() != len(tt.want) {
				t.Errorf("LineNum() = %d, want %d", source.LineNum(), len(tt.want))
			}
		})
	}
}

func TestReaderSource_InvalidUTF8(t *testing.T) {
	source := NewReaderSource("upload", strings.NewReader("good line\nbad \xff\xfe line\n"))
	defer source.Close()

	ctx := context.Background()
	if _, err := source.Next(ctx); err != nil {
		t.Fatalf("Next() first line error = %v", err)
	}

	_, err := source.Next(ctx)
	if !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("Next() error = %v, want ErrInvalidEncoding", err)
	}
	if !strings.Contains(err.Error(), "upload line 2") {
		t.Errorf("error %q should name source and line", err)
	}
}

func TestReaderSource_LongLines(t *testing.T) {
	long := "2024-01-01T10:00:00 ERROR " + strings.Repeat("x", 2<<20)
	source := NewReaderSource("big", strings.NewReader(long+"\r\nok"))
	defer source.Close()

	got := readAll(t, source)

	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2", len(got))
	}
	if got[0] != long {
		t.Errorf("first line has length %d, want %d", len(got[0]), len(long))
	}
	if got[1] != "ok" {
		t.Errorf("second line = %q, want ok", got[1])
	}
}

func TestReaderSource_ContextCancellation(t *testing.T) {
	source := NewReaderSource("test", strings.NewReader("line\n"))
	defer source.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := source.Next(ctx)
	if err != context.Canceled {
		t.Errorf("Next() error = %v, want context.Canceled", err)
	}
}

type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestReaderSource_ClosesUnderlyingReader(t *testing.T) {
	rc := &closeRecorder{Reader: strings.NewReader("x")}
	source := NewReaderSource("test", rc)

	if err := source.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !rc.closed {
		t.Error("Close() did not close the underlying reader")
	}
	// Second close is a no-op
	if err := source.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestFileSource_Next(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "test.log")
	content := `2024-01-15 10:00:00 [INFO] First line

2024-01-15 10:00:02 [ERROR] Third line
`
	if err := os.WriteFile(logFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	source := NewFileSource(logFile)
	defer source.Close()

	lines := readAll(t, source)
	if len(lines) != 3 {
		t.Fatalf("Got %d lines, want 3", len(lines))
	}
	if lines[1] != "" {
		t.Errorf("blank line = %q, want empty", lines[1])
	}
}

func TestFileSource_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "empty.log")
	if err := os.WriteFile(logFile, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	source := NewFileSource(logFile)
	defer source.Close()

	_, err := source.Next(context.Background())
	if err != io.EOF {
		t.Errorf("Next() error = %v, want io.EOF", err)
	}
}

func TestFileSource_FileNotFound(t *testing.T) {
	source := NewFileSource("/nonexistent/file.log")
	defer source.Close()

	_, err := source.Next(context.Background())
	if err == nil {
		t.Error("Next() expected error for missing file")
	}
}

func TestFileSource_CloseBeforeRead(t *testing.T) {
	source := NewFileSource("/nonexistent/file.log")
	if err := source.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
