package logparse

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// ErrFileNotFound is returned (wrapped) when the input log does not exist.
var ErrFileNotFound = errors.New("log file not found")

// MaxLineBytes bounds a single log line.
const MaxLineBytes = 1024 * 1024

// Options tune how lines are selected before pattern matching.
type Options struct {
	// Role, when set, keeps only lines carrying the logger role tag "[Role]".
	Role string
}

// Reader streams records out of a line-oriented log.
type Reader struct {
	pattern *Pattern
	scanner *bufio.Scanner
	tag     string
	source  string
	line    int
	skipped int
}

// NewReader wraps r. source is only used in error messages.
func NewReader(r io.Reader, source string, p *Pattern, opts Options) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)
	rd := &Reader{pattern: p, scanner: sc, source: source}
	if role := strings.TrimSpace(opts.Role); role != "" {
		rd.tag = "[" + role + "]"
	}
	return rd
}

// Next returns the next matching record, or io.EOF once the input is exhausted.
func (r *Reader) Next() (Record, error) {
	for r.scanner.Scan() {
		r.line++
		text := r.scanner.Text()
		if r.tag != "" && !strings.Contains(text, r.tag) {
			r.skipped++
			continue
		}
		rec, ok, err := r.pattern.Parse(text)
		if err != nil {
			return Record{}, fmt.Errorf("%s:%d: %w", r.source, r.line, err)
		}
		if !ok {
			r.skipped++
			continue
		}
		return rec, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Record{}, fmt.Errorf("reading %s: %w", r.source, err)
	}
	return Record{}, io.EOF
}

// Lines is the number of lines consumed so far.
func (r *Reader) Lines() int { return r.line }

// Skipped is the number of lines that did not yield a record.
func (r *Reader) Skipped() int { return r.skipped }

// ReadAll drains the reader.
func (r *Reader) ReadAll() ([]Record, error) {
	var out []Record
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

// ReadFile parses every matching line of the file at path.
func ReadFile(path string, p *Pattern, opts Options) ([]Record, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided log path is expected
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	defer f.Close()
	return NewReader(f, path, p, opts).ReadAll()
}
