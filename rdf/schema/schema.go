// Package schema records the predicates that carry language tagged string literals.
package schema

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	param "github.com/fbprep/param"
	slog "github.com/fbprep/syslog"
)

const logid = "schema"

func syslog(s string) {
	slog.Log(logid, s)
}

// Sink receives each newly seen predicate once per run.
type Sink interface {
	Add(pred string) error
}

// Set is the per-run language tag predicate set. It is not concurrency safe.
type Set struct {
	seen  map[string]struct{}
	preds []string // first seen order
	sinks []Sink
}

func NewSet(sinks ...Sink) *Set {
	return &Set{seen: make(map[string]struct{}), sinks: sinks}
}

// Observe adds pred to the set. On first sight it is passed to every sink and true is returned.
// The first sink error stops the remaining sinks.
func (s *Set) Observe(pred string) (bool, error) {

	if _, ok := s.seen[pred]; ok {
		return false, nil
	}
	s.seen[pred] = struct{}{}
	s.preds = append(s.preds, pred)

	for _, k := range s.sinks {
		if err := k.Add(pred); err != nil {
			return true, err
		}
	}
	return true, nil
}

// Predicates returns the predicates in first seen order
func (s *Set) Predicates() []string {
	return append([]string(nil), s.preds...)
}

func (s *Set) Len() int {
	return len(s.preds)
}

// Line formats the schema entry for pred e.g. "<http://rdf.freebase.com/ns/type.object.name>:\tstring\t@lang\t.\n"
func Line(pred string) string {
	return pred + ":\tstring\t@lang\t.\n"
}

// FileSink appends schema lines to a buffered writer.
type FileSink struct {
	w *bufio.Writer
	c io.Closer
}

// OpenFile opens path for append, creating it and its directory if necessary.
func OpenFile(path string) (*FileSink, error) {

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("schema directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open schema file: %w", err)
	}
	syslog(fmt.Sprintf("appending to %s", path))

	return &FileSink{w: bufio.NewWriterSize(f, param.WriteBufSize), c: f}, nil
}

// NewFileSink writes schema lines to w. Close flushes but does not close w.
func NewFileSink(w io.Writer) *FileSink {
	return &FileSink{w: bufio.NewWriterSize(w, param.WriteBufSize)}
}

func (f *FileSink) Add(pred string) error {
	_, err := f.w.WriteString(Line(pred))
	return err
}

func (f *FileSink) Flush() error {
	return f.w.Flush()
}

// Close flushes the buffer and closes the file opened by OpenFile.
func (f *FileSink) Close() error {
	err := f.w.Flush()
	if f.c != nil {
		if cerr := f.c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
