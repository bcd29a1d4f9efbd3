// Package pipeline routes each dump line to the kept output, the schema set, or nowhere.
//
// For every line, in order:
//
//	temporal literal  -> rewrite object, write to kept output
//	otherwise         -> language tag present: record predicate in the schema set
//	                  -> excluded predicate absent: write line unchanged to kept output
package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fbprep/histogram"
	"github.com/fbprep/monitor"
	param "github.com/fbprep/param"
	"github.com/fbprep/rdf/classify"
	"github.com/fbprep/rdf/reader"
	"github.com/fbprep/rdf/rewrite"
	"github.com/fbprep/rdf/schema"
	slog "github.com/fbprep/syslog"
)

const (
	logid = "pipeline"
	// upper bound of recorded per line durations (nanoseconds)
	maxLineDur = int64(10 * time.Millisecond)
	// lines between progress messages
	progress = 10000000
)

func syslog(s string) {
	slog.Log(logid, s)
}

// LineError is a fatal error attributed to an input line.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

type Pipeline struct {
	out  *bufio.Writer
	set  *schema.Set
	mon  monitor.Monitor
	hist histogram.Set
}

// New creates a pipeline writing kept lines to out and language tag predicates to set.
func New(out io.Writer, set *schema.Set) *Pipeline {
	return &Pipeline{
		out:  bufio.NewWriterSize(out, param.WriteBufSize),
		set:  set,
		hist: histogram.NewSet(maxLineDur),
	}
}

// Process routes a single line. The line is expected to include its newline.
func (p *Pipeline) Process(line string) error {

	t0 := time.Now()
	p.mon.Add(monitor.Lines)

	if classify.IsSubjectDatetime(line) {
		s, k, err := rewrite.Line(line)
		if err != nil {
			return err
		}
		p.mon.Add(monitor.Rewritten)
		switch k {
		case rewrite.TimeOfDay:
			p.mon.Add(monitor.TimeOfDay)
		case rewrite.JulianYear:
			p.mon.Add(monitor.JulianYear)
		default:
			p.mon.Add(monitor.Calendar)
		}
		if _, err := p.out.WriteString(s); err != nil {
			return fmt.Errorf("write kept output: %w", err)
		}
		p.mon.Add(monitor.Kept)
		p.hist.RecordValue(k.String(), int64(time.Since(t0)))
		return nil
	}

	if classify.IsLanguagePresent(line) {
		p.mon.Add(monitor.LangTagged)
		f := strings.SplitN(line, "\t", 3)
		if len(f) < 2 {
			return fmt.Errorf("%w: language tagged line has no predicate", rewrite.ErrLineShape)
		}
		added, err := p.set.Observe(f[1])
		if err != nil {
			return fmt.Errorf("schema: %w", err)
		}
		if added {
			p.mon.Add(monitor.SchemaAdded)
			syslog(fmt.Sprintf("language tagged predicate %s (tag %s)", f[1], classify.LanguageTag(line)))
		}
	}
	if classify.IsAdsTopic(line) {
		p.mon.Add(monitor.Excluded)
		p.hist.RecordValue("excluded", int64(time.Since(t0)))
		return nil
	}
	if _, err := p.out.WriteString(line); err != nil {
		return fmt.Errorf("write kept output: %w", err)
	}
	p.mon.Add(monitor.Kept)
	p.hist.RecordValue("kept", int64(time.Since(t0)))

	return nil
}

// Run processes every line of rdr. It stops at the first error, or with ctx.Err() when ctx is cancelled.
// Kept output is flushed on every path.
func (p *Pipeline) Run(ctx context.Context, rdr *reader.Reader) (err error) {

	defer func() {
		if ferr := p.out.Flush(); ferr != nil && err == nil {
			err = fmt.Errorf("flush kept output: %w", ferr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			syslog(fmt.Sprintf("cancelled after %d lines", rdr.Line()))
			return ctx.Err()
		default:
		}

		line, err := rdr.Next()
		if err == io.EOF {
			syslog(fmt.Sprintf("end of input after %d lines", rdr.Line()))
			return nil
		}
		if err != nil {
			return err
		}
		if err = p.Process(line); err != nil {
			return &LineError{Line: rdr.Line(), Err: err}
		}
		if rdr.Line()%progress == 0 {
			syslog(fmt.Sprintf("processed %d lines", rdr.Line()))
		}
	}
}

// Flush writes buffered kept output. Needed only when Process is used without Run.
func (p *Pipeline) Flush() error {
	return p.out.Flush()
}

// Counters returns a snapshot of the line counters
func (p *Pipeline) Counters() monitor.Monitor {
	return p.mon
}

// Durations returns the per line processing durations by line class
func (p *Pipeline) Durations() histogram.Set {
	return p.hist
}
