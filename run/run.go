package run

import (
	"context"
	"errors"
	"fmt"
	"time"

	elog "github.com/fbprep/errlog"
	param "github.com/fbprep/param"
	"github.com/fbprep/stats"
	slog "github.com/fbprep/syslog"
	"github.com/fbprep/uuid"
)

const logid = "run"

func syslog(s string) {
	slog.Log(logid, s)
}

// run status
const (
	Running   = "R"
	Completed = "C"
	Errored   = "E"
	Panicked  = "P" // terminated by signal
)

// Record is the registry entry of one execution of a program.
type Record struct {
	Run      uuid.UID
	Program  string
	Status   string
	Start    time.Time
	Finish   time.Time
	Elapsed  time.Duration
	LogFile  string
	Input    string
	Error    string
	Counters map[string]int64
}

// Registry persists run records and run statistics.
type Registry interface {
	Begin(ctx context.Context, r *Record) error
	End(ctx context.Context, r *Record) error
	SaveStats(ctx context.Context, runid uuid.UID, rows []stats.Row) error
}

// nop registry logs only
type nop struct{}

func (nop) Begin(ctx context.Context, r *Record) error {
	syslog(fmt.Sprintf("begin %s %s", r.Program, r.Run))
	return nil
}

func (nop) End(ctx context.Context, r *Record) error {
	syslog(fmt.Sprintf("end %s %s status %s elapsed %s", r.Program, r.Run, r.Status, r.Elapsed))
	return nil
}

func (nop) SaveStats(ctx context.Context, runid uuid.UID, rows []stats.Row) error {
	return nil
}

// Nop returns a Registry that only writes to the system log.
func Nop() Registry {
	return nop{}
}

type Run struct {
	rec *Record
	reg Registry
}

// New allocates a run id and records the start of the run. Registry errors are reported to
// errlog and do not stop the run.
func New(ctx context.Context, program string, input string, reg Registry) (*Run, error) {

	runid, err := uuid.MakeUID()
	if err != nil {
		return nil, fmt.Errorf("allocate run id: %w", err)
	}
	if reg == nil {
		reg = Nop()
	}
	param.RunId = runid.String()

	r := &Run{
		reg: reg,
		rec: &Record{
			Run:     runid,
			Program: program,
			Status:  Running,
			Start:   time.Now(),
			LogFile: param.LogFile,
			Input:   input,
		},
	}
	if err := stats.Run(func() error { return reg.Begin(ctx, r.rec) }, "run.Begin"); err != nil {
		elog.Add(logid, fmt.Errorf("register run %s: %w", runid, err))
	}

	return r, nil
}

// Finish records the end of the run. Status is C when err is nil, P when the run was cancelled
// and E otherwise.
func (r *Run) Finish(ctx context.Context, err error, counters map[string]int64) {

	r.rec.Finish = time.Now()
	r.rec.Elapsed = r.rec.Finish.Sub(r.rec.Start)
	r.rec.Counters = counters
	r.rec.Status = Status(err)
	if err != nil {
		r.rec.Error = err.Error()
	}

	if err := stats.Run(func() error { return r.reg.End(ctx, r.rec) }, "run.End"); err != nil {
		elog.Add(logid, fmt.Errorf("finish run %s: %w", r.rec.Run, err))
	}
}

// Status maps the outcome of a run to its status code
func Status(err error) string {
	switch {
	case err == nil:
		return Completed
	case errors.Is(err, context.Canceled):
		return Panicked
	}
	return Errored
}

func (r *Run) Id() uuid.UID {
	return r.rec.Run
}

// Record returns a copy of the run record
func (r *Run) Record() Record {
	return *r.rec
}

func (r *Run) Registry() Registry {
	return r.reg
}
