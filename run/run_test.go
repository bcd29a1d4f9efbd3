package run

import (
	"context"
	"errors"
	"fmt"
	"testing"

	param "github.com/fbprep/param"
	"github.com/fbprep/stats"
	"github.com/fbprep/uuid"
)

type memRegistry struct {
	begin, end []Record
	rows       []stats.Row
	fail       bool
}

func (m *memRegistry) Begin(ctx context.Context, r *Record) error {
	m.begin = append(m.begin, *r)
	if m.fail {
		return errors.New("registry unavailable")
	}
	return nil
}

func (m *memRegistry) End(ctx context.Context, r *Record) error {
	m.end = append(m.end, *r)
	if m.fail {
		return errors.New("registry unavailable")
	}
	return nil
}

func (m *memRegistry) SaveStats(ctx context.Context, runid uuid.UID, rows []stats.Row) error {
	m.rows = append(m.rows, rows...)
	return nil
}

func TestLifecycle(t *testing.T) {

	reg := &memRegistry{}
	ctx := context.Background()

	r, err := New(ctx, "fbprep", "input/freebase-rdf-latest.gz", reg)
	if err != nil {
		t.Fatal(err)
	}
	if len(reg.begin) != 1 || reg.begin[0].Status != Running {
		t.Fatalf("expected one R record got %v", reg.begin)
	}
	if param.RunId != r.Id().String() {
		t.Errorf("param.RunId not set: %q", param.RunId)
	}

	r.Finish(ctx, nil, map[string]int64{"lines": 10})

	if len(reg.end) != 1 {
		t.Fatalf("expected one end record")
	}
	e := reg.end[0]
	if e.Status != Completed || e.Counters["lines"] != 10 || e.Finish.Before(e.Start) {
		t.Errorf("unexpected end record %+v", e)
	}
}

func TestStatus(t *testing.T) {

	tests := []struct {
		err  error
		want string
	}{
		{nil, Completed},
		{errors.New("bad literal"), Errored},
		{context.Canceled, Panicked},
		{fmt.Errorf("line 3: %w", context.Canceled), Panicked},
	}
	for _, tc := range tests {
		if got := Status(tc.err); got != tc.want {
			t.Errorf("Status(%v): expected %s got %s", tc.err, tc.want, got)
		}
	}
}

func TestRegistryErrorNotFatal(t *testing.T) {

	reg := &memRegistry{fail: true}
	r, err := New(context.Background(), "fbprep", "in.gz", reg)
	if err != nil {
		t.Fatalf("registry error should not fail New: %s", err)
	}
	r.Finish(context.Background(), errors.New("x"), nil)
	if r.Record().Status != Errored || r.Record().Error != "x" {
		t.Errorf("unexpected record %+v", r.Record())
	}
}

func TestNilRegistry(t *testing.T) {
	r, err := New(context.Background(), "fbprep", "in.gz", nil)
	if err != nil {
		t.Fatal(err)
	}
	r.Finish(context.Background(), nil, nil)
	if len(r.Id()) != 16 {
		t.Errorf("expected 16 byte run id got %d", len(r.Id()))
	}
}
