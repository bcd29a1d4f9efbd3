package admin

import (
	"context"
	"testing"
	"time"

	"github.com/fbprep/run"
	"github.com/fbprep/stats"
	"github.com/fbprep/uuid"
)

type statsRegistry struct {
	run.Registry
	calls int
	rows  []stats.Row
}

func (s *statsRegistry) SaveStats(ctx context.Context, runid uuid.UID, rows []stats.Row) error {
	s.calls++
	s.rows = rows
	return nil
}

func TestPersistOnce(t *testing.T) {

	reg := &statsRegistry{Registry: run.Nop()}
	ctx := context.Background()
	r, err := run.New(ctx, "fbprep", "in.gz", reg)
	if err != nil {
		t.Fatal(err)
	}

	// drop the run.Begin timing
	stats.Reset()
	for i := 0; i < 3; i++ {
		stats.SaveEventStats(stats.EvAPI, time.Duration(i+1)*time.Millisecond, "es.Index")
	}

	Persist(ctx, r)
	Persist(ctx, r)

	if reg.calls != 1 {
		t.Fatalf("expected one SaveStats call got %d", reg.calls)
	}
	if len(reg.rows) != 1 || reg.rows[0].Sortk != "wait#API#tag#es.Index" || reg.rows[0].Execs != 3 {
		t.Errorf("unexpected rows %+v", reg.rows)
	}
}
