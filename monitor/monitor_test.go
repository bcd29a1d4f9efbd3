package monitor

import (
	"bytes"
	"strings"
	"testing"
)

func TestMonitor(t *testing.T) {

	var m Monitor

	m.Add(Lines)
	m.Add(Lines)
	m.Add(Excluded)

	if m.Get(Lines) != 2 || m.Get(Excluded) != 1 || m.Get(Kept) != 0 {
		t.Errorf("unexpected counters %v", m.Map())
	}
	if m.Map()["lines"] != 2 {
		t.Errorf("expected lines in map")
	}
	var b bytes.Buffer
	m.Report(&b)
	t.Log(b.String())
	if strings.Count(b.String(), "\n") != LIMIT {
		t.Errorf("expected %d report lines", LIMIT)
	}
	if Name(LIMIT) != "unknown" || Name(SchemaAdded) != "schema.added" {
		t.Errorf("unexpected names")
	}
}
