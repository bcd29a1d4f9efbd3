package monitor

import (
	"fmt"
	"io"
)

// line classification statistics
const (
	Lines = iota // lines read
	Rewritten
	TimeOfDay   // rewritten via seconds-of-day
	Calendar    // rewritten via calendar parse
	JulianYear  // rewritten via the Julian year model
	LangTagged  // lines carrying a language tag
	SchemaAdded // predicates appended to the schema
	Excluded    // lines dropped (excluded predicate)
	Kept        // lines written to kept output
	LIMIT
)

var names = [LIMIT]string{
	Lines:       "lines",
	Rewritten:   "rewritten",
	TimeOfDay:   "rewritten.timeofday",
	Calendar:    "rewritten.calendar",
	JulianYear:  "rewritten.julianyear",
	LangTagged:  "langtagged",
	SchemaAdded: "schema.added",
	Excluded:    "excluded",
	Kept:        "kept",
}

// Name returns the report name of statistic id
func Name(id int) string {
	if id < 0 || id >= LIMIT {
		return "unknown"
	}
	return names[id]
}

// Monitor holds the counters of one pipeline. Not concurrency safe - the pipeline is sequential.
type Monitor struct {
	c [LIMIT]int64
}

func (m *Monitor) Add(id int) {
	m.c[id]++
}

func (m *Monitor) Get(id int) int64 {
	return m.c[id]
}

// Map returns the counters keyed by report name
func (m *Monitor) Map() map[string]int64 {
	r := make(map[string]int64, LIMIT)
	for i, v := range m.c {
		r[names[i]] = v
	}
	return r
}

// Report writes the counters to w in id order
func (m *Monitor) Report(w io.Writer) {
	for i, v := range m.c {
		fmt.Fprintf(w, "%-22s %d\n", names[i]+":", v)
	}
}
