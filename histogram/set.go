package histogram

import (
	"fmt"
	"sort"
	"strings"

	hdr "github.com/HdrHistogram/hdrhistogram-go"
)

/*
 s := histogram.NewSet(int(maxVal))
 s.RecordValue("event_name", int64(nanos))
 fmt.Printf("Stats:-\n%s", s)
*/

// Set is a named collection of histograms sharing the same value range. Not concurrency safe.
type Set struct {
	maxval int64
	m      map[string]*hdr.Histogram
}

func NewSet(maxval int64) Set {
	return Set{
		maxval: maxval,
		m:      map[string]*hdr.Histogram{},
	}
}

// RecordValue records val against name. Values above the set's maximum are recorded as the maximum.
func (s Set) RecordValue(name string, val int64) {
	h, exists := s.m[name]
	if !exists {
		h = hdr.New(0, s.maxval, 2)
		s.m[name] = h
	}
	if val > s.maxval {
		val = s.maxval
	}
	if val < 0 {
		val = 0
	}
	h.RecordValue(val)
}

// Get returns the histogram for name or nil
func (s Set) Get(name string) *hdr.Histogram {
	return s.m[name]
}

// Names returns the sorted histogram names
func (s Set) Names() []string {
	names := make([]string, 0, len(s.m))
	for name := range s.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s Set) String() string {
	var b strings.Builder
	for _, name := range s.Names() {
		// Anything larger than maxval goes into the last bucket.
		fmt.Fprintf(&b, "%-20.20s: %s\n", name, HDR2ASCII(s.m[name], 40, 0, s.maxval))
	}
	return b.String()
}
