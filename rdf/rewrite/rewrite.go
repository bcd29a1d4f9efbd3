// Package rewrite replaces the temporal object literal of a triple line with its canonical
// integer literal.
package rewrite

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fbprep/rdf/ds"
	"github.com/fbprep/rdf/xsdtime"

	"github.com/cayleygraph/quad"
)

// Kind identifies the conversion applied to a rewritten literal
type Kind int

const (
	TimeOfDay  Kind = iota // seconds since midnight
	Calendar               // Unix seconds, proleptic Gregorian
	JulianYear             // Unix seconds, Julian year model
)

func (k Kind) String() string {
	switch k {
	case TimeOfDay:
		return "timeofday"
	case Calendar:
		return "calendar"
	case JulianYear:
		return "julianyear"
	}
	return "unknown"
}

var ErrLineShape = errors.New("unexpected triple line shape")

// Literal formats n as an xsd:int typed literal e.g. "-1000"^^<http://www.w3.org/2001/XMLSchema#int>
func Literal(n int64) string {
	return quad.TypedString{Value: quad.String(strconv.FormatInt(n, 10)), Type: ds.Int}.String()
}

// Value extracts the lexical value of a typed literal: everything before the first `"^^`
// less the opening quote.
func Value(object string) string {
	v := object
	if i := strings.Index(v, `"^^`); i >= 0 {
		v = v[:i]
	}
	if len(v) > 0 {
		v = v[1:]
	}
	return v
}

// Convert converts the lexical value of a temporal literal to integer seconds.
// Values starting with 'T' are times of day.
func Convert(value string) (int64, Kind, error) {

	if strings.HasPrefix(value, "T") {
		n, err := xsdtime.TimeToSeconds(value)
		return n, TimeOfDay, err
	}
	k := Calendar
	if xsdtime.IsAntiquity(value) {
		k = JulianYear
	}
	n, err := xsdtime.TimeToUnix(value)
	return n, k, err
}

// Line rewrites the object of a temporal triple line. The line must have the four tab separated
// fields of a triple. All other bytes, including the line ending, are unchanged.
func Line(line string) (string, Kind, error) {

	t, err := ds.Split(line)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrLineShape, err)
	}
	n, k, err := Convert(Value(t.Obj))
	if err != nil {
		return "", k, fmt.Errorf("rewrite object %s: %w", t.Obj, err)
	}
	t.Obj = Literal(n)

	s := t.String()
	if !strings.HasSuffix(line, "\n") {
		s = strings.TrimSuffix(s, "\n")
	}
	return s, k, nil
}
