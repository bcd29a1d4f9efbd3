package ds

import (
	"errors"
	"strings"

	"github.com/cayleygraph/quad"
)

const (
	// XSD is the XML schema datatype namespace
	XSD = "http://www.w3.org/2001/XMLSchema#"

	// Terminator is the fourth field of every triple line
	Terminator = "."
	// LineEnd is the byte sequence every dump line ends with
	LineEnd = "\t" + Terminator + "\n"
)

// datatype IRIs of the dump
var (
	GYear      = quad.IRI(XSD + "gYear")
	GYearMonth = quad.IRI(XSD + "gYearMonth")
	Date       = quad.IRI(XSD + "date")
	DateTime   = quad.IRI(XSD + "dateTime")
	// Int is the datatype of the rewritten (canonical) temporal literals
	Int = quad.IRI(XSD + "int")
)

// AdsTopic is the excluded predicate. Triples containing it are not written to the kept output.
var AdsTopic = quad.IRI("http://rdf.freebase.com/ns/user.xandr.webscrapper.domain.ad_entry.ads_topic").String()

// TemporalSuffixes are the line endings of triples with a temporal object literal,
// ie. the datatype IRI followed by the terminator column and newline.
var TemporalSuffixes = []string{
	GYear.String() + LineEnd,
	GYearMonth.String() + LineEnd,
	Date.String() + LineEnd,
	DateTime.String() + LineEnd,
}

// LangPattern matches a language tag attached to a plain string literal e.g. "@uk, "@en-gb, "@zh-Hant.
// \w is unicode aware in the dump's tooling so letters, numbers and underscore are accepted.
const LangPattern = `"@[\p{L}\p{N}_]{2,3}(-[\p{L}\p{N}_]*)?`

var ErrFields = errors.New("triple must have 4 tab separated fields")

// Triple is one line of the dump split into its fields. Terminator excludes the line's newline.
type Triple struct {
	N    int // line number in dump
	Subj string
	Pred string
	Obj  string
	Term string
}

// Split splits a dump line into a Triple. The trailing newline, if any, is not part of Term.
func Split(line string) (Triple, error) {
	f := strings.Split(strings.TrimSuffix(line, "\n"), "\t")
	if len(f) != 4 {
		return Triple{}, ErrFields
	}
	return Triple{Subj: f[0], Pred: f[1], Obj: f[2], Term: f[3]}, nil
}

// String serialises the triple as a dump line, including the newline.
func (t Triple) String() string {
	var s strings.Builder
	s.Grow(len(t.Subj) + len(t.Pred) + len(t.Obj) + len(t.Term) + 4)
	s.WriteString(t.Subj)
	s.WriteByte('\t')
	s.WriteString(t.Pred)
	s.WriteByte('\t')
	s.WriteString(t.Obj)
	s.WriteByte('\t')
	s.WriteString(t.Term)
	s.WriteByte('\n')
	return s.String()
}
