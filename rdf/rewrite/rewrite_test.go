package rewrite

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/fbprep/rdf/ds"
	"github.com/fbprep/rdf/xsdtime"
)

const intIRI = "<http://www.w3.org/2001/XMLSchema#int>"

func TestLiteral(t *testing.T) {

	for _, n := range []int64{0, -1000, 1002931200, -219988029600} {
		lit := Literal(n)
		want := `"` + strconv.FormatInt(n, 10) + `"^^` + intIRI
		if lit != want {
			t.Errorf("Literal(%d): expected %s got %s", n, want, lit)
		}
		// round trip through Value
		got, err := strconv.ParseInt(Value(lit), 10, 64)
		if err != nil || got != n {
			t.Errorf("Value(%s): expected %d got %d (%v)", lit, n, got, err)
		}
	}
}

func TestValue(t *testing.T) {

	tests := []struct{ in, want string }{
		{`"2001-10-13"^^<http://www.w3.org/2001/XMLSchema#date>`, "2001-10-13"},
		{`"T10:30"^^<http://www.w3.org/2001/XMLSchema#dateTime>`, "T10:30"},
		{`"1810"`, `1810"`},
		{``, ``},
	}
	for _, tc := range tests {
		if got := Value(tc.in); got != tc.want {
			t.Errorf("Value(%q): expected %q got %q", tc.in, tc.want, got)
		}
	}
}

func TestLine(t *testing.T) {

	tests := []struct {
		in, want string
		kind     Kind
	}{
		{
			"<http://rdf.freebase.com/ns/m.0x>\t<http://rdf.freebase.com/ns/people.person.date_of_birth>\t\"1931-02-20\"^^<http://www.w3.org/2001/XMLSchema#date>\t.\n",
			"<http://rdf.freebase.com/ns/m.0x>\t<http://rdf.freebase.com/ns/people.person.date_of_birth>\t\"-1226448000\"^^" + intIRI + "\t.\n",
			Calendar,
		},
		{
			"<s>\t<p>\t\"T10:30:30\"^^<http://www.w3.org/2001/XMLSchema#dateTime>\t.\n",
			"<s>\t<p>\t\"37830\"^^" + intIRI + "\t.\n",
			TimeOfDay,
		},
		{
			"<s>\t<p>\t\"-5001\"^^<http://www.w3.org/2001/XMLSchema#gYear>\t.\n",
			"<s>\t<p>\t\"-219988029600\"^^" + intIRI + "\t.\n",
			JulianYear,
		},
		{
			"<s>\t<p>\t\"-4799\"^^<http://www.w3.org/2001/XMLSchema#gYear>\t.\n",
			"<s>\t<p>\t\"-213608966400\"^^" + intIRI + "\t.\n",
			Calendar,
		},
	}
	for _, tc := range tests {
		got, k, err := Line(tc.in)
		if err != nil {
			t.Errorf("Line(%q): unexpected error %s", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Line: expected %q got %q", tc.want, got)
		}
		if k != tc.kind {
			t.Errorf("Line(%q): expected kind %s got %s", tc.in, tc.kind, k)
		}
		if strings.Count(got, "\t") != strings.Count(tc.in, "\t") {
			t.Errorf("Line changed the number of fields: %q", got)
		}
	}
}

func TestLineErrors(t *testing.T) {

	_, _, err := Line("<s>\t<p>\n")
	if !errors.Is(err, ErrLineShape) {
		t.Errorf("expected ErrLineShape got %v", err)
	}

	// an extra column is not silently carried through
	_, _, err = Line("<s>\t<p>\t\"2001-02-03\"^^<http://www.w3.org/2001/XMLSchema#date>\t<g>\t.\n")
	if !errors.Is(err, ErrLineShape) || !errors.Is(err, ds.ErrFields) {
		t.Errorf("expected ErrLineShape and ErrFields for 5 fields got %v", err)
	}

	got, _, err := Line("<s>\t<p>\t\"2001\"^^<http://www.w3.org/2001/XMLSchema#gYear>\t.")
	if err != nil {
		t.Fatal(err)
	}
	if got != "<s>\t<p>\t\"978307200\"^^"+intIRI+"\t." {
		t.Errorf("line without newline: unexpected %q", got)
	}

	_, _, err = Line("<s>\t<p>\t\"2001-13-45\"^^<http://www.w3.org/2001/XMLSchema#date>\t.\n")
	var perr *xsdtime.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *xsdtime.ParseError got %v", err)
	}
	if perr.Value != "2001-13-45" {
		t.Errorf("unexpected error value %q", perr.Value)
	}
	t.Log(err)
}
