package ds

import (
	"testing"
)

func TestConstants(t *testing.T) {

	expected := []string{
		"<http://www.w3.org/2001/XMLSchema#gYear>\t.\n",
		"<http://www.w3.org/2001/XMLSchema#gYearMonth>\t.\n",
		"<http://www.w3.org/2001/XMLSchema#date>\t.\n",
		"<http://www.w3.org/2001/XMLSchema#dateTime>\t.\n",
	}
	for i, s := range TemporalSuffixes {
		if s != expected[i] {
			t.Errorf("suffix %d: expected %q got %q", i, expected[i], s)
		}
	}
	if AdsTopic != "<http://rdf.freebase.com/ns/user.xandr.webscrapper.domain.ad_entry.ads_topic>" {
		t.Errorf("unexpected excluded predicate %q", AdsTopic)
	}
	if Int.String() != "<http://www.w3.org/2001/XMLSchema#int>" {
		t.Errorf("unexpected int datatype %q", Int.String())
	}
}

func TestSplit(t *testing.T) {

	line := "<s>\t<p>\t\"1931-02-20\"^^<http://www.w3.org/2001/XMLSchema#date>\t.\n"
	tr, err := Split(line)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Subj != "<s>" || tr.Pred != "<p>" || tr.Term != "." {
		t.Errorf("unexpected triple %#v", tr)
	}
	if tr.String() != line {
		t.Errorf("round trip: expected %q got %q", line, tr.String())
	}
	if _, err = Split("<s>\t<p>\t.\n"); err != ErrFields {
		t.Errorf("expected ErrFields got %v", err)
	}
}
