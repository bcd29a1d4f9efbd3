package classify

import (
	"testing"
)

func TestIsSubjectDatetime(t *testing.T) {

	tests := []struct {
		line string
		want bool
	}{
		{"<http://rdf.freebase.com/ns/g.124xwg2bc>\t<http://rdf.freebase.com/ns/architecture.structure.opened>\t\"1931-02-20\"^^<http://www.w3.org/2001/XMLSchema#date>\t.\n", true},
		{"<a>\t<b>\t\"1810\"^^<http://www.w3.org/2001/XMLSchema#gYear>\t.\n", true},
		{"<a>\t<b>\t\"2014-05\"^^<http://www.w3.org/2001/XMLSchema#gYearMonth>\t.\n", true},
		{"<a>\t<b>\t\"T10:30\"^^<http://www.w3.org/2001/XMLSchema#dateTime>\t.\n", true},
		// date datatype decides, whatever the subject or predicate
		{"<http://www.w3.org/2001/XMLSchema#int>\t<x>\t\"2001\"^^<http://www.w3.org/2001/XMLSchema#date>\t.\n", true},
		{"<http://rdf.freebase.com/ns/g.11b5lzsmmj>\t<http://rdf.freebase.com/ns/common.notable_for.display_name>\t\"Спортивна асоціація\"@uk\t.\n", false},
		// time of day datatype is not a trigger
		{"<a>\t<b>\t\"10:30:00\"^^<http://www.w3.org/2001/XMLSchema#time>\t.\n", false},
		// no newline, no match
		{"<a>\t<b>\t\"1931-02-20\"^^<http://www.w3.org/2001/XMLSchema#date>\t.", false},
		// space instead of tab before terminator
		{"<a>\t<b>\t\"1931-02-20\"^^<http://www.w3.org/2001/XMLSchema#date> .\n", false},
		{"", false},
	}
	for i, tc := range tests {
		if got := IsSubjectDatetime(tc.line); got != tc.want {
			t.Errorf("%d: IsSubjectDatetime(%q) = %v, want %v", i, tc.line, got, tc.want)
		}
	}
}

func TestIsLanguagePresent(t *testing.T) {

	tests := []struct {
		line string
		want bool
		tag  string
	}{
		{"<http://rdf.freebase.com/ns/g.11b5lzsmmj>\t<http://rdf.freebase.com/ns/common.notable_for.display_name>\t\"Спортивна асоціація\"@uk\t.", true, "uk"},
		{"<http://rdf.freebase.com/ns/g.11b5lx1872>\t<http://www.w3.org/1999/02/22-rdf-syntax-ns#type>\t<http://rdf.freebase.com/ns/common.notable_for>\t.", false, ""},
		{"<a>\t<b>\t\"colour\"@en-gb\t.\n", true, "en-gb"},
		{"<a>\t<b>\t\"中文\"@zh-Hant\t.\n", true, "zh-Hant"},
		{"<a>\t<b>\t\"x\"@fil\t.\n", true, "fil"},
		// single letter tag is too short
		{"<a>\t<b>\t\"x\"@e\t.\n", false, ""},
		// typed literal
		{"<a>\t<b>\t\"x\"^^<http://www.w3.org/2001/XMLSchema#string>\t.\n", false, ""},
		// @ without preceding quote
		{"<a>\t<mailto:x@example.org>\t<c>\t.\n", false, ""},
	}
	for i, tc := range tests {
		if got := IsLanguagePresent(tc.line); got != tc.want {
			t.Errorf("%d: IsLanguagePresent(%q) = %v, want %v", i, tc.line, got, tc.want)
		}
		if got := LanguageTag(tc.line); got != tc.tag {
			t.Errorf("%d: LanguageTag(%q) = %q, want %q", i, tc.line, got, tc.tag)
		}
	}
}

func TestIsAdsTopic(t *testing.T) {

	tests := []struct {
		line string
		want bool
	}{
		{"<http://rdf.freebase.com/ns/award.award_winner>\t<http://rdf.freebase.com/ns/type.type.instance>\t<http://rdf.freebase.com/ns/m.07vdfxq>\t.", false},
		{"<http://rdf.freebase.com/ns/m.0g4yvxb>\t<http://rdf.freebase.com/ns/user.xandr.webscrapper.domain.ad_entry.ads_topic>\t<http://rdf.freebase.com/ns/m.0cvhdpt>\t.", true},
		// substring match: inside a literal also counts
		{"<a>\t<b>\t\"see <http://rdf.freebase.com/ns/user.xandr.webscrapper.domain.ad_entry.ads_topic>\"@en\t.\n", true},
		// without angle brackets it is not the predicate IRI
		{"<a>\t<b>\t\"http://rdf.freebase.com/ns/user.xandr.webscrapper.domain.ad_entry.ads_topic\"\t.\n", false},
	}
	for i, tc := range tests {
		if got := IsAdsTopic(tc.line); got != tc.want {
			t.Errorf("%d: IsAdsTopic(%q) = %v, want %v", i, tc.line, got, tc.want)
		}
	}
}
