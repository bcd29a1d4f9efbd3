// Package classify holds the line predicates that route each dump line. They work on the raw
// line, including its terminator column and newline, and have no side effects.
package classify

import (
	"regexp"
	"strings"

	"github.com/fbprep/rdf/ds"
)

var langRx = regexp.MustCompile(ds.LangPattern)

// IsSubjectDatetime reports whether the line's object is a gYear, gYearMonth, date or dateTime
// typed literal. This is a suffix comparison: other datatypes (e.g. xsd:time) never match.
func IsSubjectDatetime(line string) bool {
	for _, s := range ds.TemporalSuffixes {
		if strings.HasSuffix(line, s) {
			return true
		}
	}
	return false
}

// IsLanguagePresent reports whether the line contains a language tagged string literal.
func IsLanguagePresent(line string) bool {
	return langRx.MatchString(line)
}

// LanguageTag returns the first language tag in line (without the leading `"@`) or "".
func LanguageTag(line string) string {
	loc := langRx.FindStringIndex(line)
	if loc == nil {
		return ""
	}
	return line[loc[0]+2 : loc[1]]
}

// IsAdsTopic reports whether the excluded predicate appears anywhere in the line, literals included.
func IsAdsTopic(line string) bool {
	return strings.Contains(line, ds.AdsTopic)
}
