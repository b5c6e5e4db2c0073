package refgraph

import "strings"

// Normalize canonicalizes an identifier for comparison: surrounding
// whitespace is trimmed and the result is lower-cased. Source exports are
// inconsistently cased, so every map lookup and equality test in this package
// goes through Normalize. Original casing is preserved anywhere an identifier
// is stored or reported.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Absent reports whether s is empty after trimming. An absent value is
// distinct from any real identifier: an absent referrer marks a root member,
// an absent identifier marks a malformed row to skip.
func Absent(s string) bool {
	return strings.TrimSpace(s) == ""
}
