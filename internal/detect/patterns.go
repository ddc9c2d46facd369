package detect

import "regexp"

// Lexical patterns for the pattern strategy. These cast a wide net on
// purpose: boundary-tightening and correctness checks belong to the
// validator, not the detector.
var (
	// emailPattern requires a single local part, one @, and a dotted
	// domain ending in an alphabetic segment of length >= 2.
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// phonePattern tolerates `-`, `.`, space and parentheses separators and
	// an optional + country code prefix.
	phonePattern = regexp.MustCompile(`(?:\+\d{1,3}[-. ]?)?(?:\(\d{1,4}\)[-. ]?)?\d{2,4}(?:[-. ]?\d{2,4}){1,3}`)
)

// minSpanLen is the minimal raw span length per field type; shorter spans
// can never validate and are not emitted as candidates.
var minSpanLen = map[string]int{
	"name":  4, // shortest plausible "A Bo" style two-token name
	"phone": 7, // shortest national significant number
	"email": 6, // a@b.co
	"date":  6, // 1/2/06
	"other": 2,
}
