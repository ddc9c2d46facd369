package validate

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	honorifics = map[string]bool{
		"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	}
	suffixes = map[string]bool{
		"jr": true, "sr": true, "ii": true, "iii": true, "iv": true,
	}

	// namePart is checked after title-casing: leading capital, then
	// letters, apostrophes or hyphens.
	namePart = regexp.MustCompile(`^[A-Z][a-zA-Z'-]*$`)
)

const (
	maxNameParts   = 5
	minNamePartLen = 2
	maxNamePartLen = 20
)

// validateName accepts at least two whitespace-separated tokens, or a
// recognized honorific followed by a surname. Entirely numeric tokens are
// rejected. Canonical form is the title-cased given/family tokens joined
// with single spaces; honorifics and suffixes are dropped.
func (v *Validator) validateName(raw string) (value, note string, ok bool) {
	tokens := strings.Fields(strings.TrimSpace(raw))
	if len(tokens) == 0 {
		return "", "empty span", false
	}
	if len(tokens) > maxNameParts {
		return "", "name has too many parts", false
	}

	var (
		parts         []string
		sawHonorific  bool
		droppedTokens bool
	)
	for _, tok := range tokens {
		key := strings.ToLower(strings.Trim(tok, "."))
		if honorifics[key] {
			sawHonorific = true
			droppedTokens = true
			continue
		}
		if suffixes[key] {
			droppedTokens = true
			continue
		}
		parts = append(parts, tok)
	}

	if len(parts) == 0 {
		return "", "no name tokens after honorifics and suffixes", false
	}
	if len(parts) == 1 && !sawHonorific {
		return "", "single token without honorific", false
	}

	// cases.Caser carries internal state and is not safe for concurrent
	// use; one is built per call so validators can be shared across
	// document goroutines.
	titleCaser := cases.Title(language.English)

	normalized := make([]string, 0, len(parts))
	for _, part := range parts {
		if isNumeric(part) {
			return "", "numeric token in name", false
		}

		cased := titleCaser.String(strings.ToLower(part))
		if len(cased) < minNamePartLen {
			return "", "name part too short", false
		}
		if len(cased) > maxNamePartLen {
			return "", "name part too long", false
		}
		if !namePart.MatchString(cased) {
			return "", "malformed name part", false
		}
		normalized = append(normalized, cased)
	}

	if droppedTokens {
		note = "honorific or suffix dropped"
	}
	return strings.Join(normalized, " "), note, true
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}
