package validate

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// validatePhone accepts a number whose digit count, after separator
// stripping, matches a recognized national or international length for its
// region. The region comes from a leading + country code when present,
// otherwise the configured default. Canonical form is E.164.
func (v *Validator) validatePhone(raw string) (value, note string, ok bool) {
	cleaned := cleanPhone(raw)
	if cleaned == "" || cleaned == "+" {
		return "", "no digits in span", false
	}

	num, err := phonenumbers.Parse(cleaned, v.region)
	if err != nil {
		return "", fmt.Sprintf("unparseable number: %v", err), false
	}

	if !phonenumbers.IsPossibleNumber(num) {
		return "", "digit count matches no recognized number length", false
	}

	if !strings.HasPrefix(cleaned, "+") {
		note = "assumed region " + v.region
	}

	return phonenumbers.Format(num, phonenumbers.E164), note, true
}

// cleanPhone strips separators, keeping digits and a leading +.
func cleanPhone(raw string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
