package validate

import (
	"strings"
)

const localChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789._%+-"

// validateEmail accepts an address with exactly one @, a non-empty local
// part, and a dotted domain whose top-level segment is alphabetic and at
// least two characters. Canonical form lower-cases the domain and
// preserves the local part's case.
func (v *Validator) validateEmail(raw string) (value, note string, ok bool) {
	addr := strings.TrimSpace(raw)

	at := strings.Count(addr, "@")
	if at != 1 {
		return "", "address must contain exactly one @", false
	}

	local, domain, _ := strings.Cut(addr, "@")
	if local == "" {
		return "", "empty local part", false
	}
	if domain == "" {
		return "", "empty domain", false
	}

	for _, r := range local {
		if !strings.ContainsRune(localChars, r) {
			return "", "disallowed character in local part", false
		}
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..") {
		return "", "misplaced dot in local part", false
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return "", "domain must contain at least one dot", false
	}
	for _, label := range labels {
		if !validDomainLabel(label) {
			return "", "malformed domain label", false
		}
	}
	if !validTopLevel(labels[len(labels)-1]) {
		return "", "invalid top-level domain segment", false
	}

	normalized := local + "@" + strings.ToLower(domain)
	if normalized != addr {
		note = "domain lower-cased"
	}
	return normalized, note, true
}

func validDomainLabel(label string) bool {
	if label == "" {
		return false
	}
	if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
		return false
	}
	for _, r := range label {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !isLetter && !isDigit && r != '-' {
			return false
		}
	}
	return true
}

func validTopLevel(label string) bool {
	if len(label) < 2 {
		return false
	}
	for _, r := range label {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
