// Package validate decides whether raw candidates are well-formed and
// reduces them to canonical form. Validation is a pure function of the
// candidate plus fixed configuration; rejection is normal filtering, not
// an error.
package validate

import (
	"fmt"
	"strings"

	"github.com/docfield/docfield/internal/field"
)

const (
	// DefaultRegion is the phone region assumed for numbers without a
	// country code prefix.
	DefaultRegion = "US"

	// DefaultYearPivot resolves two-digit years: < pivot maps to 20xx,
	// otherwise 19xx.
	DefaultYearPivot = 50
)

// Diagnostics receives rejected candidates and the rejection reason.
// Installing one makes silent filtering observable in tests.
type Diagnostics func(c field.Candidate, reason string)

// Validator validates and normalizes candidates per field type.
type Validator struct {
	region      string
	yearPivot   int
	diagnostics Diagnostics
}

// Option configures a Validator.
type Option func(*Validator)

// WithRegion sets the default phone region (ISO 3166-1 alpha-2).
func WithRegion(region string) Option {
	return func(v *Validator) {
		if region != "" {
			v.region = strings.ToUpper(region)
		}
	}
}

// WithYearPivot sets the two-digit year pivot.
func WithYearPivot(pivot int) Option {
	return func(v *Validator) {
		if pivot > 0 && pivot < 100 {
			v.yearPivot = pivot
		}
	}
}

// WithDiagnostics installs a rejection sink.
func WithDiagnostics(d Diagnostics) Option {
	return func(v *Validator) { v.diagnostics = d }
}

// NewValidator creates a validator with the given options.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		region:    DefaultRegion,
		yearPivot: DefaultYearPivot,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks one candidate. The second return value reports whether
// the candidate passed; a rejected candidate is dropped silently apart
// from the diagnostics sink. The error return is non-nil only for a
// candidate whose type tag is outside the closed tag set, which indicates
// a detector contract violation.
func (v *Validator) Validate(c field.Candidate) (field.Validated, bool, error) {
	var (
		value string
		note  string
		ok    bool
	)

	switch c.Type {
	case field.TypePhone:
		value, note, ok = v.validatePhone(c.Text)
	case field.TypeEmail:
		value, note, ok = v.validateEmail(c.Text)
	case field.TypeName:
		value, note, ok = v.validateName(c.Text)
	case field.TypeDate:
		value, note, ok = v.validateDate(c.Text)
	case field.TypeOther:
		value, ok = strings.TrimSpace(c.Text), strings.TrimSpace(c.Text) != ""
		if !ok {
			note = "empty span"
		}
	default:
		return field.Validated{}, false, fmt.Errorf("%w: unrecognized type %q", field.ErrInvalidCandidate, c.Type)
	}

	if !ok {
		if v.diagnostics != nil {
			v.diagnostics(c, note)
		}
		return field.Validated{}, false, nil
	}

	return field.Validated{
		Type:   c.Type,
		Value:  value,
		Valid:  true,
		Note:   note,
		Page:   c.Page,
		Offset: c.Offset,
	}, true, nil
}
