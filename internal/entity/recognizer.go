// Package entity provides named-entity recognition as a capability
// interface, plus the process-wide recognizer lifecycle. The pipeline
// depends only on the Recognizer interface; the concrete model behind it
// can be swapped without touching detection or validation.
package entity

import (
	"errors"
	"sync"
)

// Span labels supported by the recognizer.
const (
	LabelPerson = "PERSON"
	LabelDate   = "DATE"
)

// Span is one typed entity occurrence in a text.
type Span struct {
	Text   string `json:"text"`
	Label  string `json:"label"`
	Offset int    `json:"offset"`
}

// Recognizer detects typed entity spans in plain text. Implementations
// must be safe for concurrent use after construction.
type Recognizer interface {
	Entities(text string) ([]Span, error)
}

// ErrNotLoaded is returned when the shared recognizer is used before Load
// or after Release.
var ErrNotLoaded = errors.New("entity recognizer not loaded")

var (
	sharedMu sync.RWMutex
	shared   Recognizer
)

// Load initializes the process-wide recognizer. It is called once before
// the first request; repeated calls are no-ops. The loaded model is
// read-only during inference and safe for concurrent use without locking.
func Load() error {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if shared != nil {
		return nil
	}

	rec, err := NewProseRecognizer()
	if err != nil {
		return err
	}
	shared = rec
	return nil
}

// Shared returns the process-wide recognizer.
func Shared() (Recognizer, error) {
	sharedMu.RLock()
	defer sharedMu.RUnlock()

	if shared == nil {
		return nil, ErrNotLoaded
	}
	return shared, nil
}

// Release drops the process-wide recognizer at shutdown.
func Release() {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	shared = nil
}

// SetShared installs a replacement recognizer, returning the previous one.
// Used by tests to substitute a deterministic implementation.
func SetShared(rec Recognizer) Recognizer {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	prev := shared
	shared = rec
	return prev
}
