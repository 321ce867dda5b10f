package dialect

import "autoinclude/internal/source"

// Hint is a small piece of evidence suggesting a particular dialect.
type Hint struct {
	Dialect Kind
	Score   int
	Reason  string
	Span    source.Span
}

// Evidence aggregates per-file hints collected during scanning.
// A nil *Evidence is valid and records nothing.
type Evidence struct {
	hints []Hint
}

// NewEvidence creates a new Evidence container.
func NewEvidence() *Evidence {
	return &Evidence{
		hints: make([]Hint, 0, 16),
	}
}

// Add appends a hint to the evidence collection.
func (e *Evidence) Add(h Hint) {
	if e == nil {
		return
	}
	e.hints = append(e.hints, h)
}

// Hints returns the collected hints.
func (e *Evidence) Hints() []Hint {
	if e == nil {
		return nil
	}
	return e.hints
}

// Reset drops collected hints so the container can be reused for a rescan.
func (e *Evidence) Reset() {
	if e == nil {
		return
	}
	e.hints = e.hints[:0]
}
