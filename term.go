package termfilter

import (
	"bytes"
	"fmt"

	"github.com/hupe1980/termfilter/segment"
)

// TermSpec selects documents containing exactly one term. It is the
// degenerate single-term strategy, useful on its own and as the simplest
// exerciser of the shared union routine.
type TermSpec struct {
	field string
	term  []byte
}

// NewTerm creates an exact-term specification for field.
func NewTerm(field string, term []byte) (*TermSpec, error) {
	if len(term) == 0 {
		return nil, fmt.Errorf("%w: term", ErrEmptyTerm)
	}
	return &TermSpec{field: field, term: bytes.Clone(term)}, nil
}

// Field returns the indexed field the term matches against.
func (t *TermSpec) Field() string { return t.field }

// Term returns the matched term.
func (t *TermSpec) Term() []byte { return bytes.Clone(t.term) }

// Enumerate implements Strategy: seek to the term and yield it once if the
// dictionary actually contains it.
func (t *TermSpec) Enumerate(dict segment.TermDict) TermsEnum {
	return &termEnum{iter: dict.SeekCeiling(t.term), term: t.term}
}

var _ Strategy = (*TermSpec)(nil)

type termEnum struct {
	iter segment.TermsIter
	term []byte
	done bool
}

func (e *termEnum) Next() ([]byte, bool) {
	if e.done {
		return nil, false
	}
	e.done = true

	term, ok := e.iter.Next()
	if !ok || !bytes.Equal(term, e.term) {
		return nil, false
	}
	return term, true
}
