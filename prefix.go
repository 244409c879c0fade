package termfilter

import (
	"bytes"
	"fmt"

	"github.com/hupe1980/termfilter/segment"
)

// PrefixSpec selects all terms of a field starting with a byte prefix. It is
// a multi-term strategy like RangeSpec and shares the same postings-union
// evaluation.
type PrefixSpec struct {
	field  string
	prefix []byte
}

// NewPrefix creates a prefix specification for field. The prefix must be
// non-empty; matching every term of a field is not a supported query.
func NewPrefix(field string, prefix []byte) (*PrefixSpec, error) {
	if len(prefix) == 0 {
		return nil, fmt.Errorf("%w: prefix", ErrEmptyTerm)
	}
	return &PrefixSpec{field: field, prefix: bytes.Clone(prefix)}, nil
}

// Field returns the indexed field the prefix matches against.
func (p *PrefixSpec) Field() string { return p.field }

// Prefix returns the byte prefix.
func (p *PrefixSpec) Prefix() []byte { return bytes.Clone(p.prefix) }

// Enumerate implements Strategy: seek to the prefix itself (the smallest
// possible match) and stream terms while the prefix holds. Terms sharing the
// prefix are contiguous in byte order, so the first mismatch ends the scan.
func (p *PrefixSpec) Enumerate(dict segment.TermDict) TermsEnum {
	return &prefixEnum{iter: dict.SeekCeiling(p.prefix), prefix: p.prefix}
}

var _ Strategy = (*PrefixSpec)(nil)

type prefixEnum struct {
	iter   segment.TermsIter
	prefix []byte
}

func (e *prefixEnum) Next() ([]byte, bool) {
	term, ok := e.iter.Next()
	if !ok || !bytes.HasPrefix(term, e.prefix) {
		return nil, false
	}
	return term, true
}
