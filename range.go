package termfilter

import (
	"bytes"
	"fmt"

	"github.com/hupe1980/termfilter/segment"
)

// Bound is an optional range endpoint. The zero value is an absent bound
// (the range is unbounded on that side). Presence is explicit so that an
// absent bound can never leak into a byte comparison.
type Bound struct {
	value []byte
	set   bool
}

// NewBound returns a present bound for term. The term is copied.
func NewBound(term []byte) Bound {
	return Bound{value: bytes.Clone(term), set: true}
}

// Value returns the bound's term and whether the bound is present.
func (b Bound) Value() ([]byte, bool) {
	return b.value, b.set
}

// RangeSpec selects all terms of a field inside a byte-lexicographic range
// [lower, upper], each bound optionally absent and optionally exclusive.
//
// A RangeSpec is immutable once constructed and safe to reuse across many
// segments and concurrent evaluations.
type RangeSpec struct {
	field        string
	lower, upper Bound
	includeLower bool
	includeUpper bool
}

// NewRange creates a range specification for field. A nil or empty term
// means the bound is absent (unbounded on that side).
//
// Construction fails with ErrInvalidRange when both bounds are absent, or
// when an absent bound is marked inclusive. A present lower bound above the
// upper bound is NOT an error; such a range is vacuously empty.
func NewRange(field string, lower, upper []byte, includeLower, includeUpper bool) (*RangeSpec, error) {
	lo := boundOf(lower)
	up := boundOf(upper)

	if !lo.set && !up.set {
		return nil, fmt.Errorf("%w: at least one bound is required", ErrInvalidRange)
	}
	if !lo.set && includeLower {
		return nil, fmt.Errorf("%w: cannot include an absent lower bound", ErrInvalidRange)
	}
	if !up.set && includeUpper {
		return nil, fmt.Errorf("%w: cannot include an absent upper bound", ErrInvalidRange)
	}

	return &RangeSpec{
		field:        field,
		lower:        lo,
		upper:        up,
		includeLower: includeLower,
		includeUpper: includeUpper,
	}, nil
}

// NewRangeString is the text-term variant of NewRange. Terms are the raw
// UTF-8 bytes of the strings, one fixed encoding that is never
// locale-dependent. An empty string means the bound is absent.
func NewRangeString(field, lower, upper string, includeLower, includeUpper bool) (*RangeSpec, error) {
	return NewRange(field, []byte(lower), []byte(upper), includeLower, includeUpper)
}

// LessOrEqual creates a range matching every term <= term.
func LessOrEqual(field string, term []byte) (*RangeSpec, error) {
	return NewRange(field, nil, term, false, true)
}

// GreaterOrEqual creates a range matching every term >= term.
func GreaterOrEqual(field string, term []byte) (*RangeSpec, error) {
	return NewRange(field, term, nil, true, false)
}

func boundOf(term []byte) Bound {
	if len(term) == 0 {
		return Bound{}
	}
	return NewBound(term)
}

// Field returns the indexed field the range matches against.
func (r *RangeSpec) Field() string { return r.field }

// Lower returns the lower bound.
func (r *RangeSpec) Lower() Bound { return r.lower }

// Upper returns the upper bound.
func (r *RangeSpec) Upper() Bound { return r.upper }

// LowerText returns the lower bound as text and whether it is present.
func (r *RangeSpec) LowerText() (string, bool) {
	v, ok := r.lower.Value()
	return string(v), ok
}

// UpperText returns the upper bound as text and whether it is present.
func (r *RangeSpec) UpperText() (string, bool) {
	v, ok := r.upper.Value()
	return string(v), ok
}

// IncludesLower reports whether the lower bound itself matches.
func (r *RangeSpec) IncludesLower() bool { return r.includeLower }

// IncludesUpper reports whether the upper bound itself matches.
func (r *RangeSpec) IncludesUpper() bool { return r.includeUpper }

// Equal reports whether two specifications select the same range.
func (r *RangeSpec) Equal(other *RangeSpec) bool {
	if other == nil {
		return false
	}
	return r.field == other.field &&
		r.lower.set == other.lower.set &&
		r.upper.set == other.upper.set &&
		bytes.Equal(r.lower.value, other.lower.value) &&
		bytes.Equal(r.upper.value, other.upper.value) &&
		r.includeLower == other.includeLower &&
		r.includeUpper == other.includeUpper
}

// String renders the range in interval notation for debugging.
func (r *RangeSpec) String() string {
	lb, ub := "(", ")"
	if r.includeLower {
		lb = "["
	}
	if r.includeUpper {
		ub = "]"
	}
	lo, up := "*", "*"
	if v, ok := r.lower.Value(); ok {
		lo = string(v)
	}
	if v, ok := r.upper.Value(); ok {
		up = string(v)
	}
	return fmt.Sprintf("%s:%s%s,%s%s", r.field, lb, lo, up, ub)
}

// Enumerate implements Strategy. The enumerator seeks the dictionary to the
// first term >= lower (or to the start when unbounded below) and streams
// terms until the upper bound predicate fails or the dictionary ends.
func (r *RangeSpec) Enumerate(dict segment.TermDict) TermsEnum {
	var seek []byte
	if lo, ok := r.lower.Value(); ok {
		seek = lo
	}
	return &rangeEnum{iter: dict.SeekCeiling(seek), spec: r}
}

var _ Strategy = (*RangeSpec)(nil)

// rangeEnum is the per-evaluation range enumerator. Single linear pass: the
// seek already positioned the iterator at the first candidate.
type rangeEnum struct {
	iter segment.TermsIter
	spec *RangeSpec
}

func (e *rangeEnum) Next() ([]byte, bool) {
	for {
		term, ok := e.iter.Next()
		if !ok {
			return nil, false
		}

		// The dictionary is duplicate-free, so an exclusive lower bound
		// skips at most one term.
		if lo, present := e.spec.lower.Value(); present && !e.spec.includeLower && bytes.Equal(term, lo) {
			continue
		}

		if up, present := e.spec.upper.Value(); present {
			cmp := bytes.Compare(term, up)
			if cmp > 0 || (cmp == 0 && !e.spec.includeUpper) {
				return nil, false
			}
		}

		return term, true
	}
}
