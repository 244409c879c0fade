package termfilter

import "github.com/hupe1980/termfilter/segment"

// TermsEnum yields matching terms in ascending byte order, lazily and with
// no duplicates. A TermsEnum is created fresh per segment evaluation and is
// forward-only; abandoning it (not calling Next again) is the only way to
// abort a scan early.
type TermsEnum interface {
	// Next returns the next matching term, or ok=false when the sequence is
	// finished.
	Next() (term []byte, ok bool)
}

// Strategy is the capability shared by every multi-term matcher: produce the
// sequence of matching terms for one segment's term dictionary. RangeSpec,
// PrefixSpec and TermSpec implement it; Evaluate unions the postings of any
// Strategy through the same routine.
//
// Implementations must be immutable after construction so one instance can
// be evaluated against many segments concurrently.
type Strategy interface {
	// Field returns the indexed field the strategy matches against.
	Field() string

	// Enumerate returns a fresh enumerator over the matching terms of dict.
	Enumerate(dict segment.TermDict) TermsEnum
}
