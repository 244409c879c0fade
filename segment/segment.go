package segment

import "iter"

// TermsIter walks a field's term dictionary forward in ascending byte order.
//
// Yielded terms may alias the dictionary's internal storage; callers that
// retain a term beyond the next call must copy it.
type TermsIter interface {
	// Next returns the next term, or ok=false when the dictionary is
	// exhausted.
	Next() (term []byte, ok bool)
}

// TermDict is a read-only, sorted, duplicate-free term dictionary for one
// field within a segment. It is owned by the segment; the filter core never
// mutates it.
type TermDict interface {
	// SeekCeiling returns a fresh iterator positioned at the first term
	// >= term in byte order. A nil term seeks to the start of the
	// dictionary.
	SeekCeiling(term []byte) TermsIter
}

// LiveDocs reports which documents of a segment are still live. Documents
// flagged as deleted are excluded from every filter result, regardless of
// term membership.
type LiveDocs interface {
	IsLive(docID uint32) bool
}

// Segment exposes the per-segment read surfaces the filter core consumes.
//
// Implementations own the storage and may be backed by anything that can
// serve sorted terms and ascending postings; errors they return propagate
// unchanged through evaluation.
type Segment interface {
	// DocCount returns the size of the segment's document-id space.
	// Valid document ids are [0, DocCount).
	DocCount() uint32

	// Terms returns the term dictionary for field, or a nil TermDict when
	// the segment has no such field. Fields legitimately vary across
	// segments, so an absent field is not an error.
	Terms(field string) (TermDict, error)

	// Postings returns the ascending document ids containing term in field.
	Postings(field string, term []byte) (iter.Seq[uint32], error)

	// LiveDocs returns the live-document mask, or nil when every document
	// is live.
	LiveDocs() LiveDocs
}
