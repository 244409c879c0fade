// Package termfilter implements term-range filtering over inverted-index
// segments.
//
// Given a field whose values are indexed as sorted byte terms, termfilter
// computes the set of documents whose value falls inside a byte-lexicographic
// range, with each bound optionally open and optionally inclusive. Matching
// terms are enumerated lazily against the segment's term dictionary and their
// postings are unioned directly into one per-segment bitmap, so a wide range
// never expands into one sub-query per matching term.
//
// # Quick Start
//
//	seg := memory.New()
//	seg.AddText(0, "fruit", "apple")
//	seg.AddText(1, "fruit", "banana")
//	seg.AddText(2, "fruit", "cherry")
//
//	spec, _ := termfilter.NewRangeString("fruit", "banana", "cherry", true, true)
//	bm, _ := termfilter.Evaluate(spec, seg)
//	bm.Contains(1) // true
//	bm.Contains(0) // false
//
// # Strategies
//
// RangeSpec, PrefixSpec and TermSpec all implement Strategy, the single
// "produce the next matching term" capability. Evaluate drives any Strategy
// through the same postings-union routine, so new multi-term matchers plug in
// without duplicating the bitmap-building logic.
//
// # Segments
//
// The term dictionary and postings storage are external collaborators,
// described by the interfaces in the segment package. The segment/memory
// package ships a complete in-memory reference implementation with optional
// zstd-compressed snapshots.
//
// All comparisons are unsigned byte-lexicographic. Nothing in this package is
// locale-aware.
package termfilter
