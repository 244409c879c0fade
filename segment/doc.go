// Package segment defines the collaborator contracts a filter evaluation
// consumes: the sorted per-field term dictionary, the postings access and
// the live-document mask of one searchable segment.
//
// # Implementations
//
//   - memory: complete in-memory reference segment with roaring postings
//     and zstd snapshots.
//
// Custom storage engines implement Segment directly; the filter core only
// requires "seek to first term >= X, then iterate" from the dictionary and
// "ascending document ids for term T" from postings.
package segment
