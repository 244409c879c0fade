// Package memory provides an in-memory reference implementation of
// segment.Segment: sorted per-field term dictionaries with roaring-bitmap
// postings, logical deletes, and zstd-compressed snapshot persistence.
//
// It is the default collaborator for tests and small datasets; production
// storage engines implement segment.Segment directly.
package memory
