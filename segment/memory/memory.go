package memory

import (
	"bytes"
	"iter"
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/termfilter/segment"
)

// Segment is a complete in-memory implementation of segment.Segment: a
// per-field sorted term dictionary with roaring postings and a roaring
// deleted-document set.
//
// Writes (Add, Delete) and reads may be interleaved, guarded by an internal
// RWMutex. Filter evaluation assumes the segment does not change while a
// single evaluation runs; the usual lifecycle is build, then query.
type Segment struct {
	mu      sync.RWMutex
	fields  map[string]*fieldDict
	deleted *roaring.Bitmap
	maxDoc  uint32
}

// fieldDict keeps the sorted unique terms of one field alongside the
// postings of each term.
type fieldDict struct {
	terms    [][]byte
	postings map[string]*roaring.Bitmap
}

// New creates an empty segment.
func New() *Segment {
	return &Segment{
		fields:  make(map[string]*fieldDict),
		deleted: roaring.New(),
	}
}

// Ensure Segment implements the collaborator contract.
var _ segment.Segment = (*Segment)(nil)

// Add indexes terms for docID under field. Document ids define the
// segment's id space: DocCount becomes max(docID)+1.
func (s *Segment) Add(docID uint32, field string, terms ...[]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fd, ok := s.fields[field]
	if !ok {
		fd = &fieldDict{postings: make(map[string]*roaring.Bitmap)}
		s.fields[field] = fd
	}

	for _, term := range terms {
		key := string(term)
		rb, ok := fd.postings[key]
		if !ok {
			rb = roaring.New()
			fd.postings[key] = rb
			fd.insertTerm([]byte(key))
		}
		rb.Add(docID)
	}

	if docID+1 > s.maxDoc {
		s.maxDoc = docID + 1
	}
}

// AddText indexes text values for docID under field, using the raw UTF-8
// bytes of each string as the term.
func (s *Segment) AddText(docID uint32, field string, values ...string) {
	terms := make([][]byte, len(values))
	for i, v := range values {
		terms[i] = []byte(v)
	}
	s.Add(docID, field, terms...)
}

// Delete marks docID as deleted. The document stays in the postings until a
// rebuild; the live-document mask excludes it from every result.
func (s *Segment) Delete(docID uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted.Add(docID)
}

// DocCount returns the size of the segment's document-id space.
func (s *Segment) DocCount() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxDoc
}

// Terms returns the sorted term dictionary for field, or nil when the
// segment has no such field.
func (s *Segment) Terms(field string) (segment.TermDict, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fd, ok := s.fields[field]
	if !ok {
		return nil, nil
	}
	return &termDict{terms: fd.terms}, nil
}

// Postings returns the ascending document ids containing term in field.
func (s *Segment) Postings(field string, term []byte) (iter.Seq[uint32], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rb *roaring.Bitmap
	if fd, ok := s.fields[field]; ok {
		rb = fd.postings[string(term)]
	}

	return func(yield func(uint32) bool) {
		if rb == nil {
			return
		}
		it := rb.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}, nil
}

// LiveDocs returns the live-document mask, or nil when nothing was deleted.
func (s *Segment) LiveDocs() segment.LiveDocs {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.deleted.IsEmpty() {
		return nil
	}
	return &liveDocs{deleted: s.deleted}
}

// insertTerm keeps fd.terms sorted and duplicate-free.
func (fd *fieldDict) insertTerm(term []byte) {
	i := sort.Search(len(fd.terms), func(j int) bool {
		return bytes.Compare(fd.terms[j], term) >= 0
	})
	if i < len(fd.terms) && bytes.Equal(fd.terms[i], term) {
		return
	}
	fd.terms = append(fd.terms, nil)
	copy(fd.terms[i+1:], fd.terms[i:])
	fd.terms[i] = term
}

// termDict is a point-in-time view over a field's sorted terms.
type termDict struct {
	terms [][]byte
}

func (d *termDict) SeekCeiling(term []byte) segment.TermsIter {
	i := sort.Search(len(d.terms), func(j int) bool {
		return bytes.Compare(d.terms[j], term) >= 0
	})
	return &termsIter{terms: d.terms, idx: i}
}

type termsIter struct {
	terms [][]byte
	idx   int
}

func (it *termsIter) Next() ([]byte, bool) {
	if it.idx >= len(it.terms) {
		return nil, false
	}
	term := it.terms[it.idx]
	it.idx++
	return term, true
}

type liveDocs struct {
	deleted *roaring.Bitmap
}

func (l *liveDocs) IsLive(docID uint32) bool {
	return !l.deleted.Contains(docID)
}
