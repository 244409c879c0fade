package termfilter

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/termfilter/segment"
	"github.com/hupe1980/termfilter/segment/memory"
)

// fruitSegment indexes the dictionary {"apple","banana","cherry","date"},
// one document per term: doc 0 -> apple, doc 1 -> banana, ...
func fruitSegment() *memory.Segment {
	seg := memory.New()
	for i, fruit := range []string{"apple", "banana", "cherry", "date"} {
		seg.AddText(uint32(i), "fruit", fruit)
	}
	return seg
}

func evalRange(t *testing.T, seg segment.Segment, lower, upper string, incLower, incUpper bool) []uint32 {
	t.Helper()
	spec, err := NewRangeString("fruit", lower, upper, incLower, incUpper)
	require.NoError(t, err)
	bm, err := Evaluate(spec, seg)
	require.NoError(t, err)
	return bm.ToSlice()
}

func TestEvaluate_RangeInclusive(t *testing.T) {
	seg := fruitSegment()
	assert.Equal(t, []uint32{1, 2}, evalRange(t, seg, "banana", "cherry", true, true))
}

func TestEvaluate_ExclusiveLower(t *testing.T) {
	seg := fruitSegment()
	assert.Equal(t, []uint32{2}, evalRange(t, seg, "banana", "cherry", false, true))
}

func TestEvaluate_UnboundedLowerExclusiveUpper(t *testing.T) {
	seg := fruitSegment()
	assert.Equal(t, []uint32{0}, evalRange(t, seg, "", "banana", false, false))
}

func TestEvaluate_SingleTermRange(t *testing.T) {
	seg := fruitSegment()

	// lower == upper, both inclusive: exactly that term's documents.
	assert.Equal(t, []uint32{1}, evalRange(t, seg, "banana", "banana", true, true))

	// lower == upper but absent from the dictionary: empty.
	assert.Empty(t, evalRange(t, seg, "blueberry", "blueberry", true, true))

	// Either side exclusive: always empty.
	assert.Empty(t, evalRange(t, seg, "banana", "banana", false, true))
	assert.Empty(t, evalRange(t, seg, "banana", "banana", true, false))
	assert.Empty(t, evalRange(t, seg, "banana", "banana", false, false))
}

func TestEvaluate_LowerAboveUpper(t *testing.T) {
	seg := fruitSegment()
	assert.Empty(t, evalRange(t, seg, "date", "apple", true, true))
}

func TestEvaluate_LowerBeyondAllTerms(t *testing.T) {
	seg := fruitSegment()
	assert.Empty(t, evalRange(t, seg, "zucchini", "", true, false))
}

func TestEvaluate_OmittedBoundEquivalence(t *testing.T) {
	seg := fruitSegment()

	// Unbounded below matches a lower bound at or under every term.
	assert.Equal(t,
		evalRange(t, seg, "a", "cherry", true, true),
		evalRange(t, seg, "", "cherry", false, true))

	// Unbounded above matches an upper bound beyond every term.
	assert.Equal(t,
		evalRange(t, seg, "banana", "zzz", true, true),
		evalRange(t, seg, "banana", "", true, false))
}

func TestEvaluate_UnknownField(t *testing.T) {
	seg := fruitSegment()

	spec, err := NewRangeString("vegetable", "a", "z", true, true)
	require.NoError(t, err)

	bm, err := Evaluate(spec, seg)
	require.NoError(t, err)
	assert.True(t, bm.IsEmpty())
	assert.Equal(t, seg.DocCount(), bm.UniverseSize())
}

func TestEvaluate_EmptySegment(t *testing.T) {
	seg := memory.New()
	assert.Empty(t, evalRange(t, seg, "a", "z", true, true))
}

func TestEvaluate_LiveDocsMask(t *testing.T) {
	seg := fruitSegment()
	seg.Delete(1)

	// banana's document is deleted; only cherry remains.
	assert.Equal(t, []uint32{2}, evalRange(t, seg, "banana", "cherry", true, true))

	// Deleting all matches yields an empty bitmap.
	seg.Delete(2)
	assert.Empty(t, evalRange(t, seg, "banana", "cherry", true, true))
}

func TestEvaluate_MultiValuedDocuments(t *testing.T) {
	seg := memory.New()
	seg.AddText(0, "fruit", "apple", "cherry")
	seg.AddText(1, "fruit", "banana")
	seg.AddText(2, "fruit", "apple")

	// Doc 0 matches via cherry even though apple is outside the range, and
	// the overlap of banana+cherry postings stays a single bit per doc.
	assert.Equal(t, []uint32{0, 1}, evalRange(t, seg, "banana", "cherry", true, true))
}

func TestEvaluate_Idempotent(t *testing.T) {
	seg := fruitSegment()
	seg.Delete(3)

	spec, err := NewRangeString("fruit", "apple", "date", true, true)
	require.NoError(t, err)

	first, err := Evaluate(spec, seg)
	require.NoError(t, err)
	second, err := Evaluate(spec, seg)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.Equal(t, first.ToSlice(), second.ToSlice())
}

func TestEvaluate_WideRangeManyTerms(t *testing.T) {
	seg := memory.New()
	for i := 0; i < 5000; i++ {
		seg.AddText(uint32(i), "id", fmt.Sprintf("key-%06d", i))
	}

	spec, err := NewRangeString("id", "key-000000", "key-999999", true, true)
	require.NoError(t, err)

	bm, err := Evaluate(spec, seg)
	require.NoError(t, err)
	assert.Equal(t, 5000, bm.Cardinality())
}

// matchesRange mirrors the bound predicate with plain string comparison
// (byte-lexicographic in Go) for brute-force cross-checking.
func matchesRange(term, lower, upper string, incLower, incUpper bool) bool {
	if lower != "" {
		if incLower {
			if term < lower {
				return false
			}
		} else if term <= lower {
			return false
		}
	}
	if upper != "" {
		if incUpper {
			if term > upper {
				return false
			}
		} else if term >= upper {
			return false
		}
	}
	return true
}

func TestEvaluate_BruteForceCrossCheck(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	randTerm := func() string {
		n := 1 + rng.Intn(3)
		b := make([]byte, n)
		for i := range b {
			b[i] = byte('a' + rng.Intn(3))
		}
		return string(b)
	}

	for trial := 0; trial < 500; trial++ {
		seg := memory.New()
		docTerms := make([]string, 1+rng.Intn(40))
		for i := range docTerms {
			docTerms[i] = randTerm()
			seg.AddText(uint32(i), "f", docTerms[i])
		}

		var lower, upper string
		if rng.Intn(2) == 0 {
			lower = randTerm()
		}
		if lower == "" || rng.Intn(2) == 0 {
			upper = randTerm()
		}
		incLower := lower != "" && rng.Intn(2) == 0
		incUpper := upper != "" && rng.Intn(2) == 0

		spec, err := NewRangeString("f", lower, upper, incLower, incUpper)
		require.NoError(t, err)

		got, err := Evaluate(spec, seg)
		require.NoError(t, err)

		want := make([]uint32, 0, len(docTerms))
		for i, term := range docTerms {
			if matchesRange(term, lower, upper, incLower, incUpper) {
				want = append(want, uint32(i))
			}
		}

		assert.Equal(t, want, got.ToSlice(), "trial %d, spec %s", trial, spec)
	}
}

func TestEvaluateAll(t *testing.T) {
	seg1 := fruitSegment()

	seg2 := memory.New()
	seg2.AddText(0, "fruit", "cherry")
	seg2.AddText(1, "fruit", "elderberry")

	// A segment without the field at all.
	seg3 := memory.New()
	seg3.AddText(0, "color", "red")

	spec, err := NewRangeString("fruit", "banana", "cherry", true, true)
	require.NoError(t, err)

	results, err := EvaluateAll(context.Background(), spec,
		[]segment.Segment{seg1, seg2, seg3},
		WithMaxConcurrency(2),
	)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, []uint32{1, 2}, results[0].ToSlice())
	assert.Equal(t, []uint32{0}, results[1].ToSlice())
	assert.True(t, results[2].IsEmpty())
}

func TestEvaluateAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	spec, err := NewRangeString("fruit", "a", "z", true, true)
	require.NoError(t, err)

	_, err = EvaluateAll(ctx, spec, []segment.Segment{fruitSegment()})
	require.ErrorIs(t, err, context.Canceled)
}

// failingSegment returns a storage error from the postings collaborator.
type failingSegment struct {
	*memory.Segment
	err error
}

func (f *failingSegment) Postings(field string, term []byte) (iter.Seq[uint32], error) {
	return nil, f.err
}

func TestEvaluate_CollaboratorErrorPropagates(t *testing.T) {
	storageErr := errors.New("postings block corrupted")
	seg := &failingSegment{Segment: fruitSegment(), err: storageErr}

	spec, err := NewRangeString("fruit", "apple", "date", true, true)
	require.NoError(t, err)

	_, err = Evaluate(spec, seg)
	require.ErrorIs(t, err, storageErr)
}
