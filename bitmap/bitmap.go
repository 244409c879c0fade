package bitmap

import "math/bits"

// WordBits is the number of bits per word.
const WordBits = 64

// Bitmap is a fixed-universe document bitmap. One bit per document id in a
// segment, backed by contiguous 64-bit words.
//
// A Bitmap is built by a single owner during one filter evaluation and is
// treated as read-only once handed off. It is not safe for concurrent
// mutation.
type Bitmap struct {
	words []uint64

	// universeSize is the maximum ID + 1 (determines allocation size).
	universeSize uint32

	// cardinality is cached. Set to -1 to indicate needs recalculation.
	cardinality int
}

// New creates a new all-zero Bitmap with the given universe size.
func New(universeSize uint32) *Bitmap {
	numWords := (universeSize + WordBits - 1) / WordBits
	return &Bitmap{
		words:        make([]uint64, numWords),
		universeSize: universeSize,
		cardinality:  0,
	}
}

// Add sets a single bit. Returns true if the bit was newly set.
// IDs outside the universe are ignored.
func (b *Bitmap) Add(id uint32) bool {
	if id >= b.universeSize {
		return false
	}

	wordIdx := id / WordBits
	mask := uint64(1) << (id % WordBits)

	if b.words[wordIdx]&mask != 0 {
		return false // Already set
	}

	b.words[wordIdx] |= mask
	if b.cardinality >= 0 {
		b.cardinality++
	}
	return true
}

// AddMany sets multiple bits. Optimized for ascending inputs (the common
// case when unioning postings streams).
func (b *Bitmap) AddMany(ids []uint32) {
	for _, id := range ids {
		if id >= b.universeSize {
			continue
		}
		b.words[id/WordBits] |= uint64(1) << (id % WordBits)
	}
	b.cardinality = -1
}

// Remove clears a single bit.
func (b *Bitmap) Remove(id uint32) {
	if id >= b.universeSize {
		return
	}
	b.words[id/WordBits] &^= uint64(1) << (id % WordBits)
	b.cardinality = -1
}

// Contains checks if a bit is set. O(1).
func (b *Bitmap) Contains(id uint32) bool {
	if id >= b.universeSize {
		return false
	}
	return b.words[id/WordBits]&(uint64(1)<<(id%WordBits)) != 0
}

// IsEmpty returns true if no bits are set.
func (b *Bitmap) IsEmpty() bool {
	if b.cardinality >= 0 {
		return b.cardinality == 0
	}
	for _, w := range b.words {
		if w != 0 {
			return false
		}
	}
	b.cardinality = 0
	return true
}

// Cardinality returns the number of set bits.
func (b *Bitmap) Cardinality() int {
	if b.cardinality >= 0 {
		return b.cardinality
	}
	count := 0
	for _, w := range b.words {
		count += bits.OnesCount64(w)
	}
	b.cardinality = count
	return count
}

// Filter clears every set bit whose id fails keep. Used to subtract the
// deleted documents of a segment from a freshly built result.
func (b *Bitmap) Filter(keep func(id uint32) bool) {
	for wordIdx, word := range b.words {
		for word != 0 {
			bitPos := bits.TrailingZeros64(word)
			id := uint32(wordIdx)*WordBits + uint32(bitPos)
			if !keep(id) {
				b.words[wordIdx] &^= uint64(1) << bitPos
			}
			word &= word - 1 // Clear lowest bit
		}
	}
	b.cardinality = -1
}

// AndNot performs in-place difference: b = b AND NOT other.
func (b *Bitmap) AndNot(other *Bitmap) {
	n := min(len(b.words), len(other.words))
	for i := 0; i < n; i++ {
		b.words[i] &^= other.words[i]
	}
	b.cardinality = -1
}

// Or performs in-place union: b = b OR other. Bits beyond b's universe are
// dropped.
func (b *Bitmap) Or(other *Bitmap) {
	n := min(len(b.words), len(other.words))
	for i := 0; i < n; i++ {
		b.words[i] |= other.words[i]
	}
	b.trimLastWord()
	b.cardinality = -1
}

// trimLastWord clears bits of the final word beyond universeSize.
func (b *Bitmap) trimLastWord() {
	if len(b.words) == 0 {
		return
	}
	rem := b.universeSize % WordBits
	if rem != 0 {
		b.words[len(b.words)-1] &= (uint64(1) << rem) - 1
	}
}

// NextSet returns the next set bit at or after index i.
func (b *Bitmap) NextSet(i uint32) (uint32, bool) {
	if i >= b.universeSize {
		return 0, false
	}

	wordIdx := int(i / WordBits)
	word := b.words[wordIdx] >> (i % WordBits)
	if word != 0 {
		return i + uint32(bits.TrailingZeros64(word)), true
	}

	for w := wordIdx + 1; w < len(b.words); w++ {
		if b.words[w] != 0 {
			return uint32(w)*WordBits + uint32(bits.TrailingZeros64(b.words[w])), true
		}
	}
	return 0, false
}

// ForEach iterates over all set bits in ascending order, calling fn for
// each. Returns early if fn returns false. Zero allocations.
func (b *Bitmap) ForEach(fn func(id uint32) bool) {
	for wordIdx, word := range b.words {
		baseID := uint32(wordIdx) * WordBits
		for word != 0 {
			bitPos := bits.TrailingZeros64(word)
			if !fn(baseID + uint32(bitPos)) {
				return
			}
			word &= word - 1
		}
	}
}

// ToSlice returns all set bits as a sorted slice.
func (b *Bitmap) ToSlice() []uint32 {
	out := make([]uint32, 0, b.Cardinality())
	b.ForEach(func(id uint32) bool {
		out = append(out, id)
		return true
	})
	return out
}

// Equal reports whether two bitmaps have the same universe and the same set
// bits.
func (b *Bitmap) Equal(other *Bitmap) bool {
	if other == nil || b.universeSize != other.universeSize {
		return false
	}
	for i := range b.words {
		if b.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// Clone creates an independent copy of the bitmap.
func (b *Bitmap) Clone() *Bitmap {
	cloned := &Bitmap{
		words:        make([]uint64, len(b.words)),
		universeSize: b.universeSize,
		cardinality:  b.cardinality,
	}
	copy(cloned.words, b.words)
	return cloned
}

// UniverseSize returns the maximum ID + 1.
func (b *Bitmap) UniverseSize() uint32 {
	return b.universeSize
}
