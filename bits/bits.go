// Package bits provides the fixed-width bit-set the runtime shares with
// generated host code: popcount over 32-bit words and an iterator over the
// indices of set bits.
package bits

import mathbits "math/bits"

// Bits is a bit-set stored as little-endian uint32 words: bit i lives at
// word i/32, position i%32.
type Bits struct {
	words []uint32
}

// New creates a Bits with capacity for n bits, all clear.
func New(n int) *Bits {
	return &Bits{words: make([]uint32, (n+31)/32)}
}

// FromWords creates a Bits over the given words. The slice is not copied.
func FromWords(words []uint32) *Bits {
	return &Bits{words: words}
}

// FromMask creates a Bits holding the set bits of a 64-bit mask.
func FromMask(mask uint64) *Bits {
	return &Bits{words: []uint32{uint32(mask), uint32(mask >> 32)}}
}

// Set sets bit i.
func (b *Bits) Set(i int) {
	b.words[i/32] |= 1 << (i % 32)
}

// Get reports whether bit i is set.
func (b *Bits) Get(i int) bool {
	return b.words[i/32]>>(i%32)&1 == 1
}

// Len returns the bit capacity.
func (b *Bits) Len() int {
	return len(b.words) * 32
}

// CountOnes returns the number of set bits.
func (b *Bits) CountOnes() int {
	count := 0
	for _, w := range b.words {
		count += mathbits.OnesCount32(w)
	}
	return count
}

// Indices returns the indices of all set bits in ascending order.
func (b *Bits) Indices() []int64 {
	var out []int64
	for it := b.Iterator(); it.HasNext(); {
		out = append(out, it.Next())
	}
	return out
}

// ---------------------------------------------------------------------------
// Iterator
// ---------------------------------------------------------------------------

// Iterator walks the set bits of a Bits in ascending index order.
//
// The walk steps bit 0..31 within a word and then moves to the next word.
// The C runtime this replaces mangled the word offset when stepping past
// bit 31 (it zeroed the offset before incrementing), so it could only ever
// revisit word 1; that behaviour is not kept.
type Iterator struct {
	bits       *Bits
	wordOffset int
	bitOffset  int
	next       int64 // pending index, -1 = not scanned, -2 = exhausted
}

// Iterator returns a fresh iterator over b.
func (b *Bits) Iterator() *Iterator {
	return &Iterator{bits: b, bitOffset: -1, next: -1}
}

// hasNextBit reports whether the raw cursor can advance.
func (it *Iterator) hasNextBit() bool {
	return it.wordOffset < len(it.bits.words)-1 ||
		(it.wordOffset == len(it.bits.words)-1 && it.bitOffset < 31)
}

// nextBit advances the raw cursor one position and returns that bit.
func (it *Iterator) nextBit() bool {
	if it.bitOffset < 31 {
		it.bitOffset++
	} else {
		it.bitOffset = 0
		it.wordOffset++
	}
	word := it.bits.words[it.wordOffset]
	return word>>(it.bitOffset)&1 == 1
}

// HasNext reports whether another set bit remains, scanning forward as
// needed.
func (it *Iterator) HasNext() bool {
	if it.next >= 0 {
		return true
	}
	if it.next == -2 {
		return false
	}
	for it.hasNextBit() {
		if it.nextBit() {
			it.next = int64(it.wordOffset)*32 + int64(it.bitOffset)
			return true
		}
	}
	it.next = -2
	return false
}

// Next returns the index of the next set bit. Call HasNext first.
func (it *Iterator) Next() int64 {
	if !it.HasNext() {
		return -1
	}
	result := it.next
	it.next = -1
	return result
}
