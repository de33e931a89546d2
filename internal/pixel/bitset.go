package pixel

// Bitset is a fixed-size set of pixel indices.
type Bitset struct {
	words []uint64
	n     int
}

// NewBitset creates an empty set able to hold indices in [0, n).
func NewBitset(n int) *Bitset {
	if n < 0 {
		n = 0
	}
	return &Bitset{words: make([]uint64, (n+63)/64), n: n}
}

// Len returns the capacity of the set.
func (s *Bitset) Len() int { return s.n }

// Has reports whether i is in the set. Out of range indices are never set.
func (s *Bitset) Has(i int) bool {
	if i < 0 || i >= s.n {
		return false
	}
	return s.words[i>>6]&(1<<(uint(i)&63)) != 0
}

// Add inserts i. Out of range indices are ignored.
func (s *Bitset) Add(i int) {
	if i < 0 || i >= s.n {
		return
	}
	s.words[i>>6] |= 1 << (uint(i) & 63)
}

// Remove deletes i.
func (s *Bitset) Remove(i int) {
	if i < 0 || i >= s.n {
		return
	}
	s.words[i>>6] &^= 1 << (uint(i) & 63)
}

// Reset clears the set. When n differs from the current capacity the set is
// reallocated.
func (s *Bitset) Reset(n int) {
	if n != s.n {
		*s = *NewBitset(n)
		return
	}
	clear(s.words)
}

// Count returns the number of members.
func (s *Bitset) Count() int {
	c := 0
	for _, w := range s.words {
		for w != 0 {
			w &= w - 1
			c++
		}
	}
	return c
}
