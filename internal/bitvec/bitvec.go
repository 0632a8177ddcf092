// Package bitvec provides a fixed-size flat bit-vector. It is the leaf
// storage of the veb tree.
//
// Vector wraps a bits-and-blooms BitSet. The BitSet grows on demand; a
// Vector never does: every position is range-checked and whole-vector
// operations stay within [0, Size()).
package bitvec

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

const wordBits = 64

// Vector is a fixed-size bit-vector over positions [0, Size()).
// Bits at or beyond Size() are always zero.
//
// The zero value is an empty vector of size 0.
type Vector struct {
	set bitset.BitSet
}

// New creates a vector of size bits, all clear.
func New(size uint64) Vector {
	return Vector{set: *bitset.New(uint(size))}
}

// Size returns the number of addressable bits.
func (v *Vector) Size() uint64 {
	return uint64(v.set.Len())
}

// Count returns the number of set bits.
func (v *Vector) Count() uint64 {
	return uint64(v.set.Count())
}

// IsEmpty reports whether no bit is set.
func (v *Vector) IsEmpty() bool {
	return v.set.None()
}

// Test reports whether bit i is set.
func (v *Vector) Test(i uint64) bool {
	v.check(i)
	return v.set.Test(uint(i))
}

// Set sets bit i and reports whether it was previously clear.
func (v *Vector) Set(i uint64) bool {
	v.check(i)
	if v.set.Test(uint(i)) {
		return false
	}
	v.set.Set(uint(i))
	return true
}

// Clear clears bit i and reports whether it was previously set.
func (v *Vector) Clear(i uint64) bool {
	v.check(i)
	if !v.set.Test(uint(i)) {
		return false
	}
	v.set.Clear(uint(i))
	return true
}

// Reset clears every bit.
func (v *Vector) Reset() {
	v.set.ClearAll()
}

// SetAll sets every bit in [0, Size()).
func (v *Vector) SetAll() {
	v.set.ClearAll()
	v.set.FlipRange(0, v.set.Len())
}

// Not flips every bit in [0, Size()).
func (v *Vector) Not() {
	v.set.FlipRange(0, v.set.Len())
}

// And sets v to v & o. Both vectors must have the same size.
func (v *Vector) And(o *Vector) {
	v.sameSize(o)
	v.set.InPlaceIntersection(&o.set)
}

// Or sets v to v | o. Both vectors must have the same size.
func (v *Vector) Or(o *Vector) {
	v.sameSize(o)
	v.set.InPlaceUnion(&o.set)
}

// Xor sets v to v ^ o. Both vectors must have the same size.
func (v *Vector) Xor(o *Vector) {
	v.sameSize(o)
	v.set.InPlaceSymmetricDifference(&o.set)
}

// NextSet returns the first set bit in [i, Size()).
func (v *Vector) NextSet(i uint64) (uint64, bool) {
	if i >= v.Size() {
		return 0, false
	}
	n, ok := v.set.NextSet(uint(i))
	return uint64(n), ok
}

// PrevSet returns the last set bit in [0, i]. Positions past the end are
// clamped to Size()-1.
func (v *Vector) PrevSet(i uint64) (uint64, bool) {
	size := v.Size()
	if size == 0 {
		return 0, false
	}
	if i >= size {
		i = size - 1
	}
	p, ok := v.set.PreviousSet(uint(i))
	return uint64(p), ok
}

// Min returns the lowest set bit.
func (v *Vector) Min() (uint64, bool) {
	return v.NextSet(0)
}

// Max returns the highest set bit.
func (v *Vector) Max() (uint64, bool) {
	if v.Size() == 0 {
		return 0, false
	}
	return v.PrevSet(v.Size() - 1)
}

// Clone returns a deep copy of v.
func (v *Vector) Clone() Vector {
	return Vector{set: *v.set.Clone()}
}

// Equal reports whether v and o have the same size and the same bits set.
func (v *Vector) Equal(o *Vector) bool {
	return v.set.Equal(&o.set)
}

// ToSlice returns the set positions in ascending order. For example, a
// vector of [0, 1, 0, 1] returns [1, 3].
func (v *Vector) ToSlice() []uint64 {
	out := make([]uint64, 0, v.Count())
	for i, ok := v.set.NextSet(0); ok; i, ok = v.set.NextSet(i + 1) {
		out = append(out, uint64(i))
	}
	return out
}

// Validate checks that the backing words match Size() and that no bit past
// Size() is set.
func (v *Vector) Validate() error {
	size := v.Size()
	words := v.set.Bytes()
	if want := (size + wordBits - 1) / wordBits; uint64(len(words)) != want {
		return fmt.Errorf("bitvec: %d words for size %d, want %d", len(words), size, want)
	}
	if tail := size % wordBits; tail != 0 && len(words) > 0 {
		if words[len(words)-1]>>tail != 0 {
			return fmt.Errorf("bitvec: bits set past size %d", size)
		}
	}
	return nil
}

func (v *Vector) check(i uint64) {
	if size := v.Size(); i >= size {
		panic(fmt.Sprintf("bitvec: index %d out of range [0,%d)", i, size))
	}
}

func (v *Vector) sameSize(o *Vector) {
	if v.Size() != o.Size() {
		panic(fmt.Sprintf("bitvec: size mismatch %d != %d", v.Size(), o.Size()))
	}
}
