package bitvec

import (
	"math/rand"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector_Basic(t *testing.T) {
	v := New(200)

	assert.True(t, v.Set(1))
	assert.True(t, v.Set(100))
	assert.True(t, v.Set(199))
	assert.False(t, v.Set(100), "second set reports no change")

	assert.True(t, v.Test(1))
	assert.True(t, v.Test(199))
	assert.False(t, v.Test(2))
	assert.Equal(t, uint64(3), v.Count())

	assert.True(t, v.Clear(100))
	assert.False(t, v.Clear(100))
	assert.False(t, v.Test(100))
	assert.Equal(t, uint64(2), v.Count())
	require.NoError(t, v.Validate())
}

func TestVector_OutOfRangePanics(t *testing.T) {
	v := New(10)
	assert.Panics(t, func() { v.Set(10) })
	assert.Panics(t, func() { v.Test(64) })
}

func TestVector_FixedSize(t *testing.T) {
	v := New(10)
	assert.Panics(t, func() { v.Set(1000) })
	assert.Panics(t, func() { v.Clear(10) })
	assert.Equal(t, uint64(10), v.Size(), "out-of-range access must not grow the vector")

	v.Not()
	v.Not()
	v.SetAll()
	assert.Equal(t, uint64(10), v.Size())
	assert.Equal(t, uint64(10), v.Count())
	require.NoError(t, v.Validate())

	_, ok := v.NextSet(10)
	assert.False(t, ok)
	p, ok := v.PrevSet(1 << 40)
	require.True(t, ok)
	assert.Equal(t, uint64(9), p)

	var zero Vector
	assert.Equal(t, uint64(0), zero.Size())
	assert.True(t, zero.IsEmpty())
	_, ok = zero.Max()
	assert.False(t, ok)
}

func TestVector_NextPrevSet(t *testing.T) {
	v := New(130)
	for _, i := range []uint64{0, 63, 64, 129} {
		v.Set(i)
	}

	tests := []struct {
		from   uint64
		next   uint64
		nextOK bool
		prev   uint64
		prevOK bool
	}{
		{0, 0, true, 0, true},
		{1, 63, true, 0, true},
		{63, 63, true, 63, true},
		{65, 129, true, 64, true},
		{129, 129, true, 129, true},
		{130, 0, false, 129, true},
	}
	for _, tt := range tests {
		n, ok := v.NextSet(tt.from)
		assert.Equal(t, tt.nextOK, ok, "next from %d", tt.from)
		if ok {
			assert.Equal(t, tt.next, n, "next from %d", tt.from)
		}
		p, ok := v.PrevSet(tt.from)
		assert.Equal(t, tt.prevOK, ok, "prev from %d", tt.from)
		if ok {
			assert.Equal(t, tt.prev, p, "prev from %d", tt.from)
		}
	}

	v.Clear(0)
	_, ok := v.PrevSet(62)
	assert.False(t, ok)
}

func TestVector_MinMax(t *testing.T) {
	v := New(100)
	_, ok := v.Min()
	assert.False(t, ok)
	_, ok = v.Max()
	assert.False(t, ok)

	v.Set(42)
	v.Set(7)
	lo, _ := v.Min()
	hi, _ := v.Max()
	assert.Equal(t, uint64(7), lo)
	assert.Equal(t, uint64(42), hi)
}

func TestVector_SetAllNotRespectTail(t *testing.T) {
	v := New(70)
	v.SetAll()
	assert.Equal(t, uint64(70), v.Count())
	require.NoError(t, v.Validate())

	v.Not()
	assert.True(t, v.IsEmpty())
	require.NoError(t, v.Validate())

	v.Set(3)
	v.Not()
	assert.Equal(t, uint64(69), v.Count())
	assert.False(t, v.Test(3))
	require.NoError(t, v.Validate())
}

func TestVector_SetOpsAgainstRoaring(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const size = 256

	for round := 0; round < 20; round++ {
		a, b := New(size), New(size)
		ra, rb := roaring.New(), roaring.New()
		for i := 0; i < 80; i++ {
			x, y := uint64(rng.Intn(size)), uint64(rng.Intn(size))
			a.Set(x)
			ra.Add(uint32(x))
			b.Set(y)
			rb.Add(uint32(y))
		}

		and := a.Clone()
		and.And(&b)
		assertMatches(t, roaring.And(ra, rb), &and)

		or := a.Clone()
		or.Or(&b)
		assertMatches(t, roaring.Or(ra, rb), &or)

		xor := a.Clone()
		xor.Xor(&b)
		assertMatches(t, roaring.Xor(ra, rb), &xor)

		not := a.Clone()
		not.Not()
		assertMatches(t, roaring.Flip(ra, 0, size), &not)
	}
}

func TestVector_CloneIsIndependent(t *testing.T) {
	v := New(64)
	v.Set(5)
	c := v.Clone()
	c.Set(6)

	assert.False(t, v.Test(6))
	assert.False(t, v.Equal(&c))
	c.Clear(6)
	assert.True(t, v.Equal(&c))
}

func TestVector_ToSlice(t *testing.T) {
	v := New(4)
	v.Set(1)
	v.Set(3)
	assert.Equal(t, []uint64{1, 3}, v.ToSlice())
}

func TestVector_SizeMismatchPanics(t *testing.T) {
	a, b := New(10), New(11)
	assert.Panics(t, func() { a.And(&b) })
}

func assertMatches(t *testing.T, want *roaring.Bitmap, got *Vector) {
	t.Helper()
	require.NoError(t, got.Validate())
	assert.Equal(t, want.GetCardinality(), got.Count())
	wantVals := want.ToArray()
	gotVals := got.ToSlice()
	require.Len(t, gotVals, len(wantVals))
	for i := range wantVals {
		assert.Equal(t, uint64(wantVals[i]), gotVals[i])
	}
}
