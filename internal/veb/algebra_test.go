package veb

import (
	"fmt"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verrors "github.com/23skdu/vebtree/internal/errors"
)

func build(u uint64, values []uint32) (*Tree, *roaring.Bitmap) {
	tree := MustNew(u)
	bm := roaring.New()
	for _, v := range values {
		x := uint64(v) % u
		tree.Insert(x)
		bm.Add(uint32(x))
	}
	return tree, bm
}

func matches(tree *Tree, bm *roaring.Bitmap) bool {
	return tree.Validate() == nil && referenceFrom(tree).Equals(bm)
}

// TestAlgebraProperties checks the set-algebra identities and agreement
// with roaring using property-based testing.
func TestAlgebraProperties(t *testing.T) {
	for _, u := range []uint64{200, 300, 4099, 70000} {
		t.Run(fmt.Sprintf("u=%d", u), func(t *testing.T) {
			parameters := gopter.DefaultTestParameters()
			parameters.MinSuccessfulTests = 40
			properties := gopter.NewProperties(parameters)

			values := gen.SliceOf(gen.UInt32())

			properties.Property("invert twice is identity", prop.ForAll(
				func(vs []uint32) bool {
					a, _ := build(u, vs)
					b := a.Clone()
					b.Invert()
					b.Invert()
					return b.Validate() == nil && b.Equal(a)
				},
				values,
			))

			properties.Property("invert matches complement", prop.ForAll(
				func(vs []uint32) bool {
					a, bm := build(u, vs)
					a.Invert()
					return matches(a, roaring.Flip(bm, 0, u))
				},
				values,
			))

			properties.Property("inverted AND original is empty", prop.ForAll(
				func(vs []uint32) bool {
					a, _ := build(u, vs)
					inv := a.Clone()
					inv.Invert()
					if err := inv.And(a); err != nil {
						return false
					}
					return inv.Validate() == nil && inv.Empty(true) && !inv.HasAny()
				},
				values,
			))

			properties.Property("inverted OR original is full", prop.ForAll(
				func(vs []uint32) bool {
					a, _ := build(u, vs)
					inv := a.Clone()
					inv.Invert()
					if err := inv.Or(a); err != nil {
						return false
					}
					full := MustNew(u)
					full.InsertAll()
					if !(inv.Validate() == nil && inv.Equal(full)) {
						return false
					}
					inv.Invert()
					return inv.Empty(true)
				},
				values,
			))

			properties.Property("XOR with a copy is empty", prop.ForAll(
				func(vs []uint32) bool {
					a, _ := build(u, vs)
					if err := a.Xor(a.Clone()); err != nil {
						return false
					}
					return a.Validate() == nil && a.Empty(true)
				},
				values,
			))

			properties.Property("AND with itself is idempotent", prop.ForAll(
				func(vs []uint32) bool {
					a, _ := build(u, vs)
					want := a.Clone()
					if err := a.And(a.Clone()); err != nil {
						return false
					}
					return a.Validate() == nil && a.Equal(want)
				},
				values,
			))

			properties.Property("binary operations match roaring", prop.ForAll(
				func(xs, ys []uint32) bool {
					a, ra := build(u, xs)
					b, rb := build(u, ys)

					and := a.Clone()
					or := a.Clone()
					xor := a.Clone()
					if and.And(b) != nil || or.Or(b) != nil || xor.Xor(b) != nil {
						return false
					}
					return matches(and, roaring.And(ra, rb)) &&
						matches(or, roaring.Or(ra, rb)) &&
						matches(xor, roaring.Xor(ra, rb)) &&
						matches(b, rb)
				},
				values,
				values,
			))

			properties.TestingRun(t)
		})
	}
}

func TestInvert_EmptyAndFull(t *testing.T) {
	for _, u := range []uint64{1, 100, 257, 65536} {
		tree := MustNew(u)
		tree.Invert()
		require.NoError(t, tree.Validate())
		assert.Equal(t, u, tree.Count(), "u=%d", u)
		assert.Equal(t, uint64(0), tree.Min())
		assert.Equal(t, u-1, tree.Max())

		tree.Invert()
		assert.False(t, tree.HasAny())
		assert.True(t, tree.Empty(true), "u=%d", u)
	}
}

func TestAlgebra_SelfOperands(t *testing.T) {
	a, _ := populate(t, 70000, 9, 300)
	want := a.Clone()

	require.NoError(t, a.And(a))
	assert.True(t, a.Equal(want))
	require.NoError(t, a.Or(a))
	assert.True(t, a.Equal(want))
	require.NoError(t, a.Xor(a))
	assert.True(t, a.Empty(true))
}

func TestAlgebra_EmptyOperands(t *testing.T) {
	a, _ := populate(t, 4099, 2, 100)
	empty := MustNew(4099)
	want := a.Clone()

	require.NoError(t, a.Or(empty))
	assert.True(t, a.Equal(want))
	require.NoError(t, a.Xor(empty))
	assert.True(t, a.Equal(want))

	c := MustNew(4099)
	require.NoError(t, c.Or(a))
	assert.True(t, c.Equal(want))
	c.InsertAll()
	assert.True(t, a.Equal(want), "Or into an empty tree must copy its operand")

	d := MustNew(4099)
	require.NoError(t, d.Xor(a))
	assert.True(t, d.Equal(want))

	require.NoError(t, a.And(empty))
	assert.False(t, a.HasAny())
	require.NoError(t, a.Validate())
}

func TestAlgebra_UniverseMismatch(t *testing.T) {
	a, _ := populate(t, 1000, 1, 10)
	b := MustNew(1001)
	want := a.Clone()

	for name, op := range map[string]func(*Tree) error{"and": a.And, "or": a.Or, "xor": a.Xor} {
		err := op(b)
		require.Error(t, err, name)
		assert.True(t, verrors.IsType(err, verrors.ErrorTypeValidation), name)
		assert.True(t, a.Equal(want), name)
	}
	assert.Error(t, a.And(nil))
}
