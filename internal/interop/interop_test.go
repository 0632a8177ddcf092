package interop

import (
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verrors "github.com/23skdu/vebtree/internal/errors"
	"github.com/23skdu/vebtree/internal/veb"
)

func sampleTree(t *testing.T) *veb.Tree {
	t.Helper()
	tree := veb.MustNew(1000000)
	for x := uint64(3); x < 1000000; x += 997 {
		tree.Insert(x)
	}
	tree.Insert(999999)
	return tree
}

func TestToRoaring(t *testing.T) {
	tree := sampleTree(t)
	bm := ToRoaring(tree)

	assert.Equal(t, tree.Count(), bm.GetCardinality())
	assert.True(t, Matches(tree, bm))
	assert.Equal(t, uint32(3), bm.Minimum())
	assert.Equal(t, uint32(999999), bm.Maximum())
}

func TestFromRoaring(t *testing.T) {
	bm := roaring.BitmapOf(5, 7, 1000, 999999)
	tree, err := FromRoaring(bm, 1000000)
	require.NoError(t, err)
	require.NoError(t, tree.Validate())
	assert.True(t, Matches(tree, bm))

	_, err = FromRoaring(bm, 1000)
	require.Error(t, err)
	assert.True(t, verrors.IsType(err, verrors.ErrorTypeValidation))

	empty, err := FromRoaring(roaring.New(), 10)
	require.NoError(t, err)
	assert.False(t, empty.HasAny())

	_, err = FromRoaring(bm, 0)
	assert.Error(t, err)
}

func TestMatches(t *testing.T) {
	tree := veb.MustNew(100)
	tree.Insert(1)
	tree.Insert(50)

	assert.True(t, Matches(tree, roaring.BitmapOf(1, 50)))
	assert.False(t, Matches(tree, roaring.BitmapOf(1)))
	assert.False(t, Matches(tree, roaring.BitmapOf(1, 50, 60)))
	assert.False(t, Matches(tree, roaring.BitmapOf(1, 51)))
	assert.True(t, Matches(veb.MustNew(5), roaring.New()))
}

func TestArrowRoundTrip(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	tree := sampleTree(t)
	arr := ToArrow(mem, tree)
	defer arr.Release()

	require.Equal(t, int(tree.Count()), arr.Len())
	for i := 1; i < arr.Len(); i++ {
		require.Less(t, arr.Value(i-1), arr.Value(i))
	}

	back, err := FromArrow(arr, tree.Universe())
	require.NoError(t, err)
	assert.True(t, back.Equal(tree))
}

func TestFromArrow_NullsAndDuplicates(t *testing.T) {
	mem := memory.NewGoAllocator()
	b := array.NewUint64Builder(mem)
	defer b.Release()
	b.AppendValues([]uint64{9, 3, 9, 0, 3}, []bool{true, true, true, false, true})
	arr := b.NewUint64Array()
	defer arr.Release()

	tree, err := FromArrow(arr, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), tree.Count())
	assert.True(t, tree.Contains(3))
	assert.True(t, tree.Contains(9))
	assert.False(t, tree.Contains(0), "null rows are skipped")
}

func TestFromArrow_OutOfRange(t *testing.T) {
	mem := memory.NewGoAllocator()
	b := array.NewUint64Builder(mem)
	defer b.Release()
	b.AppendValues([]uint64{1, 10}, nil)
	arr := b.NewUint64Array()
	defer arr.Release()

	_, err := FromArrow(arr, 10)
	require.Error(t, err)
	assert.True(t, verrors.IsType(err, verrors.ErrorTypeValidation))
}
