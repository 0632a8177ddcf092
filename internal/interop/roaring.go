// Package interop converts veb trees to and from the bitmap and columnar
// formats used elsewhere: roaring bitmaps and Arrow uint64 arrays.
package interop

import (
	"github.com/RoaringBitmap/roaring/v2"

	verrors "github.com/23skdu/vebtree/internal/errors"
	"github.com/23skdu/vebtree/internal/veb"
)

const batchSize = 4096

// ToRoaring returns a roaring bitmap holding the elements of t. Universes
// never exceed veb.MaxUniverse, so every element fits in a uint32.
func ToRoaring(t *veb.Tree) *roaring.Bitmap {
	bm := roaring.New()
	batch := make([]uint32, 0, batchSize)
	for x := range t.All() {
		batch = append(batch, uint32(x))
		if len(batch) == batchSize {
			bm.AddMany(batch)
			batch = batch[:0]
		}
	}
	bm.AddMany(batch)
	return bm
}

// FromRoaring builds a tree over [0, universe) from bm. It fails without
// building anything if bm holds a value outside the universe.
func FromRoaring(bm *roaring.Bitmap, universe uint64) (*veb.Tree, error) {
	t, err := veb.New(universe)
	if err != nil {
		return nil, err
	}
	if bm.IsEmpty() {
		return t, nil
	}
	if hi := uint64(bm.Maximum()); hi >= universe {
		return nil, verrors.Newf(verrors.ErrorTypeValidation, "from_roaring",
			"value %d outside universe [0, %d)", hi, universe)
	}
	it := bm.Iterator()
	for it.HasNext() {
		t.Insert(uint64(it.Next()))
	}
	return t, nil
}

// Matches reports whether t and bm hold the same elements, stopping at
// the first difference.
func Matches(t *veb.Tree, bm *roaring.Bitmap) bool {
	it := bm.Iterator()
	x := t.Successor(veb.BeforeFirst)
	for it.HasNext() {
		if x == veb.NoSuccessor || x != uint64(it.Next()) {
			return false
		}
		x = t.Successor(x)
	}
	return x == veb.NoSuccessor
}
