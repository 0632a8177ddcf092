package interop

import (
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	verrors "github.com/23skdu/vebtree/internal/errors"
	"github.com/23skdu/vebtree/internal/veb"
)

// ToArrow returns the elements of t in ascending order as an Arrow array
// allocated from mem. The caller owns the result and must Release it.
func ToArrow(mem memory.Allocator, t *veb.Tree) *array.Uint64 {
	b := array.NewUint64Builder(mem)
	defer b.Release()

	for x := range t.All() {
		b.Append(x)
	}
	return b.NewUint64Array()
}

// FromArrow builds a tree over [0, universe) from arr. Nulls are skipped;
// the values need not be sorted or distinct. A value outside the universe
// fails the whole conversion.
func FromArrow(arr *array.Uint64, universe uint64) (*veb.Tree, error) {
	for i := 0; i < arr.Len(); i++ {
		if arr.IsValid(i) && arr.Value(i) >= universe {
			return nil, verrors.Newf(verrors.ErrorTypeValidation, "from_arrow",
				"value %d at row %d outside universe [0, %d)", arr.Value(i), i, universe).
				WithContext("row", i)
		}
	}
	t, err := veb.New(universe)
	if err != nil {
		return nil, err
	}
	for i := 0; i < arr.Len(); i++ {
		if arr.IsValid(i) {
			t.Insert(arr.Value(i))
		}
	}
	return t, nil
}
