package veb

import (
	"fmt"
	"iter"
	"math"
	"time"

	verrors "github.com/23skdu/vebtree/internal/errors"
	"github.com/23skdu/vebtree/internal/metrics"
)

// None is the "no element" value. It lies outside every universe.
const None uint64 = math.MaxUint64

// Sentinels for walks. BeforeFirst seeds an ascending walk and AfterLast a
// descending one; NoSuccessor and NoPredecessor are returned when a walk
// runs out.
const (
	BeforeFirst   = None
	AfterLast     = None
	NoSuccessor   = None
	NoPredecessor = None
)

const (
	// LeafUniverse is the largest universe stored as a flat bit-vector.
	LeafUniverse uint64 = 256
	// MaxUniverse is the largest supported universe size.
	MaxUniverse uint64 = 1 << 32
)

// Tree is an ordered set over [0, Universe()).
//
// Storage is allocated on the first insertion; Clear and Move release it.
// The zero value has universe 0 and must be initialized with Init.
type Tree struct {
	universe uint64
	root     *node
}

// New returns an empty tree over [0, universe).
func New(universe uint64) (*Tree, error) {
	if err := validateUniverse("new", universe); err != nil {
		return nil, err
	}
	return &Tree{universe: universe}, nil
}

// MustNew is like New but panics on an invalid universe.
func MustNew(universe uint64) *Tree {
	t, err := New(universe)
	if err != nil {
		panic(err)
	}
	return t
}

// Init discards the contents and resets the tree to an empty set over
// [0, universe).
func (t *Tree) Init(universe uint64) error {
	if err := validateUniverse("init", universe); err != nil {
		return err
	}
	t.universe = universe
	t.root = nil
	return nil
}

func validateUniverse(op string, u uint64) error {
	if u == 0 || u > MaxUniverse {
		return verrors.Newf(verrors.ErrorTypeValidation, op,
			"universe %d outside [1, %d]", u, MaxUniverse).
			WithContext("universe", u)
	}
	return nil
}

// Universe returns the number of representable elements.
func (t *Tree) Universe() uint64 {
	return t.universe
}

// check panics if x is not a valid element. An out-of-range element would
// address the wrong cluster, so it is never tolerated.
func (t *Tree) check(op string, x uint64) {
	if x >= t.universe {
		panic(verrors.Newf(verrors.ErrorTypeValidation, op,
			"element %d outside universe [0, %d)", x, t.universe).
			WithContext("element", x).
			WithContext("universe", t.universe))
	}
}

// checkSeed is check for walk positions, which may also be None.
func (t *Tree) checkSeed(op string, x uint64) {
	if x != None {
		t.check(op, x)
	}
}

func (t *Tree) ensureRoot() *node {
	if t.root == nil {
		t.root = newNode(t.universe)
	}
	return t.root
}

// Contains reports whether x is in the set.
func (t *Tree) Contains(x uint64) bool {
	t.check("contains", x)
	return t.root != nil && t.root.contains(x)
}

// Insert adds x to the set.
func (t *Tree) Insert(x uint64) {
	t.CheckInsert(x)
}

// CheckInsert adds x and reports whether it was absent before the call.
func (t *Tree) CheckInsert(x uint64) bool {
	t.check("insert", x)
	return t.ensureRoot().insert(x)
}

// Delete removes x from the set.
func (t *Tree) Delete(x uint64) {
	t.CheckDelete(x)
}

// CheckDelete removes x and reports whether it was present before the call.
func (t *Tree) CheckDelete(x uint64) bool {
	t.check("delete", x)
	return t.root != nil && t.root.delete(x)
}

// Successor returns the smallest element greater than x, or NoSuccessor.
// Successor(BeforeFirst) returns the minimum.
func (t *Tree) Successor(x uint64) uint64 {
	t.checkSeed("successor", x)
	if t.root == nil {
		return NoSuccessor
	}
	return t.root.successor(x)
}

// Predecessor returns the largest element less than x, or NoPredecessor.
// Predecessor(AfterLast) returns the maximum.
func (t *Tree) Predecessor(x uint64) uint64 {
	t.checkSeed("predecessor", x)
	if t.root == nil {
		return NoPredecessor
	}
	return t.root.predecessor(x)
}

// SuccessorDelete removes and returns the successor of x in a single
// descent. It returns NoSuccessor and leaves the tree unchanged if there is
// none.
func (t *Tree) SuccessorDelete(x uint64) uint64 {
	t.checkSeed("successor_delete", x)
	if t.root == nil {
		return NoSuccessor
	}
	return t.root.successorDelete(x)
}

// PredecessorDelete removes and returns the predecessor of x in a single
// descent. It returns NoPredecessor and leaves the tree unchanged if there
// is none.
func (t *Tree) PredecessorDelete(x uint64) uint64 {
	t.checkSeed("predecessor_delete", x)
	if t.root == nil {
		return NoPredecessor
	}
	return t.root.predecessorDelete(x)
}

// Min returns the smallest element, or None.
func (t *Tree) Min() uint64 {
	if t.root == nil {
		return None
	}
	return t.root.minimum()
}

// Max returns the largest element, or None.
func (t *Tree) Max() uint64 {
	if t.root == nil {
		return None
	}
	return t.root.maximum()
}

// HasAny reports in O(1) whether the set has at least one element.
func (t *Tree) HasAny() bool {
	return t.root != nil && !t.root.empty()
}

// Empty reports whether the set is empty. With recursive set, every
// summary and cluster is inspected instead of trusting the cached extremes;
// that costs time proportional to the universe and is meant for assertions.
func (t *Tree) Empty(recursive bool) bool {
	if !recursive {
		return !t.HasAny()
	}
	return t.root == nil || t.root.deepEmpty()
}

// Count returns the number of elements. It visits every cluster.
func (t *Tree) Count() uint64 {
	if t.root == nil {
		return 0
	}
	return t.root.count()
}

// All iterates over the elements in ascending order. The tree must not be
// modified during iteration.
func (t *Tree) All() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		for x := t.Successor(BeforeFirst); x != NoSuccessor; x = t.Successor(x) {
			if !yield(x) {
				return
			}
		}
	}
}

// Backward iterates over the elements in descending order.
func (t *Tree) Backward() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		for x := t.Predecessor(AfterLast); x != NoPredecessor; x = t.Predecessor(x) {
			if !yield(x) {
				return
			}
		}
	}
}

// InsertAll fills the set with every element of the universe.
func (t *Tree) InsertAll() {
	defer observeBulk("insert_all")()
	t.ensureRoot().insertAll()
}

// Clear empties the set and releases its storage.
func (t *Tree) Clear() {
	t.root = nil
}

// Clone returns a deep copy of t.
func (t *Tree) Clone() *Tree {
	c := &Tree{universe: t.universe}
	if t.root != nil {
		c.root = t.root.clone()
	}
	return c
}

// CopyFrom replaces t's universe and contents with a deep copy of o.
func (t *Tree) CopyFrom(o *Tree) {
	if t == o {
		return
	}
	t.universe = o.universe
	t.root = nil
	if o.root != nil {
		t.root = o.root.clone()
	}
}

// Move returns a tree that takes over t's storage. t keeps its universe
// and is left empty.
func (t *Tree) Move() *Tree {
	m := &Tree{universe: t.universe, root: t.root}
	t.root = nil
	return m
}

// MoveFrom takes over o's universe and storage, leaving o empty.
func (t *Tree) MoveFrom(o *Tree) {
	if t == o {
		return
	}
	t.universe = o.universe
	t.root = o.root
	o.root = nil
}

// Swap exchanges the universes and contents of t and o in O(1).
func (t *Tree) Swap(o *Tree) {
	t.universe, o.universe = o.universe, t.universe
	t.root, o.root = o.root, t.root
}

// Equal reports whether t and o hold the same elements. Trees over the
// same universe are compared structurally; otherwise their elements are
// walked in order.
func (t *Tree) Equal(o *Tree) bool {
	if t == o {
		return true
	}
	if t.universe != o.universe {
		return equalByWalk(t, o)
	}
	if t.root == nil || o.root == nil {
		return !t.HasAny() && !o.HasAny()
	}
	return t.root.equal(o.root)
}

func equalByWalk(a, b *Tree) bool {
	x, y := a.Successor(BeforeFirst), b.Successor(BeforeFirst)
	for x == y {
		if x == NoSuccessor {
			return true
		}
		x, y = a.Successor(x), b.Successor(y)
	}
	return false
}

func (t *Tree) String() string {
	return fmt.Sprintf("veb.Tree{universe: %d, min: %d, max: %d}", t.universe, int64(t.Min()), int64(t.Max()))
}

func observeBulk(op string) func() {
	start := time.Now()
	return func() {
		metrics.BulkOperationsTotal.WithLabelValues(op).Inc()
		metrics.BulkOperationDurationSeconds.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}
