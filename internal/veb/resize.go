package veb

import (
	"github.com/23skdu/vebtree/internal/metrics"
)

// Resize changes the universe to [0, universe).
//
// With preserve set, elements below the new bound are kept and elements at
// or above it are dropped silently. Without it the tree is emptied, even
// when the universe is unchanged. The
// replacement structure is built completely before it replaces the old
// one.
func (t *Tree) Resize(universe uint64, preserve bool) error {
	if err := validateUniverse("resize", universe); err != nil {
		return err
	}
	if universe == t.universe && preserve {
		return nil
	}
	defer observeBulk("resize")()

	if !preserve || !t.HasAny() {
		t.universe = universe
		t.root = nil
		return nil
	}

	r := newNode(universe)
	var kept uint64
	for x := t.root.successor(None); x != None && x < universe; x = t.root.successor(x) {
		r.insert(x)
		kept++
	}
	if total := t.root.count(); total > kept {
		metrics.ResizedElementsDropped.Add(float64(total - kept))
	}

	t.universe = universe
	t.root = r
	if r.empty() {
		t.root = nil
	}
	return nil
}
