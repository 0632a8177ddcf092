package veb

import (
	"fmt"

	verrors "github.com/23skdu/vebtree/internal/errors"
)

// Validate walks the whole structure and checks every node invariant:
// extremes are ordered and both None exactly when the node is empty, an
// empty node has nothing below it, a single-element node has an empty
// recursion, every element in a cluster lies strictly between the node's
// extremes, and the summary marks exactly the non-empty clusters.
func (t *Tree) Validate() error {
	if t.root == nil {
		return nil
	}
	if t.root.universe != t.universe {
		return verrors.Newf(verrors.ErrorTypeInvariant, "validate",
			"root universe %d, tree universe %d", t.root.universe, t.universe)
	}
	if err := t.root.validate(); err != nil {
		return verrors.Wrap(err, verrors.ErrorTypeInvariant, "validate", "tree invariant violated").
			WithContext("universe", t.universe)
	}
	return nil
}

// AssertValid panics if Validate fails.
func (t *Tree) AssertValid() {
	if err := t.Validate(); err != nil {
		panic(err)
	}
}

func (n *node) validate() error {
	if n.isLeaf() {
		if n.bits.Size() != n.universe {
			return fmt.Errorf("leaf of universe %d has %d bits", n.universe, n.bits.Size())
		}
		return n.bits.Validate()
	}
	if n.summary.universe != uint64(len(n.clusters)) {
		return fmt.Errorf("summary universe %d for %d clusters", n.summary.universe, len(n.clusters))
	}
	if n.min == None || n.max == None {
		if n.min != n.max {
			return fmt.Errorf("min %d and max %d disagree on emptiness", n.min, n.max)
		}
		if !n.summary.deepEmpty() {
			return fmt.Errorf("empty node of universe %d has a non-empty summary", n.universe)
		}
		for i, c := range n.clusters {
			if !c.deepEmpty() {
				return fmt.Errorf("empty node of universe %d has elements in cluster %d", n.universe, i)
			}
		}
		return nil
	}
	if n.min > n.max || n.max >= n.universe {
		return fmt.Errorf("extremes [%d, %d] invalid for universe %d", n.min, n.max, n.universe)
	}
	if n.min == n.max && !n.summary.deepEmpty() {
		return fmt.Errorf("single-element node %d has a non-empty summary", n.min)
	}
	if err := n.summary.validate(); err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	for i, c := range n.clusters {
		hi := uint64(i)
		if want := n.clusterUniverse(hi); c.universe != want {
			return fmt.Errorf("cluster %d has universe %d, want %d", i, c.universe, want)
		}
		if err := c.validate(); err != nil {
			return fmt.Errorf("cluster %d: %w", i, err)
		}
		occupied := !c.empty()
		if occupied != n.summary.contains(hi) {
			return fmt.Errorf("cluster %d occupied=%t but summary says %t", i, occupied, !occupied)
		}
		if !occupied {
			continue
		}
		lo, top := n.join(hi, c.minimum()), n.join(hi, c.maximum())
		if lo <= n.min || top >= n.max {
			return fmt.Errorf("cluster %d holds [%d, %d] outside (%d, %d)", i, lo, top, n.min, n.max)
		}
	}
	return nil
}
