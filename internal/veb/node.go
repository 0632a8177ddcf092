package veb

import (
	"github.com/23skdu/vebtree/internal/bitvec"
)

// node is either a leaf (clusterSize == 0, elements in bits) or an internal
// node with cached extremes, a summary and clusters.
type node struct {
	universe    uint64
	clusterSize uint64

	// min and max are None when the node is empty. Unused by leaves.
	min, max uint64

	bits bitvec.Vector

	summary  *node
	clusters []*node
}

// newNode allocates an empty node, and all of its descendants, for universe u.
func newNode(u uint64) *node {
	if u <= LeafUniverse {
		return &node{universe: u, min: None, max: None, bits: bitvec.New(u)}
	}
	size := clusterSizeFor(u)
	count := (u + size - 1) / size
	n := &node{
		universe:    u,
		clusterSize: size,
		min:         None,
		max:         None,
		summary:     newNode(count),
		clusters:    make([]*node, count),
	}
	for i := range n.clusters {
		n.clusters[i] = newNode(n.clusterUniverse(uint64(i)))
	}
	return n
}

// clusterSizeFor returns the smallest power of LeafUniverse whose square
// covers u. Every cluster is then a whole number of full leaves, apart from
// the short last cluster: 65536 splits into 256 leaves of 256, and 1<<32
// into 65536 clusters of 65536.
func clusterSizeFor(u uint64) uint64 {
	size := LeafUniverse
	for size*size < u {
		size *= LeafUniverse
	}
	return size
}

func (n *node) isLeaf() bool {
	return n.clusterSize == 0
}

// clusterUniverse is the universe of cluster i; only the last one may be short.
func (n *node) clusterUniverse(i uint64) uint64 {
	if rem := n.universe - i*n.clusterSize; rem < n.clusterSize {
		return rem
	}
	return n.clusterSize
}

func (n *node) split(x uint64) (hi, lo uint64) {
	return x / n.clusterSize, x % n.clusterSize
}

func (n *node) join(hi, lo uint64) uint64 {
	return hi*n.clusterSize + lo
}

func (n *node) empty() bool {
	if n.isLeaf() {
		return n.bits.IsEmpty()
	}
	return n.min == None
}

func (n *node) minimum() uint64 {
	if n.isLeaf() {
		if v, ok := n.bits.Min(); ok {
			return v
		}
		return None
	}
	return n.min
}

func (n *node) maximum() uint64 {
	if n.isLeaf() {
		if v, ok := n.bits.Max(); ok {
			return v
		}
		return None
	}
	return n.max
}

func (n *node) contains(x uint64) bool {
	if n.isLeaf() {
		return n.bits.Test(x)
	}
	if n.min == None || x < n.min || x > n.max {
		return false
	}
	if x == n.min || x == n.max {
		return true
	}
	hi, lo := n.split(x)
	return n.clusters[hi].contains(lo)
}

// insert adds x and reports whether it was absent.
func (n *node) insert(x uint64) bool {
	if n.isLeaf() {
		return n.bits.Set(x)
	}
	switch {
	case n.min == None:
		n.min, n.max = x, x
		return true
	case x == n.min || x == n.max:
		return false
	case n.min == n.max:
		if x < n.min {
			n.min = x
		} else {
			n.max = x
		}
		return true
	case x < n.min:
		x, n.min = n.min, x
	case x > n.max:
		x, n.max = n.max, x
	}
	return n.insertLow(x)
}

// insertLow stores x in its cluster, registering the cluster with the
// summary if it was empty.
func (n *node) insertLow(x uint64) bool {
	hi, lo := n.split(x)
	c := n.clusters[hi]
	if c.empty() {
		n.summary.insert(hi)
	}
	return c.insert(lo)
}

// delete removes x and reports whether it was present.
func (n *node) delete(x uint64) bool {
	if n.isLeaf() {
		return n.bits.Clear(x)
	}
	switch {
	case n.min == None || x < n.min || x > n.max:
		return false
	case x == n.min:
		n.deleteMin()
		return true
	case x == n.max:
		n.deleteMax()
		return true
	}
	hi, lo := n.split(x)
	c := n.clusters[hi]
	if !c.delete(lo) {
		return false
	}
	if c.empty() {
		n.summary.delete(hi)
	}
	return true
}

// deleteMin removes and returns the smallest element of a non-empty node.
func (n *node) deleteMin() uint64 {
	if n.isLeaf() {
		v, _ := n.bits.Min()
		n.bits.Clear(v)
		return v
	}
	m := n.min
	switch {
	case n.min == n.max:
		n.min, n.max = None, None
	default:
		if v, ok := n.pullMin(); ok {
			n.min = v
		} else {
			n.min = n.max
		}
	}
	return m
}

// deleteMax removes and returns the largest element of a non-empty node.
func (n *node) deleteMax() uint64 {
	if n.isLeaf() {
		v, _ := n.bits.Max()
		n.bits.Clear(v)
		return v
	}
	m := n.max
	switch {
	case n.min == n.max:
		n.min, n.max = None, None
	default:
		if v, ok := n.pullMax(); ok {
			n.max = v
		} else {
			n.max = n.min
		}
	}
	return m
}

// pullMin removes the smallest element held in the clusters and returns it.
// The cached extremes are not consulted or changed.
func (n *node) pullMin() (uint64, bool) {
	hi := n.summary.minimum()
	if hi == None {
		return 0, false
	}
	c := n.clusters[hi]
	lo := c.deleteMin()
	if c.empty() {
		n.summary.delete(hi)
	}
	return n.join(hi, lo), true
}

// pullMax is the mirror of pullMin.
func (n *node) pullMax() (uint64, bool) {
	hi := n.summary.maximum()
	if hi == None {
		return 0, false
	}
	c := n.clusters[hi]
	lo := c.deleteMax()
	if c.empty() {
		n.summary.delete(hi)
	}
	return n.join(hi, lo), true
}

func (n *node) count() uint64 {
	if n.isLeaf() {
		return n.bits.Count()
	}
	switch {
	case n.min == None:
		return 0
	case n.min == n.max:
		return 1
	}
	total := uint64(2)
	for _, c := range n.clusters {
		total += c.count()
	}
	return total
}

// deepEmpty walks the whole structure rather than trusting the extremes.
func (n *node) deepEmpty() bool {
	if n.isLeaf() {
		_, ok := n.bits.NextSet(0)
		return !ok
	}
	if n.min != None || n.max != None || !n.summary.deepEmpty() {
		return false
	}
	for _, c := range n.clusters {
		if !c.deepEmpty() {
			return false
		}
	}
	return true
}

// clearAll empties a consistent node in place, keeping its allocation.
func (n *node) clearAll() {
	if n.isLeaf() {
		n.bits.Reset()
		return
	}
	if n.min == None {
		return
	}
	n.min, n.max = None, None
	n.summary.clearAll()
	for _, c := range n.clusters {
		c.clearAll()
	}
}

func (n *node) clone() *node {
	c := &node{
		universe:    n.universe,
		clusterSize: n.clusterSize,
		min:         n.min,
		max:         n.max,
	}
	if n.isLeaf() {
		c.bits = n.bits.Clone()
		return c
	}
	c.summary = n.summary.clone()
	c.clusters = make([]*node, len(n.clusters))
	for i, sub := range n.clusters {
		c.clusters[i] = sub.clone()
	}
	return c
}

// equal compares two nodes of the same universe. The representation is
// canonical, so comparing extremes and clusters is enough; the summary is
// implied by the clusters.
func (n *node) equal(o *node) bool {
	if n.isLeaf() {
		return n.bits.Equal(&o.bits)
	}
	if n.min != o.min || n.max != o.max {
		return false
	}
	if n.min == n.max {
		return true
	}
	for i, c := range n.clusters {
		if !c.equal(o.clusters[i]) {
			return false
		}
	}
	return true
}
