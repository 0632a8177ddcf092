package veb

// The set-algebra operations work on a "spilled" node: its extremes are
// pushed down into the clusters so that the clusters alone hold the whole
// set. Clusters are then combined pairwise, and rebuild re-derives the
// summary and pulls the new extremes back out.

// spill moves min and max into the clusters and leaves the summary stale.
// Only rebuild may follow.
func (n *node) spill() {
	if n.min == None {
		return
	}
	n.spillOne(n.min)
	if n.max != n.min {
		n.spillOne(n.max)
	}
	n.min, n.max = None, None
}

func (n *node) spillOne(x uint64) {
	hi, lo := n.split(x)
	n.clusters[hi].insert(lo)
}

// rebuild recomputes the summary from the clusters and extracts min and max.
func (n *node) rebuild() {
	n.summary.clearAll()
	for i, c := range n.clusters {
		if !c.empty() {
			n.summary.insert(uint64(i))
		}
	}
	n.min, n.max = None, None
	lo, ok := n.pullMin()
	if !ok {
		return
	}
	n.min = lo
	if hi, ok := n.pullMax(); ok {
		n.max = hi
	} else {
		n.max = lo
	}
}

func (n *node) toggle(x uint64) {
	if !n.delete(x) {
		n.insert(x)
	}
}

// insertAll fills the node with every element of its universe.
func (n *node) insertAll() {
	if n.isLeaf() {
		n.bits.SetAll()
		return
	}
	for _, c := range n.clusters {
		c.insertAll()
	}
	n.summary.insertAll()
	n.min, n.max = None, None
	n.min, _ = n.pullMin()
	n.max, _ = n.pullMax()
}

func (n *node) invert() {
	if n.isLeaf() {
		n.bits.Not()
		return
	}
	n.spill()
	for _, c := range n.clusters {
		c.invert()
	}
	n.rebuild()
}

// and intersects n with o. o must have the same universe and must not be n.
func (n *node) and(o *node) {
	if n.isLeaf() {
		n.bits.And(&o.bits)
		return
	}
	switch {
	case n.min == None:
		return
	case o.min == None:
		n.clearAll()
		return
	}
	// o's extremes are not in o's clusters, so test them against n up front.
	keepMin := n.contains(o.min)
	keepMax := o.max != o.min && n.contains(o.max)

	n.spill()
	for i, c := range n.clusters {
		c.and(o.clusters[i])
	}
	n.rebuild()

	if keepMin {
		n.insert(o.min)
	}
	if keepMax {
		n.insert(o.max)
	}
}

// or unions o into n. o must have the same universe and must not be n.
func (n *node) or(o *node) {
	if n.isLeaf() {
		n.bits.Or(&o.bits)
		return
	}
	if o.min == None {
		return
	}
	n.spill()
	for i, c := range n.clusters {
		c.or(o.clusters[i])
	}
	n.rebuild()
	n.insert(o.min)
	n.insert(o.max)
}

// xor sets n to the symmetric difference with o. o must have the same
// universe and must not be n.
func (n *node) xor(o *node) {
	if n.isLeaf() {
		n.bits.Xor(&o.bits)
		return
	}
	if o.min == None {
		return
	}
	n.spill()
	for i, c := range n.clusters {
		c.xor(o.clusters[i])
	}
	n.rebuild()
	n.toggle(o.min)
	if o.max != o.min {
		n.toggle(o.max)
	}
}
