package veb

// successor returns the smallest element greater than x, or None. x == None
// means "before every element".
func (n *node) successor(x uint64) uint64 {
	if n.isLeaf() {
		var from uint64
		if x != None {
			from = x + 1
		}
		if v, ok := n.bits.NextSet(from); ok {
			return v
		}
		return None
	}
	switch {
	case n.min == None:
		return None
	case x == None || x < n.min:
		return n.min
	case x >= n.max:
		return None
	case n.summary.empty():
		return n.max
	}
	hi, lo := n.split(x)
	if c := n.clusters[hi]; !c.empty() && lo < c.maximum() {
		return n.join(hi, c.successor(lo))
	}
	if next := n.summary.successor(hi); next != None {
		return n.join(next, n.clusters[next].minimum())
	}
	// max lives outside the clusters.
	return n.max
}

// predecessor returns the largest element less than x, or None. x == None
// means "after every element".
func (n *node) predecessor(x uint64) uint64 {
	if n.isLeaf() {
		switch {
		case x == None:
			if v, ok := n.bits.Max(); ok {
				return v
			}
		case x > 0:
			if v, ok := n.bits.PrevSet(x - 1); ok {
				return v
			}
		}
		return None
	}
	switch {
	case n.min == None:
		return None
	case x == None || x > n.max:
		return n.max
	case x <= n.min:
		return None
	case n.summary.empty():
		return n.min
	}
	hi, lo := n.split(x)
	if c := n.clusters[hi]; !c.empty() && lo > c.minimum() {
		return n.join(hi, c.predecessor(lo))
	}
	if prev := n.summary.predecessor(hi); prev != None {
		return n.join(prev, n.clusters[prev].maximum())
	}
	return n.min
}

// successorDelete removes the successor of x and returns it, or returns
// None and leaves the node untouched.
func (n *node) successorDelete(x uint64) uint64 {
	if n.isLeaf() {
		s := n.successor(x)
		if s != None {
			n.bits.Clear(s)
		}
		return s
	}
	switch {
	case n.min == None:
		return None
	case x == None || x < n.min:
		return n.deleteMin()
	case x >= n.max:
		return None
	case n.summary.empty():
		// Only min and max remain and x sits between them.
		m := n.max
		n.max = n.min
		return m
	}
	hi, lo := n.split(x)
	if c := n.clusters[hi]; !c.empty() && lo < c.maximum() {
		s := c.successorDelete(lo)
		if c.empty() {
			n.summary.delete(hi)
		}
		return n.join(hi, s)
	}
	if next := n.summary.successor(hi); next != None {
		c := n.clusters[next]
		s := c.deleteMin()
		if c.empty() {
			n.summary.delete(next)
		}
		return n.join(next, s)
	}
	return n.deleteMax()
}

// predecessorDelete is the mirror of successorDelete.
func (n *node) predecessorDelete(x uint64) uint64 {
	if n.isLeaf() {
		p := n.predecessor(x)
		if p != None {
			n.bits.Clear(p)
		}
		return p
	}
	switch {
	case n.min == None:
		return None
	case x == None || x > n.max:
		return n.deleteMax()
	case x <= n.min:
		return None
	case n.summary.empty():
		m := n.min
		n.min = n.max
		return m
	}
	hi, lo := n.split(x)
	if c := n.clusters[hi]; !c.empty() && lo > c.minimum() {
		p := c.predecessorDelete(lo)
		if c.empty() {
			n.summary.delete(hi)
		}
		return n.join(hi, p)
	}
	if prev := n.summary.predecessor(hi); prev != None {
		c := n.clusters[prev]
		p := c.deleteMax()
		if c.empty() {
			n.summary.delete(prev)
		}
		return n.join(prev, p)
	}
	return n.deleteMin()
}
