// Package veb implements a Van Emde Boas tree: an ordered set of integers
// drawn from a bounded universe [0, U) with O(log log U) membership,
// insertion, deletion, successor and predecessor queries.
//
// A node of universe N is split into ceil(N/s) clusters of universe s,
// where s is the smallest power of LeafUniverse with s*s >= N (the last
// cluster covers only the remainder), plus a summary over the cluster
// indices. Recursion stops at LeafUniverse, where a flat bitvec.Vector
// holds the bits directly, so all but the last leaf of each node are full.
//
// Every internal node caches its minimum and maximum and stores neither of
// them in its clusters. A node holding a single element has min == max and
// an empty recursion. Together with eager allocation of the cluster array
// this makes the representation of a given set unique, which Equal relies
// on.
//
// A Tree is not safe for concurrent use.
package veb
