// Package btree is the in-memory ordered index from spec.md §4.8: a
// map from uint32 key to byte-string value, organized as a tree of
// leaf and interior nodes with at most MAX_KEYS entries each. This is
// the properly-finished version of the Rust original's btree.rs,
// whose Leaf split branch was a bare "//split" stub — here the split,
// median promotion, and parent-overflow propagation described in the
// spec prose are actually implemented, including the new-root case.
//
// Persistence to pages is out of scope (spec.md §4.8: "nodes
// currently live in RAM"); this is unrelated to the on-disk, flat
// index pages internal/storage's SCHEMA_INFO/databases/tables indexes
// use, which are walked by the index pager iterator instead (§4.10).
package btree

// MaxKeys is the maximum number of entries a node may hold before it
// must split.
const MaxKeys = 4

// KeyValue is one (key, value) pair held by a leaf.
type KeyValue struct {
	Key   uint32
	Value []byte
}

// node is either a leaf (keys with values) or interior (keys with
// child pointers, len(children) == len(keys)+1). The zero value is a
// leaf with no entries, matching BTree.New's empty root.
type node struct {
	leaf     bool
	keys     []uint32
	values   [][]byte // parallel to keys, leaf only
	children []*node  // len(children) == len(keys)+1, interior only
}

// BTree is an ordered map from uint32 key to byte-string value.
type BTree struct {
	root *node
}

// New returns an empty BTree with a single empty leaf root.
func New() *BTree {
	return &BTree{root: &node{leaf: true}}
}

// Insert adds or replaces the value for key. Per spec.md §4.8,
// inserting an existing key replaces its value.
func (t *BTree) Insert(key uint32, value []byte) {
	promotedKey, right, split := t.root.insert(key, value)
	if !split {
		return
	}

	t.root = &node{
		leaf:     false,
		keys:     []uint32{promotedKey},
		children: []*node{t.root, right},
	}
}

// childIndex returns the index of the first child whose separator key
// is ≥ key (ties go left), per spec.md §4.8's descent rule.
func childIndex(keys []uint32, key uint32) int {
	i := 0
	for i < len(keys) && key > keys[i] {
		i++
	}
	return i
}

// insert descends into n, inserting (key, value). If n overflows
// MaxKeys as a result, it splits and returns (promotedKey, newRight,
// true); the caller is responsible for inserting promotedKey/newRight
// into its own structure (or, at the root, wrapping both in a new
// interior root).
func (n *node) insert(key uint32, value []byte) (promotedKey uint32, right *node, split bool) {
	if n.leaf {
		i := childIndex(n.keys, key)
		if i < len(n.keys) && n.keys[i] == key {
			n.values[i] = value
			return 0, nil, false
		}

		n.keys = insertAt(n.keys, i, key)
		n.values = insertBytesAt(n.values, i, value)

		if len(n.keys) <= MaxKeys {
			return 0, nil, false
		}
		return n.splitLeaf()
	}

	i := childIndex(n.keys, key)
	childPromoted, childRight, childSplit := n.children[i].insert(key, value)
	if !childSplit {
		return 0, nil, false
	}

	n.keys = insertAt(n.keys, i, childPromoted)
	n.children = insertNodeAt(n.children, i+1, childRight)

	if len(n.keys) <= MaxKeys {
		return 0, nil, false
	}
	return n.splitInterior()
}

// splitLeaf splits an overflowing leaf (MaxKeys+1 entries) into two
// leaves, promoting the median key to the parent. The median stays in
// the left leaf: an interior node's invariant is "child i holds keys
// ≤ separator_key[i]" (spec.md §3), so the promoted separator must
// still resolve lookups for the key equal to it back to the left side.
func (n *node) splitLeaf() (promotedKey uint32, right *node, split bool) {
	mid := len(n.keys) / 2

	right = &node{
		leaf:   true,
		keys:   append([]uint32(nil), n.keys[mid+1:]...),
		values: append([][]byte(nil), n.values[mid+1:]...),
	}

	promotedKey = n.keys[mid]
	n.keys = append([]uint32(nil), n.keys[:mid+1]...)
	n.values = append([][]byte(nil), n.values[:mid+1]...)

	return promotedKey, right, true
}

// splitInterior splits an overflowing interior node. Unlike a leaf
// split, the median key is removed entirely and promoted — it already
// separates the left and right halves' children, so it is not
// duplicated on either side.
func (n *node) splitInterior() (promotedKey uint32, right *node, split bool) {
	mid := len(n.keys) / 2
	promotedKey = n.keys[mid]

	right = &node{
		leaf:     false,
		keys:     append([]uint32(nil), n.keys[mid+1:]...),
		children: append([]*node(nil), n.children[mid+1:]...),
	}

	n.keys = append([]uint32(nil), n.keys[:mid]...)
	n.children = append([]*node(nil), n.children[:mid+1]...)

	return promotedKey, right, true
}

// Lookup returns key's value and true if present.
func (t *BTree) Lookup(key uint32) ([]byte, bool) {
	n := t.root
	for {
		i := childIndex(n.keys, key)
		if n.leaf {
			if i < len(n.keys) && n.keys[i] == key {
				return n.values[i], true
			}
			return nil, false
		}
		n = n.children[i]
	}
}

// RangeScan returns every (key, value) with lo ≤ key ≤ hi in ascending
// key order. The spec calls for a lazy sequence; this collects
// in-order rather than allocating an explicit cursor, since the
// in-memory tree has no page-fetch cost to defer.
func (t *BTree) RangeScan(lo, hi uint32) []KeyValue {
	var out []KeyValue
	t.root.collectRange(lo, hi, &out)
	return out
}

func (n *node) collectRange(lo, hi uint32, out *[]KeyValue) {
	if n.leaf {
		for i, k := range n.keys {
			if k >= lo && k <= hi {
				*out = append(*out, KeyValue{Key: k, Value: n.values[i]})
			}
		}
		return
	}

	for i, child := range n.children {
		child.collectRange(lo, hi, out)
		if i < len(n.keys) && n.keys[i] > hi {
			break
		}
	}
}

// InOrder returns every (key, value) in the tree in ascending key
// order, used by tests to check the B-tree ordering property
// (spec.md §8, property 5).
func (t *BTree) InOrder() []KeyValue {
	var out []KeyValue
	t.root.collectAll(&out)
	return out
}

func (n *node) collectAll(out *[]KeyValue) {
	if n.leaf {
		for i, k := range n.keys {
			*out = append(*out, KeyValue{Key: k, Value: n.values[i]})
		}
		return
	}
	for _, child := range n.children {
		child.collectAll(out)
	}
}

func insertAt(s []uint32, i int, v uint32) []uint32 {
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func insertBytesAt(s [][]byte, i int, v []byte) [][]byte {
	s = append(s, nil)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func insertNodeAt(s []*node, i int, v *node) []*node {
	s = append(s, nil)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
