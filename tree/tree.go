// Package tree provides a generic multi-key balanced-tree container: one
// set of items maintained simultaneously under several independent total
// orderings, each backed by its own AVL tree over shared nodes. Clients
// supply one comparator per ordering ("key index") and get logarithmic
// insert, remove, and relational find under every ordering, plus
// bidirectional cursors, in-order walks, and whole-tree copies.
//
// The container is not safe for concurrent use. Readers (Find, Len, Walk,
// iterators) may run concurrently with each other, but any mutation must
// be exclusive, exactly as with a plain map.
package tree

// CompareFunc orders two items under one key index. It must return a
// negative value if a sorts before b, a positive value if after, and zero
// if they are equal, and must be a strict weak ordering. The tree's
// context value is passed through on every call.
type CompareFunc[T, C any] func(a, b T, ctx C) int

// ItemFunc is applied to each item during Close, for client-side cleanup.
type ItemFunc[T, C any] func(item T, ctx C) error

// ContextFunc releases a tree's context value during Close.
type ContextFunc[C any] func(ctx C) error

// CopyFunc produces the item to store in a copied tree from an item in the
// source tree. It is invoked exactly once per distinct item.
type CopyFunc[T, C any] func(item T, ctx C) T

// WalkFunc is invoked per item by Walk, in ascending key-0 order.
// Returning stop=true ends the walk after this item; returning an error
// aborts the walk and propagates the error.
type WalkFunc[T, C any] func(item T, ctx C) (stop bool, err error)

// Tree is a multi-key container handle. The zero value is not usable;
// create trees with New or Copy.
type Tree[T, C any] struct {
	cmps   []CompareFunc[T, C]
	roots  []*Node[T]
	ctx    C
	alloc  Allocator[T]
	count  int
	closed bool
}

// New creates an empty tree ordered by cmps, one comparator per key index.
// Comparator 0 doubles as the identity comparator for whole-item Add and
// Remove. ctx is an opaque client value handed to every comparator and
// callback. Node allocation defaults to the Go runtime; see WithAllocator.
func New[T, C any](cmps []CompareFunc[T, C], ctx C, opts ...Option[T]) (*Tree[T, C], error) {
	if len(cmps) == 0 {
		return nil, &InvalidArgumentError{Reason: "empty comparator table"}
	}
	for _, cmp := range cmps {
		if cmp == nil {
			return nil, &InvalidArgumentError{Reason: "nil comparator in table"}
		}
	}
	o := applyOptions(opts)
	t := &Tree[T, C]{
		cmps:  append([]CompareFunc[T, C](nil), cmps...),
		roots: make([]*Node[T], len(cmps)),
		ctx:   ctx,
		alloc: o.alloc,
	}
	return t, nil
}

// Len returns the number of distinct items in the tree: those linked into
// at least one key tree. Per-key removal does not change it. Len of a nil
// tree is 0.
func (t *Tree[T, C]) Len() int {
	if t == nil {
		return 0
	}
	return t.count
}

// Keys returns the number of orderings the tree maintains.
func (t *Tree[T, C]) Keys() int { return len(t.cmps) }

// Context returns the opaque context value supplied at creation.
func (t *Tree[T, C]) Context() C { return t.ctx }

// usable validates the receiver for a mutating or reading operation.
func (t *Tree[T, C]) usable() error {
	if t == nil {
		return &InvalidArgumentError{Reason: "nil tree"}
	}
	if t.closed {
		return &ClosedError{}
	}
	return nil
}

func (t *Tree[T, C]) checkKey(key int) error {
	if key < 0 || key >= len(t.cmps) {
		return &KeyIndexError{Index: key, Keys: len(t.cmps)}
	}
	return nil
}

// Add inserts item into every key tree. If an item comparing equal under
// comparator 0 is already present, the tree is left unmodified and that
// resident item is returned with found=true. Otherwise a node is
// allocated, linked under all keys, and found is false.
func (t *Tree[T, C]) Add(item T) (existing T, found bool, err error) {
	var zero T
	if err := t.usable(); err != nil {
		return zero, false, err
	}
	// The resident item may have been key-removed from key 0, so identity
	// has to be checked across every key tree.
	if dup := t.findAnywhere(item); dup != nil {
		return dup.item, true, nil
	}
	n, err := t.newNode(item)
	if err != nil {
		return zero, false, err
	}
	for k := range t.cmps {
		t.insertNode(k, n)
	}
	t.count++
	return zero, false, nil
}

// Remove removes the item comparing equal to probe under comparator 0 from
// every key tree it is linked into, releases its node, and returns the
// removed item. found is false if no such item exists.
func (t *Tree[T, C]) Remove(probe T) (removed T, found bool, err error) {
	var zero T
	if err := t.usable(); err != nil {
		return zero, false, err
	}
	n := t.findAnywhere(probe)
	if n == nil {
		return zero, false, nil
	}
	// Grab the item before the node goes back to the allocator.
	removed = n.item
	t.removeNode(n)
	return removed, true, nil
}

// AddKey links the item into key tree key only. If an equal item is
// already linked there, nothing changes and that item is returned with
// found=true. If the item exists under other keys, its existing node gains
// the linkage; if it exists nowhere, a fresh node is created linked only
// under key (and Len grows by one).
func (t *Tree[T, C]) AddKey(key int, item T) (existing T, found bool, err error) {
	var zero T
	if err := t.usable(); err != nil {
		return zero, false, err
	}
	if err := t.checkKey(key); err != nil {
		return zero, false, err
	}
	if dup := t.lookup(key, item); dup != nil {
		return dup.item, true, nil
	}
	for k := range t.cmps {
		if k == key {
			continue
		}
		if n := t.lookup(k, item); n != nil {
			t.insertNode(key, n)
			return zero, false, nil
		}
	}
	n, err := t.newNode(item)
	if err != nil {
		return zero, false, err
	}
	t.insertNode(key, n)
	t.count++
	return zero, false, nil
}

// RemoveKey unlinks the item comparing equal to probe (under key's
// comparator) from key tree key only. Len is unchanged, the node is not
// released, and the item stays reachable through every other key it is
// linked under. found is false if no equal item is linked there. Removing
// an item's final remaining linkage is refused with a LastKeyError.
func (t *Tree[T, C]) RemoveKey(key int, probe T) (removed T, found bool, err error) {
	var zero T
	if err := t.usable(); err != nil {
		return zero, false, err
	}
	if err := t.checkKey(key); err != nil {
		return zero, false, err
	}
	n := t.lookup(key, probe)
	if n == nil {
		return zero, false, nil
	}
	if n.linkCount() == 1 {
		return zero, false, &LastKeyError{Index: key}
	}
	t.unlinkNode(key, n)
	return n.item, true, nil
}

// Close tears the tree down: itemFn (if non-nil) is applied once to every
// distinct item, every node is returned to the allocator, ctxFn (if
// non-nil) is applied once to the context, and the tree becomes unusable.
// Closing an empty tree only runs the context cleanup. The first callback
// error is returned; teardown itself always completes.
func (t *Tree[T, C]) Close(itemFn ItemFunc[T, C], ctxFn ContextFunc[C]) error {
	if err := t.usable(); err != nil {
		return err
	}
	// Collect first: FreeNode may recycle a node, so traversal must not
	// ride through links of already-released nodes.
	nodes := make([]*Node[T], 0, t.count)
	t.eachNode(func(n *Node[T]) bool {
		nodes = append(nodes, n)
		return true
	})
	var firstErr error
	for _, n := range nodes {
		if itemFn != nil {
			if err := itemFn(n.item, t.ctx); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		t.alloc.FreeNode(n)
	}
	for k := range t.roots {
		t.roots[k] = nil
	}
	t.count = 0
	t.closed = true
	if ctxFn != nil {
		if err := ctxFn(t.ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// newNode obtains a node from the allocator, prepared for this tree's key
// count and holding item.
func (t *Tree[T, C]) newNode(item T) (*Node[T], error) {
	n, err := t.alloc.NewNode()
	if err != nil {
		return nil, &AllocError{Err: err}
	}
	n.reset(len(t.cmps))
	n.item = item
	return n, nil
}

// removeNode unlinks n from every key tree it participates in and returns
// its node to the allocator.
func (t *Tree[T, C]) removeNode(n *Node[T]) {
	for k := range t.cmps {
		if n.links[k].linked {
			t.unlinkNode(k, n)
		}
	}
	t.count--
	t.alloc.FreeNode(n)
}

// findAnywhere locates the node for probe: first by comparator 0 in key
// tree 0, then, if the item has been key-removed there, by each remaining
// key in ascending order.
func (t *Tree[T, C]) findAnywhere(probe T) *Node[T] {
	for k := range t.cmps {
		if n := t.lookup(k, probe); n != nil {
			return n
		}
	}
	return nil
}

// eachNode invokes fn once per distinct node: ascending key-0 order first,
// then any nodes key-removed from key 0 in the order of the remaining key
// trees. fn returning false stops the iteration. fn must not mutate the
// tree.
func (t *Tree[T, C]) eachNode(fn func(*Node[T]) bool) {
	if t.count == 0 {
		return
	}
	seen := make(map[*Node[T]]bool, t.count)
	for k := range t.cmps {
		if len(seen) == t.count {
			return
		}
		root := t.roots[k]
		if root == nil {
			continue
		}
		for n := leftmost(k, root); n != nil; n = successor(k, n) {
			if seen[n] {
				continue
			}
			seen[n] = true
			if !fn(n) {
				return
			}
		}
	}
}
