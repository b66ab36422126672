package tree

// iterState tracks where a cursor sits relative to the key's order.
type iterState int

const (
	iterBeforeFirst iterState = iota
	iterOnNode
	iterAfterLast
)

// Iterator is a bidirectional cursor over one key tree. It holds a
// non-owning reference to its tree: the tree must not be closed while the
// iterator is in use, and mutations invalidate the cursor position.
//
// A fresh iterator sits before the first item; position it with First,
// Last, or Seek, or step into the sequence with Next. Stepping past either
// extreme parks the cursor on that side's sentinel, where further steps in
// the same direction stay put (no wraparound).
type Iterator[T, C any] struct {
	t     *Tree[T, C]
	key   int
	cur   *Node[T]
	state iterState
}

// NewIterator creates a cursor over key tree key, positioned before the
// first item.
func (t *Tree[T, C]) NewIterator(key int) (*Iterator[T, C], error) {
	if err := t.usable(); err != nil {
		return nil, err
	}
	if err := t.checkKey(key); err != nil {
		return nil, err
	}
	return &Iterator[T, C]{t: t, key: key}, nil
}

// First positions the cursor on the smallest item under the key's
// comparator. ok is false for an empty key tree.
func (it *Iterator[T, C]) First() (item T, ok bool) {
	root := it.t.roots[it.key]
	if root == nil {
		return it.park(iterBeforeFirst)
	}
	return it.place(leftmost(it.key, root))
}

// Last positions the cursor on the largest item under the key's
// comparator. ok is false for an empty key tree.
func (it *Iterator[T, C]) Last() (item T, ok bool) {
	root := it.t.roots[it.key]
	if root == nil {
		return it.park(iterAfterLast)
	}
	return it.place(rightmost(it.key, root))
}

// Next moves one step forward in the key's order. Stepping past the last
// item returns ok=false and parks the cursor after the end.
func (it *Iterator[T, C]) Next() (item T, ok bool) {
	switch it.state {
	case iterBeforeFirst:
		return it.First()
	case iterAfterLast:
		return it.park(iterAfterLast)
	}
	n := successor(it.key, it.cur)
	if n == nil {
		return it.park(iterAfterLast)
	}
	return it.place(n)
}

// Prev moves one step backward in the key's order. Stepping past the first
// item returns ok=false and parks the cursor before the start.
func (it *Iterator[T, C]) Prev() (item T, ok bool) {
	switch it.state {
	case iterAfterLast:
		return it.Last()
	case iterBeforeFirst:
		return it.park(iterBeforeFirst)
	}
	n := predecessor(it.key, it.cur)
	if n == nil {
		return it.park(iterBeforeFirst)
	}
	return it.place(n)
}

// Cur returns the item under the cursor without moving. ok is false when
// the cursor sits on a sentinel.
func (it *Iterator[T, C]) Cur() (item T, ok bool) {
	if it.state != iterOnNode {
		var zero T
		return zero, false
	}
	return it.cur.item, true
}

// Seek repositions the cursor on the item comparing equal to probe under
// the iterator's key. If no such item is linked there, ok is false and the
// cursor parks before the start.
func (it *Iterator[T, C]) Seek(probe T) (item T, ok bool) {
	n := it.t.lookup(it.key, probe)
	if n == nil {
		return it.park(iterBeforeFirst)
	}
	return it.place(n)
}

// Key returns the key index the iterator traverses.
func (it *Iterator[T, C]) Key() int { return it.key }

func (it *Iterator[T, C]) place(n *Node[T]) (T, bool) {
	it.cur = n
	it.state = iterOnNode
	return n.item, true
}

func (it *Iterator[T, C]) park(s iterState) (T, bool) {
	var zero T
	it.cur = nil
	it.state = s
	return zero, false
}
