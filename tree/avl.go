package tree

// This file holds the per-key AVL machinery. Each key index maintains an
// independent classical AVL tree over the shared nodes, using that key's
// slot in Node.links. All balancing is pointer surgery on keyLinks; items
// never move between nodes, so a node's identity is stable across every
// ordering while rotations happen.

func height[T any](k int, n *Node[T]) int {
	if n == nil {
		return 0
	}
	return n.links[k].height
}

func balanceOf[T any](k int, n *Node[T]) int {
	return height(k, n.links[k].left) - height(k, n.links[k].right)
}

func updateHeight[T any](k int, n *Node[T]) {
	lh, rh := height(k, n.links[k].left), height(k, n.links[k].right)
	if lh > rh {
		n.links[k].height = lh + 1
	} else {
		n.links[k].height = rh + 1
	}
}

func leftmost[T any](k int, n *Node[T]) *Node[T] {
	for n.links[k].left != nil {
		n = n.links[k].left
	}
	return n
}

func rightmost[T any](k int, n *Node[T]) *Node[T] {
	for n.links[k].right != nil {
		n = n.links[k].right
	}
	return n
}

// successor returns the in-order successor of n under key k, or nil if n
// is the maximum.
func successor[T any](k int, n *Node[T]) *Node[T] {
	if r := n.links[k].right; r != nil {
		return leftmost(k, r)
	}
	p := n.links[k].parent
	for p != nil && p.links[k].right == n {
		n, p = p, p.links[k].parent
	}
	return p
}

// predecessor returns the in-order predecessor of n under key k, or nil if
// n is the minimum.
func predecessor[T any](k int, n *Node[T]) *Node[T] {
	if l := n.links[k].left; l != nil {
		return rightmost(k, l)
	}
	p := n.links[k].parent
	for p != nil && p.links[k].left == n {
		n, p = p, p.links[k].parent
	}
	return p
}

// replaceChild makes child take old's place under parent for key k. A nil
// parent means old was the root.
func (t *Tree[T, C]) replaceChild(k int, parent, old, child *Node[T]) {
	if parent == nil {
		t.roots[k] = child
		return
	}
	if parent.links[k].left == old {
		parent.links[k].left = child
	} else {
		parent.links[k].right = child
	}
}

// rotateLeft rotates the subtree rooted at x leftward for key k and
// returns the new subtree root (x's former right child).
func (t *Tree[T, C]) rotateLeft(k int, x *Node[T]) *Node[T] {
	y := x.links[k].right
	x.links[k].right = y.links[k].left
	if y.links[k].left != nil {
		y.links[k].left.links[k].parent = x
	}
	y.links[k].parent = x.links[k].parent
	t.replaceChild(k, y.links[k].parent, x, y)
	y.links[k].left = x
	x.links[k].parent = y
	updateHeight(k, x)
	updateHeight(k, y)
	return y
}

// rotateRight rotates the subtree rooted at x rightward for key k and
// returns the new subtree root (x's former left child).
func (t *Tree[T, C]) rotateRight(k int, x *Node[T]) *Node[T] {
	y := x.links[k].left
	x.links[k].left = y.links[k].right
	if y.links[k].right != nil {
		y.links[k].right.links[k].parent = x
	}
	y.links[k].parent = x.links[k].parent
	t.replaceChild(k, y.links[k].parent, x, y)
	y.links[k].right = x
	x.links[k].parent = y
	updateHeight(k, x)
	updateHeight(k, y)
	return y
}

// rebalance walks from n up to the root, refreshing heights and applying
// single or double rotations wherever a balance factor reaches ±2.
func (t *Tree[T, C]) rebalance(k int, n *Node[T]) {
	for n != nil {
		updateHeight(k, n)
		switch b := balanceOf(k, n); {
		case b > 1:
			if balanceOf(k, n.links[k].left) < 0 {
				t.rotateLeft(k, n.links[k].left)
			}
			n = t.rotateRight(k, n)
		case b < -1:
			if balanceOf(k, n.links[k].right) > 0 {
				t.rotateRight(k, n.links[k].right)
			}
			n = t.rotateLeft(k, n)
		}
		n = n.links[k].parent
	}
}

// insertNode links n into key tree k by comparator-guided descent, then
// rebalances the ancestor chain. Items comparing equal route right, so
// behavior stays deterministic even under a degenerate comparator.
func (t *Tree[T, C]) insertNode(k int, n *Node[T]) {
	n.links[k] = keyLink[T]{height: 1, linked: true}
	cur := t.roots[k]
	if cur == nil {
		t.roots[k] = n
		return
	}
	for {
		if t.cmps[k](n.item, cur.item, t.ctx) < 0 {
			if cur.links[k].left == nil {
				cur.links[k].left = n
				break
			}
			cur = cur.links[k].left
		} else {
			if cur.links[k].right == nil {
				cur.links[k].right = n
				break
			}
			cur = cur.links[k].right
		}
	}
	n.links[k].parent = cur
	t.rebalance(k, cur)
}

// unlinkNode removes n from key tree k. When n has two children its
// in-order successor is spliced into n's position (the successor node
// itself moves; items stay put), then ancestors are rebalanced from the
// deepest structural change.
func (t *Tree[T, C]) unlinkNode(k int, n *Node[T]) {
	nl := &n.links[k]
	if nl.left != nil && nl.right != nil {
		s := leftmost(k, nl.right)
		sl := &s.links[k]
		start := sl.parent
		if start == n {
			// s is n's right child: it slides up keeping its own right
			// subtree, and rebalancing starts at s itself.
			start = s
		} else {
			sp := sl.parent
			sp.links[k].left = sl.right
			if sl.right != nil {
				sl.right.links[k].parent = sp
			}
			sl.right = nl.right
			nl.right.links[k].parent = s
		}
		sl.left = nl.left
		nl.left.links[k].parent = s
		sl.parent = nl.parent
		t.replaceChild(k, nl.parent, n, s)
		sl.height = nl.height
		*nl = keyLink[T]{}
		t.rebalance(k, start)
		return
	}

	child := nl.left
	if child == nil {
		child = nl.right
	}
	p := nl.parent
	t.replaceChild(k, p, n, child)
	if child != nil {
		child.links[k].parent = p
	}
	*nl = keyLink[T]{}
	t.rebalance(k, p)
}

// lookup returns the node whose item compares equal to probe under key k,
// or nil.
func (t *Tree[T, C]) lookup(k int, probe T) *Node[T] {
	cur := t.roots[k]
	for cur != nil {
		c := t.cmps[k](probe, cur.item, t.ctx)
		if c == 0 {
			return cur
		}
		if c < 0 {
			cur = cur.links[k].left
		} else {
			cur = cur.links[k].right
		}
	}
	return nil
}
