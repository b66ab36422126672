package tree

import (
	"math/rand"
	"testing"
)

// checkTree verifies every structural invariant: per-key parent pointers,
// exact heights, AVL balance factors in {-1,0,1}, non-decreasing in-order
// sequences per comparator, linked flags, and the distinct-node count.
func checkTree[T, C any](t *testing.T, tr *Tree[T, C]) {
	t.Helper()
	distinct := make(map[*Node[T]]bool)
	for k := range tr.cmps {
		root := tr.roots[k]
		if root == nil {
			continue
		}
		if root.links[k].parent != nil {
			t.Fatalf("key %d: root has a parent", k)
		}
		checkSubtree(t, tr, k, root, distinct)

		prev := leftmost(k, root)
		for n := successor(k, prev); n != nil; n = successor(k, n) {
			if tr.cmps[k](prev.item, n.item, tr.ctx) > 0 {
				t.Fatalf("key %d: in-order sequence decreases (%v before %v)",
					k, prev.item, n.item)
			}
			prev = n
		}
	}
	if len(distinct) != tr.count {
		t.Fatalf("count = %d, but %d distinct nodes are linked", tr.count, len(distinct))
	}
}

// checkSubtree recursively validates heights, balance, parent pointers and
// linked flags under key k, returning the subtree height.
func checkSubtree[T, C any](t *testing.T, tr *Tree[T, C], k int, n *Node[T], distinct map[*Node[T]]bool) int {
	t.Helper()
	if n == nil {
		return 0
	}
	l := n.links[k]
	if !l.linked {
		t.Fatalf("key %d: reachable node %v not marked linked", k, n.item)
	}
	distinct[n] = true
	if l.left != nil && l.left.links[k].parent != n {
		t.Fatalf("key %d: left child of %v has wrong parent", k, n.item)
	}
	if l.right != nil && l.right.links[k].parent != n {
		t.Fatalf("key %d: right child of %v has wrong parent", k, n.item)
	}
	lh := checkSubtree(t, tr, k, l.left, distinct)
	rh := checkSubtree(t, tr, k, l.right, distinct)
	want := lh
	if rh > want {
		want = rh
	}
	want++
	if l.height != want {
		t.Fatalf("key %d: node %v height = %d, want %d", k, n.item, l.height, want)
	}
	if d := lh - rh; d < -1 || d > 1 {
		t.Fatalf("key %d: node %v balance factor = %d", k, n.item, d)
	}
	return want
}

func TestAVL_SequentialInsertStaysBalanced(t *testing.T) {
	tr := newPairTree(t)
	for v := 0; v < 1024; v++ {
		mustAdd(t, tr, v)
	}
	checkTree(t, tr)
	// AVL height bound: 1.4405·log2(n+2), under 15 for n=1024.
	if h := tr.roots[0].links[0].height; h > 14 {
		t.Errorf("height = %d after 1024 ascending inserts, want ≤ 14", h)
	}
	for v := 0; v < 1024; v += 2 {
		if _, found, err := tr.Remove(v); err != nil || !found {
			t.Fatalf("Remove(%d): found=%v err=%v", v, found, err)
		}
	}
	checkTree(t, tr)
	if tr.Len() != 512 {
		t.Fatalf("Len() = %d, want 512", tr.Len())
	}
}

func TestAVL_RandomAddRemove(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tr := newPairTree(t)
	present := make(map[int]bool)

	for round := 0; round < 4000; round++ {
		v := rng.Intn(500)
		if rng.Intn(3) == 0 {
			_, found, err := tr.Remove(v)
			if err != nil {
				t.Fatalf("Remove(%d): %v", v, err)
			}
			if found != present[v] {
				t.Fatalf("Remove(%d) found=%v, reference says %v", v, found, present[v])
			}
			delete(present, v)
		} else {
			_, found, err := tr.Add(v)
			if err != nil {
				t.Fatalf("Add(%d): %v", v, err)
			}
			if found != present[v] {
				t.Fatalf("Add(%d) found=%v, reference says %v", v, found, present[v])
			}
			present[v] = true
		}
		if round%250 == 0 {
			checkTree(t, tr)
		}
	}
	checkTree(t, tr)
	if tr.Len() != len(present) {
		t.Fatalf("Len() = %d, reference holds %d", tr.Len(), len(present))
	}
}

func TestAVL_PerKeyChurnKeepsBothTreesValid(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tr := newPairTree(t)
	vals := rng.Perm(300)
	for _, v := range vals {
		mustAdd(t, tr, v)
	}
	checkTree(t, tr)

	// Strip every item out of one key and put it back, both directions.
	for key := 0; key < tr.Keys(); key++ {
		for _, v := range vals {
			if _, found, err := tr.RemoveKey(key, v); err != nil || !found {
				t.Fatalf("RemoveKey(%d, %d): found=%v err=%v", key, v, found, err)
			}
		}
		checkTree(t, tr)
		if tr.Len() != len(vals) {
			t.Fatalf("Len() = %d during per-key churn, want %d", tr.Len(), len(vals))
		}
		for _, v := range vals {
			if _, found, err := tr.AddKey(key, v); err != nil || found {
				t.Fatalf("AddKey(%d, %d): found=%v err=%v", key, v, found, err)
			}
		}
		checkTree(t, tr)
	}
}
