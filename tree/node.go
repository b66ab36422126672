package tree

// keyLink is one key tree's view of a node: child/parent pointers and the
// subtree height under that key's ordering. A node carries one keyLink per
// key index; the linked flag tracks per-key membership independently of
// the node's existence.
type keyLink[T any] struct {
	left   *Node[T]
	right  *Node[T]
	parent *Node[T]
	height int // height of the subtree rooted here; leaf = 1
	linked bool
}

// Node is the record wrapping one stored item. Every key tree links the
// same Node through its own keyLink, so an item is a single entity no
// matter how many orderings it participates in. All fields are unexported;
// the type is exported only so custom Allocators can construct and pool
// nodes.
type Node[T any] struct {
	item  T
	links []keyLink[T]
}

// reset prepares a (possibly pooled) node for use in a tree with the given
// number of keys, reusing the link slice capacity when it fits.
func (n *Node[T]) reset(keys int) {
	var zero T
	n.item = zero
	if cap(n.links) >= keys {
		n.links = n.links[:keys]
		for i := range n.links {
			n.links[i] = keyLink[T]{}
		}
		return
	}
	n.links = make([]keyLink[T], keys)
}

// linkCount returns how many key trees the node is currently linked into.
func (n *Node[T]) linkCount() int {
	c := 0
	for i := range n.links {
		if n.links[i].linked {
			c++
		}
	}
	return c
}

// Allocator supplies node storage to a tree. Every node a tree creates is
// obtained from NewNode and every node it discards is returned to FreeNode,
// so implementations can pool nodes or account for them. NewNode may fail;
// the operation that requested the node is then aborted with an AllocError
// and the tree is left exactly as it was before the call.
type Allocator[T any] interface {
	NewNode() (*Node[T], error)
	FreeNode(*Node[T])
}

// goAllocator is the default Allocator. It defers entirely to the Go
// runtime: NewNode never fails and FreeNode lets the garbage collector
// reclaim the node.
type goAllocator[T any] struct{}

func (goAllocator[T]) NewNode() (*Node[T], error) { return &Node[T]{}, nil }
func (goAllocator[T]) FreeNode(*Node[T])          {}

// DefaultAllocator returns the runtime-backed allocator used when no
// explicit allocator is configured.
func DefaultAllocator[T any]() Allocator[T] { return goAllocator[T]{} }

// Option configures a tree at creation or copy time.
type Option[T any] func(*options[T])

type options[T any] struct {
	alloc Allocator[T]
}

// WithAllocator routes all node allocation for the tree through a.
func WithAllocator[T any](a Allocator[T]) Option[T] {
	return func(o *options[T]) { o.alloc = a }
}

func applyOptions[T any](opts []Option[T]) options[T] {
	o := options[T]{alloc: goAllocator[T]{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
