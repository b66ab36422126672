package tree

import "fmt"

// InvalidArgumentError is returned when an operation receives a nil tree,
// a nil callback it requires, or an empty/partial comparator table.
type InvalidArgumentError struct{ Reason string }

func (e *InvalidArgumentError) Error() string {
	return "tree: invalid argument: " + e.Reason
}

// KeyIndexError is returned when a key index is outside [0, Keys).
type KeyIndexError struct {
	Index int
	Keys  int
}

func (e *KeyIndexError) Error() string {
	return fmt.Sprintf("tree: key index %d out of range [0,%d)", e.Index, e.Keys)
}

// FindTypeError is returned when Find is called with an unknown FindType.
type FindTypeError struct{ Type FindType }

func (e *FindTypeError) Error() string {
	return fmt.Sprintf("tree: invalid find type %d", int(e.Type))
}

// AllocError is returned when the tree's Allocator fails to provide a
// node. The operation that needed the node has been aborted and the tree
// is unchanged.
type AllocError struct{ Err error }

func (e *AllocError) Error() string { return "tree: node allocation failed: " + e.Err.Error() }

func (e *AllocError) Unwrap() error { return e.Err }

// LastKeyError is returned by RemoveKey when unlinking would leave the
// item with no key linkage at all. An item's final linkage can only be
// removed by the whole-item Remove, which also releases the node.
type LastKeyError struct{ Index int }

func (e *LastKeyError) Error() string {
	return fmt.Sprintf("tree: cannot remove last key linkage (key %d); use Remove", e.Index)
}

// ClosedError is returned by any operation on a tree that has been closed.
type ClosedError struct{}

func (e *ClosedError) Error() string { return "tree: tree is closed" }
