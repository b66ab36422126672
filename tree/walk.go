package tree

// Walk traverses key tree 0 in ascending order, invoking fn for each item.
// fn returning stop=true ends the walk after that item; fn returning an
// error aborts the walk immediately and Walk returns that error. State the
// walk needs (counters, accumulators) belongs in fn's closure.
func (t *Tree[T, C]) Walk(fn WalkFunc[T, C]) error {
	if err := t.usable(); err != nil {
		return err
	}
	if fn == nil {
		return &InvalidArgumentError{Reason: "nil walk callback"}
	}
	root := t.roots[0]
	if root == nil {
		return nil
	}
	for n := leftmost(0, root); n != nil; n = successor(0, n) {
		stop, err := fn(n.item, t.ctx)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
	return nil
}
