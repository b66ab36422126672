package tree

// Copy builds an independent tree with the same comparator table, holding
// one item per distinct item in the source. copyFn, invoked exactly once
// per distinct item with the source tree's context, produces the item
// stored in the copy; a nil copyFn shares the source items. The copy gets
// dstCtx as its context and its own allocator (default or WithAllocator),
// reproduces the source's per-key linkage pattern, and is destructible
// independently of the source.
//
// If the allocator fails partway, the partial copy is torn down through
// that same allocator and the source is unaffected.
func (t *Tree[T, C]) Copy(copyFn CopyFunc[T, C], dstCtx C, opts ...Option[T]) (*Tree[T, C], error) {
	if err := t.usable(); err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	dst := &Tree[T, C]{
		cmps:  append([]CompareFunc[T, C](nil), t.cmps...),
		roots: make([]*Node[T], len(t.cmps)),
		ctx:   dstCtx,
		alloc: o.alloc,
	}
	var allocErr error
	t.eachNode(func(src *Node[T]) bool {
		item := src.item
		if copyFn != nil {
			item = copyFn(item, t.ctx)
		}
		n, err := dst.newNode(item)
		if err != nil {
			allocErr = err
			return false
		}
		for k := range t.cmps {
			if src.links[k].linked {
				dst.insertNode(k, n)
			}
		}
		dst.count++
		return true
	})
	if allocErr != nil {
		dst.Close(nil, nil)
		return nil, allocErr
	}
	return dst, nil
}
