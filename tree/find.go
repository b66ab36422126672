package tree

// FindType selects the relational semantics of a Find.
type FindType int

const (
	// FindEqual returns an item comparing equal to the probe.
	FindEqual FindType = iota
	// FindGT returns the smallest item strictly greater than the probe.
	FindGT
	// FindLT returns the largest item strictly less than the probe.
	FindLT
	// FindGE returns the smallest item greater than or equal to the probe.
	FindGE
	// FindLE returns the largest item less than or equal to the probe.
	FindLE
)

func (ft FindType) String() string {
	switch ft {
	case FindEqual:
		return "EQUAL"
	case FindGT:
		return "GT"
	case FindLT:
		return "LT"
	case FindGE:
		return "GE"
	case FindLE:
		return "LE"
	default:
		return "INVALID"
	}
}

func (ft FindType) valid() bool { return ft >= FindEqual && ft <= FindLE }

// Find searches key tree key for the probe. FindEqual yields an exact
// match or found=false; the relational types yield the probe's nearest
// neighbor on the requested side — the in-order successor (GT/GE) or
// predecessor (LT/LE) of the probe's position — whether or not the probe
// itself is present.
func (t *Tree[T, C]) Find(typ FindType, key int, probe T) (item T, found bool, err error) {
	var zero T
	if err := t.usable(); err != nil {
		return zero, false, err
	}
	if !typ.valid() {
		return zero, false, &FindTypeError{Type: typ}
	}
	if err := t.checkKey(key); err != nil {
		return zero, false, err
	}

	// Single descent tracking the tightest qualifying candidate so far.
	var best *Node[T]
	cur := t.roots[key]
	for cur != nil {
		c := t.cmps[key](probe, cur.item, t.ctx)
		switch typ {
		case FindEqual:
			if c == 0 {
				return cur.item, true, nil
			}
		case FindGT:
			if c < 0 {
				best = cur
			}
		case FindGE:
			if c == 0 {
				return cur.item, true, nil
			}
			if c < 0 {
				best = cur
			}
		case FindLT:
			if c > 0 {
				best = cur
			}
		case FindLE:
			if c == 0 {
				return cur.item, true, nil
			}
			if c > 0 {
				best = cur
			}
		}
		switch {
		case c < 0:
			cur = cur.links[key].left
		case c > 0:
			cur = cur.links[key].right
		default:
			// Equal but not satisfied exactly (GT/LT): continue toward the
			// requested side.
			if typ == FindGT {
				cur = cur.links[key].right
			} else {
				cur = cur.links[key].left
			}
		}
	}
	if best == nil {
		return zero, false, nil
	}
	return best.item, true, nil
}
