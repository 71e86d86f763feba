package tree

// Check verifies every backreference, ordering and policy invariant of the
// whole tree, returning false on the first violation rather than panicking so
// it can serve as a runtime-checkable property. Ordering is verified against
// both immediate children and the extreme descendant of each subtree (the
// rightmost member of a left subtree must still sort no later than the node,
// and symmetrically on the right).
func (r *Root[T, K]) Check() bool {
	r.g.ReadLock(false)
	defer r.g.ReadUnlock(false)

	if r.baseNode == nil {
		return r.count == 0
	}
	bl := r.sel(r.baseNode)
	if bl.root != Tree[T](r) || bl.parent != nil {
		return false
	}
	n, ok := r.checkNode(r.baseNode)
	return ok && n == r.count
}

// checkNode validates the subtree under x and returns its size.
func (r *Root[T, K]) checkNode(x *T) (int, bool) {
	l := r.sel(x)
	if !l.check(r) {
		return 0, false
	}

	n := 1
	if l.left != nil {
		// the whole left subtree sorts no later than x
		rm := l.left
		for r.sel(rm).right != nil {
			rm = r.sel(rm).right
		}
		if r.compare(rm, x) > 0 {
			return 0, false
		}
		sub, ok := r.checkNode(l.left)
		if !ok {
			return 0, false
		}
		n += sub
	}
	if l.right != nil {
		lm := l.right
		for r.sel(lm).left != nil {
			lm = r.sel(lm).left
		}
		if r.compare(lm, x) < 0 {
			return 0, false
		}
		sub, ok := r.checkNode(l.right)
		if !ok {
			return 0, false
		}
		n += sub
	}
	return n, true
}
