package tree

// Subtree rotation, the primitive any balancing policy is built from. Given
// A < L < B < R < C (A, B, C subtrees):
//
//	    P                      P
//	    |                      |
//	    R   rotateRight =>     L
//	   / \  <= rotateLeft     / \
//	  L   C                  A   R
//	 / \                        / \
//	A   B                      B   C
//
// Each rotation is a constant-time local pointer rewrite; the parent link
// (or the root's base) is updated to the promoted child, which is returned so
// a policy chaining rotations can continue from it. Callers hold the write
// lock.

func (r *Root[T, K]) rotateLeft(x *T) *T {
	xl := r.sel(x)
	pivot := xl.right
	pl := r.sel(pivot)

	// middle subtree moves from the pivot to x
	xl.right = pl.left
	if xl.right != nil {
		r.sel(xl.right).parent = x
	}

	// pivot takes x's position
	pl.parent = xl.parent
	if pl.parent != nil {
		ppl := r.sel(pl.parent)
		if ppl.left == x {
			ppl.left = pivot
		} else {
			ppl.right = pivot
		}
	} else {
		r.baseNode = pivot
	}

	pl.left = x
	xl.parent = pivot
	return pivot
}

func (r *Root[T, K]) rotateRight(x *T) *T {
	xl := r.sel(x)
	pivot := xl.left
	pl := r.sel(pivot)

	xl.left = pl.right
	if xl.left != nil {
		r.sel(xl.left).parent = x
	}

	pl.parent = xl.parent
	if pl.parent != nil {
		ppl := r.sel(pl.parent)
		if ppl.left == x {
			ppl.left = pivot
		} else {
			ppl.right = pivot
		}
	} else {
		r.baseNode = pivot
	}

	pl.right = x
	xl.parent = pivot
	return pivot
}
