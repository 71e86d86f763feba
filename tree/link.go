package tree

// Link is the per-object tree state. Embed one (as a named field, zero value
// ready) in each object that participates in a tree relationship; the Root
// reaches it through its Selector. A Link is either fully detached (all
// references nil) or fully attached to exactly one Root.
type Link[T any] struct {
	root   Tree[T]
	self   *T
	parent *T
	left   *T
	right  *T

	// level is the AA rank, maintained only under the AA policy: 0 detached,
	// 1 for an attached leaf.
	level int
}

// Root returns the tree this link is attached to, or nil. The result compares
// equal to the owning *Root.
func (l *Link[T]) Root() Tree[T] { return l.root }

// Attached reports whether this link is on a tree.
func (l *Link[T]) Attached() bool { return l.root != nil }

// Parent returns the parent object, or nil for the base of the tree.
func (l *Link[T]) Parent() *T { return l.parent }

// Left returns the left child object, or nil.
func (l *Link[T]) Left() *T { return l.left }

// Right returns the right child object, or nil.
func (l *Link[T]) Right() *T { return l.right }

// Level returns the AA level of this link: 0 when detached or under the
// Unbalanced policy, otherwise the node's rank.
func (l *Link[T]) Level() int { return l.level }

// Next returns the in-order successor of this link's object, or nil at the
// end of the tree (or when detached).
func (l *Link[T]) Next() *T {
	e := l.root
	if e == nil {
		return nil
	}
	g := e.locker()
	g.ReadLock(false)
	defer g.ReadUnlock(false)
	return l.next(e)
}

// Prev returns the in-order predecessor, or nil.
func (l *Link[T]) Prev() *T {
	e := l.root
	if e == nil {
		return nil
	}
	g := e.locker()
	g.ReadLock(false)
	defer g.ReadUnlock(false)
	return l.prev(e)
}

func (l *Link[T]) next(e Tree[T]) *T {
	if l.right != nil {
		// leftmost of the right subtree
		n := l.right
		for e.linkOf(n).left != nil {
			n = e.linkOf(n).left
		}
		return n
	}
	// ascend until we arrive via a left link
	node, cur := l.self, l.parent
	for cur != nil {
		cl := e.linkOf(cur)
		if cl.left == node {
			return cur
		}
		node, cur = cur, cl.parent
	}
	return nil
}

func (l *Link[T]) prev(e Tree[T]) *T {
	if l.left != nil {
		// rightmost of the left subtree
		n := l.left
		for e.linkOf(n).right != nil {
			n = e.linkOf(n).right
		}
		return n
	}
	// ascend until we arrive via a right link
	node, cur := l.self, l.parent
	for cur != nil {
		cl := e.linkOf(cur)
		if cl.right == node {
			return cur
		}
		node, cur = cur, cl.parent
	}
	return nil
}

// Remove detaches this link from whatever tree it is on; detached links are
// left alone. An object with two children is replaced by its in-order
// predecessor, after which the balancing policy runs from the lowest node
// whose children changed.
func (l *Link[T]) Remove() {
	e := l.root
	if e == nil {
		return
	}
	g := e.locker()
	g.WriteLock(false)
	defer g.WriteUnlock(false)
	if l.root != e {
		// lost a race with another writer
		return
	}

	self := l.self
	parent := l.parent

	var replace *T // takes our slot under parent (nil for a leaf)
	var changed *T // lowest remaining node whose children were rewritten

	switch {
	case l.left == nil && l.right == nil:
		replace = nil
		changed = parent

	case l.left == nil:
		replace = l.right
		changed = parent

	case l.right == nil:
		replace = l.left
		changed = parent

	default:
		// Two children: splice our predecessor (rightmost of the left
		// subtree) into our place.
		pred := l.left
		for e.linkOf(pred).right != nil {
			pred = e.linkOf(pred).right
		}
		pl := e.linkOf(pred)

		// The predecessor has no right child of its own; it inherits ours.
		pl.right = l.right
		e.linkOf(l.right).parent = pred

		if pred != l.left {
			// Unlink the predecessor from its own parent, promoting its left
			// child, then hang our left subtree below it.
			pp := pl.parent
			e.linkOf(pp).right = pl.left
			if pl.left != nil {
				e.linkOf(pl.left).parent = pp
			}
			pl.left = l.left
			e.linkOf(l.left).parent = pred
			changed = pp
		} else {
			changed = pred
		}
		replace = pred
	}

	if replace != nil {
		e.linkOf(replace).parent = parent
	}
	if parent != nil {
		pl := e.linkOf(parent)
		if pl.left == self {
			pl.left = replace
		} else {
			pl.right = replace
		}
	} else {
		e.setBase(replace)
	}

	l.root = nil
	l.self = nil
	l.parent = nil
	l.left = nil
	l.right = nil
	e.decCount()
	e.policy().detached(e, l, changed)
}

// Check validates this link's relationship to its root, parent and immediate
// children, returning false on the first violation. Single-node scope; see
// Root.Check for the whole-tree walk.
func (l *Link[T]) Check() bool {
	e := l.root
	if e == nil {
		return l.self == nil && l.parent == nil && l.left == nil && l.right == nil && l.level == 0
	}
	g := e.locker()
	g.ReadLock(false)
	defer g.ReadUnlock(false)
	return l.check(e)
}

func (l *Link[T]) check(e Tree[T]) bool {
	self := l.self
	if self == nil || e.linkOf(self) != l {
		return false
	}
	if l.parent == nil {
		if e.base() != self {
			return false
		}
	} else {
		pl := e.linkOf(l.parent)
		if pl.left != self && pl.right != self {
			return false
		}
		if pl.root != e {
			return false
		}
	}
	if l.left != nil {
		ll := e.linkOf(l.left)
		if ll.parent != self || ll.root != e {
			return false
		}
		if e.cmp(l.left, self) > 0 {
			return false
		}
	}
	if l.right != nil {
		rl := e.linkOf(l.right)
		if rl.parent != self || rl.root != e {
			return false
		}
		if e.cmp(l.right, self) < 0 {
			return false
		}
	}
	return e.policy().check(e, self)
}
