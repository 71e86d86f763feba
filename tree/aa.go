package tree

// balancer is the policy hook the engine calls after structural changes, and
// the extra per-node rules Check applies. Implementations run under the write
// (or read, for check) lock the engine already holds.
type balancer[T any] interface {
	// attached runs after x has been linked into the tree.
	attached(e Tree[T], x *T)

	// detached runs after l's object has been unlinked. from is the lowest
	// node remaining in the tree whose children were rewritten, or nil when
	// the tree emptied.
	detached(e Tree[T], l *Link[T], from *T)

	// check validates any policy-specific invariants of an attached x.
	check(e Tree[T], x *T) bool
}

// noBalance leaves the tree exactly as insertion order shaped it.
type noBalance[T any] struct{}

func (noBalance[T]) attached(Tree[T], *T) {}

func (noBalance[T]) detached(Tree[T], *Link[T], *T) {}

func (noBalance[T]) check(Tree[T], *T) bool { return true }

// aaBalance maintains the AA-tree invariants:
//
//  1. an attached leaf has level 1 (detached: level 0)
//  2. a left child's level is exactly one less than its parent's
//  3. a right child's level equals its parent's, or is one less
//  4. a right-right grandchild's level is strictly below the grandparent's
//  5. any node with level > 1 has both children
//
// Rebalancing works bottom-up with purely local level comparisons. At each
// node let L, R be the child levels and G the right-right grandchild level
// (absent nodes are level 0): a too-tall left subtree (L > R) rotates right;
// if L == R or L == G the node's level becomes L+1 and the walk ascends;
// otherwise the right side is too tall and the node rotates left. Rotations
// re-examine the same node, which the rotation pushed down, so every affected
// ancestor is still visited on the way up.
type aaBalance[T any] struct{}

func (aaBalance[T]) attached(e Tree[T], x *T) {
	aaRebalance(e, x)
}

func (aaBalance[T]) detached(e Tree[T], l *Link[T], from *T) {
	l.level = 0
	if from != nil {
		aaRebalance(e, from)
	}
}

func aaRebalance[T any](e Tree[T], x *T) {
	node := x
	for node != nil {
		l := e.linkOf(node)

		var lvlL, lvlR, lvlG int
		if l.left != nil {
			lvlL = e.linkOf(l.left).level
		}
		if l.right != nil {
			rl := e.linkOf(l.right)
			lvlR = rl.level
			if rl.right != nil {
				lvlG = e.linkOf(rl.right).level
			}
		}

		switch {
		case lvlL > lvlR:
			e.rotateRight(node)
		case lvlL == lvlR || lvlL == lvlG:
			l.level = lvlL + 1
			node = l.parent
		default:
			e.rotateLeft(node)
		}
	}
}

func (aaBalance[T]) check(e Tree[T], x *T) bool {
	l := e.linkOf(x)

	var lvlL, lvlR int
	if l.left != nil {
		lvlL = e.linkOf(l.left).level
	}
	if l.right != nil {
		lvlR = e.linkOf(l.right).level
	}

	if l.left == nil && l.right == nil {
		return l.level == 1
	}
	if l.level > 1 && (l.left == nil || l.right == nil) {
		return false
	}
	if l.left != nil && l.level != lvlL+1 {
		return false
	}
	if l.right != nil {
		if l.level != lvlR && l.level != lvlR+1 {
			return false
		}
		rl := e.linkOf(l.right)
		if rl.right != nil && e.linkOf(rl.right).level >= l.level {
			return false
		}
	}
	return true
}
