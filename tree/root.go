// Package tree implements an intrusive binary search tree: the parent, left
// and right references live inside the member objects themselves, in an
// embedded Link field named by a Selector, so a single object can sit on
// several trees at once and the tree never allocates or owns its members.
//
// A Root is either unbalanced or AA-balanced (see Balance). All operations
// are synchronized through the guard.Guard supplied at construction; the
// default guard.None leaves that to the caller.
package tree

import (
	"iter"

	"github.com/samthor/intrusive/guard"
)

// Root anchors at most one tree of T ordered by the supplied comparators and
// searchable by K.
type Root[T, K any] struct {
	sel        Selector[T]
	compare    CompareFunc[T]
	compareKey CompareKeyFunc[T, K]
	bal        balancer[T]
	g          guard.Guard

	baseNode *T
	count    int
}

// New builds an empty Root managing the Link field named by sel, ordered by
// compare and searched by compareKey.
func New[T, K any](sel Selector[T], compare CompareFunc[T], compareKey CompareKeyFunc[T, K], opts ...Option) *Root[T, K] {
	o := options{guard: guard.None()}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Root[T, K]{
		sel:        sel,
		compare:    compare,
		compareKey: compareKey,
		g:          o.guard,
	}
	switch o.balance {
	case AA:
		r.bal = aaBalance[T]{}
	default:
		r.bal = noBalance[T]{}
	}
	return r
}

// Add attaches x to this tree. If x is already on this tree, nothing happens;
// if it is on another tree it is removed from there first. Objects comparing
// equal to an existing member descend right, so equal keys appear in
// insertion order during an in-order walk. A nil x is ignored.
//
// The guard serializes operations on the tree, not on x itself: the
// membership check and the removal from a previous tree happen before this
// tree's write lock is taken, so concurrent operations on the same object
// are the caller's responsibility.
func (r *Root[T, K]) Add(x *T) {
	if x == nil {
		return
	}
	l := r.sel(x)
	if l.root == Tree[T](r) {
		return
	}
	if l.root != nil {
		l.Remove()
	}

	r.g.WriteLock(false)
	l.self = x
	if r.baseNode == nil {
		r.baseNode = x
		l.parent = nil
	} else {
		cur := r.baseNode
		for {
			cl := r.sel(cur)
			if r.compare(x, cur) < 0 {
				if cl.left == nil {
					cl.left = x
					l.parent = cur
					break
				}
				cur = cl.left
			} else {
				if cl.right == nil {
					cl.right = x
					l.parent = cur
					break
				}
				cur = cl.right
			}
		}
	}
	l.root = r
	l.left = nil
	l.right = nil
	r.count++
	r.bal.attached(r, x)
	r.g.WriteUnlock(false)
}

// Remove detaches x from this tree. It reports whether x was attached here;
// a nil x or an object on some other tree (or none) is left alone.
func (r *Root[T, K]) Remove(x *T) bool {
	if x == nil {
		return false
	}
	l := r.sel(x)
	if l.root != Tree[T](r) {
		return false
	}
	l.Remove()
	return true
}

// Find returns a member comparing equal to key, or nil. With duplicate keys
// this is the member nearest the base, not necessarily the first in order.
func (r *Root[T, K]) Find(key K) *T {
	r.g.ReadLock(false)
	defer r.g.ReadUnlock(false)

	cur := r.baseNode
	for cur != nil {
		c := r.compareKey(cur, key)
		if c == 0 {
			return cur
		}
		if c > 0 {
			cur = r.sel(cur).left
		} else {
			cur = r.sel(cur).right
		}
	}
	return nil
}

// FindFloor returns the greatest member that compares less than or equal to
// key, or nil if every member sorts after key.
func (r *Root[T, K]) FindFloor(key K) *T {
	r.g.ReadLock(false)
	defer r.g.ReadUnlock(false)

	var best *T
	cur := r.baseNode
	for cur != nil {
		if r.compareKey(cur, key) <= 0 {
			best = cur
			cur = r.sel(cur).right
		} else {
			cur = r.sel(cur).left
		}
	}
	return best
}

// FindCeil returns the least member that compares greater than or equal to
// key, or nil if every member sorts before key.
func (r *Root[T, K]) FindCeil(key K) *T {
	r.g.ReadLock(false)
	defer r.g.ReadUnlock(false)

	var best *T
	cur := r.baseNode
	for cur != nil {
		if r.compareKey(cur, key) >= 0 {
			best = cur
			cur = r.sel(cur).left
		} else {
			cur = r.sel(cur).right
		}
	}
	return best
}

// First returns the least member, or nil for an empty tree.
func (r *Root[T, K]) First() *T {
	r.g.ReadLock(false)
	defer r.g.ReadUnlock(false)

	cur := r.baseNode
	if cur == nil {
		return nil
	}
	for r.sel(cur).left != nil {
		cur = r.sel(cur).left
	}
	return cur
}

// Last returns the greatest member, or nil for an empty tree.
func (r *Root[T, K]) Last() *T {
	r.g.ReadLock(false)
	defer r.g.ReadUnlock(false)

	cur := r.baseNode
	if cur == nil {
		return nil
	}
	for r.sel(cur).right != nil {
		cur = r.sel(cur).right
	}
	return cur
}

// Base returns the topmost member of the tree, or nil when empty.
func (r *Root[T, K]) Base() *T {
	r.g.ReadLock(false)
	defer r.g.ReadUnlock(false)
	return r.baseNode
}

// Count returns the number of members on this tree.
func (r *Root[T, K]) Count() int {
	r.g.ReadLock(false)
	defer r.g.ReadUnlock(false)
	return r.count
}

// Height returns the number of nodes on the longest path from the base to a
// leaf; an empty tree has height zero. Diagnostic, O(n).
func (r *Root[T, K]) Height() int {
	r.g.ReadLock(false)
	defer r.g.ReadUnlock(false)
	return r.height(r.baseNode)
}

func (r *Root[T, K]) height(x *T) int {
	if x == nil {
		return 0
	}
	l := r.sel(x)
	return 1 + max(r.height(l.left), r.height(l.right))
}

// All walks the members in order. The successor of the yielded member is
// resolved before each yield, so a single writer may remove the yielded
// member itself; concurrent writers can rotate the saved successor out from
// under the walk (under AA balancing especially), and any other mutation
// during the walk is not safe.
func (r *Root[T, K]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		x := r.First()
		for x != nil {
			next := r.sel(x).Next()
			if !yield(x) {
				return
			}
			x = next
		}
	}
}

// Clear detaches every member without rebalancing, leaving each one fully
// disconnected. Members are not otherwise touched: the tree never owned them.
func (r *Root[T, K]) Clear() {
	r.g.WriteLock(false)
	defer r.g.WriteUnlock(false)

	node := r.baseNode
	for node != nil {
		l := r.sel(node)
		if l.left != nil {
			node = l.left
			continue
		}
		if l.right != nil {
			node = l.right
			continue
		}
		parent := l.parent
		if parent != nil {
			pl := r.sel(parent)
			if pl.left == node {
				pl.left = nil
			} else if pl.right == node {
				pl.right = nil
			}
		}
		l.root = nil
		l.self = nil
		l.parent = nil
		l.level = 0
		node = parent
	}
	r.baseNode = nil
	r.count = 0
}

// Tree implementation, used by Link and the balancing policies. All of these
// assume the caller already holds whatever lock the operation needs.

func (r *Root[T, K]) linkOf(x *T) *Link[T] { return r.sel(x) }
func (r *Root[T, K]) base() *T { return r.baseNode }
func (r *Root[T, K]) setBase(x *T) { r.baseNode = x }
func (r *Root[T, K]) cmp(a, b *T) int { return r.compare(a, b) }
func (r *Root[T, K]) locker() guard.Guard { return r.g }
func (r *Root[T, K]) policy() balancer[T] { return r.bal }
func (r *Root[T, K]) decCount() { r.count-- }
