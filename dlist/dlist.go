// Package dlist implements an intrusive doubly linked list: next and prev
// references live in a Link embedded in the member object, named by a
// Selector. Compared with package list it adds O(1) tail insertion and
// removal, backward traversal, and positional insertion relative to an
// attached member.
package dlist

import (
	"iter"

	"github.com/samthor/intrusive/guard"
)

// Selector names the Link field inside T that a given Root manages.
type Selector[T any] func(*T) *Link[T]

// CompareFunc orders two members for the sorted variant: negative when a
// sorts before b.
type CompareFunc[T any] func(a, b *T) int

// Option configures a Root at construction.
type Option func(*options)

type options struct {
	guard guard.Guard
}

// WithGuard selects the thread-safety strategy; the default is guard.None.
func WithGuard(g guard.Guard) Option {
	return func(o *options) { o.guard = g }
}

// Link is the per-object list state; embed one per list relationship.
type Link[T any] struct {
	root *Root[T]
	self *T
	next *T
	prev *T
}

// Root anchors one list of T.
type Root[T any] struct {
	sel   Selector[T]
	g     guard.Guard
	first *T
	last  *T
	count int
}

// New builds an empty list managing the Link field named by sel.
func New[T any](sel Selector[T], opts ...Option) *Root[T] {
	o := options{guard: guard.None()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Root[T]{sel: sel, g: o.guard}
}

// Add attaches x at the list's natural point, which for a doubly linked list
// is the end. A nil x is ignored; a member of any list (even this one) is
// removed from it first.
func (r *Root[T]) Add(x *T) {
	r.AddLast(x)
}

// AddFirst attaches x at the front of the list.
func (r *Root[T]) AddFirst(x *T) {
	if x == nil {
		return
	}
	l := r.sel(x)
	if l.root != nil {
		l.Remove()
	}

	r.g.WriteLock(false)
	if r.first == nil {
		r.last = x
	} else {
		r.sel(r.first).prev = x
	}
	l.next = r.first
	l.prev = nil
	r.first = x
	l.root = r
	l.self = x
	r.count++
	r.g.WriteUnlock(false)
}

// AddLast attaches x at the end of the list.
func (r *Root[T]) AddLast(x *T) {
	if x == nil {
		return
	}
	l := r.sel(x)
	if l.root != nil {
		l.Remove()
	}

	r.g.WriteLock(false)
	if r.last == nil {
		r.first = x
	} else {
		r.sel(r.last).next = x
	}
	l.prev = r.last
	l.next = nil
	r.last = x
	l.root = r
	l.self = x
	r.count++
	r.g.WriteUnlock(false)
}

// AddAfter attaches x immediately after anchor, which must be a member of
// this list; otherwise nothing happens. x is removed from any list first.
func (r *Root[T]) AddAfter(x, anchor *T) {
	if x == nil || anchor == nil || x == anchor {
		return
	}
	al := r.sel(anchor)
	if al.root != r {
		return
	}
	l := r.sel(x)
	if l.root != nil {
		l.Remove()
	}

	r.g.WriteLock(false)
	r.insertAfter(x, anchor)
	r.g.WriteUnlock(false)
}

// AddBefore attaches x immediately before anchor, which must be a member of
// this list; otherwise nothing happens.
func (r *Root[T]) AddBefore(x, anchor *T) {
	if x == nil || anchor == nil || x == anchor {
		return
	}
	al := r.sel(anchor)
	if al.root != r {
		return
	}
	l := r.sel(x)
	if l.root != nil {
		l.Remove()
	}

	r.g.WriteLock(false)
	if prev := r.sel(anchor).prev; prev != nil {
		r.insertAfter(x, prev)
	} else {
		l.next = r.first
		l.prev = nil
		if r.first != nil {
			r.sel(r.first).prev = x
		} else {
			r.last = x
		}
		r.first = x
		l.root = r
		l.self = x
		r.count++
	}
	r.g.WriteUnlock(false)
}

// insertAfter links a detached x behind an attached anchor; caller holds the
// write lock.
func (r *Root[T]) insertAfter(x, anchor *T) {
	l := r.sel(x)
	al := r.sel(anchor)
	l.prev = anchor
	l.next = al.next
	al.next = x
	if l.next != nil {
		r.sel(l.next).prev = x
	} else {
		r.last = x
	}
	l.root = r
	l.self = x
	r.count++
}

// Remove detaches x, reporting whether it was a member of this list.
func (r *Root[T]) Remove(x *T) bool {
	if x == nil {
		return false
	}
	l := r.sel(x)
	if l.root != r {
		return false
	}
	l.Remove()
	return true
}

// First returns the front member, or nil when empty.
func (r *Root[T]) First() *T {
	r.g.ReadLock(false)
	defer r.g.ReadUnlock(false)
	return r.first
}

// Last returns the back member, or nil when empty.
func (r *Root[T]) Last() *T {
	r.g.ReadLock(false)
	defer r.g.ReadUnlock(false)
	return r.last
}

// Count returns the number of members on this list.
func (r *Root[T]) Count() int {
	r.g.ReadLock(false)
	defer r.g.ReadUnlock(false)
	return r.count
}

// All walks the members front to back. The successor is resolved before each
// yield, so removing the yielded member is safe.
func (r *Root[T]) All() iter.Seq[*T] {
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

// Backward walks the members back to front.
func (r *Root[T]) Backward() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		x := r.Last()
		for x != nil {
			prev := r.sel(x).Prev()
			if !yield(x) {
				return
			}
			x = prev
		}
	}
}

// Clear detaches every member, leaving each one fully disconnected.
func (r *Root[T]) Clear() {
	r.g.WriteLock(false)
	defer r.g.WriteUnlock(false)

	x := r.first
	for x != nil {
		l := r.sel(x)
		x = l.next
		l.root = nil
		l.self = nil
		l.next = nil
		l.prev = nil
	}
	r.first = nil
	r.last = nil
	r.count = 0
}

// Check verifies forward/backward consistency, membership backreferences and
// the count, returning false on the first violation.
func (r *Root[T]) Check() bool {
	r.g.ReadLock(false)
	defer r.g.ReadUnlock(false)

	if (r.first == nil) != (r.last == nil) {
		return false
	}
	n := 0
	var prev *T
	for x := r.first; x != nil; x = r.sel(x).next {
		l := r.sel(x)
		if l.root != r || l.self != x || l.prev != prev {
			return false
		}
		n++
		if n > r.count {
			return false
		}
		prev = x
	}
	if prev != r.last {
		return false
	}
	return n == r.count
}

// Root returns the list this link is attached to, or nil.
func (l *Link[T]) Root() *Root[T] { return l.root }

// Attached reports whether this link is on a list.
func (l *Link[T]) Attached() bool { return l.root != nil }

// Next returns the member after this one, or nil.
func (l *Link[T]) Next() *T {
	r := l.root
	if r == nil {
		return nil
	}
	r.g.ReadLock(false)
	defer r.g.ReadUnlock(false)
	return l.next
}

// Prev returns the member before this one, or nil.
func (l *Link[T]) Prev() *T {
	r := l.root
	if r == nil {
		return nil
	}
	r.g.ReadLock(false)
	defer r.g.ReadUnlock(false)
	return l.prev
}

// Remove detaches this link from whatever list it is on, in O(1).
func (l *Link[T]) Remove() {
	r := l.root
	if r == nil {
		return
	}
	r.g.WriteLock(false)
	defer r.g.WriteUnlock(false)
	if l.root != r {
		return
	}

	if l.next != nil {
		r.sel(l.next).prev = l.prev
	} else {
		r.last = l.prev
	}
	if l.prev != nil {
		r.sel(l.prev).next = l.next
	} else {
		r.first = l.next
	}
	l.root = nil
	l.self = nil
	l.next = nil
	l.prev = nil
	r.count--
}

// Check validates this link's membership, or its full disconnection.
func (l *Link[T]) Check() bool {
	r := l.root
	if r == nil {
		return l.self == nil && l.next == nil && l.prev == nil
	}
	r.g.ReadLock(false)
	defer r.g.ReadUnlock(false)

	self := l.self
	if self == nil || r.sel(self) != l {
		return false
	}
	if l.next != nil {
		if r.sel(l.next).prev != self || r.sel(l.next).root != r {
			return false
		}
	} else if r.last != self {
		return false
	}
	if l.prev != nil {
		if r.sel(l.prev).next != self || r.sel(l.prev).root != r {
			return false
		}
	} else if r.first != self {
		return false
	}
	return true
}
