// Package list implements an intrusive singly linked list: the next
// reference lives in a Link embedded in the member object, named by a
// Selector, so one object can sit on several lists at once and the list never
// owns its members. See package dlist for the doubly linked variant with O(1)
// tail operations.
package list

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
}

// Root anchors one list of T.
type Root[T any] struct {
	sel   Selector[T]
	g     guard.Guard
	first *T
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

// Add attaches x at the list's natural point, which for a singly linked list
// is the front. A nil x is ignored; a member of any list (even this one) is
// removed from it first.
func (r *Root[T]) Add(x *T) {
	r.AddFirst(x)
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
	l.root = r
	l.self = x
	l.next = r.first
	r.first = x
	r.count++
	r.g.WriteUnlock(false)
}

// AddLast attaches x at the end of the list. O(n) here; see dlist for O(1).
func (r *Root[T]) AddLast(x *T) {
	if x == nil {
		return
	}
	l := r.sel(x)
	if l.root != nil {
		l.Remove()
	}

	r.g.WriteLock(false)
	if r.first == nil {
		r.first = x
	} else {
		end := r.first
		for r.sel(end).next != nil {
			end = r.sel(end).next
		}
		r.sel(end).next = x
	}
	l.root = r
	l.self = x
	l.next = nil
	r.count++
	r.g.WriteUnlock(false)
}

// Remove detaches x, reporting whether it was a member of this list. Nil or
// foreign members are left alone.
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
	}
	r.first = nil
	r.count = 0
}

// Check verifies membership backreferences and the count, returning false on
// the first violation.
func (r *Root[T]) Check() bool {
	r.g.ReadLock(false)
	defer r.g.ReadUnlock(false)

	n := 0
	for x := r.first; x != nil; x = r.sel(x).next {
		l := r.sel(x)
		if l.root != r || l.self != x {
			return false
		}
		n++
		if n > r.count {
			return false // longer than count says, or cyclic
		}
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

// Remove detaches this link from whatever list it is on. A singly linked
// list has no back reference, so this scans for the predecessor; dlist does
// the same in O(1).
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

	self := l.self
	if r.first == self {
		r.first = l.next
	} else {
		prev := r.first
		for prev != nil && r.sel(prev).next != self {
			prev = r.sel(prev).next
		}
		if prev != nil {
			r.sel(prev).next = l.next
		}
	}
	l.root = nil
	l.self = nil
	l.next = nil
	r.count--
}

// Check validates this link's membership, or its full disconnection.
func (l *Link[T]) Check() bool {
	r := l.root
	if r == nil {
		return l.self == nil && l.next == nil
	}
	r.g.ReadLock(false)
	defer r.g.ReadUnlock(false)

	if l.self == nil || r.sel(l.self) != l {
		return false
	}
	if l.next != nil && r.sel(l.next).root != r {
		return false
	}
	return true
}
