package dlist

import (
	"github.com/samthor/intrusive/guard"
)

// SortRoot maintains its members in comparator order. Equal members keep
// their insertion order.
type SortRoot[T any] struct {
	Root[T]
	compare CompareFunc[T]
}

// NewSorted builds an empty sorted list over sel ordered by compare.
func NewSorted[T any](sel Selector[T], compare CompareFunc[T], opts ...Option) *SortRoot[T] {
	o := options{guard: guard.None()}
	for _, opt := range opts {
		opt(&o)
	}
	return &SortRoot[T]{
		Root:    Root[T]{sel: sel, g: o.guard},
		compare: compare,
	}
}

// Add attaches x at its sorted position. The scan runs under an upgradable
// read lock and escalates to write only for the splice itself; new members
// sort after any equal ones already present.
func (r *SortRoot[T]) Add(x *T) {
	if x == nil {
		return
	}
	l := r.sel(x)
	if l.root != nil {
		l.Remove()
	}

	r.g.ReadLock(true)
	prev := r.scan(x)
	r.g.WriteLock(true)
	if !r.validAfter(prev, x) {
		prev = r.scan(x)
	}
	if prev == nil {
		l.next = r.first
		l.prev = nil
		if r.first != nil {
			r.sel(r.first).prev = x
		} else {
			r.last = x
		}
		r.first = x
		l.root = &r.Root
		l.self = x
		r.count++
	} else {
		r.insertAfter(x, prev)
	}
	r.g.WriteUnlock(true)
	r.g.ReadUnlock(true)
}

// scan walks backward from the tail and returns the last member that sorts
// at or before x, or nil when x belongs at the front. Sorted inserts are
// commonly near the tail, so this is usually short.
func (r *SortRoot[T]) scan(x *T) *T {
	for p := r.last; p != nil; p = r.sel(p).prev {
		if r.compare(p, x) <= 0 {
			return p
		}
	}
	return nil
}

// validAfter reports whether inserting x directly after prev is still
// correct; a writer may have altered the list between the scan and the lock
// escalation.
func (r *SortRoot[T]) validAfter(prev, x *T) bool {
	if prev == nil {
		return r.first == nil || r.compare(r.first, x) > 0
	}
	pl := r.sel(prev)
	if pl.root != &r.Root || r.compare(prev, x) > 0 {
		return false
	}
	return pl.next == nil || r.compare(pl.next, x) > 0
}

// Check extends Root.Check with pairwise ordering.
func (r *SortRoot[T]) Check() bool {
	if !r.Root.Check() {
		return false
	}
	r.g.ReadLock(false)
	defer r.g.ReadUnlock(false)
	for x := r.first; x != nil; x = r.sel(x).next {
		if n := r.sel(x).next; n != nil && r.compare(x, n) > 0 {
			return false
		}
	}
	return true
}
