package list

import (
	"github.com/samthor/intrusive/guard"
)

// SortRoot keeps its members ordered by a CompareFunc. Members are placed
// after everything that sorts before or equal to them, so equal members stay
// in insertion order. The positional AddFirst/AddLast of the embedded Root
// bypass the ordering; use Add.
type SortRoot[T any] struct {
	Root[T]
	compare CompareFunc[T]
}

// NewSorted builds an empty sorted list.
func NewSorted[T any](sel Selector[T], compare CompareFunc[T], opts ...Option) *SortRoot[T] {
	o := options{guard: guard.None()}
	for _, opt := range opts {
		opt(&o)
	}
	r := &SortRoot[T]{compare: compare}
	r.sel = sel
	r.g = o.guard
	return r
}

// Add attaches x at its sorted position. A member of any list (even this
// one, e.g. after its sort key changed) is removed first. The scan runs
// under an upgradable read lock and escalates to write only for the splice.
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
	// the escalation may have admitted a plain writer; rescan if the
	// insertion point no longer holds
	if !r.validAfter(prev, x) {
		prev = r.scan(x)
	}
	if prev == nil {
		l.next = r.first
		r.first = x
	} else {
		pl := r.sel(prev)
		l.next = pl.next
		pl.next = x
	}
	l.root = &r.Root
	l.self = x
	r.count++
	r.g.WriteUnlock(true)
	r.g.ReadUnlock(true)
}

// scan returns the last member sorting before-or-equal to x, or nil when x
// belongs at the front. Caller holds at least the read lock.
func (r *SortRoot[T]) scan(x *T) *T {
	var prev *T
	for cur := r.first; cur != nil && r.compare(cur, x) <= 0; cur = r.sel(cur).next {
		prev = cur
	}
	return prev
}

// validAfter reports whether prev is still the right insertion point for x:
// attached here, sorting no later than x, with nothing after it that should
// come before (or tie with) x.
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

// Check verifies list structure plus pairwise sort order.
func (r *SortRoot[T]) Check() bool {
	if !r.Root.Check() {
		return false
	}
	r.g.ReadLock(false)
	defer r.g.ReadUnlock(false)

	for x := r.first; x != nil; x = r.sel(x).next {
		next := r.sel(x).next
		if next != nil && r.compare(x, next) > 0 {
			return false
		}
	}
	return true
}
