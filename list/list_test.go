package list

import (
	"iter"
	"slices"
	"testing"

	"github.com/samthor/intrusive/guard"
)

type entry struct {
	key int
	lnk Link[entry]
}

func byLnk(e *entry) *Link[entry] { return &e.lnk }

func cmpEntry(a, b *entry) int { return a.key - b.key }

func keysOf(r interface{ All() iter.Seq[*entry] }) []int {
	var out []int
	for e := range r.All() {
		out = append(out, e.key)
	}
	return out
}

func entries(keys ...int) []*entry {
	out := make([]*entry, len(keys))
	for i, k := range keys {
		out[i] = &entry{key: k}
	}
	return out
}

func TestAddFirstLast(t *testing.T) {
	r := New(byLnk)
	all := entries(1, 2, 3)
	r.AddFirst(all[0])
	r.AddFirst(all[1]) // 2 1
	r.AddLast(all[2])  // 2 1 3

	if got := keysOf(r); !slices.Equal(got, []int{2, 1, 3}) {
		t.Errorf("order: expected [2 1 3], got %v", got)
	}
	if r.Count() != 3 || !r.Check() {
		t.Errorf("bad count/check after adds")
	}
	if got := r.First(); got != all[1] {
		t.Errorf("First(): expected key 2, got %+v", got)
	}

	// Add is AddFirst for a singly linked list
	four := &entry{key: 4}
	r.Add(four)
	if got := r.First(); got != four {
		t.Errorf("Add must attach at the front")
	}
}

func TestRemove(t *testing.T) {
	r := New(byLnk)
	all := entries(1, 2, 3, 4)
	for _, e := range all {
		r.AddLast(e)
	}

	// middle, front, back, then last
	for _, e := range []*entry{all[1], all[0], all[3], all[2]} {
		if !r.Remove(e) {
			t.Fatalf("Remove(%d) reported not found", e.key)
		}
		if e.lnk.Attached() || !e.lnk.Check() {
			t.Errorf("entry %d not detached", e.key)
		}
		if !r.Check() {
			t.Errorf("Check() failed after removing %d", e.key)
		}
	}
	if r.First() != nil || r.Count() != 0 {
		t.Errorf("list not empty after removing everything")
	}

	if r.Remove(nil) {
		t.Errorf("Remove(nil) must report false")
	}
	other := New(byLnk)
	e := &entry{key: 9}
	other.Add(e)
	if r.Remove(e) {
		t.Errorf("Remove of a foreign member must report false")
	}
}

func TestAddStealsFromOtherList(t *testing.T) {
	a := New(byLnk)
	b := New(byLnk)
	e := &entry{key: 1}

	a.Add(e)
	b.Add(e)
	if a.Count() != 0 || b.Count() != 1 || e.lnk.Root() != b {
		t.Errorf("member not moved between lists")
	}

	// re-adding to the same list moves it back to the front
	two := &entry{key: 2}
	b.AddLast(two) // 1 2
	b.Add(two)     // 2 1
	if got := keysOf(b); !slices.Equal(got, []int{2, 1}) {
		t.Errorf("re-add order: expected [2 1], got %v", got)
	}
}

func TestClear(t *testing.T) {
	r := New(byLnk, WithGuard(guard.Mutex()))
	all := entries(1, 2, 3)
	for _, e := range all {
		r.AddLast(e)
	}
	r.Clear()
	if r.Count() != 0 || r.First() != nil || !r.Check() {
		t.Errorf("list not empty after Clear")
	}
	for _, e := range all {
		if e.lnk.Attached() || !e.lnk.Check() {
			t.Errorf("entry %d not detached by Clear", e.key)
		}
	}
}

func TestSorted(t *testing.T) {
	r := NewSorted(byLnk, cmpEntry)
	for _, e := range entries(5, 1, 4, 2, 3) {
		r.Add(e)
	}

	if got := keysOf(r); !slices.Equal(got, []int{1, 2, 3, 4, 5}) {
		t.Errorf("sorted order: got %v", got)
	}
	if !r.Check() {
		t.Errorf("Check() failed on sorted list")
	}
}

func TestSortedStableTies(t *testing.T) {
	r := NewSorted(byLnk, cmpEntry)
	a := &entry{key: 1}
	b := &entry{key: 1}
	c := &entry{key: 1}
	r.Add(a)
	r.Add(b)
	r.Add(c)

	var order []*entry
	for e := range r.All() {
		order = append(order, e)
	}
	if !slices.Equal(order, []*entry{a, b, c}) {
		t.Errorf("equal members must stay in insertion order")
	}
}

func TestSortedResort(t *testing.T) {
	r := NewSorted(byLnk, cmpEntry, WithGuard(guard.RW()))
	all := entries(1, 2, 3)
	for _, e := range all {
		r.Add(e)
	}

	// change a key, re-add to resort
	all[0].key = 9
	r.Add(all[0])
	if got := keysOf(r); !slices.Equal(got, []int{2, 3, 9}) {
		t.Errorf("resort: expected [2 3 9], got %v", got)
	}
	if r.Count() != 3 || !r.Check() {
		t.Errorf("bad state after resort")
	}
}
