// Package manymany implements an intrusive many-to-many web between two
// user types. One side embeds a Root anchor, the other a Node anchor; each
// connection between them is a Link record that sits on two doubly linked
// chains at once, one per side. The "root" and "node" names only label the
// sides of the relationship; they are otherwise symmetric.
//
// Links may be allocated by Connect on demand, or embedded in a user type to
// attach properties to the relationship itself.
package manymany

import (
	"iter"

	"github.com/samthor/intrusive/dlist"
	"github.com/samthor/intrusive/guard"
)

// Option configures an anchor at Init.
type Option func(*options)

type options struct {
	guard guard.Guard
}

// WithGuard selects the thread-safety strategy for one anchor's chain; the
// default is guard.None. Each side of the web locks independently.
func WithGuard(g guard.Guard) Option {
	return func(o *options) { o.guard = g }
}

// Link is one root<->node connection. It points to both anchors or neither.
type Link[R, N any] struct {
	root *Root[R, N]
	node *Node[R, N]

	onRoot dlist.Link[Link[R, N]]
	onNode dlist.Link[Link[R, N]]
}

// Root is the anchor for the root side; embed one in R and call Init.
type Root[R, N any] struct {
	owner *R
	links *dlist.Root[Link[R, N]]
}

// Node is the anchor for the node side; embed one in N and call Init.
type Node[R, N any] struct {
	owner *N
	links *dlist.Root[Link[R, N]]
}

// Init readies the anchor, recording the object it is embedded in.
func (r *Root[R, N]) Init(owner *R, opts ...Option) {
	o := options{guard: guard.None()}
	for _, opt := range opts {
		opt(&o)
	}
	r.owner = owner
	r.links = dlist.New(
		func(l *Link[R, N]) *dlist.Link[Link[R, N]] { return &l.onRoot },
		dlist.WithGuard(o.guard),
	)
}

// Init readies the anchor, recording the object it is embedded in.
func (nd *Node[R, N]) Init(owner *N, opts ...Option) {
	o := options{guard: guard.None()}
	for _, opt := range opts {
		opt(&o)
	}
	nd.owner = owner
	nd.links = dlist.New(
		func(l *Link[R, N]) *dlist.Link[Link[R, N]] { return &l.onNode },
		dlist.WithGuard(o.guard),
	)
}

// Owner returns the object this anchor is embedded in.
func (r *Root[R, N]) Owner() *R { return r.owner }

// Owner returns the object this anchor is embedded in.
func (nd *Node[R, N]) Owner() *N { return nd.owner }

// Connect links this root to node. When link is nil a fresh Link is
// allocated; pass your own to attach properties to the connection, or to
// control its lifetime. A link already in use is disconnected first. The new
// connection goes at the end of both chains. Returns the link used, or nil
// when either anchor is unready.
func (r *Root[R, N]) Connect(node *Node[R, N], link *Link[R, N]) *Link[R, N] {
	return connect(r, node, link)
}

// Connect links this node to root; see Root.Connect.
func (nd *Node[R, N]) Connect(root *Root[R, N], link *Link[R, N]) *Link[R, N] {
	return connect(root, nd, link)
}

func connect[R, N any](r *Root[R, N], nd *Node[R, N], link *Link[R, N]) *Link[R, N] {
	if r == nil || nd == nil || r.links == nil || nd.links == nil {
		return nil
	}
	if link == nil {
		link = &Link[R, N]{}
	} else if link.root != nil {
		link.Remove()
	}
	link.root = r
	link.node = nd
	r.links.AddLast(link)
	nd.links.AddLast(link)
	return link
}

// Remove disconnects the first connection to node, reporting whether one
// existed.
func (r *Root[R, N]) Remove(node *Node[R, N]) bool {
	if r.links == nil {
		return false
	}
	for l := r.links.First(); l != nil; l = l.onRoot.Next() {
		if l.node == node {
			l.Remove()
			return true
		}
	}
	return false
}

// Remove disconnects the first connection to root, reporting whether one
// existed.
func (nd *Node[R, N]) Remove(root *Root[R, N]) bool {
	if nd.links == nil {
		return false
	}
	for l := nd.links.First(); l != nil; l = l.onNode.Next() {
		if l.root == root {
			l.Remove()
			return true
		}
	}
	return false
}

// Clear disconnects every connection on this root.
func (r *Root[R, N]) Clear() {
	if r.links == nil {
		return
	}
	for l := r.links.First(); l != nil; l = r.links.First() {
		l.Remove()
	}
}

// Clear disconnects every connection on this node.
func (nd *Node[R, N]) Clear() {
	if nd.links == nil {
		return
	}
	for l := nd.links.First(); l != nil; l = nd.links.First() {
		l.Remove()
	}
}

// Count returns the number of connections on this root.
func (r *Root[R, N]) Count() int {
	if r.links == nil {
		return 0
	}
	return r.links.Count()
}

// Count returns the number of connections on this node.
func (nd *Node[R, N]) Count() int {
	if nd.links == nil {
		return 0
	}
	return nd.links.Count()
}

// First returns this root's first connection, or nil.
func (r *Root[R, N]) First() *Link[R, N] {
	if r.links == nil {
		return nil
	}
	return r.links.First()
}

// First returns this node's first connection, or nil.
func (nd *Node[R, N]) First() *Link[R, N] {
	if nd.links == nil {
		return nil
	}
	return nd.links.First()
}

// All walks this root's connections. Removing the yielded link is safe.
func (r *Root[R, N]) All() iter.Seq[*Link[R, N]] {
	return func(yield func(*Link[R, N]) bool) {
		if r.links == nil {
			return
		}
		for l := range r.links.All() {
			if !yield(l) {
				return
			}
		}
	}
}

// All walks this node's connections. Removing the yielded link is safe.
func (nd *Node[R, N]) All() iter.Seq[*Link[R, N]] {
	return func(yield func(*Link[R, N]) bool) {
		if nd.links == nil {
			return
		}
		for l := range nd.links.All() {
			if !yield(l) {
				return
			}
		}
	}
}

// Nodes walks the node-side objects connected to this root.
func (r *Root[R, N]) Nodes() iter.Seq[*N] {
	return func(yield func(*N) bool) {
		for l := range r.All() {
			if !yield(l.node.owner) {
				return
			}
		}
	}
}

// Roots walks the root-side objects connected to this node.
func (nd *Node[R, N]) Roots() iter.Seq[*R] {
	return func(yield func(*R) bool) {
		for l := range nd.All() {
			if !yield(l.root.owner) {
				return
			}
		}
	}
}

// Check verifies this anchor's chain and that every link on it points back
// here and to a node on the far side.
func (r *Root[R, N]) Check() bool {
	if r.links == nil {
		return true
	}
	if !r.links.Check() {
		return false
	}
	for l := range r.links.All() {
		if l.root != r || l.node == nil {
			return false
		}
	}
	return true
}

// Check verifies this anchor's chain and that every link on it points back
// here and to a root on the far side.
func (nd *Node[R, N]) Check() bool {
	if nd.links == nil {
		return true
	}
	if !nd.links.Check() {
		return false
	}
	for l := range nd.links.All() {
		if l.node != nd || l.root == nil {
			return false
		}
	}
	return true
}

// Root returns the root-side object of this connection, or nil when
// disconnected.
func (l *Link[R, N]) Root() *R {
	if l.root == nil {
		return nil
	}
	return l.root.owner
}

// Node returns the node-side object of this connection, or nil when
// disconnected.
func (l *Link[R, N]) Node() *N {
	if l.node == nil {
		return nil
	}
	return l.node.owner
}

// Attached reports whether this link is a live connection.
func (l *Link[R, N]) Attached() bool { return l.root != nil }

// NextOnRoot returns the next connection along the root's chain, or nil.
func (l *Link[R, N]) NextOnRoot() *Link[R, N] { return l.onRoot.Next() }

// PrevOnRoot returns the previous connection along the root's chain, or nil.
func (l *Link[R, N]) PrevOnRoot() *Link[R, N] { return l.onRoot.Prev() }

// NextOnNode returns the next connection along the node's chain, or nil.
func (l *Link[R, N]) NextOnNode() *Link[R, N] { return l.onNode.Next() }

// PrevOnNode returns the previous connection along the node's chain, or nil.
func (l *Link[R, N]) PrevOnNode() *Link[R, N] { return l.onNode.Prev() }

// Remove disconnects this link from both chains, leaving it reusable.
func (l *Link[R, N]) Remove() {
	l.onRoot.Remove()
	l.onNode.Remove()
	l.root = nil
	l.node = nil
}

// Check validates this link's place on both chains, or its full
// disconnection.
func (l *Link[R, N]) Check() bool {
	if l.root == nil {
		return l.node == nil && !l.onRoot.Attached() && !l.onNode.Attached()
	}
	if l.node == nil {
		return false
	}
	if l.onRoot.Root() != l.root.links || l.onNode.Root() != l.node.links {
		return false
	}
	return l.onRoot.Check() && l.onNode.Check()
}
