package tree

import (
	"github.com/samthor/intrusive/guard"
)

// Selector names the Link field inside T that a given Root manages. An object
// participating in several tree relationships embeds one Link per
// relationship and each Root is constructed with the selector for its own
// field.
type Selector[T any] func(*T) *Link[T]

// CompareFunc orders two attached objects. It returns a negative value if a
// sorts before b, zero if they sort equal, positive if a sorts after b. It
// must stay antisymmetric and transitive for as long as either object remains
// on the tree.
type CompareFunc[T any] func(a, b *T) int

// CompareKeyFunc compares an attached object against a bare search key, with
// the same sign convention as CompareFunc: negative when x sorts before key.
type CompareKeyFunc[T, K any] func(x *T, key K) int

// Balance selects the balancing policy of a Root.
type Balance int

const (
	// Unbalanced performs no rebalancing; tree height is whatever the
	// insertion order produces.
	Unbalanced Balance = iota

	// AA maintains the AA-tree invariants, bounding height at
	// 2*log2(count+1).
	AA
)

// Tree is the view of a Root available from a Link, independent of the Root's
// key type. A *Root[T, K] is the only implementation.
type Tree[T any] interface {
	linkOf(*T) *Link[T]
	base() *T
	setBase(*T)
	cmp(a, b *T) int
	locker() guard.Guard
	rotateLeft(*T) *T
	rotateRight(*T) *T
	policy() balancer[T]
	decCount()
}

// Option configures a Root at construction.
type Option func(*options)

type options struct {
	balance Balance
	guard   guard.Guard
}

// WithBalance selects the balancing policy; the default is Unbalanced.
func WithBalance(b Balance) Option {
	return func(o *options) { o.balance = b }
}

// WithGuard selects the thread-safety strategy; the default is guard.None.
func WithGuard(g guard.Guard) Option {
	return func(o *options) { o.guard = g }
}
