package guard

// Guard is the thread-safety strategy shared by a container root and every
// link attached to it. Mutating operations hold the write lock, traversal and
// search hold at least the read lock.
//
// A read lock taken with upgradable set may later be escalated with
// WriteLock(true) without first being released; WriteUnlock(true) demotes
// back to the upgradable read. At most one upgradable reader can exist at a
// time. The flags passed to the unlock calls must match the corresponding
// lock calls.
//
// No Guard is reentrant. A blocked acquisition blocks indefinitely; there are
// no timeouts or cancellation.
type Guard interface {
	ReadLock(upgradable bool)
	ReadUnlock(upgradable bool)
	WriteLock(upgrade bool)
	WriteUnlock(upgrade bool)
}
