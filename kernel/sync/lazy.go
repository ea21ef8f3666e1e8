package sync

import "tdos/kernel"

const (
	lazyUninitialized uint8 = iota
	lazyReady
	lazyFailed
)

// Lazy is a process-wide cell whose value is constructed on first use and
// whose every access is serialized by a Spinlock.
//
// New is invoked exactly once, with the lock held, by the first call to Do.
// If New fails, its error is returned to that caller and to every subsequent
// caller; construction is never retried. Construction does not guard against
// two execution contexts racing on first use, so the first Do call must happen
// before any interrupt handler that uses the same cell is installed.
type Lazy[T any] struct {
	// New constructs the guarded value.
	New func() (T, *kernel.Error)

	lock  Spinlock
	state uint8
	val   T
	err   *kernel.Error
}

// Do acquires the cell lock, constructs the value if this is the first access
// and invokes fn with it. The lock is held for the whole duration of fn so fn
// must not call Do on the same cell.
func (c *Lazy[T]) Do(fn func(T)) *kernel.Error {
	c.lock.Acquire()
	defer c.lock.Release()

	return c.apply(fn)
}

// TryDo behaves like Do but returns false without invoking fn if the cell
// lock is already held. It is meant for fault reporting paths which may run
// while the faulting code holds the lock.
func (c *Lazy[T]) TryDo(fn func(T)) (bool, *kernel.Error) {
	if !c.lock.TryToAcquire() {
		return false, nil
	}
	defer c.lock.Release()

	return true, c.apply(fn)
}

// apply constructs the value if needed and invokes fn. The lock must be held.
func (c *Lazy[T]) apply(fn func(T)) *kernel.Error {
	if c.state == lazyUninitialized {
		if c.val, c.err = c.New(); c.err != nil {
			c.state = lazyFailed
		} else {
			c.state = lazyReady
		}
	}

	if c.state == lazyFailed {
		return c.err
	}

	fn(c.val)
	return nil
}
