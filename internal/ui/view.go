package ui

import "sync/atomic"

// ScrollLock controls page scrolling while a modal or the mobile menu is up.
// Implementations belong to the presentation layer; NopScrollLock keeps the
// engine usable headless.
type ScrollLock interface {
	Lock()
	Unlock()
}

type NopScrollLock struct{}

func (NopScrollLock) Lock()   {}
func (NopScrollLock) Unlock() {}

// CountingScrollLock tracks lock depth, for tests and for bindings that only
// need to know whether scrolling is currently locked.
type CountingScrollLock struct {
	locks atomic.Int64
}

func (c *CountingScrollLock) Lock()        { c.locks.Add(1) }
func (c *CountingScrollLock) Unlock()      { c.locks.Add(-1) }
func (c *CountingScrollLock) Locked() bool { return c.locks.Load() > 0 }
