package locking

// used to share a bound batch between writers
// buffers go back to the allocator once the last holder lets go

import (
	"fmt"
	"sync/atomic"
)

type RefCount struct {
	count atomic.Int32
}

// NewRefCount starts with one holder.
func NewRefCount() *RefCount {
	r := &RefCount{}
	r.count.Store(1)
	return r
}

func (r *RefCount) Inc() {
	r.count.Add(1)
}

// Dec drops one holder and reports whether it was the last.
func (r *RefCount) Dec() bool {
	n := r.count.Add(-1)
	if n < 0 {
		panic("refcount dropped below zero")
	}
	return n == 0
}

func (r *RefCount) Get() int32 {
	return r.count.Load()
}

func (r *RefCount) String() string {
	return fmt.Sprintf("RefCount: %d", r.Get())
}
