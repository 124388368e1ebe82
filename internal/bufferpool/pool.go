package bufferpool

import (
	"math/bits"
	"sync"

	"github.com/tuannm99/novabind/internal/bind"
)

var (
	// DefaultCapacity is the number of bytes a pool retains when none is given.
	DefaultCapacity = 64 << 20

	minClass = 64
)

var _ bind.Allocator = (*Pool)(nil)

// Stats counts pool traffic since creation.
type Stats struct {
	Hits     int
	Misses   int
	Drops    int
	Retained int
}

// Pool recycles column buffers between binds. Buffers are kept in
// power-of-two size classes and at most capacity bytes are retained; a
// released buffer that does not fit is left to the garbage collector.
//
// A buffer must only be Put once, after the transport layer is done with it.
type Pool struct {
	mu       sync.Mutex
	free     map[int][][]byte // class size -> free buffers
	retained int
	capacity int
	stats    Stats
}

func New(capacity int) *Pool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Pool{
		free:     make(map[int][][]byte),
		capacity: capacity,
	}
}

// Get returns a zeroed buffer of length n.
func (p *Pool) Get(n int) []byte {
	if n <= 0 {
		return []byte{}
	}
	class := classOf(n)

	p.mu.Lock()
	stack := p.free[class]
	if k := len(stack); k > 0 {
		b := stack[k-1]
		stack[k-1] = nil
		p.free[class] = stack[:k-1]
		p.retained -= class
		p.stats.Hits++
		p.mu.Unlock()

		b = b[:n]
		clear(b)
		return b
	}
	p.stats.Misses++
	p.mu.Unlock()

	return make([]byte, n, class)
}

// Put hands b back to the pool. Buffers that were not allocated by a pool
// are ignored.
func (p *Pool) Put(b []byte) {
	c := cap(b)
	if c < minClass || c&(c-1) != 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.retained+c > p.capacity {
		p.stats.Drops++
		return
	}
	p.free[c] = append(p.free[c], b[:0])
	p.retained += c
}

func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.stats
	s.Retained = p.retained
	return s
}

func classOf(n int) int {
	if n <= minClass {
		return minClass
	}
	return 1 << bits.Len(uint(n-1))
}
