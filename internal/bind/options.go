package bind

// Allocator hands out zeroed byte buffers for column data and takes them
// back once a column is released.
type Allocator interface {
	Get(n int) []byte
	Put(b []byte)
}

type heapAllocator struct{}

func (heapAllocator) Get(n int) []byte { return make([]byte, n) }
func (heapAllocator) Put([]byte)       {}

const (
	DefaultVarSlotHint = 32
	DefaultVarSlotMax  = 32767
)

type options struct {
	alloc       Allocator
	varSlotHint int
	varSlotMax  int
}

// Option configures a bind.
type Option func(*options)

// WithAllocator makes the bind take its buffer from a.
func WithAllocator(a Allocator) Option {
	return func(o *options) {
		if a != nil {
			o.alloc = a
		}
	}
}

// WithVarSlotHint sets the bytes per row reserved up front for
// variable-size columns.
func WithVarSlotHint(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.varSlotHint = n
		}
	}
}

// WithVarSlotMax caps the size of a single variable-size row.
func WithVarSlotMax(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.varSlotMax = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		alloc:       heapAllocator{},
		varSlotHint: DefaultVarSlotHint,
		varSlotMax:  DefaultVarSlotMax,
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.varSlotHint > o.varSlotMax {
		o.varSlotHint = o.varSlotMax
	}
	return o
}
