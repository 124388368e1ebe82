package bind

import "github.com/tuannm99/novabind/internal/wire"

// Column is the buffer of one bound column, ready to be handed to the
// transport layer.
//
// Fixed-size columns store row i at Data[i*SlotSize:(i+1)*SlotSize]; only the
// first Lengths[i] bytes of the slot were written. Variable-size columns pack
// rows back to back and row i spans Data[Offsets[i]:Offsets[i+1]].
type Column struct {
	Index    int
	Tag      wire.Tag
	Rows     int
	SlotSize int // 0 for variable-size columns
	Data     []byte
	Offsets  []int // nil for fixed-size columns
	Lengths  []int

	fixed bool
	alloc Allocator
}

// Fixed reports whether the column uses one capped slot size for every row.
func (c *Column) Fixed() bool { return c.fixed }

// Slot returns the bytes written for row i.
func (c *Column) Slot(i int) []byte {
	if c.fixed {
		lo := i * c.SlotSize
		return c.Data[lo : lo+c.Lengths[i]]
	}
	return c.Data[c.Offsets[i]:c.Offsets[i+1]]
}

// Written returns the total number of bytes written across all rows.
func (c *Column) Written() int {
	total := 0
	for _, n := range c.Lengths {
		total += n
	}
	return total
}

// Diagnostics describes a bound column for logging and verification.
type Diagnostics struct {
	Column     int
	Tag        wire.Tag
	Rows       int
	CappedSize int
	Fixed      bool
	Written    int
	BufferSize int
}

func (c *Column) Diagnostics() Diagnostics {
	return Diagnostics{
		Column:     c.Index,
		Tag:        c.Tag,
		Rows:       c.Rows,
		CappedSize: c.SlotSize,
		Fixed:      c.fixed,
		Written:    c.Written(),
		BufferSize: len(c.Data),
	}
}

// Release returns the buffer to the allocator it came from. The column must
// not be used afterwards.
func (c *Column) Release() {
	if c == nil || c.Data == nil {
		return
	}
	if c.alloc != nil {
		c.alloc.Put(c.Data)
	}
	c.Data = nil
	c.Offsets = nil
	c.Lengths = nil
}
