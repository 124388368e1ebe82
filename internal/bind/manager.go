package bind

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/tuannm99/novabind/internal/wire"
)

// BindColumn encodes values into a single column buffer under contract C.
// The row count is len(values). The bind is atomic: when any row fails the
// buffer is released and only the error is returned.
func BindColumn[T any, C Contract[T]](col int, values []T, opts ...Option) (*Column, error) {
	var c C
	o := buildOptions(opts)

	if ch, ok := any(c).(checker); ok {
		if err := ch.Check(); err != nil {
			return nil, NewError(col, -1, c.Tag(), err)
		}
	}

	size, fixed := c.CappedSize()
	if fixed {
		if size < 0 {
			return nil, &Error{
				Kind:   ErrCappedSizeMismatch,
				Column: col,
				Row:    -1,
				Tag:    c.Tag(),
				Err:    fmt.Errorf("negative capped size %d", size),
			}
		}
		return bindFixed[T, C](c, col, values, size, o)
	}
	return bindVariable[T, C](c, col, values, o)
}

func bindFixed[T any, C Contract[T]](c C, col int, values []T, size int, o options) (*Column, error) {
	tag := c.Tag()
	rows := len(values)
	data := o.alloc.Get(size * rows)
	lengths := make([]int, rows)

	for i, v := range values {
		lo := i * size
		hi := lo + size
		n, err := encodeSlot[T, C](c, v, data[lo:hi:hi])
		if err == nil && n > size {
			err = fmt.Errorf("%w: wrote %d bytes into a %d byte slot", ErrEncodingOverflow, n, size)
		}
		if err == nil && n < 0 {
			err = fmt.Errorf("negative length %d", n)
		}
		if err != nil {
			o.alloc.Put(data)
			return nil, NewError(col, i, tag, err)
		}
		lengths[i] = n
	}

	return &Column{
		Index:    col,
		Tag:      tag,
		Rows:     rows,
		SlotSize: size,
		Data:     data,
		Lengths:  lengths,
		fixed:    true,
		alloc:    o.alloc,
	}, nil
}

func bindVariable[T any, C Contract[T]](c C, col int, values []T, o options) (*Column, error) {
	tag := c.Tag()
	rows := len(values)
	data := o.alloc.Get(rows * o.varSlotHint)
	offsets := make([]int, rows+1)
	lengths := make([]int, rows)

	off := 0
	for i, v := range values {
		var (
			n   int
			err error
		)
		for {
			hi := min(len(data), off+o.varSlotMax)
			slot := data[off:hi:hi]
			n, err = encodeSlot[T, C](c, v, slot)
			if !errors.Is(err, wire.ErrShortSlot) || len(slot) >= o.varSlotMax {
				if err == nil && n > len(slot) {
					err = fmt.Errorf("%w: wrote %d bytes into a %d byte slot", ErrEncodingOverflow, n, len(slot))
				}
				break
			}
			data = grow(o.alloc, data, off, o.varSlotHint)
		}
		if err == nil && n < 0 {
			err = fmt.Errorf("negative length %d", n)
		}
		if err != nil {
			o.alloc.Put(data)
			return nil, NewError(col, i, tag, err)
		}
		off += n
		offsets[i+1] = off
		lengths[i] = n
	}

	return &Column{
		Index:   col,
		Tag:     tag,
		Rows:    rows,
		Data:    data[:off],
		Offsets: offsets,
		Lengths: lengths,
		alloc:   o.alloc,
	}, nil
}

// grow doubles the buffer, keeping the first used bytes.
func grow(a Allocator, data []byte, used, hint int) []byte {
	next := a.Get(max(2*len(data), used+hint))
	copy(next, data[:used])
	a.Put(data)
	return next
}

// checker is implemented by contracts that can reject a value type before
// any buffer is allocated.
type checker interface {
	Check() error
}

// encodeSlot runs one encode. A runtime panic inside the encoder fails the
// bind with ErrEncodeFailed instead of crashing it; other panics propagate.
func encodeSlot[T any, C Contract[T]](c C, v T, slot []byte) (n int, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		re, ok := r.(runtime.Error)
		if !ok {
			panic(r)
		}
		n, err = 0, fmt.Errorf("%w: encoder panicked: %v", ErrEncodeFailed, re)
	}()
	return c.Encode(v, slot)
}
