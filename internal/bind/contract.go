package bind

import (
	"fmt"

	"github.com/tuannm99/novabind/internal/wire"
)

// Contract is what a wire type requires to encode values of type T.
//
// Implementations must be zero-size struct types: BindColumn uses the zero
// value of the type parameter and never receives a contract instance.
// Encode writes v into dst and reports the bytes used. It must not write
// past len(dst) and returns wire.ErrShortSlot when v does not fit.
type Contract[T any] interface {
	wire.Wire
	Encode(v T, dst []byte) (int, error)
}

// Encoder interfaces, one per wire family. Method names differ per family so
// that one value type can satisfy several contracts.
type (
	IntEncoder interface {
		// IntWidth is the number of bytes EncodeInt writes.
		IntWidth() int
		EncodeInt(dst []byte) (int, error)
	}
	NumEncoder       interface{ EncodeNum(dst []byte) (int, error) }
	ChrEncoder       interface{ EncodeChr(dst []byte) (int, error) }
	AfcEncoder       interface{ EncodeAfc(dst []byte) (int, error) }
	BinEncoder       interface{ EncodeBin(dst []byte) (int, error) }
	FloatEncoder     interface{ EncodeFloat(dst []byte) (int, error) }
	DoubleEncoder    interface{ EncodeDouble(dst []byte) (int, error) }
	DateEncoder      interface{ EncodeDate(dst []byte) (int, error) }
	TimestampEncoder interface{ EncodeTimestamp(dst []byte) (int, error) }
)

// IntContract binds T as SQLT_INT of width W. A value wider than W is a
// capped size mismatch; a narrower one is written into the low bytes of the
// slot and reports its own width.
type IntContract[W wire.IntWire, T IntEncoder] struct{}

func (IntContract[W, T]) Tag() wire.Tag {
	var w W
	return w.Tag()
}

func (IntContract[W, T]) CappedSize() (int, bool) {
	var w W
	return w.CappedSize()
}

// Check rejects T when its declared width exceeds W, so a mismatch fails
// even for a column with no rows.
func (IntContract[W, T]) Check() error {
	var (
		w    W
		zero T
	)
	capped, _ := w.CappedSize()
	if width := zero.IntWidth(); width > capped {
		return fmt.Errorf("%w: %T width %d exceeds capped size %d", ErrCappedSizeMismatch, zero, width, capped)
	}
	return nil
}

func (IntContract[W, T]) Encode(v T, dst []byte) (int, error) {
	var w W
	capped, _ := w.CappedSize()
	if width := v.IntWidth(); width > capped {
		return 0, fmt.Errorf("%w: value width %d exceeds capped size %d", ErrCappedSizeMismatch, width, capped)
	}
	return v.EncodeInt(dst)
}

type NumContract[T NumEncoder] struct{ wire.Num }

func (NumContract[T]) Encode(v T, dst []byte) (int, error) { return v.EncodeNum(dst) }

type ChrContract[T ChrEncoder] struct{ wire.Chr }

func (ChrContract[T]) Encode(v T, dst []byte) (int, error) { return v.EncodeChr(dst) }

type AfcContract[T AfcEncoder] struct{ wire.Afc }

func (AfcContract[T]) Encode(v T, dst []byte) (int, error) { return v.EncodeAfc(dst) }

type BinContract[T BinEncoder] struct{ wire.Bin }

func (BinContract[T]) Encode(v T, dst []byte) (int, error) { return v.EncodeBin(dst) }

type FloatContract[T FloatEncoder] struct{ wire.BFloat }

func (FloatContract[T]) Encode(v T, dst []byte) (int, error) { return v.EncodeFloat(dst) }

type DoubleContract[T DoubleEncoder] struct{ wire.BDouble }

func (DoubleContract[T]) Encode(v T, dst []byte) (int, error) { return v.EncodeDouble(dst) }

type DateContract[T DateEncoder] struct{ wire.Dat }

func (DateContract[T]) Encode(v T, dst []byte) (int, error) { return v.EncodeDate(dst) }

type TimestampContract[T TimestampEncoder] struct{ wire.Timestamp }

func (TimestampContract[T]) Encode(v T, dst []byte) (int, error) { return v.EncodeTimestamp(dst) }
