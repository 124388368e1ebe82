package adapter

import (
	"errors"
	"math"

	"github.com/tuannm99/novabind/internal/alias/bx"
	"github.com/tuannm99/novabind/internal/wire"
)

type (
	Float32 float32
	Float64 float64
)

func (v Float32) EncodeFloat(dst []byte) (int, error) {
	if len(dst) < wire.BFloatSize {
		return 0, wire.ErrShortSlot
	}
	bx.PutU32(dst, math.Float32bits(float32(v)))
	return wire.BFloatSize, nil
}

// EncodeDouble widens to BINARY_DOUBLE.
func (v Float32) EncodeDouble(dst []byte) (int, error) {
	return Float64(v).EncodeDouble(dst)
}

func (v Float64) EncodeDouble(dst []byte) (int, error) {
	if len(dst) < wire.BDoubleSize {
		return 0, wire.ErrShortSlot
	}
	bx.PutU64(dst, math.Float64bits(float64(v)))
	return wire.BDoubleSize, nil
}

var ErrFloatSize = errors.New("adapter: unsupported float size")

// DecodeFloat reads a 4-byte BINARY_FLOAT slot.
func DecodeFloat(b []byte) (float32, error) {
	if len(b) != wire.BFloatSize {
		return 0, ErrFloatSize
	}
	return math.Float32frombits(bx.U32(b)), nil
}

// DecodeDouble reads an 8-byte BINARY_DOUBLE slot.
func DecodeDouble(b []byte) (float64, error) {
	if len(b) != wire.BDoubleSize {
		return 0, ErrFloatSize
	}
	return math.Float64frombits(bx.U64(b)), nil
}
