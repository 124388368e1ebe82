package adapter

import (
	"errors"

	"github.com/tuannm99/novabind/internal/alias/bx"
	"github.com/tuannm99/novabind/internal/wire"
)

type (
	Int8  int8
	Int16 int16
	Int32 int32
	Int64 int64
)

func (Int8) IntWidth() int  { return 1 }
func (Int16) IntWidth() int { return 2 }
func (Int32) IntWidth() int { return 4 }
func (Int64) IntWidth() int { return 8 }

func (v Int8) EncodeInt(dst []byte) (int, error) {
	if len(dst) < 1 {
		return 0, wire.ErrShortSlot
	}
	dst[0] = byte(v)
	return 1, nil
}

func (v Int16) EncodeInt(dst []byte) (int, error) {
	if len(dst) < 2 {
		return 0, wire.ErrShortSlot
	}
	bx.PutU16(dst, uint16(v))
	return 2, nil
}

func (v Int32) EncodeInt(dst []byte) (int, error) {
	if len(dst) < 4 {
		return 0, wire.ErrShortSlot
	}
	bx.PutU32(dst, uint32(v))
	return 4, nil
}

func (v Int64) EncodeInt(dst []byte) (int, error) {
	if len(dst) < 8 {
		return 0, wire.ErrShortSlot
	}
	bx.PutU64(dst, uint64(v))
	return 8, nil
}

func (v Int8) EncodeNum(dst []byte) (int, error)  { return putNumber(dst, int64(v)) }
func (v Int16) EncodeNum(dst []byte) (int, error) { return putNumber(dst, int64(v)) }
func (v Int32) EncodeNum(dst []byte) (int, error) { return putNumber(dst, int64(v)) }
func (v Int64) EncodeNum(dst []byte) (int, error) { return putNumber(dst, int64(v)) }

// Unsigned integers have no SQLT_INT form of the same width and bind as
// NUMBER only.
type (
	Uint8  uint8
	Uint16 uint16
	Uint32 uint32
)

func (v Uint8) EncodeNum(dst []byte) (int, error)  { return putNumber(dst, int64(v)) }
func (v Uint16) EncodeNum(dst []byte) (int, error) { return putNumber(dst, int64(v)) }
func (v Uint32) EncodeNum(dst []byte) (int, error) { return putNumber(dst, int64(v)) }

var ErrIntSize = errors.New("adapter: unsupported integer size")

// DecodeInt reads a native-endian SQLT_INT slot of 1, 2, 4 or 8 bytes.
func DecodeInt(b []byte) (int64, error) {
	switch len(b) {
	case 1:
		return int64(int8(b[0])), nil
	case 2:
		return int64(bx.I16(b)), nil
	case 4:
		return int64(bx.I32(b)), nil
	case 8:
		return bx.I64(b), nil
	default:
		return 0, ErrIntSize
	}
}
