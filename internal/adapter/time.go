package adapter

import (
	"errors"
	"time"

	"github.com/tuannm99/novabind/internal/alias/bx"
	"github.com/tuannm99/novabind/internal/wire"
)

// Time binds as DATE (SQLT_DAT) or TIMESTAMP (SQLT_TIMESTAMP). The wall
// clock fields of the time are stored as-is; its location is not.
type Time time.Time

// Oracle DATE layout, 7 bytes:
//
//	[century+100][year%100+100][month][day][hour+1][minute+1][second+1]
//
// TIMESTAMP appends the nanoseconds as a big-endian uint32.
var (
	ErrDateRange = errors.New("adapter: year out of DATE range 1..9999")
	ErrBadDate   = errors.New("adapter: malformed DATE")
)

func (v Time) EncodeDate(dst []byte) (int, error) {
	if len(dst) < wire.DatSize {
		return 0, wire.ErrShortSlot
	}
	if err := putDate(dst, time.Time(v)); err != nil {
		return 0, err
	}
	return wire.DatSize, nil
}

func (v Time) EncodeTimestamp(dst []byte) (int, error) {
	if len(dst) < wire.TimestampSize {
		return 0, wire.ErrShortSlot
	}
	t := time.Time(v)
	if err := putDate(dst, t); err != nil {
		return 0, err
	}
	bx.PutU32BE(dst[wire.DatSize:], uint32(t.Nanosecond()))
	return wire.TimestampSize, nil
}

func putDate(dst []byte, t time.Time) error {
	year, month, day := t.Date()
	if year < 1 || year > 9999 {
		return ErrDateRange
	}
	hour, minute, sec := t.Clock()
	dst[0] = byte(year/100 + 100)
	dst[1] = byte(year%100 + 100)
	dst[2] = byte(month)
	dst[3] = byte(day)
	dst[4] = byte(hour + 1)
	dst[5] = byte(minute + 1)
	dst[6] = byte(sec + 1)
	return nil
}

// DecodeDate reads a 7-byte DATE as a UTC time.
func DecodeDate(b []byte) (time.Time, error) {
	if len(b) != wire.DatSize {
		return time.Time{}, ErrBadDate
	}
	return readDate(b, 0)
}

// DecodeTimestamp reads an 11-byte TIMESTAMP as a UTC time.
func DecodeTimestamp(b []byte) (time.Time, error) {
	if len(b) != wire.TimestampSize {
		return time.Time{}, ErrBadDate
	}
	return readDate(b, int(bx.U32BE(b[wire.DatSize:])))
}

func readDate(b []byte, nsec int) (time.Time, error) {
	if b[0] < 100 || b[1] < 100 || b[4] < 1 || b[5] < 1 || b[6] < 1 {
		return time.Time{}, ErrBadDate
	}
	year := int(b[0]-100)*100 + int(b[1]-100)
	return time.Date(year, time.Month(b[2]), int(b[3]),
		int(b[4]-1), int(b[5]-1), int(b[6]-1), nsec, time.UTC), nil
}
