package adapter

import (
	"errors"
	"math"
	"math/bits"

	"github.com/tuannm99/novabind/internal/wire"
)

// Oracle NUMBER internal format:
//
//	[exp][d1][d2]...[dn][term?]
//
// The value is a base-100 mantissa. For positive values exp = 193 + e, where
// e is the power of 100 of d1, and each digit is stored as d+1. Negative
// values store exp = 62 - e, digits as 101-d, and a trailing 102 when the
// mantissa has fewer than 20 digits. Zero is the single byte 0x80. Trailing
// zero digits are never stored.
const (
	numZero      = 0x80
	numPosBase   = 193
	numNegBase   = 62
	numNegTerm   = 102
	numMaxDigits = 20
)

var (
	ErrBadNumber   = errors.New("adapter: malformed NUMBER")
	ErrNotInteger  = errors.New("adapter: NUMBER is not an integer")
	ErrNumberRange = errors.New("adapter: NUMBER out of int64 range")
)

func putNumber(dst []byte, v int64) (int, error) {
	if v == 0 {
		if len(dst) < 1 {
			return 0, wire.ErrShortSlot
		}
		dst[0] = numZero
		return 1, nil
	}

	neg := v < 0
	mag := uint64(v)
	if neg {
		mag = -mag
	}

	// rev holds base-100 digits, least significant first.
	var rev [10]byte
	n := 0
	for mag > 0 {
		rev[n] = byte(mag % 100)
		mag /= 100
		n++
	}
	exp := n - 1
	lo := 0
	for rev[lo] == 0 {
		lo++
	}
	digits := n - lo

	size := 1 + digits
	if neg {
		size++
	}
	if len(dst) < size {
		return 0, wire.ErrShortSlot
	}

	if neg {
		dst[0] = byte(numNegBase - exp)
		for i := 0; i < digits; i++ {
			dst[1+i] = 101 - rev[n-1-i]
		}
		dst[1+digits] = numNegTerm
	} else {
		dst[0] = byte(numPosBase + exp)
		for i := 0; i < digits; i++ {
			dst[1+i] = rev[n-1-i] + 1
		}
	}
	return size, nil
}

// DecodeNumber reads an Oracle NUMBER holding an integer.
func DecodeNumber(b []byte) (int64, error) {
	if len(b) == 0 || len(b) > wire.NumSize {
		return 0, ErrBadNumber
	}
	if b[0] == numZero {
		if len(b) != 1 {
			return 0, ErrBadNumber
		}
		return 0, nil
	}

	neg := b[0] < numZero
	var exp int
	digits := b[1:]
	if neg {
		exp = numNegBase - int(b[0])
		if n := len(digits); n > 0 && digits[n-1] == numNegTerm {
			digits = digits[:n-1]
		}
	} else {
		exp = int(b[0]) - numPosBase
	}
	if len(digits) == 0 || len(digits) > numMaxDigits {
		return 0, ErrBadNumber
	}

	// The last stored digit has power exp-(len-1); it must not be fractional.
	scale := exp - (len(digits) - 1)
	if scale < 0 {
		return 0, ErrNotInteger
	}

	var (
		mag uint64
		ok  bool
	)
	for _, d := range digits {
		var digit byte
		if neg {
			digit = 101 - d
		} else {
			digit = d - 1
		}
		if digit > 99 {
			return 0, ErrBadNumber
		}
		if mag, ok = mulAdd(mag, 100, uint64(digit)); !ok {
			return 0, ErrNumberRange
		}
	}
	for ; scale > 0; scale-- {
		if mag, ok = mulAdd(mag, 100, 0); !ok {
			return 0, ErrNumberRange
		}
	}

	if neg {
		if mag > 1<<63 {
			return 0, ErrNumberRange
		}
		return -int64(mag), nil
	}
	if mag > math.MaxInt64 {
		return 0, ErrNumberRange
	}
	return int64(mag), nil
}

// mulAdd returns a*m+c, saturating at MaxUint64 on overflow.
func mulAdd(a, m, c uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, m)
	if hi != 0 {
		return math.MaxUint64, false
	}
	sum, carry := bits.Add64(lo, c, 0)
	if carry != 0 {
		return math.MaxUint64, false
	}
	return sum, true
}
