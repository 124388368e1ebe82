package adapter

import "github.com/tuannm99/novabind/internal/wire"

// String binds as VARCHAR2 (SQLT_CHR) or CHAR (SQLT_AFC). Bytes are written
// as-is; character set conversion is the transport's job.
type String string

// Bytes binds as RAW (SQLT_BIN).
type Bytes []byte

func (v String) EncodeChr(dst []byte) (int, error) { return putString(dst, string(v)) }
func (v String) EncodeAfc(dst []byte) (int, error) { return putString(dst, string(v)) }

func (v Bytes) EncodeBin(dst []byte) (int, error) {
	if len(dst) < len(v) {
		return 0, wire.ErrShortSlot
	}
	return copy(dst, v), nil
}

func putString(dst []byte, s string) (int, error) {
	if len(dst) < len(s) {
		return 0, wire.ErrShortSlot
	}
	return copy(dst, s), nil
}
