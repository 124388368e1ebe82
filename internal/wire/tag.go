package wire

import "fmt"

// Tag is an Oracle OCI external datatype code (SQLT_xxx). The value tells the
// server how to interpret every slot of a bound column.
type Tag uint16

// Authoritative codes from the OCI external datatype table.
const (
	SQLTChr       Tag = 1   // VARCHAR2
	SQLTNum       Tag = 2   // NUMBER, internal format
	SQLTInt       Tag = 3   // signed integer, native byte order
	SQLTFlt       Tag = 4   // native float
	SQLTStr       Tag = 5   // NUL-terminated string
	SQLTDat       Tag = 12  // DATE, 7 bytes
	SQLTBFloat    Tag = 21  // BINARY_FLOAT
	SQLTBDouble   Tag = 22  // BINARY_DOUBLE
	SQLTBin       Tag = 23  // RAW
	SQLTAfc       Tag = 96  // CHAR, blank padded
	SQLTTimestamp Tag = 187 // TIMESTAMP, 11 bytes
)

var tagNames = map[Tag]string{
	SQLTChr:       "SQLT_CHR",
	SQLTNum:       "SQLT_NUM",
	SQLTInt:       "SQLT_INT",
	SQLTFlt:       "SQLT_FLT",
	SQLTStr:       "SQLT_STR",
	SQLTDat:       "SQLT_DAT",
	SQLTBFloat:    "SQLT_BFLOAT",
	SQLTBDouble:   "SQLT_BDOUBLE",
	SQLTBin:       "SQLT_BIN",
	SQLTAfc:       "SQLT_AFC",
	SQLTTimestamp: "SQLT_TIMESTAMP",
}

func (t Tag) String() string {
	if s, ok := tagNames[t]; ok {
		return s
	}
	return fmt.Sprintf("SQLT(%d)", uint16(t))
}
