// Package wire declares the on-wire column types of an OCI array bind: the
// SQLT tag every slot of a column is tagged with, and the slot size the
// column buffer reserves per row.
//
// Each wire type is a zero-size marker. Its methods return constants, so the
// tag and capped size are properties of the type, never of a value.
package wire

// Wire describes one on-wire type.
type Wire interface {
	Tag() Tag
	// CappedSize returns the fixed slot size in bytes. ok is false for
	// variable-length types, whose slots are sized by content.
	CappedSize() (size int, ok bool)
}

// Slot sizes from the OCI external datatype table.
const (
	NumSize       = 21
	DatSize       = 7
	TimestampSize = 11
	BFloatSize    = 4
	BDoubleSize   = 8
)

type (
	Chr       struct{}
	Afc       struct{}
	Bin       struct{}
	Int8      struct{}
	Int16     struct{}
	Int32     struct{}
	Int64     struct{}
	Num       struct{}
	BFloat    struct{}
	BDouble   struct{}
	Dat       struct{}
	Timestamp struct{}
)

func (Chr) Tag() Tag                      { return SQLTChr }
func (Chr) CappedSize() (int, bool)       { return 0, false }
func (Afc) Tag() Tag                      { return SQLTAfc }
func (Afc) CappedSize() (int, bool)       { return 0, false }
func (Bin) Tag() Tag                      { return SQLTBin }
func (Bin) CappedSize() (int, bool)       { return 0, false }
func (Int8) Tag() Tag                     { return SQLTInt }
func (Int8) CappedSize() (int, bool)      { return 1, true }
func (Int16) Tag() Tag                    { return SQLTInt }
func (Int16) CappedSize() (int, bool)     { return 2, true }
func (Int32) Tag() Tag                    { return SQLTInt }
func (Int32) CappedSize() (int, bool)     { return 4, true }
func (Int64) Tag() Tag                    { return SQLTInt }
func (Int64) CappedSize() (int, bool)     { return 8, true }
func (Num) Tag() Tag                      { return SQLTNum }
func (Num) CappedSize() (int, bool)       { return NumSize, true }
func (BFloat) Tag() Tag                   { return SQLTBFloat }
func (BFloat) CappedSize() (int, bool)    { return BFloatSize, true }
func (BDouble) Tag() Tag                  { return SQLTBDouble }
func (BDouble) CappedSize() (int, bool)   { return BDoubleSize, true }
func (Dat) Tag() Tag                      { return SQLTDat }
func (Dat) CappedSize() (int, bool)       { return DatSize, true }
func (Timestamp) Tag() Tag                { return SQLTTimestamp }
func (Timestamp) CappedSize() (int, bool) { return TimestampSize, true }

// IntWire is the set of SQLT_INT widths. All share SQLTInt; each is a
// separate contract with its own capped size.
type IntWire interface {
	Wire
	Int8 | Int16 | Int32 | Int64
}

// Info is a row of the wire type table.
type Info struct {
	Name  string
	Tag   Tag
	Size  int
	Fixed bool
}

func infoOf(name string, w Wire) Info {
	size, fixed := w.CappedSize()
	return Info{Name: name, Tag: w.Tag(), Size: size, Fixed: fixed}
}

var byName = map[string]Info{
	"chr":       infoOf("chr", Chr{}),
	"afc":       infoOf("afc", Afc{}),
	"bin":       infoOf("bin", Bin{}),
	"int8":      infoOf("int8", Int8{}),
	"int16":     infoOf("int16", Int16{}),
	"int32":     infoOf("int32", Int32{}),
	"int64":     infoOf("int64", Int64{}),
	"num":       infoOf("num", Num{}),
	"bfloat":    infoOf("bfloat", BFloat{}),
	"bdouble":   infoOf("bdouble", BDouble{}),
	"dat":       infoOf("dat", Dat{}),
	"timestamp": infoOf("timestamp", Timestamp{}),
}

// Lookup returns the table row for a wire type name such as "int32" or "num".
func Lookup(name string) (Info, bool) {
	info, ok := byName[name]
	return info, ok
}
