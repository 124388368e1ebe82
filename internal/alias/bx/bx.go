// stand for bytes helper
package bx

import "encoding/binary"

var (
	NE = binary.NativeEndian
	LE = binary.LittleEndian
	BE = binary.BigEndian
)

// --- NE: read (OCI array binds use the client's byte order) ---
func U16(b []byte) uint16 { return NE.Uint16(b) }
func U32(b []byte) uint32 { return NE.Uint32(b) }
func U64(b []byte) uint64 { return NE.Uint64(b) }
func I16(b []byte) int16  { return int16(U16(b)) }
func I32(b []byte) int32  { return int32(U32(b)) }
func I64(b []byte) int64  { return int64(U64(b)) }

// --- NE: write ---
func PutU16(b []byte, v uint16) { NE.PutUint16(b, v) }
func PutU32(b []byte, v uint32) { NE.PutUint32(b, v) }
func PutU64(b []byte, v uint64) { NE.PutUint64(b, v) }

// --- LE (used for spool frame prefixes, stable across hosts) ---
func U32LE(b []byte) uint32       { return LE.Uint32(b) }
func PutU32LE(b []byte, v uint32) { LE.PutUint32(b, v) }

// --- BE (Oracle internal formats, e.g. TIMESTAMP fractional seconds) ---
func U32BE(b []byte) uint32       { return BE.Uint32(b) }
func PutU32BE(b []byte, v uint32) { BE.PutUint32(b, v) }
