// Package adapter provides value types that implement the bind encoder
// interfaces for the common Go scalars.
//
// Builtin types cannot carry methods, so each adapter is a named type over
// the builtin one; convert at the call site, e.g. adapter.Int32(x). A type
// may implement several encoders: Int32 binds both as SQLT_INT and as NUMBER.
package adapter
