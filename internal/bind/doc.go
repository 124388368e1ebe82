// Package bind fills OCI array-bind column buffers from typed Go values.
//
// A column is bound under exactly one Contract: a zero-size type that knows
// the wire tag, the capped slot size, and which encode method of the value
// type to call. Contracts are type parameters of BindColumn, so the compiler
// proves at the call site that every value of a column implements the same
// contract; there is no runtime type inspection on the binding path.
//
// Go instantiates generic code per GC shape and passes a dictionary for
// method calls on type parameters, so Contract.Encode may cost one indirect
// call per row. That is the only dispatch cost of a bind.
//
// New value types are supported by implementing one of the encoder
// interfaces (IntEncoder, NumEncoder, ...). New wire types are supported by
// declaring a wire.Wire marker, an encoder interface and a Contract type, then
// calling BindColumn with it.
package bind
