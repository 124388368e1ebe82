package wire

import "errors"

var (
	// ErrShortSlot is returned by an encoder whose value does not fit the
	// destination slot. Nothing is written in that case.
	ErrShortSlot = errors.New("wire: destination slot too short")

	// ErrUnimplemented is returned by placeholder encoders.
	ErrUnimplemented = errors.New("wire: encoder not implemented")
)
