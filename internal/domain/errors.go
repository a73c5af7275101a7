package domain

import "errors"

var (
	// ErrBlockNotFound is returned when a block ID is not on the canvas.
	ErrBlockNotFound = errors.New("block not found")

	// ErrConnectionNotFound is returned when a connection ID is not on the canvas.
	ErrConnectionNotFound = errors.New("connection not found")

	// ErrPortNotFound is returned when a block has no port with the requested ID.
	ErrPortNotFound = errors.New("port not found")

	// ErrPortDirection is returned when a connection would start at an input
	// port or end at an output port.
	ErrPortDirection = errors.New("port direction mismatch")

	// ErrDuplicateID is returned when a block or connection ID is already in use.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrUnknownBlockType is returned when the catalog has no template for a type.
	ErrUnknownBlockType = errors.New("unknown block type")
)
