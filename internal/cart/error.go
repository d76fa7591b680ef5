package cart

import "errors"

var (
	// -- Persistence --
	ErrPersist = errors.New("failed to persist cart snapshot")
	ErrLoad    = errors.New("failed to load cart snapshot")

	// -- Snapshot decoding --
	ErrInvalidRow  = errors.New("invalid cart row in snapshot")
	ErrUnknownKind = errors.New("unknown line item kind")
)
