package variant

import "errors"

var (
	// -- Workflow state --
	ErrAlreadyOpen = errors.New("variant selection already open")
	ErrNotOpen     = errors.New("variant selection not open")

	// -- Draft input --
	ErrNotCustomizable = errors.New("menu item has no variants")
	ErrUnknownFlavor   = errors.New("unknown flavor")
	ErrUnknownTopping  = errors.New("unknown topping")
	ErrQuantityTooLow  = errors.New("quantity cannot go below 1")
)
