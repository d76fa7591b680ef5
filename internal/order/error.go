package order

import "errors"

var (
	ErrUnknownMethod = errors.New("unknown payment method")
)
