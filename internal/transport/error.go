package transport

import (
	"context"
	"errors"
	"net/http"

	"lezat-lumer/internal/app"
	"lezat-lumer/internal/catalog"
	"lezat-lumer/internal/order"
	"lezat-lumer/internal/payment"
	"lezat-lumer/internal/variant"
)

var ErrMalformedBody = errors.New("malformed request body")

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	var ve *payment.ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.Is(err, catalog.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrMalformedBody),
		errors.Is(err, app.ErrUnknownCommand),
		errors.Is(err, app.ErrMissingField),
		errors.Is(err, order.ErrUnknownMethod),
		errors.Is(err, variant.ErrUnknownFlavor),
		errors.Is(err, variant.ErrUnknownTopping),
		errors.Is(err, variant.ErrNotCustomizable):
		return http.StatusBadRequest
	case errors.Is(err, app.ErrModalOpen),
		errors.Is(err, variant.ErrAlreadyOpen),
		errors.Is(err, variant.ErrNotOpen),
		errors.Is(err, payment.ErrAlreadyOpen),
		errors.Is(err, payment.ErrNotOpen),
		errors.Is(err, payment.ErrCartEmpty):
		return http.StatusConflict
	case errors.Is(err, payment.ErrHandoffFailed):
		return http.StatusBadGateway
	case errors.Is(err, app.ErrSessionClosed),
		errors.Is(err, app.ErrManagerClosed),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
