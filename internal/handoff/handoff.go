// Package handoff builds the WhatsApp deep link an order is sent through.
package handoff

import (
	"context"
	"errors"
	"strings"
)

const baseURL = "https://wa.me/"

var ErrInvalidNumber = errors.New("invalid whatsapp number")

// Dispatcher opens a handoff link. It is fire-and-forget: a nil error only means
// the link was handed to the client, not that a message was delivered.
type Dispatcher interface {
	Dispatch(ctx context.Context, url string) error
}

// Link returns https://wa.me/<number>?text=<encoded>. encoded must already be
// percent-encoded.
func Link(number, encoded string) (string, error) {
	number = NormalizeNumber(number)
	if number == "" {
		return "", ErrInvalidNumber
	}
	return baseURL + number + "?text=" + encoded, nil
}

// NormalizeNumber keeps only digits, turning "+62 877-7303-3706" into
// "6287773033706".
func NormalizeNumber(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
