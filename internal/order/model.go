package order

import (
	"fmt"
	"strings"

	"lezat-lumer/internal/cart"
)

type Method string

const (
	MethodCash     Method = "cash"
	MethodTransfer Method = "transfer"
)

// Label is the text shown in the payment modal and the order transcript.
func (m Method) Label() string {
	switch m {
	case MethodCash:
		return "Cash (Bayar di Tempat)"
	case MethodTransfer:
		return "Transfer Bank BCA"
	default:
		return ""
	}
}

func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodCash, MethodTransfer:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// Customer is the contact and sender data typed into the payment modal. The
// sender fields only matter for transfers.
type Customer struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	SenderBank    string `json:"senderBank"`
	SenderAccount string `json:"senderAccount"`
}

func (c Customer) Trimmed() Customer {
	return Customer{
		Name:          strings.TrimSpace(c.Name),
		Phone:         strings.TrimSpace(c.Phone),
		Address:       strings.TrimSpace(c.Address),
		SenderBank:    strings.TrimSpace(c.SenderBank),
		SenderAccount: strings.TrimSpace(c.SenderAccount),
	}
}

// Bank is the store's transfer destination.
type Bank struct {
	Name    string `json:"name"`
	Account string `json:"account"`
	Holder  string `json:"holder"`
}

type Order struct {
	Reference   string
	Store       string
	Items       []cart.LineItem
	Customer    Customer
	Method      Method
	Destination Bank
}

func (o Order) Total() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.LineTotal()
	}
	return total
}

// Message is a formatted order ready for handoff.
type Message struct {
	Text    string
	Encoded string
}
