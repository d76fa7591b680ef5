package app

import (
	"fmt"

	"lezat-lumer/internal/order"
)

// Kind names a UI action. The client sends one command per click or key press.
type Kind string

const (
	// Cart
	KindSelectItem  Kind = "select_item"
	KindIncrease    Kind = "increase"
	KindDecrease    Kind = "decrease"
	KindRemove      Kind = "remove"
	KindSetQuantity Kind = "set_quantity"
	KindClearCart   Kind = "clear_cart"

	// Variant modal
	KindVariantFlavor    Kind = "variant_flavor"
	KindVariantTopping   Kind = "variant_topping"
	KindVariantIncrement Kind = "variant_increment"
	KindVariantDecrement Kind = "variant_decrement"
	KindVariantConfirm   Kind = "variant_confirm"
	KindVariantCancel    Kind = "variant_cancel"

	// Payment modal
	KindCheckout       Kind = "checkout"
	KindPaymentMethod  Kind = "payment_method"
	KindPaymentConfirm Kind = "payment_confirm"
	KindPaymentClose   Kind = "payment_close"
	KindCopyAccount    Kind = "copy_account"

	// Keyboard
	KindFocusNext Kind = "focus_next"
)

var kinds = map[Kind]bool{
	KindSelectItem: true, KindIncrease: true, KindDecrease: true, KindRemove: true,
	KindSetQuantity: true, KindClearCart: true,
	KindVariantFlavor: true, KindVariantTopping: true, KindVariantIncrement: true,
	KindVariantDecrement: true, KindVariantConfirm: true, KindVariantCancel: true,
	KindCheckout: true, KindPaymentMethod: true, KindPaymentConfirm: true,
	KindPaymentClose: true, KindCopyAccount: true, KindFocusNext: true,
}

func (k Kind) Valid() bool {
	return kinds[k]
}

// touchesCart reports whether k acts on the page behind the modals, which is
// blocked while a modal holds focus.
func (k Kind) touchesCart() bool {
	switch k {
	case KindSelectItem, KindIncrease, KindDecrease, KindRemove, KindSetQuantity, KindClearCart, KindCheckout:
		return true
	default:
		return false
	}
}

// Strict reports whether k belongs to the strict rate limit tier.
func (k Kind) Strict() bool {
	return k == KindPaymentConfirm || k == KindCopyAccount
}

type Command struct {
	Kind     Kind           `json:"kind"`
	ItemID   string         `json:"itemId,omitempty"`
	Index    *int           `json:"index,omitempty"`
	Quantity *int           `json:"quantity,omitempty"`
	Flavor   string         `json:"flavor,omitempty"`
	Topping  string         `json:"topping,omitempty"`
	Method   string         `json:"method,omitempty"`
	Customer order.Customer `json:"customer"`
	Shift    bool           `json:"shift,omitempty"`
}

// Validate rejects a command missing a field its kind acts on. A missing row
// index must not fall back to row 0.
func (c Command) Validate() error {
	switch c.Kind {
	case KindIncrease, KindDecrease, KindRemove:
		if c.Index == nil {
			return fmt.Errorf("%w: %s needs index", ErrMissingField, c.Kind)
		}
	case KindSetQuantity:
		if c.Index == nil {
			return fmt.Errorf("%w: %s needs index", ErrMissingField, c.Kind)
		}
		if c.Quantity == nil {
			return fmt.Errorf("%w: %s needs quantity", ErrMissingField, c.Kind)
		}
	}
	return nil
}

func (c Command) index() int {
	if c.Index == nil {
		return -1
	}
	return *c.Index
}

// quantity is 0 when absent; select_item treats that as 1.
func (c Command) quantity() int {
	if c.Quantity == nil {
		return 0
	}
	return *c.Quantity
}
