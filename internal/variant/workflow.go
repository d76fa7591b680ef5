// Package variant is the modal that turns a customizable menu item into a cart
// row with a flavor, a topping set and a quantity.
package variant

import (
	"context"
	"fmt"

	"lezat-lumer/internal/cart"
	"lezat-lumer/internal/catalog"
	"lezat-lumer/internal/focus"
	"lezat-lumer/internal/logger"
	"lezat-lumer/internal/notify"

	"go.uber.org/zap"
)

// Owner identifies this workflow in the focus scope.
const Owner = "variant"

// Focusable fields, in tab order.
const (
	FieldFlavor   = "flavor"
	FieldToppings = "toppings"
	FieldQuantity = "quantity"
	FieldConfirm  = "confirm"
)

type State string

const (
	StateClosed State = "closed"
	StateOpen   State = "open"
)

type Cart interface {
	AddItem(ctx context.Context, candidate cart.LineItem, quantity int) error
}

type Notifier interface {
	Toast(level notify.Level, message string)
}

type Draft struct {
	Item     catalog.Item `json:"item"`
	Flavor   string       `json:"flavor"`
	Toppings []string     `json:"toppings"`
	Quantity int          `json:"quantity"`
}

// Variant returns the draft's customization with toppings in menu order.
func (d Draft) Variant() cart.Variant {
	return cart.Variant{Flavor: d.Flavor, Toppings: append([]string{}, d.Toppings...)}
}

type Workflow struct {
	cart     Cart
	options  catalog.Options
	scope    *focus.Scope
	notifier Notifier

	state State
	draft Draft
	trap  *focus.Trap
}

func NewWorkflow(c Cart, options catalog.Options, scope *focus.Scope, n Notifier) *Workflow {
	return &Workflow{
		cart:     c,
		options:  options,
		scope:    scope,
		notifier: n,
		state:    StateClosed,
	}
}

func (w *Workflow) State() State {
	return w.state
}

// Draft returns a copy of the in-progress selection; ok is false when closed.
func (w *Workflow) Draft() (Draft, bool) {
	if w.state != StateOpen {
		return Draft{}, false
	}
	d := w.draft
	d.Toppings = append([]string{}, w.draft.Toppings...)
	return d, true
}

func (w *Workflow) Options() catalog.Options {
	return w.options
}

// Open starts a fresh draft for item with the default flavor, no toppings and a
// quantity of 1.
func (w *Workflow) Open(item catalog.Item) error {
	if w.state != StateClosed {
		return ErrAlreadyOpen
	}
	if !item.Customizable {
		return fmt.Errorf("%w: %s", ErrNotCustomizable, item.ID)
	}

	w.draft = Draft{
		Item:     item,
		Flavor:   w.options.DefaultFlavor(),
		Toppings: []string{},
		Quantity: 1,
	}
	w.trap = w.scope.Acquire(Owner, FieldFlavor, FieldToppings, FieldQuantity, FieldConfirm)
	w.state = StateOpen
	return nil
}

func (w *Workflow) SetFlavor(flavor string) error {
	if w.state != StateOpen {
		return ErrNotOpen
	}
	if !w.options.HasFlavor(flavor) {
		return fmt.Errorf("%w: %q", ErrUnknownFlavor, flavor)
	}

	w.draft.Flavor = flavor
	return nil
}

// ToggleTopping adds or removes topping. Selected toppings keep the order of the
// menu's topping list.
func (w *Workflow) ToggleTopping(topping string) error {
	if w.state != StateOpen {
		return ErrNotOpen
	}
	if !w.options.HasTopping(topping) {
		return fmt.Errorf("%w: %q", ErrUnknownTopping, topping)
	}

	selected := make(map[string]bool, len(w.draft.Toppings)+1)
	for _, t := range w.draft.Toppings {
		selected[t] = true
	}
	selected[topping] = !selected[topping]

	toppings := make([]string, 0, len(selected))
	for _, t := range w.options.Toppings {
		if selected[t] {
			toppings = append(toppings, t)
		}
	}
	w.draft.Toppings = toppings
	return nil
}

// SetQuantity clamps n to a minimum of 1.
func (w *Workflow) SetQuantity(n int) error {
	if w.state != StateOpen {
		return ErrNotOpen
	}
	if n < 1 {
		n = 1
	}
	w.draft.Quantity = n
	return nil
}

func (w *Workflow) Increment() error {
	if w.state != StateOpen {
		return ErrNotOpen
	}
	w.draft.Quantity++
	return nil
}

// Decrement refuses to go below 1; there is no row to remove yet.
func (w *Workflow) Decrement() error {
	if w.state != StateOpen {
		return ErrNotOpen
	}
	if w.draft.Quantity <= 1 {
		return ErrQuantityTooLow
	}
	w.draft.Quantity--
	return nil
}

// Confirm adds the drafted row to the cart and closes the modal. The row is in the
// cart even when the returned error reports a failed persistence write.
func (w *Workflow) Confirm(ctx context.Context) error {
	if w.state != StateOpen {
		return ErrNotOpen
	}

	d := w.draft
	row := cart.NewCustomized(d.Item.Product(), d.Variant())
	err := w.cart.AddItem(ctx, row, d.Quantity)
	w.close()

	logger.FromCtx(ctx).Info("variant confirmed",
		zap.String("item_id", d.Item.ID),
		zap.String("variant", row.VariantText),
		zap.Int("quantity", d.Quantity),
	)
	w.notifier.Toast(notify.LevelSuccess,
		fmt.Sprintf("%dx %s (%s) ditambahkan ke keranjang!", d.Quantity, d.Item.Name, row.VariantText))

	return err
}

// Cancel discards the draft. Cancelling a closed workflow does nothing.
func (w *Workflow) Cancel() {
	if w.state == StateClosed {
		return
	}
	w.close()
}

// Focus returns the modal's focus trap, or nil when closed.
func (w *Workflow) Focus() *focus.Trap {
	if w.state != StateOpen {
		return nil
	}
	return w.trap
}

// close is the only exit path; it always gives focus back.
func (w *Workflow) close() {
	w.trap.Release()
	w.trap = nil
	w.draft = Draft{}
	w.state = StateClosed
}
