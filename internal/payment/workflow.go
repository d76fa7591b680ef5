// Package payment is the checkout modal: it collects customer data, validates it
// one field at a time, hands the formatted order to WhatsApp and clears the cart.
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lezat-lumer/internal/cart"
	"lezat-lumer/internal/focus"
	"lezat-lumer/internal/handoff"
	"lezat-lumer/internal/logger"
	"lezat-lumer/internal/notify"
	"lezat-lumer/internal/order"

	"go.uber.org/zap"
)

// Owner identifies this workflow in the focus scope.
const Owner = "payment"

// Focusable fields, in tab order.
const (
	FieldMethod        = "paymentMethod"
	FieldName          = "customerName"
	FieldPhone         = "customerPhone"
	FieldAddress       = "customerAddress"
	FieldSenderBank    = "senderBank"
	FieldSenderAccount = "senderAccount"
	FieldCopyAccount   = "copyAccount"
	FieldConfirm       = "confirm"
)

// Toasts shown by the workflow.
const (
	MsgCartEmpty     = "Keranjang Anda kosong!"
	MsgOrderSent     = "Pesanan berhasil! Anda akan diarahkan ke WhatsApp."
	MsgHandoffFailed = "Gagal membuka WhatsApp, silakan coba lagi."
)

type State string

const (
	StateClosed         State = "closed"
	StateOpen           State = "open"
	StateMethodSelected State = "method_selected"
)

type Cart interface {
	Items() []cart.LineItem
	Total() int64
	Len() int
	Clear(ctx context.Context) error
}

type Notifier interface {
	Toast(level notify.Level, message string)
	ShowOverlay(o notify.Overlay)
}

// Scheduler runs f after d without blocking the caller.
type Scheduler func(d time.Duration, f func())

func AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

type Settings struct {
	Store            string
	WhatsAppNumber   string
	Destination      order.Bank
	InstructionDelay time.Duration
}

// Summary is the cart as it was when the modal opened.
type Summary struct {
	Items []cart.LineItem
	Total int64
}

type Receipt struct {
	Reference string
	Method    order.Method
	Total     int64
	Message   order.Message
	URL       string
}

type Option func(*Workflow)

func WithScheduler(s Scheduler) Option {
	return func(w *Workflow) { w.schedule = s }
}

func WithClock(now func() time.Time) Option {
	return func(w *Workflow) { w.now = now }
}

type Workflow struct {
	cart       Cart
	dispatcher handoff.Dispatcher
	notifier   Notifier
	scope      *focus.Scope
	settings   Settings
	schedule   Scheduler
	now        func() time.Time

	state    State
	method   order.Method
	summary  Summary
	customer order.Customer
	trap     *focus.Trap
}

func NewWorkflow(c Cart, d handoff.Dispatcher, n Notifier, scope *focus.Scope, settings Settings, opts ...Option) *Workflow {
	w := &Workflow{
		cart:       c,
		dispatcher: d,
		notifier:   n,
		scope:      scope,
		settings:   settings,
		schedule:   AfterFunc,
		now:        time.Now,
		state:      StateClosed,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Workflow) State() State {
	return w.state
}

func (w *Workflow) Method() order.Method {
	return w.method
}

func (w *Workflow) Summary() Summary {
	return Summary{Items: append([]cart.LineItem(nil), w.summary.Items...), Total: w.summary.Total}
}

// Customer returns the last submitted (trimmed) customer data, kept across failed
// confirmations so nothing typed is lost.
func (w *Workflow) Customer() order.Customer {
	return w.customer
}

func (w *Workflow) Settings() Settings {
	return w.settings
}

// Instructions returns the payment steps for the selected method.
func (w *Workflow) Instructions() []string {
	if w.state != StateMethodSelected {
		return nil
	}
	return InjectVariables(GetInstructions(w.method), NewInstructionVars(w.summary.Total, w.settings.Destination))
}

func (w *Workflow) Focus() *focus.Trap {
	if w.state == StateClosed {
		return nil
	}
	return w.trap
}

// Open snapshots the cart for the summary and starts with empty customer data and
// no payment method.
func (w *Workflow) Open(ctx context.Context) error {
	if w.state != StateClosed {
		return ErrAlreadyOpen
	}
	if w.cart.Len() == 0 {
		w.notifier.Toast(notify.LevelError, MsgCartEmpty)
		return ErrCartEmpty
	}

	w.summary = Summary{Items: w.cart.Items(), Total: w.cart.Total()}
	w.customer = order.Customer{}
	w.method = ""
	w.trap = w.scope.Acquire(Owner, FieldMethod)
	w.state = StateOpen

	logger.FromCtx(ctx).Debug("payment opened", zap.Int64("total", w.summary.Total))
	return nil
}

func (w *Workflow) SelectMethod(m order.Method) error {
	if w.state == StateClosed {
		return ErrNotOpen
	}
	if m.Label() == "" {
		return fmt.Errorf("%w: %q", order.ErrUnknownMethod, m)
	}

	w.method = m
	w.state = StateMethodSelected
	w.trap.SetFields(fieldsFor(m)...)
	return nil
}

// Validate checks c in the order the form reports errors and stops at the first
// failure. Sender fields are only checked for transfers.
func Validate(m order.Method, c order.Customer) error {
	switch {
	case m == "":
		return &ValidationError{Field: FieldMethod, Message: "Silakan pilih metode pembayaran!", Err: ErrPaymentMethodRequired}
	case c.Name == "":
		return &ValidationError{Field: FieldName, Message: "Nama harus diisi!", Err: ErrNameRequired}
	case c.Phone == "":
		return &ValidationError{Field: FieldPhone, Message: "Nomor telepon harus diisi!", Err: ErrPhoneRequired}
	case c.Address == "":
		return &ValidationError{Field: FieldAddress, Message: "Alamat harus diisi!", Err: ErrAddressRequired}
	}

	if m == order.MethodTransfer {
		if c.SenderBank == "" {
			return &ValidationError{Field: FieldSenderBank, Message: "Silakan pilih bank pengirim!", Err: ErrSenderBankRequired}
		}
		if c.SenderAccount == "" {
			return &ValidationError{Field: FieldSenderAccount, Message: "Nomor rekening pengirim harus diisi!", Err: ErrSenderAccountRequired}
		}
	}
	return nil
}

// Confirm validates customer, hands the order off and clears the cart. On a
// validation or handoff failure the workflow stays where it was and the cart is
// untouched. A failed cart persistence write after a successful handoff is
// returned alongside the receipt.
func (w *Workflow) Confirm(ctx context.Context, customer order.Customer) (Receipt, error) {
	if w.state == StateClosed {
		return Receipt{}, ErrNotOpen
	}

	log := logger.FromCtx(ctx)
	c := customer.Trimmed()
	w.customer = c

	if err := Validate(w.method, c); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			w.notifier.Toast(notify.LevelError, ve.Message)
			w.trap.Focus(ve.Field)
			log.Info("checkout validation failed", zap.String("field", ve.Field))
		}
		return Receipt{}, err
	}

	if w.method != order.MethodTransfer {
		c.SenderBank, c.SenderAccount = "", ""
	}

	o := order.Order{
		Reference:   order.NewReference(w.now()),
		Store:       w.settings.Store,
		Items:       w.cart.Items(),
		Customer:    c,
		Method:      w.method,
		Destination: w.settings.Destination,
	}
	msg := order.Format(o)

	url, err := handoff.Link(w.settings.WhatsAppNumber, msg.Encoded)
	if err == nil {
		err = w.dispatcher.Dispatch(ctx, url)
	}
	if err != nil {
		log.Error("order handoff failed", zap.String("reference", o.Reference), zap.Error(err))
		w.notifier.Toast(notify.LevelError, MsgHandoffFailed)
		return Receipt{}, fmt.Errorf("%w: %v", ErrHandoffFailed, err)
	}

	receipt := Receipt{
		Reference: o.Reference,
		Method:    o.Method,
		Total:     o.Total(),
		Message:   msg,
		URL:       url,
	}

	if o.Method == order.MethodTransfer {
		overlay := TransferOverlay(NewInstructionVars(receipt.Total, w.settings.Destination))
		w.schedule(w.settings.InstructionDelay, func() {
			w.notifier.ShowOverlay(overlay)
		})
	}

	clearErr := w.cart.Clear(ctx)
	w.close()
	w.notifier.Toast(notify.LevelSuccess, MsgOrderSent)

	log.Info("order handed off",
		zap.String("reference", receipt.Reference),
		zap.String("method", string(receipt.Method)),
		zap.Int64("total", receipt.Total),
		zap.Int("rows", len(o.Items)),
	)

	return receipt, clearErr
}

// Close abandons the checkout and discards what was typed.
func (w *Workflow) Close() {
	if w.state == StateClosed {
		return
	}
	w.close()
}

// close is the only exit path; it always gives focus back.
func (w *Workflow) close() {
	w.trap.Release()
	w.trap = nil
	w.state = StateClosed
	w.method = ""
	w.summary = Summary{}
	w.customer = order.Customer{}
}

func fieldsFor(m order.Method) []string {
	if m == order.MethodTransfer {
		return []string{FieldMethod, FieldName, FieldPhone, FieldAddress, FieldSenderBank, FieldSenderAccount, FieldCopyAccount, FieldConfirm}
	}
	return []string{FieldMethod, FieldName, FieldPhone, FieldAddress, FieldConfirm}
}
