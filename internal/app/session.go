// Package app wires one browser session's cart, modals and UI feed together and
// runs typed commands against them one at a time.
package app

import (
	"context"
	"errors"
	"fmt"

	"lezat-lumer/internal/cart"
	"lezat-lumer/internal/catalog"
	"lezat-lumer/internal/focus"
	"lezat-lumer/internal/logger"
	"lezat-lumer/internal/metrics"
	"lezat-lumer/internal/notify"
	"lezat-lumer/internal/order"
	"lezat-lumer/internal/payment"
	"lezat-lumer/internal/storage"
	"lezat-lumer/internal/variant"

	"go.uber.org/zap"
)

// Toasts shown for cart commands.
const (
	MsgItemAdded     = "%s , Berhasil masuk keranjang!"
	MsgItemRemoved   = "Item dihapus dari keranjang"
	MsgCartCleared   = "Semua menu dihapus."
	MsgPersistFailed = "Gagal menyimpan keranjang"
	MsgLoadFailed    = "Keranjang sebelumnya tidak dapat dimuat"
)

// Deps are shared by every session.
type Deps struct {
	Catalog    *catalog.Catalog
	Adapter    storage.Adapter
	StorageKey string
	Payment    payment.Settings
	Metrics    *metrics.Registry
	Scheduler  payment.Scheduler
}

// StorageKey is the persistence key of one session's cart.
func StorageKey(base, sessionID string) string {
	return base + ":" + sessionID
}

// Session is not safe for concurrent use; Manager runs it on its own loop.
type Session struct {
	id      string
	catalog *catalog.Catalog
	metrics *metrics.Registry
	bank    order.Bank

	cart      *cart.Store
	scope     *focus.Scope
	feed      *notify.Feed
	variant   *variant.Workflow
	payment   *payment.Workflow
	clipboard *payment.Clipboard

	loaded  bool
	receipt *ReceiptView
}

func NewSession(id string, deps Deps) *Session {
	scheduler := deps.Scheduler
	if scheduler == nil {
		scheduler = payment.AfterFunc
	}
	reg := deps.Metrics
	if reg == nil {
		reg = metrics.NewRegistry()
	}

	feed := notify.NewFeed()
	scope := focus.NewScope()
	store := cart.NewStore(deps.Adapter, StorageKey(deps.StorageKey, id))

	return &Session{
		id:        id,
		catalog:   deps.Catalog,
		metrics:   reg,
		bank:      deps.Payment.Destination,
		cart:      store,
		scope:     scope,
		feed:      feed,
		variant:   variant.NewWorkflow(store, deps.Catalog.Options(), scope, feed),
		payment:   payment.NewWorkflow(store, feed, feed, scope, deps.Payment, payment.WithScheduler(scheduler)),
		clipboard: payment.NewClipboard(feed, nil, feed),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Load rehydrates the cart once. A corrupt snapshot leaves an empty cart and an
// error toast; it never fails the session.
func (s *Session) Load(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true

	if err := s.cart.Load(ctx); err != nil {
		logger.FromCtx(ctx).Warn("cart reset to empty", zap.Error(err))
		s.feed.Toast(notify.LevelError, MsgLoadFailed)
	}
}

// Dispatch runs cmd and returns the resulting view. Persistence write failures are
// reported to the user as a toast and not returned; the in-memory state is valid.
func (s *Session) Dispatch(ctx context.Context, cmd Command) (View, error) {
	s.Load(ctx)
	s.metrics.Commands.Inc()

	err := s.apply(ctx, cmd)
	if errors.Is(err, cart.ErrPersist) {
		s.metrics.PersistFailures.Inc()
		s.feed.Toast(notify.LevelError, MsgPersistFailed)
		err = nil
	}
	if err != nil {
		logger.FromCtx(ctx).Debug("command rejected", zap.String("kind", string(cmd.Kind)), zap.Error(err))
	}

	return s.View(ctx), err
}

// View renders the session and drains queued UI events.
func (s *Session) View(ctx context.Context) View {
	s.Load(ctx)

	v := View{
		SessionID: s.id,
		Items:     rows(s.cart.Items()),
		Total:     s.cart.Total(),
		TotalText: order.FormatRupiah(s.cart.Total()),
		Count:     s.cart.Count(),
		Variant:   variantView(s.variant),
		Payment:   paymentView(s.payment),
		Receipt:   s.receipt,
		Events:    s.feed.Drain(),
	}
	if trap := s.scope.Active(); trap != nil {
		v.Focus = FocusView{Holder: trap.Owner(), Field: trap.Focused()}
	}
	return v
}

func (s *Session) apply(ctx context.Context, cmd Command) error {
	if !cmd.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Kind)
	}
	if err := cmd.Validate(); err != nil {
		return err
	}
	if cmd.Kind.touchesCart() && s.scope.Holder() != "" {
		return fmt.Errorf("%w: %s", ErrModalOpen, s.scope.Holder())
	}

	switch cmd.Kind {
	case KindSelectItem:
		return s.selectItem(ctx, cmd.ItemID, cmd.quantity())
	case KindIncrease:
		return s.cart.IncreaseQuantity(ctx, cmd.index())
	case KindDecrease:
		return s.cart.DecreaseQuantity(ctx, cmd.index())
	case KindSetQuantity:
		return s.cart.SetQuantity(ctx, cmd.index(), cmd.quantity())
	case KindRemove:
		index := cmd.index()
		if index < 0 || index >= s.cart.Len() {
			return nil
		}
		err := s.cart.RemoveItem(ctx, index)
		s.feed.Toast(notify.LevelSuccess, MsgItemRemoved)
		return err
	case KindClearCart:
		if s.cart.Len() == 0 {
			return nil
		}
		err := s.cart.Clear(ctx)
		s.feed.Toast(notify.LevelSuccess, MsgCartCleared)
		return err

	case KindVariantFlavor:
		return s.variant.SetFlavor(cmd.Flavor)
	case KindVariantTopping:
		return s.variant.ToggleTopping(cmd.Topping)
	case KindVariantIncrement:
		return s.variant.Increment()
	case KindVariantDecrement:
		if err := s.variant.Decrement(); !errors.Is(err, variant.ErrQuantityTooLow) {
			return err
		}
		return nil
	case KindVariantConfirm:
		d, ok := s.variant.Draft()
		if !ok {
			return variant.ErrNotOpen
		}
		err := s.variant.Confirm(ctx)
		s.metrics.ItemsAdded.Add(uint64(d.Quantity))
		return err
	case KindVariantCancel:
		s.variant.Cancel()
		return nil

	case KindCheckout:
		if err := s.payment.Open(ctx); err != nil {
			return err
		}
		s.receipt = nil
		return nil
	case KindPaymentMethod:
		m, err := order.ParseMethod(cmd.Method)
		if err != nil {
			return err
		}
		return s.payment.SelectMethod(m)
	case KindPaymentConfirm:
		return s.confirmPayment(ctx, cmd.Customer)
	case KindPaymentClose:
		s.payment.Close()
		return nil
	case KindCopyAccount:
		s.clipboard.Copy(ctx, s.bank.Account)
		return nil

	case KindFocusNext:
		if trap := s.scope.Active(); trap != nil {
			trap.Next(cmd.Shift)
		}
		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Kind)
}

// selectItem sends customizable items to the variant modal and adds the rest
// straight to the cart.
func (s *Session) selectItem(ctx context.Context, id string, quantity int) error {
	item, err := s.catalog.Find(id)
	if err != nil {
		return fmt.Errorf("%w: %q", err, id)
	}

	if s.catalog.RequiresVariant(item.ID) {
		return s.variant.Open(item)
	}

	if quantity < 1 {
		quantity = 1
	}
	err = s.cart.AddItem(ctx, item.LineItem(), quantity)
	s.metrics.ItemsAdded.Add(uint64(quantity))
	s.feed.Toast(notify.LevelSuccess, fmt.Sprintf(MsgItemAdded, item.Name))
	return err
}

func (s *Session) confirmPayment(ctx context.Context, customer order.Customer) error {
	receipt, err := s.payment.Confirm(ctx, customer)

	var ve *payment.ValidationError
	if errors.As(err, &ve) {
		s.metrics.ValidationFailures.Inc()
		return err
	}
	if receipt.Reference == "" {
		return err
	}

	s.metrics.OrdersHandedOff.Inc()
	s.receipt = &ReceiptView{
		Reference: receipt.Reference,
		Method:    receipt.Method,
		Total:     receipt.Total,
		URL:       receipt.URL,
	}
	return err
}
