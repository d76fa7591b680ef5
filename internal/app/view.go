package app

import (
	"lezat-lumer/internal/cart"
	"lezat-lumer/internal/catalog"
	"lezat-lumer/internal/notify"
	"lezat-lumer/internal/order"
	"lezat-lumer/internal/payment"
	"lezat-lumer/internal/variant"
)

// Row is one rendered cart line. Index is what remove/increase/decrease take.
type Row struct {
	Index         int       `json:"index"`
	ID            string    `json:"id"`
	Kind          cart.Kind `json:"kind"`
	Name          string    `json:"name"`
	Image         string    `json:"image"`
	VariantText   string    `json:"variantText,omitempty"`
	Quantity      int       `json:"quantity"`
	UnitPrice     int64     `json:"unitPrice"`
	LineTotal     int64     `json:"lineTotal"`
	UnitPriceText string    `json:"unitPriceText"`
	LineTotalText string    `json:"lineTotalText"`
}

type VariantView struct {
	Item     catalog.Item    `json:"item"`
	Flavor   string          `json:"flavor"`
	Toppings []string        `json:"toppings"`
	Quantity int             `json:"quantity"`
	Options  catalog.Options `json:"options"`
}

type PaymentView struct {
	State        payment.State  `json:"state"`
	Method       order.Method   `json:"method,omitempty"`
	MethodLabel  string         `json:"methodLabel,omitempty"`
	Summary      []Row          `json:"summary"`
	Total        int64          `json:"total"`
	TotalText    string         `json:"totalText"`
	Instructions []string       `json:"instructions,omitempty"`
	Bank         *order.Bank    `json:"bank,omitempty"`
	Customer     order.Customer `json:"customer"`
}

type FocusView struct {
	Holder string `json:"holder,omitempty"`
	Field  string `json:"field,omitempty"`
}

type ReceiptView struct {
	Reference string       `json:"reference"`
	Method    order.Method `json:"method"`
	Total     int64        `json:"total"`
	URL       string       `json:"url"`
}

type View struct {
	SessionID string         `json:"sessionId"`
	Items     []Row          `json:"items"`
	Total     int64          `json:"total"`
	TotalText string         `json:"totalText"`
	Count     int            `json:"count"`
	Variant   *VariantView   `json:"variant,omitempty"`
	Payment   *PaymentView   `json:"payment,omitempty"`
	Focus     FocusView      `json:"focus"`
	Receipt   *ReceiptView   `json:"receipt,omitempty"`
	Events    []notify.Event `json:"events"`
}

func rows(items []cart.LineItem) []Row {
	out := make([]Row, len(items))
	for i, it := range items {
		out[i] = Row{
			Index:         i,
			ID:            it.ID,
			Kind:          it.Kind,
			Name:          it.Name,
			Image:         it.Image,
			VariantText:   it.VariantText,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			LineTotal:     it.LineTotal(),
			UnitPriceText: order.FormatRupiah(it.UnitPrice),
			LineTotalText: order.FormatRupiah(it.LineTotal()),
		}
	}
	return out
}

func variantView(w *variant.Workflow) *VariantView {
	d, ok := w.Draft()
	if !ok {
		return nil
	}
	return &VariantView{
		Item:     d.Item,
		Flavor:   d.Flavor,
		Toppings: d.Toppings,
		Quantity: d.Quantity,
		Options:  w.Options(),
	}
}

func paymentView(w *payment.Workflow) *PaymentView {
	if w.State() == payment.StateClosed {
		return nil
	}

	summary := w.Summary()
	v := &PaymentView{
		State:        w.State(),
		Method:       w.Method(),
		MethodLabel:  w.Method().Label(),
		Summary:      rows(summary.Items),
		Total:        summary.Total,
		TotalText:    order.FormatRupiah(summary.Total),
		Instructions: w.Instructions(),
		Customer:     w.Customer(),
	}
	if w.Method() == order.MethodTransfer {
		bank := w.Settings().Destination
		v.Bank = &bank
	}
	return v
}
