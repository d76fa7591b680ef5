package cart

import (
	"sort"
	"strings"
)

// Kind tags which shape a LineItem has.
type Kind string

const (
	KindPlain      Kind = "plain"
	KindCustomized Kind = "customized"
)

// Product is the catalog metadata copied into a row at add-time.
type Product struct {
	ID        string
	Name      string
	Image     string
	UnitPrice int64
}

// Variant is the flavor/topping customization of a row. Toppings is a set; its
// order is kept for display only.
type Variant struct {
	Flavor   string
	Toppings []string
}

// Signature normalises the variant into (flavor, sorted toppings).
func (v Variant) Signature() string {
	toppings := append([]string(nil), v.Toppings...)
	sort.Strings(toppings)
	return v.Flavor + "\x1f" + strings.Join(toppings, "\x1e")
}

// Text renders the summary shown under the item name, e.g. "Rasa: Matcha, Topping: Oreo, Keju".
func (v Variant) Text() string {
	text := "Rasa: " + v.Flavor
	if len(v.Toppings) > 0 {
		text += ", Topping: " + strings.Join(v.Toppings, ", ")
	}
	return text
}

// normalize turns a missing topping list into an explicit empty set and drops repeats.
func (v Variant) normalize() Variant {
	seen := make(map[string]struct{}, len(v.Toppings))
	toppings := make([]string, 0, len(v.Toppings))
	for _, t := range v.Toppings {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		toppings = append(toppings, t)
	}
	return Variant{Flavor: v.Flavor, Toppings: toppings}
}

// Key is the dedup key of a row.
type Key struct {
	ID        string
	Kind      Kind
	Signature string
}

// LineItem is one cart row. Variant and VariantText are only meaningful when
// Kind is KindCustomized.
type LineItem struct {
	Kind Kind
	Product
	Quantity int

	Variant     Variant
	VariantText string
}

func NewPlain(p Product) LineItem {
	return LineItem{Kind: KindPlain, Product: p, Quantity: 1}
}

func NewCustomized(p Product, v Variant) LineItem {
	v = v.normalize()
	return LineItem{
		Kind:        KindCustomized,
		Product:     p,
		Quantity:    1,
		Variant:     v,
		VariantText: v.Text(),
	}
}

func (li LineItem) Key() Key {
	switch li.Kind {
	case KindCustomized:
		return Key{ID: li.ID, Kind: KindCustomized, Signature: li.Variant.Signature()}
	case KindPlain:
		return Key{ID: li.ID, Kind: KindPlain}
	default:
		return Key{ID: li.ID, Kind: li.Kind}
	}
}

func (li LineItem) LineTotal() int64 {
	return li.UnitPrice * int64(li.Quantity)
}

// clone deep-copies the topping slice so callers cannot alias store state.
func (li LineItem) clone() LineItem {
	li.Variant.Toppings = append([]string(nil), li.Variant.Toppings...)
	if li.Kind == KindCustomized && li.Variant.Toppings == nil {
		li.Variant.Toppings = []string{}
	}
	return li
}
