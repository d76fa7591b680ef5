package cart

import (
	"encoding/json"
	"fmt"
)

type variantJSON struct {
	Flavor   string   `json:"flavor"`
	Toppings []string `json:"toppings"`
}

// lineItemJSON is the persisted row shape. Price and Variants are the field names
// written by the earlier storefront script and are only read, never written.
type lineItemJSON struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Image       string       `json:"image,omitempty"`
	UnitPrice   *int64       `json:"unitPrice,omitempty"`
	Quantity    int          `json:"quantity"`
	Variant     *variantJSON `json:"variant,omitempty"`
	VariantText string       `json:"variantText,omitempty"`

	Price    *float64     `json:"price,omitempty"`
	Variants *variantJSON `json:"variants,omitempty"`
}

func (li LineItem) MarshalJSON() ([]byte, error) {
	price := li.UnitPrice
	w := lineItemJSON{
		ID:        li.ID,
		Name:      li.Name,
		Image:     li.Image,
		UnitPrice: &price,
		Quantity:  li.Quantity,
	}

	switch li.Kind {
	case KindPlain:
	case KindCustomized:
		toppings := li.Variant.Toppings
		if toppings == nil {
			toppings = []string{}
		}
		w.Variant = &variantJSON{Flavor: li.Variant.Flavor, Toppings: toppings}
		w.VariantText = li.VariantText
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, li.Kind)
	}

	return json.Marshal(w)
}

func (li *LineItem) UnmarshalJSON(data []byte) error {
	var w lineItemJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	if w.ID == "" || w.Quantity < 1 {
		return fmt.Errorf("%w: id=%q quantity=%d", ErrInvalidRow, w.ID, w.Quantity)
	}

	var price int64
	switch {
	case w.UnitPrice != nil:
		price = *w.UnitPrice
	case w.Price != nil:
		price = int64(*w.Price)
	}
	if price < 0 {
		return fmt.Errorf("%w: negative price for %q", ErrInvalidRow, w.ID)
	}

	p := Product{ID: w.ID, Name: w.Name, Image: w.Image, UnitPrice: price}

	v := w.Variant
	if v == nil {
		v = w.Variants
	}
	if v == nil {
		*li = NewPlain(p)
		li.Quantity = w.Quantity
		return nil
	}

	*li = NewCustomized(p, Variant{Flavor: v.Flavor, Toppings: v.Toppings})
	li.Quantity = w.Quantity
	if w.VariantText != "" {
		li.VariantText = w.VariantText
	}
	return nil
}

// EncodeSnapshot serializes rows in display order.
func EncodeSnapshot(items []LineItem) ([]byte, error) {
	if items == nil {
		items = []LineItem{}
	}
	return json.Marshal(items)
}

// DecodeSnapshot parses a persisted snapshot. Rows sharing a dedup key are merged
// so the decoded cart always satisfies the one-row-per-key invariant.
func DecodeSnapshot(data []byte) ([]LineItem, error) {
	var rows []LineItem
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}

	out := make([]LineItem, 0, len(rows))
	index := make(map[Key]int, len(rows))
	for _, row := range rows {
		if i, ok := index[row.Key()]; ok {
			out[i].Quantity += row.Quantity
			continue
		}
		index[row.Key()] = len(out)
		out = append(out, row)
	}
	return out, nil
}
