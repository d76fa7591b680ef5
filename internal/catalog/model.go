package catalog

import "lezat-lumer/internal/cart"

// Menu categories used by the storefront filter buttons.
const (
	CategoryAll        = "all"
	CategorySpeciality = "speciality"
	CategoryExtra      = "extra"
)

type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Category    string `json:"category"`

	// Customizable items go through variant selection before reaching the cart.
	Customizable bool `json:"customizable"`
}

// Product copies the display metadata a cart row keeps from the menu.
func (it Item) Product() cart.Product {
	return cart.Product{ID: it.ID, Name: it.Name, Image: it.Image, UnitPrice: it.Price}
}

// LineItem builds a plain cart row for a non-customizable item.
func (it Item) LineItem() cart.LineItem {
	return cart.NewPlain(it.Product())
}

// Options lists the choices offered by the variant selection modal. The first
// flavor is the default selection.
type Options struct {
	Flavors  []string `json:"flavors"`
	Toppings []string `json:"toppings"`
}

func (o Options) DefaultFlavor() string {
	if len(o.Flavors) == 0 {
		return ""
	}
	return o.Flavors[0]
}

func (o Options) HasFlavor(flavor string) bool {
	return contains(o.Flavors, flavor)
}

func (o Options) HasTopping(topping string) bool {
	return contains(o.Toppings, topping)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
