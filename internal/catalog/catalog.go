// Package catalog is the read-only menu of the storefront.
package catalog

import "errors"

var ErrItemNotFound = errors.New("menu item not found")

var menu = []Item{
	{ID: "menu-1", Name: "Pudding Balls Coklat", Price: 10000, Image: "menu-1.jpg", Category: CategorySpeciality,
		Description: "Pudding coklat lembut dengan isian lumer dan rasa manis yang bikin nagih."},
	{ID: "menu-2", Name: "Pudding Balls Mangga", Price: 10000, Image: "menu-2.jpg", Category: CategorySpeciality,
		Description: "Pudding creamy berpadu rasa mangga segar, manis, dan menyegarkan."},
	{ID: "menu-3", Name: "CreamChesse Pudding", Price: 12000, Image: "menu-3.jpg", Category: CategorySpeciality,
		Description: "Pudding cream cheese dengan pilihan rasa dan topping.", Customizable: true},
	{ID: "menu-10", Name: "Dimsum Original", Price: 11000, Image: "menu-10.jpg", Category: CategoryExtra,
		Description: "Dimsum ayam original yang lembut dan gurih."},
	{ID: "menu-11", Name: "Dimsum Mentai", Price: 12000, Image: "menu-11.jpg", Category: CategoryExtra,
		Description: "Dimsum dengan saus mentai creamy yang dibakar."},
	{ID: "menu-12", Name: "Dimsum Mentai Spicy", Price: 13000, Image: "menu-12.jpg", Category: CategoryExtra,
		Description: "Dimsum mentai dengan tambahan rasa pedas."},
	{ID: "menu-13", Name: "Dimsum Mentai Chese", Price: 14000, Image: "menu-13.jpg", Category: CategoryExtra,
		Description: "Dimsum mentai dengan lelehan keju."},
}

var variantOptions = Options{
	Flavors:  []string{"Matcha", "Coklat", "Strawberry", "Taro"},
	Toppings: []string{"Oreo", "Keju", "Meses", "Almond"},
}

type Catalog struct {
	items   []Item
	byID    map[string]Item
	options Options
}

// New returns the storefront menu.
func New() *Catalog {
	return NewWith(menu, variantOptions)
}

func NewWith(items []Item, options Options) *Catalog {
	c := &Catalog{
		items:   append([]Item(nil), items...),
		byID:    make(map[string]Item, len(items)),
		options: options,
	}
	for _, it := range items {
		c.byID[it.ID] = it
	}
	return c
}

func (c *Catalog) Find(id string) (Item, error) {
	it, ok := c.byID[id]
	if !ok {
		return Item{}, ErrItemNotFound
	}
	return it, nil
}

func (c *Catalog) All() []Item {
	return append([]Item(nil), c.items...)
}

// ByCategory filters the menu the way the storefront filter buttons do; "all" and
// the empty string return everything.
func (c *Catalog) ByCategory(category string) []Item {
	if category == "" || category == CategoryAll {
		return c.All()
	}

	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

func (c *Catalog) RequiresVariant(id string) bool {
	return c.byID[id].Customizable
}

func (c *Catalog) Options() Options {
	return Options{
		Flavors:  append([]string(nil), c.options.Flavors...),
		Toppings: append([]string(nil), c.options.Toppings...),
	}
}
