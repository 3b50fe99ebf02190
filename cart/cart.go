// Package cart holds the storefront's ephemeral basket. Amounts are kept in
// paise so totals never drift.
package cart

import "github.com/yeremiapane/digital-menu/utils"

// Item is a menu item being added to the cart.
type Item struct {
	MenuItemID uint
	Name       string
	ImageURL   string
	Price      float64
	Quantity   int
}

type Line struct {
	MenuItemID uint    `json:"menu_item_id"`
	Name       string  `json:"name"`
	ImageURL   string  `json:"image_url"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   int     `json:"quantity"`
	Subtotal   float64 `json:"subtotal"`
}

type line struct {
	id        uint
	name      string
	image     string
	unitPaise int64
	quantity  int
}

// Cart keeps lines in the order they were first added. The zero value is
// an empty cart.
type Cart struct {
	lines []*line
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) find(id uint) (int, *line) {
	for i, l := range c.lines {
		if l.id == id {
			return i, l
		}
	}
	return -1, nil
}

// Add puts item in the cart, or raises the quantity of the existing line
// for the same menu item. A non-positive quantity counts as one.
func (c *Cart) Add(item Item) {
	qty := item.Quantity
	if qty <= 0 {
		qty = 1
	}
	if _, l := c.find(item.MenuItemID); l != nil {
		l.quantity += qty
		return
	}
	c.lines = append(c.lines, &line{
		id:        item.MenuItemID,
		name:      item.Name,
		image:     item.ImageURL,
		unitPaise: utils.ToPaise(item.Price),
		quantity:  qty,
	})
}

// SetQuantity replaces a line's quantity; zero or less removes the line.
// Unknown ids are ignored.
func (c *Cart) SetQuantity(id uint, quantity int) {
	if quantity <= 0 {
		c.Remove(id)
		return
	}
	if _, l := c.find(id); l != nil {
		l.quantity = quantity
	}
}

func (c *Cart) Remove(id uint) {
	i, _ := c.find(id)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Quantity of id in the cart, 0 when absent.
func (c *Cart) Quantity(id uint) int {
	if _, l := c.find(id); l != nil {
		return l.quantity
	}
	return 0
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.quantity
	}
	return n
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, Line{
			MenuItemID: l.id,
			Name:       l.name,
			ImageURL:   l.image,
			UnitPrice:  utils.FromPaise(l.unitPaise),
			Quantity:   l.quantity,
			Subtotal:   utils.FromPaise(l.unitPaise * int64(l.quantity)),
		})
	}
	return out
}

func (c *Cart) TotalPaise() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.unitPaise * int64(l.quantity)
	}
	return total
}

// Total is the sum of price times quantity over every line.
func (c *Cart) Total() float64 {
	return utils.FromPaise(c.TotalPaise())
}
