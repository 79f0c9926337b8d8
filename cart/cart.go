package cart

import (
	"strconv"
	"strings"
)

// Cart holds the selected quantity of every product in its catalog.
// A Cart is not safe for concurrent use; owners serialize access.
type Cart struct {
	catalog    *Catalog
	quantities map[ProductID]int
}

// New returns a cart with every catalog product at quantity zero.
func New(catalog *Catalog) *Cart {
	c := &Cart{
		catalog:    catalog,
		quantities: make(map[ProductID]int, catalog.Len()),
	}
	c.Reset()
	return c
}

func (c *Cart) Catalog() *Catalog {
	return c.catalog
}

// SetQuantity replaces the quantity of id with the integer parsed from
// raw. Input that does not start with an integer counts as zero.
func (c *Cart) SetQuantity(id ProductID, raw string) error {
	return c.Set(id, ParseQuantity(raw))
}

func (c *Cart) Set(id ProductID, qty int) error {
	if _, ok := c.quantities[id]; !ok {
		return ErrUnknownProduct
	}
	c.quantities[id] = qty
	return nil
}

func (c *Cart) Quantity(id ProductID) int {
	return c.quantities[id]
}

// Rebase moves the cart onto catalog. Quantities of products still in
// the catalog are kept; products no longer in it are dropped and new
// ones start at zero.
func (c *Cart) Rebase(catalog *Catalog) {
	quantities := make(map[ProductID]int, catalog.Len())
	for _, p := range catalog.products {
		quantities[p.ID] = c.quantities[p.ID]
	}
	c.catalog = catalog
	c.quantities = quantities
}

func (c *Cart) Reset() {
	for _, p := range c.catalog.products {
		c.quantities[p.ID] = 0
	}
}

// ParseQuantity reads the leading integer of raw: optional surrounding
// whitespace, an optional sign, then digits. Anything after the digits
// is ignored. No digits, or a value that overflows int, gives 0.
func ParseQuantity(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
