package cart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrUnknownProduct = errors.New("unknown product")

// ProductID identifies a product in a catalog.
type ProductID string

// Product is the read-only reference data a cart prices its lines with.
type Product struct {
	ID    ProductID
	Name  string
	Price decimal.Decimal
}

// Catalog is an immutable, ordered set of products. The order is the
// order products are shown on the POS page and the order summary lines
// are rendered in.
type Catalog struct {
	products []Product
	index    map[ProductID]int
}

func NewCatalog(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		index:    make(map[ProductID]int, len(products)),
	}
	for _, p := range products {
		if p.ID == "" {
			return nil, errors.New("product id is required")
		}
		if _, ok := c.index[p.ID]; ok {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Lookup(id ProductID) (Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

func (c *Catalog) Len() int {
	return len(c.products)
}

// ParsePrice parses price text such as "$2.50". A single leading
// currency symbol is stripped; anything else must be a plain decimal.
func ParsePrice(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimSpace(strings.TrimPrefix(s, "$"))
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", text, err)
	}
	return price, nil
}
