package cart

import (
	"strconv"

	"github.com/shopspring/decimal"
)

type Line struct {
	ProductID ProductID
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

func (l Line) Label() string {
	return l.Name + " x " + strconv.Itoa(l.Quantity)
}

func (l Line) LineTotalText() string {
	return l.LineTotal.StringFixed(2)
}

// HiddenField is a checkout form field carrying one cart entry.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Summary struct {
	Lines        []Line
	Total        decimal.Decimal
	HiddenFields []HiddenField
}

func (s Summary) TotalText() string {
	return s.Total.StringFixed(2)
}

// Render builds the order summary and the hidden checkout fields from
// the current quantities. Only positive quantities produce output, in
// catalog order. Render does not mutate the cart.
func (c *Cart) Render() Summary {
	summary := Summary{
		Lines:        []Line{},
		Total:        decimal.Zero,
		HiddenFields: []HiddenField{},
	}
	for _, p := range c.catalog.products {
		qty := c.quantities[p.ID]
		if qty <= 0 {
			continue
		}
		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(qty)))
		summary.Total = summary.Total.Add(lineTotal)
		summary.Lines = append(summary.Lines, Line{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  qty,
			UnitPrice: p.Price,
			LineTotal: lineTotal,
		})
		summary.HiddenFields = append(summary.HiddenFields, HiddenField{
			Name:  FieldName(p.ID),
			Value: strconv.Itoa(qty),
		})
	}
	return summary
}
