package cart

import "strings"

// FieldPrefix is the form field prefix for product quantities. Both the
// quantity inputs and the hidden checkout fields use it.
const FieldPrefix = "product_"

func FieldName(id ProductID) string {
	return FieldPrefix + string(id)
}

// ParseFieldName returns the product id encoded in a form field name.
func ParseFieldName(name string) (ProductID, bool) {
	id, ok := strings.CutPrefix(name, FieldPrefix)
	if !ok || id == "" {
		return "", false
	}
	return ProductID(id), true
}
