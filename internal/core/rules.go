// Package core holds the expense domain: record types, the
// category-dependent field rules, price computation and validation.
package core

import "github.com/shopspring/decimal"

// Canonical field names, used in validation messages and form inputs.
const (
	FieldProjectNumber = "project_number"
	FieldType          = "type"
	FieldProductName   = "product_name"
	FieldQuantity      = "quantity"
	FieldPricePerUnit  = "price_per_unit"
	FieldVendor        = "vendor"
	FieldDescription   = "description"
	FieldPrice         = "price"
)

// RequiredFields returns the ordered set of fields the form must collect
// for a category. For Customer Expense the set depends on the expense type:
// Product Rent and Product Purchase additionally need product name,
// quantity and price per unit.
func RequiredFields(category, typ string) []string {
	required := []string{FieldPrice}
	switch category {
	case CategoryFuel:
		required = append(required, FieldType, FieldQuantity, FieldPricePerUnit)
	case CategoryCustomerExpense:
		required = append(required, FieldProjectNumber, FieldType)
		if typ == TypeProductRent || typ == TypeProductPurchase {
			required = append(required, FieldProductName, FieldQuantity, FieldPricePerUnit)
		}
	}
	return append(required, FieldVendor, FieldDescription)
}

// PriceComputed reports whether the total price is derived from
// quantity and unit price rather than entered by the user.
func PriceComputed(category, typ string) bool {
	switch category {
	case CategoryFuel:
		return true
	case CategoryCustomerExpense:
		return typ == TypeProductRent || typ == TypeProductPurchase
	}
	return false
}

// ComputePrice derives the total price: quantity * pricePerUnit +
// additionalCost, rounded half-up to 3 decimal places.
func ComputePrice(quantity, pricePerUnit, additionalCost decimal.Decimal) decimal.Decimal {
	return quantity.Mul(pricePerUnit).Add(additionalCost).Round(3)
}
