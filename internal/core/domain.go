package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	CategoryFuel            = "Fuel"
	CategoryMaintenance     = "Maintenance"
	CategoryCustomerExpense = "Customer Expense"
	CategoryOther           = "Other"
)

const (
	TypeProductRent     = "Product Rent"
	TypeProductPurchase = "Product Purchase"
	TypeService         = "Service"
)

var (
	// VehicleTypes lists the selectable vehicle types in form order.
	VehicleTypes = []string{"Car", "Pickup", "Hi-ab", "Bus", "Truck", "Motorcycle", "Other"}

	// Categories lists the expense categories in form order.
	Categories = []string{CategoryFuel, CategoryMaintenance, CategoryCustomerExpense, CategoryOther}

	// FuelTypes lists the fuel types collected for the Fuel category.
	FuelTypes = []string{"Petrol", "Diesel", "Electric"}

	// CustomerExpenseTypes lists the types collected for Customer Expense.
	CustomerExpenseTypes = []string{TypeProductRent, TypeProductPurchase, TypeService}
)

// Expense is one persisted row: a single logged vehicle expense.
// Rows are create-once; there is no update or delete path.
type Expense struct {
	ID             int64
	VehicleType    string
	Category       string
	ProjectNumber  string
	Type           string
	Quantity       decimal.Decimal
	PricePerUnit   decimal.Decimal
	AdditionalCost decimal.Decimal
	ProductName    string
	Vendor         string
	Description    string
	Price          decimal.Decimal
	FilePath       string
	FileData       []byte
}

// FieldValues holds the category-dependent form inputs for one submission.
// Numeric fields default to zero when the form did not collect them.
type FieldValues struct {
	ProjectNumber  string
	Type           string
	ProductName    string
	Quantity       decimal.Decimal
	PricePerUnit   decimal.Decimal
	AdditionalCost decimal.Decimal
	Vendor         string
	Description    string
	Price          decimal.Decimal
}

// ReceiptFileName builds the canonical attachment name:
// {vehicle}_{category}_{type-or-NA}_{price to 3 decimals}_OMR.{ext}
func ReceiptFileName(vehicleType, category, typ string, price decimal.Decimal, ext string) string {
	if strings.TrimSpace(typ) == "" {
		typ = "NA"
	}
	return fmt.Sprintf("%s_%s_%s_%s_OMR.%s", vehicleType, category, typ, price.StringFixed(3), ext)
}
