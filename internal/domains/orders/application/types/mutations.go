package types

import "github.com/shopspring/decimal"

// PlaceOrderInput carries what the ordering flow knows about a new order.
// ID is optional; one is generated when empty.
type PlaceOrderInput struct {
	ID       string
	Material string
	Quantity string
	Buyer    string
	Date     string
	ETA      string
	Price    decimal.Decimal
}
