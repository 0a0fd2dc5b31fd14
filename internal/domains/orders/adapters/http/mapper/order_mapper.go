package mapper

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	ordertypes "github.com/minglemakers/minglemakers-api/internal/domains/orders/application/types"
	"github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"
)

// Timeline is the HTTP representation of the progress flags.
type Timeline struct {
	Ordered   bool `json:"ordered"`
	Packed    bool `json:"packed"`
	InTransit bool `json:"inTransit"`
	Delivered bool `json:"delivered"`
}

// Order is the HTTP representation of a supplier order, derived fields included.
type Order struct {
	ID           string      `json:"id"`
	Material     string      `json:"material"`
	Quantity     string      `json:"quantity"`
	Buyer        string      `json:"buyer"`
	Date         string      `json:"date"`
	Status       string      `json:"status"`
	ETA          string      `json:"eta"`
	EscrowStatus string      `json:"escrowStatus"`
	Price        json.Number `json:"price"`
	Timeline     Timeline    `json:"timeline"`
}

// NewOrder is the inbound payload for placing an order.
type NewOrder struct {
	ID       string          `json:"id,omitempty"`
	Material string          `json:"material" binding:"required"`
	Quantity string          `json:"quantity"`
	Buyer    string          `json:"buyer" binding:"required"`
	Date     string          `json:"date"`
	ETA      string          `json:"eta"`
	Price    decimal.Decimal `json:"price"`
}

// Summary is the HTTP representation of the order book summary.
type Summary struct {
	Counts        map[string]int `json:"counts"`
	HeldValue     json.Number    `json:"heldValue"`
	ReleasedValue json.Number    `json:"releasedValue"`
}

// FromDomain converts an order into its transport shape.
func FromDomain(order *domain.Order) Order {
	if order == nil {
		return Order{}
	}
	return Order{
		ID:           order.ID,
		Material:     order.Material,
		Quantity:     order.Quantity,
		Buyer:        order.Buyer,
		Date:         order.Date,
		Status:       order.Status.String(),
		ETA:          order.ETA,
		EscrowStatus: string(order.Escrow()),
		Price:        json.Number(order.Price.String()),
		Timeline:     FromTimeline(order.Timeline()),
	}
}

// FromDomainList converts a slice, never returning nil.
func FromDomainList(orders []*domain.Order) []Order {
	result := make([]Order, 0, len(orders))
	for _, order := range orders {
		if order == nil {
			continue
		}
		result = append(result, FromDomain(order))
	}
	return result
}

// FromTimeline converts the progress flags.
func FromTimeline(t domain.Timeline) Timeline {
	return Timeline{Ordered: t.Ordered, Packed: t.Packed, InTransit: t.InTransit, Delivered: t.Delivered}
}

// ToPlaceOrderInput maps the inbound payload to the application command.
func ToPlaceOrderInput(payload NewOrder) ordertypes.PlaceOrderInput {
	return ordertypes.PlaceOrderInput{
		ID:       payload.ID,
		Material: payload.Material,
		Quantity: payload.Quantity,
		Buyer:    payload.Buyer,
		Date:     payload.Date,
		ETA:      payload.ETA,
		Price:    payload.Price,
	}
}

// FromSummary converts the summary, listing every status even when zero.
func FromSummary(summary *ordertypes.Summary) Summary {
	out := Summary{Counts: make(map[string]int, len(domain.Statuses())), HeldValue: "0", ReleasedValue: "0"}
	for _, status := range domain.Statuses() {
		out.Counts[status.String()] = 0
	}
	if summary == nil {
		return out
	}
	for status, count := range summary.Counts {
		out.Counts[status.String()] = count
	}
	out.HeldValue = json.Number(summary.HeldValue.String())
	out.ReleasedValue = json.Number(summary.ReleasedValue.String())
	return out
}
