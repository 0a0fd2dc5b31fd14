package types

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"
)

// ListOrdersFilter narrows ListOrders. Zero values match everything.
type ListOrdersFilter struct {
	Status *domain.Status
	Text   string
}

// Matches reports whether the order passes the status and free-text filters.
// Text is matched case-insensitively against material and buyer.
func (f ListOrdersFilter) Matches(order *domain.Order) bool {
	if order == nil {
		return false
	}
	if f.Status != nil && order.Status != *f.Status {
		return false
	}
	needle := strings.ToLower(strings.TrimSpace(f.Text))
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(order.Material), needle) ||
		strings.Contains(strings.ToLower(order.Buyer), needle)
}

// OrderIdentifier references an order by its aggregate ID.
// ExpectedStatus, when set, guards AdvanceStatus: the advance only applies if the
// order is still in that status. IdempotencyKey names one logical advance request;
// repeats with the same key are answered once.
type OrderIdentifier struct {
	ID             string
	ExpectedStatus domain.Status `json:",omitempty"`
	IdempotencyKey string        `json:",omitempty"`
}

// Summary aggregates the order book by status and escrow state.
type Summary struct {
	Counts        map[domain.Status]int
	HeldValue     decimal.Decimal
	ReleasedValue decimal.Decimal
}
