package mapper

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordertypes "github.com/minglemakers/minglemakers-api/internal/domains/orders/application/types"
	"github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"
)

func TestFromDomain_IncludesDerivedFields(t *testing.T) {
	order, err := domain.NewOrder("ORD-2024-002", "Natural Dyes", "50 liters", "Lakshmi Devi", "2024-01-12", "2024-01-18", decimal.RequireFromString("8750.25"))
	require.NoError(t, err)
	order.Status = domain.StatusDelivered

	raw, err := json.Marshal(FromDomain(order))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id":"ORD-2024-002","material":"Natural Dyes","quantity":"50 liters","buyer":"Lakshmi Devi",
		"date":"2024-01-12","status":"Delivered","eta":"2024-01-18","escrowStatus":"Released",
		"price":8750.25,
		"timeline":{"ordered":true,"packed":true,"inTransit":true,"delivered":true}
	}`, string(raw))
}

func TestNewOrder_AcceptsNumericOrStringPrice(t *testing.T) {
	for _, body := range []string{
		`{"material":"Clay","buyer":"Rajesh","price":12500.5}`,
		`{"material":"Clay","buyer":"Rajesh","price":"12500.5"}`,
	} {
		var payload NewOrder
		require.NoError(t, json.Unmarshal([]byte(body), &payload))
		input := ToPlaceOrderInput(payload)
		assert.True(t, input.Price.Equal(decimal.RequireFromString("12500.5")), body)
	}
}

func TestFromSummary_ListsEveryStatus(t *testing.T) {
	out := FromSummary(&ordertypes.Summary{
		Counts:        map[domain.Status]int{domain.StatusPending: 2},
		HeldValue:     decimal.NewFromInt(300),
		ReleasedValue: decimal.Zero,
	})

	assert.Equal(t, map[string]int{"Pending": 2, "Shipped": 0, "In Transit": 0, "Delivered": 0}, out.Counts)
	assert.Equal(t, json.Number("300"), out.HeldValue)
	assert.Equal(t, json.Number("0"), out.ReleasedValue)

	assert.Len(t, FromSummary(nil).Counts, 4)
	assert.Empty(t, FromDomainList(nil))
}
