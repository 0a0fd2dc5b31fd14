package fixture

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"
)

//go:embed orders.json
var defaultOrders []byte

// document mirrors the catalog file. escrowStatus and timeline are accepted for
// compatibility with existing fixtures but recomputed from status.
type document struct {
	Orders []orderEntry `json:"orders"`
}

type orderEntry struct {
	ID           string          `json:"id"`
	Material     string          `json:"material"`
	Quantity     string          `json:"quantity"`
	Buyer        string          `json:"buyer"`
	Date         string          `json:"date"`
	Status       string          `json:"status"`
	ETA          string          `json:"eta"`
	EscrowStatus string          `json:"escrowStatus,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Timeline     json.RawMessage `json:"timeline,omitempty"`
}

// Default returns the bundled seed orders.
func Default() ([]*domain.Order, error) {
	return Decode(bytes.NewReader(defaultOrders))
}

// LoadFile reads seed orders from path, falling back to the bundled file when path is empty.
func LoadFile(path string) ([]*domain.Order, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open order fixture: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a fixture document. Unknown statuses are rejected.
func Decode(r io.Reader) ([]*domain.Order, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode order fixture: %w", err)
	}
	orders := make([]*domain.Order, 0, len(doc.Orders))
	for _, entry := range doc.Orders {
		status, err := domain.ParseStatus(entry.Status)
		if err != nil {
			return nil, fmt.Errorf("fixture order %s: %w", entry.ID, err)
		}
		order := &domain.Order{
			ID:       entry.ID,
			Material: entry.Material,
			Quantity: entry.Quantity,
			Buyer:    entry.Buyer,
			Date:     entry.Date,
			Status:   status,
			ETA:      entry.ETA,
			Price:    entry.Price,
		}
		if err := order.Validate(); err != nil {
			return nil, fmt.Errorf("fixture order %s: %w", entry.ID, err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}
