//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "minglemakers-api"
	ConsumerName = "supplier-portal"

	StateOrdersBaseline = "supplier orders baseline"
	StateOrderShipped   = "order ORD-PACT-1 is Shipped"
	StateOrderInTransit = "order ORD-PACT-2 is In Transit"
	StateOrderDelivered = "order ORD-PACT-3 is Delivered"
	StateOrderMissing   = "no order ORD-MISSING"
	StateClusterMembers = "textile cluster members exist"
)

const (
	ShippedOrderID   = "ORD-PACT-1"
	InTransitOrderID = "ORD-PACT-2"
	DeliveredOrderID = "ORD-PACT-3"
	MissingOrderID   = "ORD-MISSING"

	ClusterID = "textiles-weaving"
)

const (
	exampleMaterial = "Organic Clay"
	exampleBuyer    = "Rajesh Kumar"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the supplier portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleOrderPayload provides stable order data for pact interactions.
func ExampleOrderPayload(id, status, escrow string) map[string]any {
	return map[string]any{
		"id":           id,
		"material":     exampleMaterial,
		"quantity":     "500 kg",
		"buyer":        exampleBuyer,
		"date":         "2024-01-15",
		"status":       status,
		"eta":          "2024-01-22",
		"escrowStatus": escrow,
		"price":        12500,
	}
}

// ExampleOrder returns the fields the provider seeds for id in status.
func ExampleOrder() (material, quantity, buyer, date, eta string) {
	return exampleMaterial, "500 kg", exampleBuyer, "2024-01-15", "2024-01-22"
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
