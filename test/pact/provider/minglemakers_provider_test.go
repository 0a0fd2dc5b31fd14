//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	pacttest "github.com/minglemakers/minglemakers-api/test/pact"

	marketplaceserver "github.com/minglemakers/minglemakers-api/go"
	clusterfixture "github.com/minglemakers/minglemakers-api/internal/domains/clusters/adapters/fixture"
	clustersapp "github.com/minglemakers/minglemakers-api/internal/domains/clusters/application"
	ordersmemory "github.com/minglemakers/minglemakers-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/minglemakers/minglemakers-api/internal/domains/orders/adapters/observability"
	ordersworkflows "github.com/minglemakers/minglemakers-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/minglemakers/minglemakers-api/internal/domains/orders/application"
	orderdomain "github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestMingleMakersProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	seedOne := func(id string, status orderdomain.Status) models.StateHandler {
		return func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetOrders(t)
			if setup {
				app.seedOrder(t, id, status)
			}
			return nil, nil
		}
	}
	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateOrdersBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetOrders(t)
			if setup {
				app.seedOrder(t, pacttest.ShippedOrderID, orderdomain.StatusShipped)
				app.seedOrder(t, pacttest.InTransitOrderID, orderdomain.StatusInTransit)
			}
			return nil, nil
		},
		pacttest.StateOrderShipped:   seedOne(pacttest.ShippedOrderID, orderdomain.StatusShipped),
		pacttest.StateOrderInTransit: seedOne(pacttest.InTransitOrderID, orderdomain.StatusInTransit),
		pacttest.StateOrderDelivered: seedOne(pacttest.DeliveredOrderID, orderdomain.StatusDelivered),
		pacttest.StateOrderMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetOrders(t)
			return nil, nil
		},
		pacttest.StateClusterMembers: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.resetOrders(t)
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	store  *ordersmemory.Store
	server *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	store := ordersmemory.NewStore()
	orderService := ordersobs.New(ordersapp.NewService(store))
	workflows := ordersworkflows.NewInlineOrderWorkflows(orderService)

	directory, err := clusterfixture.Default()
	require.NoError(t, err)

	handlers := marketplaceserver.ApiHandleFunctions{
		OrdersAPI:   marketplaceserver.NewOrdersAPI(orderService, workflows),
		ClustersAPI: marketplaceserver.NewClustersAPI(clustersapp.NewService(directory)),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router = marketplaceserver.NewRouterWithGinEngine(router, handlers)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &contractProviderApp{
		store:  store,
		server: server,
	}
}

func (a *contractProviderApp) resetOrders(t testing.TB) {
	t.Helper()
	require.NoError(t, a.store.Save(context.Background(), nil))
}

func (a *contractProviderApp) seedOrder(t testing.TB, id string, status orderdomain.Status) {
	t.Helper()
	material, quantity, buyer, date, eta := pacttest.ExampleOrder()
	order, err := orderdomain.NewOrder(id, material, quantity, buyer, date, eta, decimal.NewFromInt(12500))
	require.NoError(t, err)
	order.Status = status

	orders, err := a.store.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, a.store.Save(context.Background(), append(orders, order)))
}
