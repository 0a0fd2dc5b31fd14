package marketplaceserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	orderhttpmapper "github.com/minglemakers/minglemakers-api/internal/domains/orders/adapters/http/mapper"
	ordertypes "github.com/minglemakers/minglemakers-api/internal/domains/orders/application/types"
	"github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"
	orderports "github.com/minglemakers/minglemakers-api/internal/domains/orders/ports"
	apierrors "github.com/minglemakers/minglemakers-api/internal/shared/errors"
)

// OrdersAPI wires HTTP transport with the orders bounded context service and workflows.
type OrdersAPI struct {
	service   orderports.Service
	workflows orderports.WorkflowOrchestrator
}

// NewOrdersAPI creates an OrdersAPI. workflows may be nil to advance inline.
func NewOrdersAPI(service orderports.Service, workflows orderports.WorkflowOrchestrator) OrdersAPI {
	return OrdersAPI{service: service, workflows: workflows}
}

// IdempotencyKeyHeader lets clients retry an advance without moving the order twice.
const IdempotencyKeyHeader = "Idempotency-Key"

// ListOrdersParams are the query parameters of ListOrders.
type ListOrdersParams struct {
	Status *string `form:"status,omitempty" json:"status,omitempty"`
	Q      *string `form:"q,omitempty" json:"q,omitempty"`
}

// AdvanceOrderStatusParams are the query parameters of AdvanceOrderStatus.
type AdvanceOrderStatusParams struct {
	ExpectedStatus *string `form:"expectedStatus,omitempty" json:"expectedStatus,omitempty"`
}

// Get /v1/orders
// Lists supplier orders, optionally filtered by status and free text
func (api *OrdersAPI) ListOrders(c *gin.Context) {
	var params ListOrdersParams
	query := c.Request.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "status", query, &params.Status); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail("invalid format for parameter status: "+err.Error()))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "q", query, &params.Q); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail("invalid format for parameter q: "+err.Error()))
		return
	}

	filter := ordertypes.ListOrdersFilter{}
	if params.Status != nil && *params.Status != "" && *params.Status != "all" {
		status, err := domain.ParseStatus(*params.Status)
		if err != nil {
			respondProblem(c, apierrors.NewValidationProblem(map[string]string{"status": err.Error()}))
			return
		}
		filter.Status = &status
	}
	if params.Q != nil {
		filter.Text = *params.Q
	}

	orders, err := api.service.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainList(orders))
}

// Get /v1/orders/summary
// Counts orders per status and totals escrow held and released
func (api *OrdersAPI) GetOrdersSummary(c *gin.Context) {
	summary, err := api.service.Summary(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromSummary(summary))
}

// Get /v1/orders/:orderId
// Find order by ID
func (api *OrdersAPI) GetOrder(c *gin.Context) {
	id, ok := bindOrderID(c)
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), ordertypes.OrderIdentifier{ID: id})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomain(order))
}

// Get /v1/orders/:orderId/timeline
// Returns the progress flags of an order
func (api *OrdersAPI) GetOrderTimeline(c *gin.Context) {
	id, ok := bindOrderID(c)
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), ordertypes.OrderIdentifier{ID: id})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromTimeline(order.Timeline()))
}

// Post /v1/orders
// Places a new order in Pending with escrow held
func (api *OrdersAPI) PlaceOrder(c *gin.Context) {
	var payload orderhttpmapper.NewOrder
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	order, err := api.service.PlaceOrder(c.Request.Context(), orderhttpmapper.ToPlaceOrderInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderhttpmapper.FromDomain(order))
}

// Post /v1/orders/:orderId/advance
// Moves an order one step along Pending, Shipped, In Transit, Delivered
func (api *OrdersAPI) AdvanceOrderStatus(c *gin.Context) {
	id, ok := bindOrderID(c)
	if !ok {
		return
	}
	var params AdvanceOrderStatusParams
	if err := runtime.BindQueryParameter("form", true, false, "expectedStatus", c.Request.URL.Query(), &params.ExpectedStatus); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail("invalid format for parameter expectedStatus: "+err.Error()))
		return
	}
	identifier := ordertypes.OrderIdentifier{ID: id, IdempotencyKey: c.GetHeader(IdempotencyKeyHeader)}
	if params.ExpectedStatus != nil && *params.ExpectedStatus != "" {
		expected, err := domain.ParseStatus(*params.ExpectedStatus)
		if err != nil {
			respondProblem(c, apierrors.NewValidationProblem(map[string]string{"expectedStatus": err.Error()}))
			return
		}
		identifier.ExpectedStatus = expected
	}

	order, err := api.advance(c.Request.Context(), identifier)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomain(order))
}

func (api *OrdersAPI) advance(ctx context.Context, id ordertypes.OrderIdentifier) (*domain.Order, error) {
	if api.workflows != nil {
		return api.workflows.AdvanceStatus(ctx, id)
	}
	return api.service.AdvanceStatus(ctx, id)
}

func bindOrderID(c *gin.Context) (string, bool) {
	var orderID string
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", c.Param("orderId"), &orderID, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail("invalid format for parameter orderId: "+err.Error()))
		return "", false
	}
	return orderID, true
}
