package marketplaceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI, relative to the /v1 group.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the API handlers by tag.
type ApiHandleFunctions struct {
	// Routes for the orders part of the API
	OrdersAPI OrdersAPI
	// Routes for the clusters part of the API
	ClustersAPI ClustersAPI
}

// NewRouter returns a new router with the API routes registered.
// middleware runs on the /v1 group only, so health checks stay unauthenticated.
func NewRouter(handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions, middleware...)
}

// NewRouterWithGinEngine registers the API routes on an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	router.GET("/healthz", Healthz)

	group := router.Group("/v1", middleware...)
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			group.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			group.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			group.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			group.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			group.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes that have no handler wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// Healthz reports process liveness.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"ListOrders",
			http.MethodGet,
			"/orders",
			handleFunctions.OrdersAPI.ListOrders,
		},
		{
			"GetOrdersSummary",
			http.MethodGet,
			"/orders/summary",
			handleFunctions.OrdersAPI.GetOrdersSummary,
		},
		{
			"GetOrder",
			http.MethodGet,
			"/orders/:orderId",
			handleFunctions.OrdersAPI.GetOrder,
		},
		{
			"GetOrderTimeline",
			http.MethodGet,
			"/orders/:orderId/timeline",
			handleFunctions.OrdersAPI.GetOrderTimeline,
		},
		{
			"PlaceOrder",
			http.MethodPost,
			"/orders",
			handleFunctions.OrdersAPI.PlaceOrder,
		},
		{
			"AdvanceOrderStatus",
			http.MethodPost,
			"/orders/:orderId/advance",
			handleFunctions.OrdersAPI.AdvanceOrderStatus,
		},
		{
			"ListNearbyClusterMembers",
			http.MethodGet,
			"/clusters/:clusterId/members",
			handleFunctions.ClustersAPI.ListNearbyMembers,
		},
	}
}
