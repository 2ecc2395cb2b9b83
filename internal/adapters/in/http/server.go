// Package http exposes the delivery service over REST with Echo.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"deliverydispatch/internal/core/application/usecases/commands"
	"deliverydispatch/internal/core/application/usecases/queries"
	"deliverydispatch/internal/core/domain/model/kernel"
	"deliverydispatch/internal/pkg/errs"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type (
	courierCreator interface {
		Handle(ctx context.Context, cmd commands.CreateCourierCommand) (kernel.UUID, error)
	}

	orderCreator interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (bool, error)
	}

	courierLister interface {
		Handle(ctx context.Context, query queries.GetAllCouriersQuery) ([]queries.CourierResponse, error)
	}

	busyCourierLister interface {
		Handle(ctx context.Context, query queries.GetBusyCouriersQuery) ([]queries.CourierResponse, error)
	}

	orderLister interface {
		Handle(ctx context.Context, query queries.GetUncompletedOrdersQuery) ([]queries.GetUncompletedOrdersQueryResponse, error)
	}
)

// Server handles HTTP requests by delegating to the application use cases.
type Server struct {
	// Command handlers
	createCourierHandler courierCreator
	createOrderHandler   orderCreator

	// Query handlers
	getAllCouriersHandler       courierLister
	getBusyCouriersHandler      busyCourierLister
	getUncompletedOrdersHandler orderLister
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createCourierHandler courierCreator,
	createOrderHandler orderCreator,
	getAllCouriersHandler courierLister,
	getBusyCouriersHandler busyCourierLister,
	getUncompletedOrdersHandler orderLister,
) *Server {
	return &Server{
		createCourierHandler:        createCourierHandler,
		createOrderHandler:          createOrderHandler,
		getAllCouriersHandler:       getAllCouriersHandler,
		getBusyCouriersHandler:      getBusyCouriersHandler,
		getUncompletedOrdersHandler: getUncompletedOrdersHandler,
	}
}

// NewEcho builds the Echo instance with middleware and every route registered.
// HTTP metrics are registered with reg and served, together with everything else
// gathered from reg, at /metrics. Requests under /api/v1 are validated against the
// embedded OpenAPI document, which is also served at /openapi.json and /swagger/.
func NewEcho(s *Server, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*echo.Echo, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	registerSwaggerDoc(doc)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "delivery",
		Subsystem:  "http",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: gatherer,
	}))

	e.GET("/openapi.json", func(c echo.Context) error {
		return c.JSON(http.StatusOK, doc)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/api/v1", requestValidator(doc))
	v1.GET("/couriers", s.GetCouriers)
	v1.POST("/couriers", s.CreateCourier)
	v1.GET("/couriers/busy", s.GetBusyCouriers)
	v1.GET("/orders/active", s.GetOrders)
	v1.POST("/orders", s.CreateOrder)

	return e, nil
}

// GetCouriers handles GET /api/v1/couriers - retrieves all couriers, optionally
// narrowed with ?status=Free or ?status=Busy.
func (s *Server) GetCouriers(ctx echo.Context) error {
	var status *string
	err := runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &status)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: fmt.Sprintf("Invalid format for parameter status: %s", err),
		})
	}

	if status != nil && *status == "Busy" {
		return s.GetBusyCouriers(ctx)
	}

	couriers, err := s.getAllCouriersHandler.Handle(ctx.Request().Context(), queries.NewGetAllCouriersQuery())
	if err != nil {
		ctx.Logger().Errorf("get couriers: %v", err)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve couriers",
		})
	}

	if status != nil {
		couriers = withStatus(couriers, *status)
	}

	return ctx.JSON(http.StatusOK, toCourierResponses(couriers))
}

// GetBusyCouriers handles GET /api/v1/couriers/busy - retrieves couriers carrying an order.
func (s *Server) GetBusyCouriers(ctx echo.Context) error {
	couriers, err := s.getBusyCouriersHandler.Handle(ctx.Request().Context(), queries.NewGetBusyCouriersQuery())
	if err != nil {
		ctx.Logger().Errorf("get busy couriers: %v", err)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve couriers",
		})
	}

	return ctx.JSON(http.StatusOK, toCourierResponses(couriers))
}

// CreateCourier handles POST /api/v1/couriers - hires a courier at a random location.
func (s *Server) CreateCourier(ctx echo.Context) error {
	var req newCourierRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := ctx.Validate(&req); err != nil {
		return unprocessable(ctx, err)
	}

	cmd, err := commands.NewCreateCourierCommand(req.Name, req.Transport)
	if err != nil {
		return unprocessable(ctx, err)
	}

	id, err := s.createCourierHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		ctx.Logger().Errorf("create courier: %v", err)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to create courier",
		})
	}

	return ctx.JSON(http.StatusCreated, createdResponse{ID: id.String()})
}

// CreateOrder handles POST /api/v1/orders - creates an order for a basket.
// Repeating the request for the same basket is answered with 200 and changes nothing.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req newOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := ctx.Validate(&req); err != nil {
		return unprocessable(ctx, err)
	}

	basketID, err := kernel.UUIDFromString(req.BasketID)
	if err != nil {
		return unprocessable(ctx, err)
	}

	cmd, err := commands.NewCreateOrderCommand(basketID, req.Street)
	if err != nil {
		return unprocessable(ctx, err)
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		if errors.Is(err, errs.ErrValueIsOutOfRange) ||
			errors.Is(err, errs.ErrValueIsInvalid) ||
			errors.Is(err, errs.ErrObjectNotFound) {
			return unprocessable(ctx, err)
		}
		ctx.Logger().Errorf("create order: %v", err)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to create order",
		})
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return ctx.JSON(status, createdResponse{ID: basketID.String()})
}

// GetOrders handles GET /api/v1/orders/active - retrieves all uncompleted orders.
func (s *Server) GetOrders(ctx echo.Context) error {
	orders, err := s.getUncompletedOrdersHandler.Handle(ctx.Request().Context(), queries.NewGetUncompletedOrdersQuery())
	if err != nil {
		ctx.Logger().Errorf("get orders: %v", err)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve orders",
		})
	}

	response := make([]orderResponse, len(orders))
	for i, o := range orders {
		response[i] = orderResponse{
			ID:       o.ID.String(),
			Status:   o.Status,
			Location: toLocation(o.Location),
		}
		if o.CourierID != nil {
			courierID := o.CourierID.String()
			response[i].CourierID = &courierID
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

func withStatus(couriers []queries.CourierResponse, status string) []queries.CourierResponse {
	out := make([]queries.CourierResponse, 0, len(couriers))
	for _, c := range couriers {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}

func toCourierResponses(couriers []queries.CourierResponse) []courierResponse {
	response := make([]courierResponse, len(couriers))
	for i, c := range couriers {
		response[i] = courierResponse{
			ID:        c.ID.String(),
			Name:      c.Name,
			Transport: c.Transport,
			Status:    c.Status,
			Location:  toLocation(c.Location),
		}
	}
	return response
}

func toLocation(l kernel.Location) location {
	return location{
		X: int(l.X()),
		Y: int(l.Y()),
	}
}

func unprocessable(ctx echo.Context, err error) error {
	return ctx.JSON(http.StatusUnprocessableEntity, errorResponse{
		Code:    http.StatusUnprocessableEntity,
		Message: err.Error(),
	})
}
