package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"deliverydispatch/internal/core/application/usecases/commands"
	"deliverydispatch/internal/core/application/usecases/queries"
	"deliverydispatch/internal/core/domain/model/kernel"
	"deliverydispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCourierCreator struct{ mock.Mock }

func (m *MockCourierCreator) Handle(ctx context.Context, cmd commands.CreateCourierCommand) (kernel.UUID, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(kernel.UUID), args.Error(1)
}

type MockOrderCreator struct{ mock.Mock }

func (m *MockOrderCreator) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (bool, error) {
	args := m.Called(ctx, cmd)
	return args.Bool(0), args.Error(1)
}

type MockCourierLister struct{ mock.Mock }

func (m *MockCourierLister) Handle(ctx context.Context, query queries.GetAllCouriersQuery) ([]queries.CourierResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queries.CourierResponse), args.Error(1)
}

type MockBusyCourierLister struct{ mock.Mock }

func (m *MockBusyCourierLister) Handle(ctx context.Context, query queries.GetBusyCouriersQuery) ([]queries.CourierResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queries.CourierResponse), args.Error(1)
}

type MockOrderLister struct{ mock.Mock }

func (m *MockOrderLister) Handle(
	ctx context.Context,
	query queries.GetUncompletedOrdersQuery,
) ([]queries.GetUncompletedOrdersQueryResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queries.GetUncompletedOrdersQueryResponse), args.Error(1)
}

type fixture struct {
	e             *echo.Echo
	createCourier *MockCourierCreator
	createOrder   *MockOrderCreator
	listCouriers  *MockCourierLister
	listBusy      *MockBusyCourierLister
	listOrders    *MockOrderLister
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		createCourier: &MockCourierCreator{},
		createOrder:   &MockOrderCreator{},
		listCouriers:  &MockCourierLister{},
		listBusy:      &MockBusyCourierLister{},
		listOrders:    &MockOrderLister{},
	}
	reg := prometheus.NewRegistry()
	e, err := NewEcho(NewServer(f.createCourier, f.createOrder, f.listCouriers, f.listBusy, f.listOrders), reg, reg)
	require.NoError(t, err)
	f.e = e

	t.Cleanup(func() {
		f.createCourier.AssertExpectations(t)
		f.createOrder.AssertExpectations(t)
		f.listCouriers.AssertExpectations(t)
		f.listBusy.AssertExpectations(t)
		f.listOrders.AssertExpectations(t)
	})
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func mustLocation(t *testing.T, x, y kernel.Coordinate) kernel.Location {
	t.Helper()
	l, err := kernel.NewLocation(x, y)
	require.NoError(t, err)
	return l
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestMetrics_ExposesHTTPRequests(t *testing.T) {
	f := newFixture(t)
	f.do(http.MethodGet, "/health", "")

	rec := f.do(http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "delivery_http_requests_total")
}

func TestGetCouriers(t *testing.T) {
	t.Run("returns couriers", func(t *testing.T) {
		f := newFixture(t)
		id := kernel.NewUUID()
		f.listCouriers.On("Handle", mock.Anything, mock.Anything).Return([]queries.CourierResponse{{
			ID:        id,
			Name:      "Ivan",
			Transport: "car",
			Status:    "Free",
			Location:  mustLocation(t, 3, 7),
		}}, nil).Once()

		rec := f.do(http.MethodGet, "/api/v1/couriers", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var body []courierResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Equal(t, id.String(), body[0].ID)
		assert.Equal(t, "Ivan", body[0].Name)
		assert.Equal(t, location{X: 3, Y: 7}, body[0].Location)
	})

	t.Run("returns empty array when there are no couriers", func(t *testing.T) {
		f := newFixture(t)
		f.listCouriers.On("Handle", mock.Anything, mock.Anything).Return([]queries.CourierResponse{}, nil).Once()

		rec := f.do(http.MethodGet, "/api/v1/couriers", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("query failure is a 500", func(t *testing.T) {
		f := newFixture(t)
		f.listCouriers.On("Handle", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

		rec := f.do(http.MethodGet, "/api/v1/couriers", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestGetCouriers_StatusFilter(t *testing.T) {
	t.Run("Free keeps only free couriers", func(t *testing.T) {
		f := newFixture(t)
		f.listCouriers.On("Handle", mock.Anything, mock.Anything).Return([]queries.CourierResponse{
			{ID: kernel.NewUUID(), Name: "Anna", Transport: "car", Status: "Busy", Location: mustLocation(t, 1, 2)},
			{ID: kernel.NewUUID(), Name: "Ivan", Transport: "car", Status: "Free", Location: mustLocation(t, 3, 4)},
		}, nil).Once()

		rec := f.do(http.MethodGet, "/api/v1/couriers?status=Free", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var body []courierResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Equal(t, "Ivan", body[0].Name)
	})

	t.Run("Busy uses the busy couriers query", func(t *testing.T) {
		f := newFixture(t)
		f.listBusy.On("Handle", mock.Anything, mock.Anything).Return([]queries.CourierResponse{}, nil).Once()

		rec := f.do(http.MethodGet, "/api/v1/couriers?status=Busy", "")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown status violates the schema", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodGet, "/api/v1/couriers?status=Lost", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOpenAPIDocument(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/openapi.json", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var doc struct {
		Paths map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	for _, path := range []string{
		"/health", "/metrics", "/api/v1/couriers", "/api/v1/couriers/busy", "/api/v1/orders", "/api/v1/orders/active",
	} {
		assert.Contains(t, doc.Paths, path)
	}
}

func TestSwaggerDocJSON(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/swagger/doc.json", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/v1/orders/active")
}

func TestGetBusyCouriers(t *testing.T) {
	f := newFixture(t)
	f.listBusy.On("Handle", mock.Anything, mock.Anything).Return([]queries.CourierResponse{{
		ID:        kernel.NewUUID(),
		Name:      "Olga",
		Transport: "pedestrian",
		Status:    "Busy",
		Location:  mustLocation(t, 5, 5),
	}}, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/couriers/busy", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body []courierResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "Busy", body[0].Status)
}

func TestCreateCourier(t *testing.T) {
	t.Run("creates courier", func(t *testing.T) {
		f := newFixture(t)
		id := kernel.NewUUID()
		f.createCourier.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateCourierCommand) bool {
			return cmd.Name() == "Ivan" && cmd.Transport().Name() == "bicycle"
		})).Return(id, nil).Once()

		rec := f.do(http.MethodPost, "/api/v1/couriers", `{"name":"Ivan","transport":"Bicycle"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"id":"`+id.String()+`"}`, rec.Body.String())
	})

	t.Run("missing name violates the schema", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/couriers", `{"transport":"car"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, errorMessage(t, rec), "name")
	})

	t.Run("body without content type is rejected", func(t *testing.T) {
		f := newFixture(t)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/couriers", strings.NewReader(`{"name":"Ivan","transport":"car"}`))
		rec := httptest.NewRecorder()

		f.e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown transport is a 422", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/couriers", `{"name":"Ivan","transport":"rocket"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/couriers", `{"name":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCreateOrder(t *testing.T) {
	basketID := kernel.NewUUID()
	body := `{"basketId":"` + basketID.String() + `","street":"Arbat"}`

	t.Run("new basket is a 201", func(t *testing.T) {
		f := newFixture(t)
		f.createOrder.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrderCommand) bool {
			return cmd.BasketID().IsEqual(basketID) && cmd.Street() == "Arbat"
		})).Return(true, nil).Once()

		rec := f.do(http.MethodPost, "/api/v1/orders", body)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"id":"`+basketID.String()+`"}`, rec.Body.String())
	})

	t.Run("repeated basket is a 200", func(t *testing.T) {
		f := newFixture(t)
		f.createOrder.On("Handle", mock.Anything, mock.Anything).Return(false, nil).Once()

		rec := f.do(http.MethodPost, "/api/v1/orders", body)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid basket id is a 422", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/orders", `{"basketId":"nope","street":"Arbat"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "basketid must be a UUID")
	})

	t.Run("unknown street is a 422", func(t *testing.T) {
		f := newFixture(t)
		f.createOrder.On("Handle", mock.Anything, mock.Anything).
			Return(false, fmt.Errorf("resolve street: %w", errs.NewObjectNotFoundError("street", "Arbat"))).Once()

		rec := f.do(http.MethodPost, "/api/v1/orders", body)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("missing street violates the schema", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/orders", `{"basketId":"`+basketID.String()+`"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("handler failure is a 500", func(t *testing.T) {
		f := newFixture(t)
		f.createOrder.On("Handle", mock.Anything, mock.Anything).Return(false, errors.New("geo unavailable")).Once()

		rec := f.do(http.MethodPost, "/api/v1/orders", body)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestGetOrders(t *testing.T) {
	f := newFixture(t)
	assigned := kernel.NewUUID()
	courierID := kernel.NewUUID()
	created := kernel.NewUUID()
	f.listOrders.On("Handle", mock.Anything, mock.Anything).Return([]queries.GetUncompletedOrdersQueryResponse{
		{ID: created, Status: "Created", Location: mustLocation(t, 1, 1)},
		{ID: assigned, Status: "Assigned", CourierID: &courierID, Location: mustLocation(t, 10, 10)},
	}, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/orders/active", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body []orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Nil(t, body[0].CourierID)
	require.NotNil(t, body[1].CourierID)
	assert.Equal(t, courierID.String(), *body[1].CourierID)
	assert.Equal(t, location{X: 10, Y: 10}, body[1].Location)
}
