package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/app"
	"backoffice/internal/config"
	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
	"backoffice/internal/core/types"
	"backoffice/internal/domain/catalogs/product"
	v1 "backoffice/internal/infrastructure/http/v1"
	"backoffice/internal/infrastructure/metrics"
	"backoffice/internal/infrastructure/storage/memory"
	"backoffice/pkg/logger"
)

type server struct {
	store   *memory.Store
	handler http.Handler
}

func newServer(t *testing.T) *server {
	t.Helper()
	store := memory.NewStore()
	svc, err := app.NewServices(app.NewMemoryBackend(store, logger.NewNop()), config.BusinessConfig{
		DefaultTaxRate:     decimal.NewFromInt(21),
		DefaultLocation:    "main",
		DefaultInvoiceType: "B",
		DefaultPointOfSale: 1,
	})
	require.NoError(t, err)

	return &server{
		store: store,
		handler: v1.NewRouter(v1.RouterConfig{
			Logger:     logger.NewNop(),
			Metrics:    metrics.New(),
			Storage:    config.StorageMemory,
			Orders:     svc.Orders,
			Invoices:   svc.Invoices,
			Returns:    svc.Returns,
			Receptions: svc.Receptions,
			Inventory:  svc.Inventory,
		}),
	}
}

func (s *server) product(t *testing.T, price string, stock int64) id.ID {
	t.Helper()
	m := types.MustMoney(price)
	p := product.Product{Base: entity.NewBase(), SKU: "SKU-1", Name: "Widget", SalePrice: &m}
	s.store.Products().Put(context.Background(), p)
	if stock > 0 {
		_, err := s.store.Inventory().AddQuantity(context.Background(), p.ID, "main", stock)
		require.NoError(t, err)
	}
	return p.ID
}

func (s *server) do(t *testing.T, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestHealth(t *testing.T) {
	s := newServer(t)

	rec, body := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "memory", body["storage"])

	rec, _ = s.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestOrderLifecycleAndInvoice(t *testing.T) {
	s := newServer(t)
	pid := s.product(t, "100.00", 5)

	rec, created := s.do(t, http.MethodPost, "/api/v1/orders", map[string]any{
		"customerName": "Ana",
		"total":        "1.00",
		"items":        []map[string]any{{"productId": pid, "quantity": 2}},
	}, "X-User-ID", "clerk-7")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "200", created["totalAmount"])
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, int64(3), s.store.Inventory().StockAt(context.Background(), pid, "main"))

	movements := s.store.Inventory().Movements(context.Background())
	require.Len(t, movements, 1)
	assert.Equal(t, "clerk-7", movements[0].PerformedBy)

	orderID := created["id"].(string)
	rec, moved := s.do(t, http.MethodPost, "/api/v1/orders/"+orderID+"/status", map[string]any{"status": "confirmed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "picking", moved["status"])

	rec, inv := s.do(t, http.MethodPost, "/api/v1/orders/"+orderID+"/invoice", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "B-0001-00000001", inv["displayNumber"])
	assert.Equal(t, "200", inv["netAmount"])
	assert.Equal(t, "42", inv["vatAmount"])
	assert.Equal(t, "242", inv["totalAmount"])

	rec, again := s.do(t, http.MethodPost, "/api/v1/orders/"+orderID+"/invoice", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ORDER_ALREADY_INVOICED", again["code"])

	rec, got := s.do(t, http.MethodGet, "/api/v1/orders/"+orderID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, inv["id"], got["invoiceId"])
}

func TestErrorShape(t *testing.T) {
	s := newServer(t)
	pid := s.product(t, "10.00", 1)

	rec, body := s.do(t, http.MethodPost, "/api/v1/orders", map[string]any{
		"customerName": "Bob",
		"items":        []map[string]any{{"productId": pid, "quantity": 3}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	assert.NotEmpty(t, body["message"])
	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), details["requested"])
	assert.Equal(t, float64(1), details["available"])
	assert.Equal(t, int64(1), s.store.Inventory().StockAt(context.Background(), pid, "main"))

	rec, body = s.do(t, http.MethodGet, "/api/v1/orders/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])

	rec, body = s.do(t, http.MethodGet, "/api/v1/orders/"+id.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", body["code"])
}

func TestInvalidTransition(t *testing.T) {
	s := newServer(t)
	pid := s.product(t, "10.00", 1)

	_, created := s.do(t, http.MethodPost, "/api/v1/orders", map[string]any{
		"items": []map[string]any{{"productId": pid, "quantity": 1}},
	})
	orderID := created["id"].(string)

	rec, body := s.do(t, http.MethodPost, "/api/v1/orders/"+orderID+"/status", map[string]any{"status": "delivered"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INVALID_ORDER_TRANSITION", body["code"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newServer(t)
	pid := s.product(t, "10.00", 1)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/orders", map[string]any{
		"items": []map[string]any{{"productId": pid, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `backoffice_documents_total{kind="order"} 1`)
	assert.Contains(t, rec.Body.String(), `route="/api/v1/orders"`)
}

func TestManualRestock(t *testing.T) {
	s := newServer(t)
	productID := s.product(t, "10", 3)
	path := "/api/v1/inventory/" + productID.String()

	rec, body := s.do(t, http.MethodPost, path+"/restock",
		map[string]any{"quantity": 4, "location": "backroom", "reason": "count"},
		"X-User-ID", "clerk-2")
	require.Equal(t, http.StatusOK, rec.Code, body)
	assert.Equal(t, "backroom", body["location"])
	assert.EqualValues(t, 4, body["quantity"])

	rec, body = s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 7, body["total"])

	rec, body = s.do(t, http.MethodPost, path+"/restock", map[string]any{"quantity": -2})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_QUANTITY", body["code"])
}
