package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"warungpos/backend/internal/domain"
	"warungpos/backend/internal/service"
	"warungpos/backend/internal/store/memory"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	svc := service.New(memory.New(), zap.NewNop())
	if err := svc.SeedDemoIfEmpty(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	api := New(svc, "http://127.0.0.1:3000", zap.NewNop())
	return api.Handler()
}

func doJSON(t *testing.T, handler http.Handler, method string, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dest); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	handler := newTestHandler(t)
	rec := doJSON(t, handler, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMaterialLifecycle(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/materials", domain.MaterialCreateRequest{
		Name: "Gula", Unit: "gram", StockQuantity: 500, MinStock: 100,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Material domain.RawMaterial `json:"material"`
	}
	decodeBody(t, rec, &created)
	if created.Material.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/materials?q=gul", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("search failed: %d", rec.Code)
	}
	var listed struct {
		Materials []domain.RawMaterial `json:"materials"`
	}
	decodeBody(t, rec, &listed)
	if len(listed.Materials) != 1 {
		t.Fatalf("expected one match, got %d", len(listed.Materials))
	}

	rec = doJSON(t, handler, http.MethodPut, fmt.Sprintf("/api/v1/materials/%d/stock", created.Material.ID), map[string]any{"quantity": 50.0})
	if rec.Code != http.StatusOK {
		t.Fatalf("set stock failed: %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/materials/low-stock", nil)
	var low struct {
		Materials []domain.RawMaterial `json:"materials"`
	}
	decodeBody(t, rec, &low)
	found := false
	for _, m := range low.Materials {
		if m.ID == created.Material.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected material below threshold in low-stock list, got %+v", low.Materials)
	}

	rec = doJSON(t, handler, http.MethodDelete, fmt.Sprintf("/api/v1/materials/%d", created.Material.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete failed: %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/v1/materials/%d", created.Material.ID), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func seededProductID(t *testing.T, handler http.Handler, name string) uint64 {
	t.Helper()
	rec := doJSON(t, handler, http.MethodGet, "/api/v1/products", nil)
	var listed struct {
		Products []domain.Product `json:"products"`
	}
	decodeBody(t, rec, &listed)
	for _, p := range listed.Products {
		if p.Name == name {
			return p.ID
		}
	}
	t.Fatalf("seeded product %q not found", name)
	return 0
}

func TestTransactionFlow(t *testing.T) {
	handler := newTestHandler(t)
	nasiAyam := seededProductID(t, handler, "Nasi Ayam")

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/transactions", domain.CheckoutRequest{
		Items:         []domain.CartLine{{ProductID: nasiAyam, Quantity: 2}},
		PaymentMethod: "cash",
		CashierName:   "Sari",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create pending failed: %d: %s", rec.Code, rec.Body.String())
	}
	var created domain.CheckoutResponse
	decodeBody(t, rec, &created)
	if created.Status != domain.TxStatusPending || created.TotalAmount != 40000 {
		t.Fatalf("unexpected checkout response: %+v", created)
	}

	payPath := fmt.Sprintf("/api/v1/transactions/%d/pay", created.TransactionID)
	if rec = doJSON(t, handler, http.MethodPost, payPath, nil); rec.Code != http.StatusOK {
		t.Fatalf("pay failed: %d: %s", rec.Code, rec.Body.String())
	}
	// Paying again is invalid, not idempotent.
	if rec = doJSON(t, handler, http.MethodPost, payPath, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on double pay, got %d", rec.Code)
	}
	cancelPath := fmt.Sprintf("/api/v1/transactions/%d/cancel", created.TransactionID)
	if rec = doJSON(t, handler, http.MethodPost, cancelPath, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 canceling a paid transaction, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/v1/transactions/%d", created.TransactionID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get transaction failed: %d", rec.Code)
	}
	var detail domain.TransactionDetail
	decodeBody(t, rec, &detail)
	if detail.Transaction.Status != domain.TxStatusPaid || len(detail.Items) != 1 {
		t.Fatalf("unexpected detail: %+v", detail)
	}
}

func TestInsufficientStockIsConflict(t *testing.T) {
	handler := newTestHandler(t)
	nasiAyam := seededProductID(t, handler, "Nasi Ayam")

	// Seeded rice covers 33 portions at 150g from 5000g; 40 cannot be paid.
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/transactions", domain.CheckoutRequest{
		Items:       []domain.CartLine{{ProductID: nasiAyam, Quantity: 40}},
		CashierName: "Sari",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create pending failed: %d", rec.Code)
	}
	var created domain.CheckoutResponse
	decodeBody(t, rec, &created)

	rec = doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/transactions/%d/pay", created.TransactionID), nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, rec, &body)
	if body.Error == "" {
		t.Fatalf("expected itemized shortfall message")
	}
}

func TestProductAvailabilityEndpoint(t *testing.T) {
	handler := newTestHandler(t)
	nasiAyam := seededProductID(t, handler, "Nasi Ayam")

	rec := doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/v1/products/%d/availability", nasiAyam), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("availability failed: %d", rec.Code)
	}
	var result domain.AvailabilityResult
	decodeBody(t, rec, &result)
	if !result.OK {
		t.Fatalf("expected seeded Nasi Ayam available, got %+v", result)
	}
}

func TestProductMaterialEndpoints(t *testing.T) {
	handler := newTestHandler(t)
	esTeh := seededProductID(t, handler, "Es Teh")

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/materials", domain.MaterialCreateRequest{
		Name: "Teh", Unit: "gram", StockQuantity: 100,
	})
	var created struct {
		Material domain.RawMaterial `json:"material"`
	}
	decodeBody(t, rec, &created)

	rec = doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/products/%d/materials", esTeh), domain.MaterialRequirement{
		MaterialID: created.Material.ID, QuantityNeeded: 5,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("upsert failed: %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/v1/products/%d/materials", esTeh), nil)
	var details struct {
		Materials []domain.ProductMaterialDetail `json:"materials"`
	}
	decodeBody(t, rec, &details)
	if len(details.Materials) != 1 || details.Materials[0].Name != "Teh" {
		t.Fatalf("unexpected requirements: %+v", details.Materials)
	}

	rec = doJSON(t, handler, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d/materials/%d", esTeh, created.Material.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove failed: %d", rec.Code)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/reports/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard failed: %d", rec.Code)
	}
	var report domain.DashboardReport
	decodeBody(t, rec, &report)
	if report.Daily.Sales != 0 {
		t.Fatalf("expected zero sales on fresh store, got %d", report.Daily.Sales)
	}
}

func TestReevaluateEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/availability/reevaluate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reevaluate failed: %d", rec.Code)
	}
}

func TestErrorStatuses(t *testing.T) {
	handler := newTestHandler(t)

	if rec := doJSON(t, handler, http.MethodGet, "/api/v1/products/99999", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", rec.Code)
	}
	if rec := doJSON(t, handler, http.MethodGet, "/api/v1/products/not-a-number", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}
	if rec := doJSON(t, handler, http.MethodDelete, "/api/v1/transactions/1", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if rec := doJSON(t, handler, http.MethodPost, "/api/v1/transactions", map[string]any{"unknown_field": true}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown fields, got %d", rec.Code)
	}
}
