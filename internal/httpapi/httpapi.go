// Package httpapi exposes the engine over HTTP for the desktop shell and the
// owner dashboard. Routing is a plain ServeMux with path-tail dispatch; every
// response body is JSON.
package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"warungpos/backend/internal/domain"
	"warungpos/backend/internal/service"
	"warungpos/backend/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type API struct {
	service       *service.Service
	allowedOrigin string
	log           *zap.Logger
}

func New(svc *service.Service, allowedOrigin string, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{service: svc, allowedOrigin: allowedOrigin, log: logger}
}

func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", a.handleHealth)

	mux.HandleFunc("/api/v1/products", a.handleProducts)
	mux.HandleFunc("/api/v1/products/", a.handleProductActions)

	mux.HandleFunc("/api/v1/materials", a.handleMaterials)
	mux.HandleFunc("/api/v1/materials/low-stock", a.handleLowStock)
	mux.HandleFunc("/api/v1/materials/", a.handleMaterialActions)

	mux.HandleFunc("/api/v1/transactions", a.handleTransactions)
	mux.HandleFunc("/api/v1/transactions/", a.handleTransactionActions)

	mux.HandleFunc("/api/v1/availability/reevaluate", a.handleReevaluate)
	mux.HandleFunc("/api/v1/reports/dashboard", a.handleDashboard)

	return a.withMiddleware(mux)
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

// products

func (a *API) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		products, err := a.service.ListProducts(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"products": products})
	case http.MethodPost:
		var req domain.ProductCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		product, err := a.service.CreateProduct(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"product": product})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleProductActions(w http.ResponseWriter, r *http.Request) {
	tail := pathTail(r.URL.Path, "/api/v1/products/")
	if tail == "" {
		writeError(w, http.StatusBadRequest, errors.New("product id required"))
		return
	}
	parts := strings.Split(tail, "/")

	id, err := cast.ToUint64E(parts[0])
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, errors.New("invalid product id"))
		return
	}

	switch {
	case len(parts) == 1:
		a.handleProductByID(w, r, id)
	case len(parts) == 2 && parts[1] == "availability":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w)
			return
		}
		result, err := a.service.CheckAvailability(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	case len(parts) == 2 && parts[1] == "materials":
		a.handleProductMaterials(w, r, id)
	case len(parts) == 3 && parts[1] == "materials":
		if r.Method != http.MethodDelete {
			writeMethodNotAllowed(w)
			return
		}
		materialID, err := cast.ToUint64E(parts[2])
		if err != nil || materialID == 0 {
			writeError(w, http.StatusBadRequest, errors.New("invalid material id"))
			return
		}
		if err := a.service.RemoveProductMaterial(r.Context(), id, materialID); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		writeError(w, http.StatusNotFound, errors.New("unknown product action"))
	}
}

func (a *API) handleProductByID(w http.ResponseWriter, r *http.Request, id uint64) {
	switch r.Method {
	case http.MethodGet:
		product, err := a.service.GetProduct(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"product": product})
	case http.MethodPatch:
		var req domain.ProductUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		updated, err := a.service.UpdateProduct(r.Context(), id, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"product": updated})
	case http.MethodDelete:
		if err := a.service.DeleteProduct(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleProductMaterials(w http.ResponseWriter, r *http.Request, id uint64) {
	switch r.Method {
	case http.MethodGet:
		details, err := a.service.GetProductMaterials(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"materials": details})
	case http.MethodPost:
		var req domain.MaterialRequirement
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := a.service.UpsertProductMaterial(r.Context(), id, req); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		writeMethodNotAllowed(w)
	}
}

// materials

func (a *API) handleMaterials(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		materials, err := a.service.SearchMaterials(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"materials": materials})
	case http.MethodPost:
		var req domain.MaterialCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		material, err := a.service.CreateMaterial(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"material": material})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleLowStock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	materials, err := a.service.LowStockMaterials(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"materials": materials})
}

func (a *API) handleMaterialActions(w http.ResponseWriter, r *http.Request) {
	tail := pathTail(r.URL.Path, "/api/v1/materials/")
	if tail == "" {
		writeError(w, http.StatusBadRequest, errors.New("material id required"))
		return
	}
	parts := strings.Split(tail, "/")

	id, err := cast.ToUint64E(parts[0])
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, errors.New("invalid material id"))
		return
	}

	switch {
	case len(parts) == 1:
		a.handleMaterialByID(w, r, id)
	case len(parts) == 2 && parts[1] == "stock":
		if r.Method != http.MethodPut {
			writeMethodNotAllowed(w)
			return
		}
		var req struct {
			Quantity float64 `json:"quantity"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		material, err := a.service.SetMaterialStock(r.Context(), id, req.Quantity)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"material": material})
	default:
		writeError(w, http.StatusNotFound, errors.New("unknown material action"))
	}
}

func (a *API) handleMaterialByID(w http.ResponseWriter, r *http.Request, id uint64) {
	switch r.Method {
	case http.MethodGet:
		material, err := a.service.GetMaterial(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"material": material})
	case http.MethodPatch:
		var req domain.MaterialUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		updated, err := a.service.UpdateMaterial(r.Context(), id, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"material": updated})
	case http.MethodDelete:
		if err := a.service.DeleteMaterial(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		writeMethodNotAllowed(w)
	}
}

// transactions

func (a *API) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		status := strings.TrimSpace(r.URL.Query().Get("status"))
		details, err := a.service.ListTransactions(r.Context(), status)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"transactions": details})
	case http.MethodPost:
		var req domain.CheckoutRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		resp, err := a.service.CreatePending(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleTransactionActions(w http.ResponseWriter, r *http.Request) {
	tail := pathTail(r.URL.Path, "/api/v1/transactions/")
	if tail == "" {
		writeError(w, http.StatusBadRequest, errors.New("transaction id required"))
		return
	}
	parts := strings.Split(tail, "/")

	id, err := cast.ToUint64E(parts[0])
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, errors.New("invalid transaction id"))
		return
	}

	switch {
	case len(parts) == 1:
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w)
			return
		}
		detail, err := a.service.GetTransaction(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, detail)
	case len(parts) == 2 && parts[1] == "pay":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		if err := a.service.MarkPaid(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": domain.TxStatusPaid})
	case len(parts) == 2 && parts[1] == "cancel":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		if err := a.service.Cancel(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": domain.TxStatusCanceled})
	default:
		writeError(w, http.StatusNotFound, errors.New("unknown transaction action"))
	}
}

// availability and reporting

func (a *API) handleReevaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	changed, err := a.service.ReevaluateAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"changed": changed})
}

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	report, err := a.service.Dashboard(r.Context(), time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// plumbing

func (a *API) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Access-Control-Allow-Origin", a.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
		w.Header().Set("Vary", "Origin")

		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		startedAt := time.Now()
		next.ServeHTTP(w, r)
		a.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(startedAt)))
	})
}

func pathTail(path string, prefix string) string {
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	return strings.Trim(strings.TrimPrefix(path, prefix), "/")
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

// writeServiceError maps the store error taxonomy to HTTP statuses. An
// insufficient-stock failure keeps its itemized message so the cashier can
// read what ran out.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, store.ErrInsufficientStock):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, store.ErrValidation):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func writeError(w http.ResponseWriter, status int, err error) {
	// 4xx messages are user-facing; 5xx bodies stay generic so storage
	// internals never leak to clients.
	msg := err.Error()
	if status >= 500 {
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]any{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
