package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/storekeeper/internal/adapter/handler/rpc"
	"github.com/rl1809/storekeeper/internal/core/domain"
	"github.com/rl1809/storekeeper/internal/core/service"
)

// maxTopSelling caps the n query parameter of the top-selling report.
const maxTopSelling = 1 << 20

type HTTPHandler struct {
	inventory *service.InventoryService
	sales     *service.SalesService
	reports   *service.ReportService
	logger    *zap.Logger
}

type UpdateItemHTTPRequest struct {
	Name     *string  `json:"name"`
	Quantity *uint64  `json:"quantity"`
	Price    *float64 `json:"price"`
}

type ErrorHTTPResponse struct {
	Error string `json:"error"`
}

func NewHTTPHandler(inventory *service.InventoryService, sales *service.SalesService, reports *service.ReportService, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{inventory: inventory, sales: sales, reports: reports, logger: logger}
}

// Register mounts every route on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("GET /api/items", h.GetInventory)
	mux.HandleFunc("POST /api/items", h.AddItem)
	mux.HandleFunc("GET /api/items/search", h.SearchItems)
	mux.HandleFunc("GET /api/items/{id}", h.GetItem)
	mux.HandleFunc("PATCH /api/items/{id}", h.UpdateItem)
	mux.HandleFunc("DELETE /api/items/{id}", h.RemoveItem)
	mux.HandleFunc("GET /api/reorder", h.ReorderSuggestions)
	mux.HandleFunc("POST /api/sales", h.RecordSale)
	mux.HandleFunc("GET /api/sales", h.GetSales)
	mux.HandleFunc("GET /api/reports/financial", h.FinancialOverview)
	mux.HandleFunc("GET /api/reports/top-selling", h.TopSelling)
}

func (h *HTTPHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req rpc.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Error: "invalid request body"})
		return
	}

	id, err := h.inventory.AddItem(req.Name, req.Quantity, req.Price)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, rpc.AddItemResponse{Id: id})
}

func (h *HTTPHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	item, found := h.inventory.GetItemDetails(id)
	if !found {
		writeJSON(w, http.StatusNotFound, ErrorHTTPResponse{Error: "item not found"})
		return
	}
	h.respond(w, http.StatusOK, toRPCItem(item))
}

func (h *HTTPHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateItemHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Error: "invalid request body"})
		return
	}

	patch := patchFrom(req.Name, req.Quantity, req.Price)
	if patch.Empty() {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Error: "no fields to update"})
		return
	}
	if err := h.inventory.UpdateItem(id, patch); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.inventory.RemoveItem(id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, rpc.ItemsResponse{Items: toRPCItems(h.inventory.GetInventory())})
}

func (h *HTTPHandler) SearchItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	h.respond(w, http.StatusOK, rpc.ItemsResponse{Items: toRPCItems(h.inventory.SearchItemByName(query))})
}

func (h *HTTPHandler) ReorderSuggestions(w http.ResponseWriter, r *http.Request) {
	threshold, ok := queryUint(w, r, "threshold")
	if !ok {
		return
	}
	h.respond(w, http.StatusOK, rpc.ItemsResponse{Items: toRPCItems(h.inventory.ReorderSuggestions(threshold))})
}

func (h *HTTPHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var req rpc.RecordSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Error: "invalid request body"})
		return
	}

	rec, err := h.sales.RecordSaleOnce(r.Context(), req.RequestId, fromRPCLines(req.Items))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, toRPCSale(rec))
}

func (h *HTTPHandler) GetSales(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, rpc.SalesResponse{Sales: toRPCSales(h.sales.GetSales())})
}

func (h *HTTPHandler) FinancialOverview(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, toRPCOverview(h.reports.FinancialOverview()))
}

func (h *HTTPHandler) TopSelling(w http.ResponseWriter, r *http.Request) {
	n, ok := queryUint(w, r, "n")
	if !ok {
		return
	}
	if n > uint64(maxTopSelling) {
		n = uint64(maxTopSelling)
	}
	h.respond(w, http.StatusOK, rpc.TopSellingResponse{Items: toRPCTopSellers(h.reports.TopSellingItems(int(n)))})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInsufficientStock):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrDuplicateRequest):
		status, message = http.StatusConflict, "duplicate request"
	default:
		h.logger.Error("request failed", zap.Error(err))
	}

	h.respond(w, status, ErrorHTTPResponse{Error: message})
}

func pathID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Error: "invalid item id"})
		return 0, false
	}
	return id, true
}

// queryUint reads an unsigned query parameter. A missing parameter is 0.
func queryUint(w http.ResponseWriter, r *http.Request, name string) (uint64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Error: "invalid " + name})
		return 0, false
	}
	return v, true
}

// writeJSON encodes data before writing the header so an encoding failure
// can still be reported as a 500.
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	body, err := json.Marshal(data)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"failed to encode response"}` + "\n"))
		return err
	}
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
	return nil
}

func (h *HTTPHandler) respond(w http.ResponseWriter, status int, data interface{}) {
	if err := writeJSON(w, status, data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs HTTP requests with method, path, status, and duration.
func LoggingMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.RequestURI()),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
