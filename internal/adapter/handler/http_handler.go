package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/rl1809/rental-ledger/internal/core/domain"
	"github.com/rl1809/rental-ledger/internal/core/service"
	"github.com/rl1809/rental-ledger/internal/metrics"
	"github.com/rl1809/rental-ledger/internal/port"
)

type HTTPHandler struct {
	owners    *service.BusinessOwnerService
	customers *service.CustomerService
	items     *service.RentalItemService
	leases    *service.LeaseService
	guard     port.IdempotencyGuard // nil when redis is not configured
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewHTTPHandler(
	owners *service.BusinessOwnerService,
	customers *service.CustomerService,
	items *service.RentalItemService,
	leases *service.LeaseService,
	guard port.IdempotencyGuard,
	m *metrics.Metrics,
	logger *zap.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		owners:    owners,
		customers: customers,
		items:     items,
		leases:    leases,
		guard:     guard,
		metrics:   m,
		logger:    logger,
	}
}

// Register wires every route onto mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/owners", h.CreateBusinessOwner)
	mux.HandleFunc("GET /api/owners/{id}", h.GetBusinessOwner)
	mux.HandleFunc("POST /api/customers", h.CreateCustomer)
	mux.HandleFunc("GET /api/customers/{id}", h.GetCustomer)
	mux.HandleFunc("POST /api/items", h.CreateRentalItem)
	mux.HandleFunc("GET /api/items/{id}", h.GetRentalItem)
	mux.HandleFunc("POST /api/leases", h.CreateLease)
	mux.HandleFunc("GET /api/leases/{id}", h.GetLease)
	mux.HandleFunc("GET /health", h.HealthCheck)
}

type CreateOwnerRequest struct {
	Name string `json:"name"`
}

type CreateCustomerRequest struct {
	Name string `json:"name"`
}

type CreateItemRequest struct {
	Items    string `json:"items"`
	Quantity uint64 `json:"quantity"`
}

type CreateLeaseRequest struct {
	// RequestID is optional; when set and the duplicate-request guard is
	// configured, a repeated id is rejected with 409.
	RequestID     string `json:"request_id,omitempty"`
	BusinessOwner string `json:"businessOwner"`
	Customer      string `json:"customer"`
	RentalItem    string `json:"rentalItem"`
	NumberOfItem  uint64 `json:"numberOfItem"`
	EndTime       string `json:"endTime"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Entity    string `json:"entity,omitempty"`
	ID        string `json:"id,omitempty"`
	Requested uint64 `json:"requested,omitempty"`
	Available uint64 `json:"available,omitempty"`
}

func (h *HTTPHandler) CreateBusinessOwner(w http.ResponseWriter, r *http.Request) {
	var req CreateOwnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	owner, err := h.owners.Create(r.Context(), req.Name)
	if err != nil {
		h.internalError(w, "create business owner", err)
		return
	}

	h.metrics.EntitiesCreated.WithLabelValues(service.EntityBusinessOwner).Inc()
	writeJSON(w, http.StatusCreated, owner)
}

func (h *HTTPHandler) GetBusinessOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	owner, err := h.owners.GetByID(r.Context(), id)
	if err != nil {
		h.internalError(w, "get business owner", err)
		return
	}
	if owner == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "business owner not found", ID: id.String()})
		return
	}

	writeJSON(w, http.StatusOK, owner)
}

func (h *HTTPHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	customer, err := h.customers.Create(r.Context(), req.Name)
	if err != nil {
		h.internalError(w, "create customer", err)
		return
	}

	h.metrics.EntitiesCreated.WithLabelValues(service.EntityCustomer).Inc()
	writeJSON(w, http.StatusCreated, customer)
}

func (h *HTTPHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	customer, err := h.customers.GetByID(r.Context(), id)
	if err != nil {
		h.internalError(w, "get customer", err)
		return
	}
	if customer == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "customer not found", ID: id.String()})
		return
	}

	writeJSON(w, http.StatusOK, customer)
}

func (h *HTTPHandler) CreateRentalItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	item, err := h.items.Create(r.Context(), req.Items, req.Quantity)
	if err != nil {
		h.internalError(w, "create rental item", err)
		return
	}

	h.metrics.EntitiesCreated.WithLabelValues(service.EntityRentalItem).Inc()
	writeJSON(w, http.StatusCreated, item)
}

func (h *HTTPHandler) GetRentalItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	item, err := h.items.GetByID(r.Context(), id)
	if err != nil {
		h.internalError(w, "get rental item", err)
		return
	}
	if item == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "rental item not found", ID: id.String()})
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *HTTPHandler) CreateLease(w http.ResponseWriter, r *http.Request) {
	var req CreateLeaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.BusinessOwner == "" || req.Customer == "" || req.RentalItem == "" || req.NumberOfItem == 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing required fields"})
		return
	}

	ownerID, err := domain.ParseIdentifier(req.BusinessOwner)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "malformed businessOwner id"})
		return
	}
	customerID, err := domain.ParseIdentifier(req.Customer)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "malformed customer id"})
		return
	}
	itemID, err := domain.ParseIdentifier(req.RentalItem)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "malformed rentalItem id"})
		return
	}

	if h.guard != nil && req.RequestID != "" {
		ok, err := h.guard.SetIdempotency(r.Context(), "lease:"+req.RequestID)
		if err != nil {
			h.internalError(w, "idempotency check", err)
			return
		}
		if !ok {
			h.metrics.LeaseFailures.WithLabelValues(metrics.ReasonDuplicate).Inc()
			writeJSON(w, http.StatusConflict, ErrorResponse{Error: "duplicate request", ID: req.RequestID})
			return
		}
	}

	lease, err := h.leases.CreateLease(r.Context(), ownerID, customerID, itemID, req.NumberOfItem, req.EndTime)
	if err != nil {
		var notFound *service.NotFoundError
		if errors.As(err, &notFound) {
			h.metrics.LeaseFailures.WithLabelValues(metrics.ReasonNotFound).Inc()
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Error:  notFound.Error(),
				Entity: notFound.Entity,
				ID:     notFound.ID.String(),
			})
			return
		}

		var insufficient *service.InsufficientStockError
		if errors.As(err, &insufficient) {
			h.metrics.LeaseFailures.WithLabelValues(metrics.ReasonInsufficientStock).Inc()
			writeJSON(w, http.StatusConflict, ErrorResponse{
				Error:     "insufficient stock",
				Entity:    service.EntityRentalItem,
				ID:        insufficient.RentalItem.String(),
				Requested: insufficient.Requested,
				Available: insufficient.Available,
			})
			return
		}

		h.metrics.LeaseFailures.WithLabelValues(metrics.ReasonInternal).Inc()
		h.internalError(w, "create lease", err)
		return
	}

	h.metrics.LeasesCreated.Inc()
	writeJSON(w, http.StatusCreated, lease)
}

func (h *HTTPHandler) GetLease(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	lease, err := h.leases.GetByID(r.Context(), id)
	if err != nil {
		h.internalError(w, "get lease", err)
		return
	}
	if lease == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "lease not found", ID: id.String()})
		return
	}

	writeJSON(w, http.StatusOK, lease)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) pathID(w http.ResponseWriter, r *http.Request) (domain.Identifier, bool) {
	id, err := domain.ParseIdentifier(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "malformed id"})
		return domain.Identifier{}, false
	}
	return id, true
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op, zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
