package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/rl1809/rental-ledger/internal/adapter/storage"
	"github.com/rl1809/rental-ledger/internal/core/domain"
	"github.com/rl1809/rental-ledger/internal/core/service"
	"github.com/rl1809/rental-ledger/internal/metrics"
)

// In-process guard standing in for Redis.
type fakeGuard struct {
	seen map[string]bool
}

func (g *fakeGuard) SetIdempotency(ctx context.Context, key string) (bool, error) {
	if g.seen[key] {
		return false, nil
	}
	g.seen[key] = true
	return true, nil
}

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	stores := storage.NewMemoryStores().Stores()
	h := NewHTTPHandler(
		service.NewBusinessOwnerService(stores.Owners),
		service.NewCustomerService(stores.Customers),
		service.NewRentalItemService(stores.Items),
		service.NewLeaseService(stores),
		&fakeGuard{seen: make(map[string]bool)},
		metrics.New(prometheus.NewRegistry()),
		zap.NewNop(),
	)

	mux := http.NewServeMux()
	h.Register(mux)
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestCreateAndGetBusinessOwner(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/owners", CreateOwnerRequest{Name: "Acme Rentals"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	owner := decodeBody[domain.BusinessOwner](t, rec)
	if owner.Name != "Acme Rentals" {
		t.Errorf("expected name Acme Rentals, got %q", owner.Name)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/owners/"+owner.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decodeBody[domain.BusinessOwner](t, rec)
	if got != owner {
		t.Errorf("expected %+v, got %+v", owner, got)
	}
}

func TestGetBusinessOwner_NotFound(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodGet, "/api/owners/"+domain.NewIdentifier().String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestGetBusinessOwner_MalformedID(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodGet, "/api/owners/not-an-id", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCreateRentalItem(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/items", CreateItemRequest{Items: "folding chairs", Quantity: 10})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	item := decodeBody[domain.RentalItem](t, rec)
	if item.Items != "folding chairs" || item.Quantity != 10 {
		t.Errorf("unexpected record: %+v", item)
	}
}

func createLeaseFixture(t *testing.T, mux *http.ServeMux, quantity uint64) (domain.BusinessOwner, domain.Customer, domain.RentalItem) {
	t.Helper()

	owner := decodeBody[domain.BusinessOwner](t, doJSON(t, mux, http.MethodPost, "/api/owners", CreateOwnerRequest{Name: "Acme Rentals"}))
	customer := decodeBody[domain.Customer](t, doJSON(t, mux, http.MethodPost, "/api/customers", CreateCustomerRequest{Name: "Bob"}))
	item := decodeBody[domain.RentalItem](t, doJSON(t, mux, http.MethodPost, "/api/items", CreateItemRequest{Items: "folding chairs", Quantity: quantity}))
	return owner, customer, item
}

func TestCreateLease_Flow(t *testing.T) {
	mux := newTestMux(t)
	owner, customer, item := createLeaseFixture(t, mux, 10)

	rec := doJSON(t, mux, http.MethodPost, "/api/leases", CreateLeaseRequest{
		BusinessOwner: owner.ID.String(),
		Customer:      customer.ID.String(),
		RentalItem:    item.ID.String(),
		NumberOfItem:  4,
		EndTime:       "2026-04-01T00:00:00Z",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	lease := decodeBody[domain.Lease](t, rec)
	if lease.BusinessOwner != owner.ID || lease.Customer != customer.ID || lease.RentalItem != item.ID {
		t.Errorf("lease references wrong entities: %+v", lease)
	}
	if lease.StartTime == "" {
		t.Error("expected non-empty startTime")
	}
	if lease.EndTime != "2026-04-01T00:00:00Z" {
		t.Errorf("expected endTime echoed, got %q", lease.EndTime)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/items/"+item.ID.String(), nil)
	gotItem := decodeBody[domain.RentalItem](t, rec)
	if gotItem.Quantity != 6 {
		t.Errorf("expected quantity 6 after lease, got %d", gotItem.Quantity)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/leases/"+lease.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decodeBody[domain.Lease](t, rec); got != lease {
		t.Errorf("expected %+v, got %+v", lease, got)
	}
}

func TestCreateLease_MissingEntity(t *testing.T) {
	mux := newTestMux(t)
	_, customer, item := createLeaseFixture(t, mux, 10)

	rec := doJSON(t, mux, http.MethodPost, "/api/leases", CreateLeaseRequest{
		BusinessOwner: domain.NewIdentifier().String(),
		Customer:      customer.ID.String(),
		RentalItem:    item.ID.String(),
		NumberOfItem:  1,
		EndTime:       "2026-04-01T00:00:00Z",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	errResp := decodeBody[ErrorResponse](t, rec)
	if errResp.Entity != service.EntityBusinessOwner {
		t.Errorf("expected entity %s, got %s", service.EntityBusinessOwner, errResp.Entity)
	}
}

func TestCreateLease_InsufficientStock(t *testing.T) {
	mux := newTestMux(t)
	owner, customer, item := createLeaseFixture(t, mux, 3)

	rec := doJSON(t, mux, http.MethodPost, "/api/leases", CreateLeaseRequest{
		BusinessOwner: owner.ID.String(),
		Customer:      customer.ID.String(),
		RentalItem:    item.ID.String(),
		NumberOfItem:  5,
		EndTime:       "2026-04-01T00:00:00Z",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	errResp := decodeBody[ErrorResponse](t, rec)
	if errResp.Requested != 5 || errResp.Available != 3 {
		t.Errorf("expected requested 5 / available 3, got %d / %d", errResp.Requested, errResp.Available)
	}
}

func TestCreateLease_BadRequests(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodPost, "/api/leases", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/leases", CreateLeaseRequest{NumberOfItem: 1})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing fields: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/leases", CreateLeaseRequest{
		BusinessOwner: "not-an-id",
		Customer:      "not-an-id",
		RentalItem:    "not-an-id",
		NumberOfItem:  1,
		EndTime:       "2026-04-01T00:00:00Z",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed ids: expected 400, got %d", rec.Code)
	}
}

func TestCreateLease_DuplicateRequest(t *testing.T) {
	mux := newTestMux(t)
	owner, customer, item := createLeaseFixture(t, mux, 10)

	req := CreateLeaseRequest{
		RequestID:     "req-1",
		BusinessOwner: owner.ID.String(),
		Customer:      customer.ID.String(),
		RentalItem:    item.ID.String(),
		NumberOfItem:  2,
		EndTime:       "2026-04-01T00:00:00Z",
	}

	rec := doJSON(t, mux, http.MethodPost, "/api/leases", req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first request: expected 201, got %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/leases", req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate request: expected 409, got %d", rec.Code)
	}

	// Stock spent only once.
	rec = doJSON(t, mux, http.MethodGet, "/api/items/"+item.ID.String(), nil)
	if got := decodeBody[domain.RentalItem](t, rec); got.Quantity != 8 {
		t.Errorf("expected quantity 8, got %d", got.Quantity)
	}
}

func TestHealthCheck(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
