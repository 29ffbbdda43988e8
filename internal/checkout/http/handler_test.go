package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/honeymart/storefront/internal/auth"
	authhttp "github.com/honeymart/storefront/internal/auth/http"
	"github.com/honeymart/storefront/internal/checkout/app"
	"github.com/honeymart/storefront/internal/checkout/domain"
	"github.com/honeymart/storefront/pkg/idempotency"
)

type stubCheckout struct {
	receipt  domain.Receipt
	err      error
	gotBuyer string
	gotToken string
}

func (s *stubCheckout) Checkout(ctx context.Context, buyerID, token string) (domain.Receipt, error) {
	s.gotBuyer = buyerID
	s.gotToken = token
	if s.err != nil {
		return domain.Receipt{}, s.err
	}
	return s.receipt, nil
}

func doCheckout(t *testing.T, svc *stubCheckout, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	h := NewHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req = req.WithContext(authhttp.WithSession(req.Context(), auth.Session{UserID: "buyer-1", Role: auth.RoleUser}))

	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestCheckoutHandler_Success(t *testing.T) {
	svc := &stubCheckout{receipt: domain.Receipt{
		OrderID:   "order-1",
		Total:     domain.Money{Currency: "IDR", Amount: 2500},
		LineCount: 2,
		CreatedAt: time.Now().UTC(),
	}}

	header := http.Header{}
	header.Set(idempotency.Header, "tok-1")

	rr := doCheckout(t, svc, header)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	if svc.gotBuyer != "buyer-1" {
		t.Fatalf("expected session buyer, got %q", svc.gotBuyer)
	}
	if svc.gotToken != "tok-1" {
		t.Fatalf("expected idempotency token forwarded, got %q", svc.gotToken)
	}

	body := decodeBody(t, rr)
	if body["order_id"] != "order-1" {
		t.Fatalf("unexpected body: %v", body)
	}
	if body["total_amount"] != float64(2500) {
		t.Fatalf("unexpected total: %v", body["total_amount"])
	}
}

func TestCheckoutHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"empty cart -> 409", app.ErrEmptyCart, http.StatusConflict, "EMPTY_CART"},
		{"unauthenticated -> 401", app.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"insufficient stock -> 409", &app.InsufficientStockError{ProductID: "A"}, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"indeterminate -> 502", app.ErrIndeterminateCommit, http.StatusBadGateway, "INDETERMINATE_COMMIT"},
		{"store unavailable -> 503", fmt.Errorf("%w: dial refused", app.ErrStoreUnavailable), http.StatusServiceUnavailable, "UNAVAILABLE"},
		{"persistence failed -> 500", fmt.Errorf("%w: boom", app.ErrOrderPersistenceFailed), http.StatusInternalServerError, "ORDER_PERSISTENCE_FAILED"},
		{"unknown error -> 500", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := doCheckout(t, &stubCheckout{err: tc.err}, nil)

			if rr.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, rr.Code)
			}
			body := decodeBody(t, rr)
			if body["code"] != tc.wantCode {
				t.Fatalf("expected code %s, got %v", tc.wantCode, body["code"])
			}
		})
	}
}

func TestCheckoutHandler_InsufficientStockNamesProduct(t *testing.T) {
	rr := doCheckout(t, &stubCheckout{err: &app.InsufficientStockError{ProductID: "prod-42"}}, nil)

	body := decodeBody(t, rr)
	if body["product_id"] != "prod-42" {
		t.Fatalf("expected offending product in body, got %v", body)
	}
}
