package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	authhttp "github.com/honeymart/storefront/internal/auth/http"
	"github.com/honeymart/storefront/internal/checkout/app"
	"github.com/honeymart/storefront/internal/checkout/domain"
	"github.com/honeymart/storefront/pkg/idempotency"
	"github.com/honeymart/storefront/pkg/metrics"
)

type checkoutService interface {
	Checkout(ctx context.Context, buyerID, token string) (domain.Receipt, error)
}

type Handler struct {
	svc     checkoutService
	metrics *metrics.CheckoutMetrics
}

func NewHandler(svc checkoutService, m *metrics.CheckoutMetrics) *Handler {
	return &Handler{svc: svc, metrics: m}
}

// Routes expects to be mounted behind the auth middleware.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.checkout)
	return r
}

type receiptResponse struct {
	OrderID     string    `json:"order_id"`
	Currency    string    `json:"currency"`
	TotalAmount int64     `json:"total_amount"`
	LineCount   int       `json:"line_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	sess, _ := authhttp.SessionFrom(r.Context())
	h.countAttempt()

	rec, err := h.svc.Checkout(r.Context(), sess.UserID, idempotency.Key(r))
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}

	h.countOutcome("")
	writeJSON(w, http.StatusCreated, receiptResponse{
		OrderID:     rec.OrderID,
		Currency:    rec.Total.Currency,
		TotalAmount: rec.Total.Amount,
		LineCount:   rec.LineCount,
		CreatedAt:   rec.CreatedAt,
	})
}

// writeCheckoutError translates coordinator failures into actionable
// responses. The cart is never cleared on failure, so every one of these is
// answerable with an adjusted retry except the indeterminate case, which
// tells the buyer to check order history first.
func (h *Handler) writeCheckoutError(w http.ResponseWriter, err error) {
	var insErr *app.InsufficientStockError

	switch {
	case errors.Is(err, app.ErrUnauthenticated):
		h.countOutcome("unauthenticated")
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "log in to check out")

	case errors.Is(err, app.ErrEmptyCart):
		h.countOutcome("empty_cart")
		writeError(w, http.StatusConflict, "EMPTY_CART", "cart is empty")

	case errors.As(err, &insErr):
		h.countOutcome("insufficient_stock")
		writeJSON(w, http.StatusConflict, map[string]string{
			"code":       "INSUFFICIENT_STOCK",
			"message":    "not enough stock for product " + insErr.ProductID,
			"product_id": insErr.ProductID,
		})

	case errors.Is(err, app.ErrIndeterminateCommit):
		h.countOutcome("indeterminate")
		writeError(w, http.StatusBadGateway, "INDETERMINATE_COMMIT",
			"order outcome unknown; check your order history before retrying")

	case errors.Is(err, app.ErrStoreUnavailable):
		h.countOutcome("store_unavailable")
		writeError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "store temporarily unavailable, retry shortly")

	case errors.Is(err, app.ErrOrderPersistenceFailed):
		h.countOutcome("order_persistence")
		writeError(w, http.StatusInternalServerError, "ORDER_PERSISTENCE_FAILED",
			"order could not be saved; your cart is unchanged")

	default:
		h.countOutcome("internal")
		writeError(w, http.StatusInternalServerError, "INTERNAL", "checkout failed")
	}
}

func (h *Handler) countAttempt() {
	if h.metrics != nil {
		h.metrics.Attempts.Inc()
	}
}

func (h *Handler) countOutcome(reason string) {
	if h.metrics == nil {
		return
	}
	if reason == "" {
		h.metrics.Committed.Inc()
		return
	}
	h.metrics.Failed.WithLabelValues(reason).Inc()
}
