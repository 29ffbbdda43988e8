package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	authhttp "github.com/honeymart/storefront/internal/auth/http"
	"github.com/honeymart/storefront/internal/cart/app"
	"github.com/honeymart/storefront/internal/cart/domain"
	catalogapp "github.com/honeymart/storefront/internal/catalog/app"
)

type Handler struct {
	svc *app.Service
}

func NewHandler(svc *app.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes expects to be mounted behind the auth middleware: every operation
// works on the session buyer's cart.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.view)
	r.Post("/items", h.addItem)
	r.Delete("/items/{productID}", h.removeItem)
	return r
}

type lineResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Currency  string `json:"currency"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int32  `json:"quantity"`
	LineTotal int64  `json:"line_total"`
}

type cartResponse struct {
	Lines       []lineResponse `json:"lines"`
	Currency    string         `json:"currency"`
	TotalAmount int64          `json:"total_amount"`
}

func toResponse(lines []domain.Line, total domain.Money) cartResponse {
	out := cartResponse{
		Lines:       make([]lineResponse, 0, len(lines)),
		Currency:    total.Currency,
		TotalAmount: total.Amount,
	}
	for _, ln := range lines {
		out.Lines = append(out.Lines, lineResponse{
			ProductID: ln.ProductID,
			Name:      ln.Name,
			Currency:  ln.UnitPrice.Currency,
			UnitPrice: ln.UnitPrice.Amount,
			Quantity:  ln.Quantity,
			LineTotal: ln.UnitPrice.Amount * int64(ln.Quantity),
		})
	}
	return out
}

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	buyerID := buyerFrom(r)

	lines, err := h.svc.Snapshot(r.Context(), buyerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "cart error")
		return
	}
	total, err := h.svc.TotalAmount(r.Context(), buyerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "cart error")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(lines, total))
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "product_id is required")
		return
	}

	err := h.svc.AddItem(r.Context(), buyerFrom(r), req.ProductID)
	switch {
	case err == nil:
		h.view(w, r)
	case errors.Is(err, domain.ErrStockExceeded):
		writeError(w, http.StatusConflict, "STOCK_EXCEEDED", "requested quantity exceeds available stock")
	case errors.Is(err, catalogapp.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "product not found")
	case errors.Is(err, catalogapp.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid product id")
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL", "cart error")
	}
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveItem(r.Context(), buyerFrom(r), chi.URLParam(r, "productID")); err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "cart error")
		return
	}
	h.view(w, r)
}

func buyerFrom(r *http.Request) string {
	sess, _ := authhttp.SessionFrom(r.Context())
	return sess.UserID
}
