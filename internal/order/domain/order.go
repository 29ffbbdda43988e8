package domain

import "time"

// StatusCommitted is the only terminal state an order ever reaches here: a
// failed checkout produces no order record at all.
const StatusCommitted = "COMMITTED"

type Order struct {
	ID            string
	BuyerID       string
	Status        string
	Currency      string
	TotalAmount   int64
	CheckoutToken string
	Lines         []Line
	CreatedAt     time.Time
}

// Line is immutable once written. UnitPrice is the price observed when the
// product entered the cart, so historical orders stay stable across catalog
// price changes.
type Line struct {
	ID        string
	OrderID   string
	ProductID string
	Name      string
	UnitPrice int64
	Quantity  int32
	LineTotal int64
}

type CreateOrderRequest struct {
	BuyerID       string
	Currency      string
	CheckoutToken string
	Items         []LineRequest
}

type LineRequest struct {
	ProductID string
	Name      string
	UnitPrice int64
	Quantity  int32
}
