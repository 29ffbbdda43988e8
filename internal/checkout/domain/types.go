package domain

import "time"

type Money struct {
	Currency string
	Amount   int64
}

// Receipt is what a committed checkout hands back to the buyer.
type Receipt struct {
	OrderID   string
	Total     Money
	LineCount int
	CreatedAt time.Time
}
