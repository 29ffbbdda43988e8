package domain

import "time"

type Money struct {
	Currency string
	Amount   int64
}

type Product struct {
	ID          string
	Name        string
	Description string
	Price       Money
	Stock       int32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
