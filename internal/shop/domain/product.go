package domain

import "time"

// Product is the minimal catalog record the order flow needs: a price in
// pennies and a listed flag. Catalog search and media live elsewhere.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"` // pennies
	Listed      bool      `json:"listed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
