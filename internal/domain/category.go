package domain

import "time"

// Category groups products on the storefront. ProductCount is only filled by
// listings and counts products that are currently in stock.
type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ProductCount int       `json:"productCount"`
	CreatedAt    time.Time `json:"createdAt"`
}
