package domain

import "time"

// Inquiry is a customer's request to be contacted about a product.
type Inquiry struct {
	ID           string    `json:"id"`
	ProductID    *string   `json:"productId,omitempty"`
	ProductName  string    `json:"productName,omitempty"`
	CustomerName string    `json:"customerName"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"createdAt"`
}
