package domain

import "github.com/shopspring/decimal"

// Dashboard summarizes catalog, inquiry and order activity for the back office.
type Dashboard struct {
	TotalProducts   int                 `json:"totalProducts"`
	OutOfStock      int                 `json:"outOfStock"`
	TotalInquiries  int                 `json:"totalInquiries"`
	RecentInquiries int                 `json:"recentInquiries"`
	PopularProducts []ProductInterest   `json:"popularProducts"`
	TotalOrders     int                 `json:"totalOrders"`
	OrdersByStatus  map[OrderStatus]int `json:"ordersByStatus"`
	// Revenue sums every order that was not cancelled.
	Revenue decimal.Decimal `json:"revenue"`
}

// ProductInterest counts inquiries left on one product.
type ProductInterest struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Inquiries int    `json:"inquiries"`
}
