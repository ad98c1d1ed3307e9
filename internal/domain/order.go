package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid reports whether s is a known status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible from s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo checks if the status can move to target.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered || target == OrderStatusCancelled
	}
	return false
}

// ParseOrderStatus converts user input into an OrderStatus.
func ParseOrderStatus(v string) (OrderStatus, error) {
	s := OrderStatus(strings.ToLower(strings.TrimSpace(v)))
	if !s.IsValid() {
		return "", fmt.Errorf("unknown order status %q", v)
	}
	return s, nil
}

// PaymentMethod is how the customer intends to pay.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
	PaymentCreditCard     PaymentMethod = "credit_card"
)

// Label is the human readable name shown to staff.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCashOnDelivery:
		return "Cash on Delivery"
	case PaymentBankTransfer:
		return "Bank Transfer"
	case PaymentCreditCard:
		return "Credit Card"
	}
	return string(m)
}

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCashOnDelivery, PaymentBankTransfer, PaymentCreditCard:
		return true
	}
	return false
}

// Order is a submitted purchase. TotalAmount is fixed at creation.
type Order struct {
	ID                  string          `json:"id"`
	CustomerName        string          `json:"customerName"`
	CustomerPhone       string          `json:"customerPhone"`
	CustomerEmail       string          `json:"customerEmail,omitempty"`
	CustomerAddress     string          `json:"customerAddress,omitempty"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
	PaymentMethod       PaymentMethod   `json:"paymentMethod"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	ShippingCost        decimal.Decimal `json:"shippingCost"`
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	Status              OrderStatus     `json:"status"`
	Items               []OrderItem     `json:"items,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

// OrderItem is a frozen snapshot of one product line. ProductID is nil once
// the catalog product has been deleted.
type OrderItem struct {
	ID           string          `json:"id"`
	OrderID      string          `json:"orderId"`
	ProductID    *string         `json:"productId,omitempty"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func (i OrderItem) LinePrice() decimal.Decimal { return i.UnitPrice }
func (i OrderItem) LineQuantity() int          { return i.Quantity }

// OrderSort names the columns admin order listings can be sorted by.
type OrderSort string

const (
	OrderSortDate     OrderSort = "date"
	OrderSortStatus   OrderSort = "status"
	OrderSortCustomer OrderSort = "customer"
	OrderSortTotal    OrderSort = "total"
)

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	Status OrderStatus
	Search string
	SortBy OrderSort
	Desc   bool
}
