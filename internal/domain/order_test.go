package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	all := []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled}
	allowed := map[OrderStatus][]OrderStatus{
		OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
		OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
		OrderStatusShipped:   {OrderStatusDelivered, OrderStatusCancelled},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestOrderStatus_TerminalStatesHaveNoExit(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled} {
		assert.True(t, s.IsTerminal())
		for _, to := range []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled} {
			assert.False(t, s.CanTransitionTo(to), "%s -> %s", s, to)
		}
	}
	assert.False(t, OrderStatusPending.IsTerminal())
}

func TestParseOrderStatus(t *testing.T) {
	s, err := ParseOrderStatus("  Shipped ")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, s)

	_, err = ParseOrderStatus("lost")
	assert.Error(t, err)
}

func TestComputeTotals_OrderItems(t *testing.T) {
	items := []OrderItem{
		{Quantity: 2, UnitPrice: decimal.NewFromInt(1000)},
		{Quantity: 1, UnitPrice: decimal.NewFromInt(3000)},
	}
	got := ComputeTotals(items)
	assert.Equal(t, 3, got.TotalItems)
	assert.True(t, got.TotalPrice.Equal(decimal.NewFromInt(5000)), got.TotalPrice.String())

	empty := ComputeTotals([]OrderItem(nil))
	assert.Equal(t, 0, empty.TotalItems)
	assert.True(t, empty.TotalPrice.IsZero())
}
