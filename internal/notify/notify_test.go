package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"testing"

	"storefront/internal/domain"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() domain.Order {
	return domain.Order{
		ID:            "5f1c2a9e-0000-4000-8000-000000000001",
		CustomerName:  "Amel B",
		CustomerPhone: "+213555000111",
		PaymentMethod: domain.PaymentCashOnDelivery,
		Subtotal:      decimal.NewFromInt(5000),
		ShippingCost:  decimal.NewFromInt(500),
		TotalAmount:   decimal.NewFromInt(5500),
		Items: []domain.OrderItem{
			{ProductName: "Blue Vase", Quantity: 2, UnitPrice: decimal.NewFromInt(2500)},
		},
	}
}

func TestMessageURL(t *testing.T) {
	got := MessageURL("+1 (234) 567-890", "Hi & bye")
	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, "/1234567890", u.Path)
	assert.Equal(t, "Hi & bye", u.Query().Get("text"))

	assert.Equal(t, "https://wa.me/1234567890", MessageURL("+1234567890", ""))
}

func TestOrderMessage(t *testing.T) {
	msg := OrderMessage(sampleOrder(), "DZD")
	assert.Contains(t, msg, "#5f1c2a9e")
	assert.Contains(t, msg, "Name: Amel B")
	assert.Contains(t, msg, "- Blue Vase - 2500.00 DZD x2")
	assert.Contains(t, msg, "*Total: 5500.00 DZD*")
	assert.Contains(t, msg, "Payment: cash on delivery")
	assert.NotContains(t, msg, "Email:")
	assert.NotContains(t, msg, "Notes:")
}

func TestKafkaPublisher_OrderPlaced(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewKafkaConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var ev OrderEvent
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		if ev.Type != EventOrderPlaced || ev.Order.CustomerName != "Amel B" {
			return errors.New("unexpected event " + string(val))
		}
		if !ev.Order.TotalAmount.Equal(decimal.NewFromInt(5500)) {
			return errors.New("unexpected total " + ev.Order.TotalAmount.String())
		}
		return nil
	})

	pub := NewKafkaPublisher(producer, "orders.placed", nil)
	require.NoError(t, pub.OrderPlaced(context.Background(), sampleOrder()))
	require.NoError(t, pub.Close())
}

func TestKafkaPublisher_SendFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewKafkaConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewKafkaPublisher(producer, "orders.placed", nil)
	err := pub.OrderPlaced(context.Background(), sampleOrder())
	require.Error(t, err)
	assert.True(t, errors.Is(err, sarama.ErrOutOfBrokers))
	assert.True(t, strings.Contains(err.Error(), EventOrderPlaced))
	require.NoError(t, pub.Close())
}

func TestKafkaPublisher_CancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewKafkaConfig())
	pub := NewKafkaPublisher(producer, "orders.placed", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pub.OrderPlaced(ctx, sampleOrder()), context.Canceled)
	require.NoError(t, pub.Close())
}

func TestDialKafkaRequiresBrokers(t *testing.T) {
	_, err := DialKafka(nil, "orders.placed", nil)
	assert.Error(t, err)
}
