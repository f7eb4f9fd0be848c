package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
)

type recordingProducer struct {
	key     string
	body    []byte
	headers []kafka.Header
}

func (r *recordingProducer) Publish(_ context.Context, key string, event any, headers ...kafka.Header) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	r.key, r.body, r.headers = key, body, headers
	return nil
}

func TestKafkaPublisher_WritesEnvelopeKeyedByOrder(t *testing.T) {
	producer := &recordingProducer{}
	publisher := NewKafkaPublisher(producer)
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	err := publisher.Publish(context.Background(), domain.OrderStatusChanged{
		BaseEvent:  domain.BaseEvent{OrderID: "o-1", Timestamp: at},
		FromStatus: domain.StatusPlaced,
		ToStatus:   domain.StatusDispatched,
	})
	require.NoError(t, err)

	require.Equal(t, "o-1", producer.key)
	require.Equal(t, "event-name", producer.headers[0].Key)
	require.Equal(t, "orders.order.status_changed", string(producer.headers[0].Value))
	require.JSONEq(t, `{
		"name": "orders.order.status_changed",
		"orderId": "o-1",
		"occurredAt": "2024-05-01T10:00:00Z",
		"payload": {"orderId": "o-1", "occurredAt": "2024-05-01T10:00:00Z", "fromStatus": "Order Placed", "toStatus": "Dispatched"}
	}`, string(producer.body))
}

func TestNoop(t *testing.T) {
	require.NoError(t, Noop{}.Publish(context.Background(), domain.OrderPaymentChanged{Paid: true}))
}
