//go:build integration

package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

func TestProducer_KafkaIntegration(t *testing.T) {
	ctx := context.Background()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.8.0", tckafka.WithClusterID("test-cluster"))
	if err != nil {
		t.Skipf("skipping: unable to start kafka container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)

	producer := NewProducer(brokers, "order-events")
	t.Cleanup(func() { _ = producer.Close() })

	require.Eventually(t, func() bool {
		return producer.Publish(ctx, "o-1", map[string]string{"orderId": "o-1"}) == nil
	}, 30*time.Second, time.Second)

	reader := kafka.NewReader(kafka.ReaderConfig{Brokers: brokers, Topic: "order-events", GroupID: "integration"})
	t.Cleanup(func() { _ = reader.Close() })

	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	msg, err := reader.ReadMessage(readCtx)
	require.NoError(t, err)
	require.Equal(t, "o-1", string(msg.Key))
	require.JSONEq(t, `{"orderId":"o-1"}`, string(msg.Value))
}
