package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/questx-lab/dashboard/pkg/pubsub"
	"github.com/stretchr/testify/require"
)

func TestPublisher_Publish(t *testing.T) {
	config := mocks.NewTestConfig()
	config.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, config)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(m *sarama.ProducerMessage) error {
		if m.Topic != "dashboard_audit" {
			return errors.New("unexpected topic " + m.Topic)
		}

		key, err := m.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "guild1" {
			return errors.New("unexpected key " + string(key))
		}
		return nil
	})

	p := NewPublisherWithProducer(producer)
	err := p.Publish(context.Background(), "dashboard_audit", &pubsub.Pack{
		Key: []byte("guild1"),
		Msg: []byte(`{"type":"guild_leave_requested"}`),
	})
	require.NoError(t, err)
	require.NoError(t, p.Stop(context.Background()))
}

func TestPublisher_PublishError(t *testing.T) {
	config := mocks.NewTestConfig()
	config.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, config)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewPublisherWithProducer(producer)
	err := p.Publish(context.Background(), "dashboard_audit", &pubsub.Pack{Msg: []byte("{}")})
	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Stop(context.Background()))
}
