package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alimikegami/point-of-sales/order-placement-service/internal/dto"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// RelayOrderEvents publishes pending outbox events to Kafka in insertion
// order. It stops at the first failure so a later event is never published
// ahead of an earlier one for the same order.
func (s *OrderServiceImpl) RelayOrderEvents(ctx context.Context) (published int, err error) {
	if s.repos.Outbox == nil || s.kafkaProducer == nil {
		return 0, nil
	}

	events, err := s.repos.Outbox.GetPendingEvents(ctx, relayBatchSize)
	if err != nil {
		return 0, err
	}

	for _, event := range events {
		jsonMsg, err := json.Marshal(dto.KafkaMessage{
			EventType: event.EventType,
			Data:      json.RawMessage(event.Payload),
		})
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "RelayOrderEvents").Int64("event_id", event.ID).Msg("")
			return published, fmt.Errorf("failed to marshal Kafka message: %w", err)
		}

		err = s.publish(jsonMsg, event.AggregateID)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "RelayOrderEvents").Int64("event_id", event.ID).Msg("")
			return published, err
		}

		err = s.repos.Outbox.MarkEventPublished(ctx, event.ID)
		if err != nil {
			return published, err
		}

		published++
	}

	if published > 0 {
		log.Ctx(ctx).Info().Str("component", "RelayOrderEvents").Int("published", published).Msg("relayed order events")
	}

	return published, nil
}

func (s *OrderServiceImpl) publish(msg []byte, key string) error {
	if s.cb == nil {
		return s.writeKafkaMessageWithKey(msg, key)
	}

	_, err := s.cb.Execute(func() ([]byte, error) {
		return nil, s.writeKafkaMessageWithKey(msg, key)
	})

	return err
}

func (s *OrderServiceImpl) writeKafkaMessageWithKey(msg []byte, key string) error {
	_, err := s.kafkaProducer.WriteMessages(
		kafka.Message{
			Key:   []byte(key),
			Value: msg,
		},
	)
	return err
}
