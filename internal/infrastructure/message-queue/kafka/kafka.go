package kafka

import (
	"context"

	"github.com/alimikegami/point-of-sales/order-placement-service/config"
	"github.com/segmentio/kafka-go"
)

func CreateKafkaProducer(ctx context.Context, config *config.Config) (*kafka.Conn, error) {
	return kafka.DialLeader(ctx, "tcp", config.KafkaConfig.BrokerAddress, config.KafkaConfig.BrokerTopic, config.KafkaConfig.BrokerPartition)
}
