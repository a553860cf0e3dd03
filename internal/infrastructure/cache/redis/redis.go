package redis

import (
	"context"

	"github.com/alimikegami/point-of-sales/order-placement-service/config"
	"github.com/redis/go-redis/v9"
)

func CreateRedisClient(ctx context.Context, config *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisConfig.Address,
		Password: config.RedisConfig.Password,
		DB:       config.RedisConfig.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}
