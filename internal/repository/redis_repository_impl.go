package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alimikegami/point-of-sales/order-placement-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CachedCustomerRepository is a read-through cache in front of another
// CustomerRepository. Misses are never cached so a customer registered after
// a failed order is visible on the next attempt.
type CachedCustomerRepository struct {
	next   CustomerRepository
	client *redis.Client
	ttl    time.Duration
}

func CreateCachedCustomerRepository(next CustomerRepository, client *redis.Client, ttl time.Duration) CustomerRepository {
	return &CachedCustomerRepository{next: next, client: client, ttl: ttl}
}

func customerCacheKey(id string) string {
	return fmt.Sprintf("order-service:customer:%s", id)
}

func (r *CachedCustomerRepository) FindByID(ctx context.Context, id string) (data domain.Customer, err error) {
	key := customerCacheKey(id)

	cached, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if err := json.Unmarshal(cached, &data); err == nil {
			return data, nil
		}
		log.Ctx(ctx).Warn().Str("component", "CachedCustomerFindByID").Str("key", key).Msg("discarding malformed cache entry")
	case errors.Is(err, redis.Nil):
	default:
		log.Ctx(ctx).Error().Err(err).Str("component", "CachedCustomerFindByID").Msg("cache unavailable")
	}

	data, err = r.next.FindByID(ctx, id)
	if err != nil || data.ID == "" {
		return data, err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return data, nil
	}

	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "CachedCustomerFindByID").Msg("failed to cache customer")
	}

	return data, nil
}
