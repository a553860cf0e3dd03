package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/alimikegami/point-of-sales/order-placement-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCustomerRepository struct {
	customers map[string]domain.Customer
	err       error
	calls     int
}

func (r *countingCustomerRepository) FindByID(ctx context.Context, id string) (domain.Customer, error) {
	r.calls++
	if r.err != nil {
		return domain.Customer{}, r.err
	}

	return r.customers[id], nil
}

func newCachedCustomerRepository(t *testing.T, next CustomerRepository) (CustomerRepository, *miniredis.Miniredis) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() {
		client.Close()
	})

	return CreateCachedCustomerRepository(next, client, time.Minute), server
}

func TestCachedCustomerRepository_ReadThrough(t *testing.T) {
	next := &countingCustomerRepository{customers: map[string]domain.Customer{
		"c1": {ID: "c1", Name: "Jane", Email: "jane@example.com"},
	}}
	repo, server := newCachedCustomerRepository(t, next)

	first, err := repo.FindByID(context.Background(), "c1")
	require.NoError(t, err)
	second, err := repo.FindByID(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)
	assert.True(t, server.Exists("order-service:customer:c1"))
	assert.Equal(t, time.Minute, server.TTL("order-service:customer:c1"))
}

func TestCachedCustomerRepository_MissesAreNotCached(t *testing.T) {
	next := &countingCustomerRepository{customers: map[string]domain.Customer{}}
	repo, server := newCachedCustomerRepository(t, next)

	for i := 0; i < 2; i++ {
		customer, err := repo.FindByID(context.Background(), "ghost")
		require.NoError(t, err)
		assert.Empty(t, customer.ID)
	}

	assert.Equal(t, 2, next.calls)
	assert.False(t, server.Exists("order-service:customer:ghost"))
}

func TestCachedCustomerRepository_MalformedEntryFallsThrough(t *testing.T) {
	next := &countingCustomerRepository{customers: map[string]domain.Customer{
		"c1": {ID: "c1", Name: "Jane"},
	}}
	repo, server := newCachedCustomerRepository(t, next)
	require.NoError(t, server.Set("order-service:customer:c1", "not-json"))

	customer, err := repo.FindByID(context.Background(), "c1")

	require.NoError(t, err)
	assert.Equal(t, "Jane", customer.Name)
	assert.Equal(t, 1, next.calls)

	cached, err := server.Get("order-service:customer:c1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"c1","name":"Jane","email":"","created_at":0,"updated_at":0}`, cached)
}

func TestCachedCustomerRepository_CacheDownUsesSource(t *testing.T) {
	next := &countingCustomerRepository{customers: map[string]domain.Customer{
		"c1": {ID: "c1"},
	}}
	repo, server := newCachedCustomerRepository(t, next)
	server.Close()

	customer, err := repo.FindByID(context.Background(), "c1")

	require.NoError(t, err)
	assert.Equal(t, "c1", customer.ID)
}

func TestCachedCustomerRepository_SourceErrorPropagates(t *testing.T) {
	sourceErr := errors.New("connection refused")
	repo, _ := newCachedCustomerRepository(t, &countingCustomerRepository{err: sourceErr})

	_, err := repo.FindByID(context.Background(), "c1")

	assert.ErrorIs(t, err, sourceErr)
}
