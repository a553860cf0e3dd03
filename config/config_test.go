package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreateNewConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"PRODUCT_STORE", "MONGODB_NAME", "REDIS_TTL", "REDIS_DB", "OUTBOX_RELAY_INTERVAL", "BROKER_PARTITION",
		"COLLECTOR_HOST", "COLLECTOR_PORT", "SERVICE_NAME", "TRACE_SAMPLE_RATIO",
		"BREAKER_MIN_REQUESTS", "BREAKER_FAILURE_RATIO", "BREAKER_TIMEOUT", "BREAKER_HALF_OPEN_REQUESTS",
	} {
		t.Setenv(key, "")
	}

	conf := CreateNewConfig()

	assert.Equal(t, ProductStorePostgres, conf.ProductStore)
	assert.Equal(t, "product_service", conf.MongoDBConfig.DBName)
	assert.Equal(t, 5*time.Minute, conf.RedisConfig.TTL)
	assert.Equal(t, 10*time.Second, conf.OutboxRelayInterval)
	assert.Zero(t, conf.RedisConfig.DB)
	assert.Zero(t, conf.KafkaConfig.BrokerPartition)
	assert.Equal(t, TracingConfig{CollectorPort: "4318", ServiceName: "order-service", SampleRatio: 1}, conf.TracingConfig)
	assert.Equal(t, BreakerConfig{MinRequests: 3, FailureRatio: 0.6, Timeout: 30 * time.Second, HalfOpenRequests: 1}, conf.BreakerConfig)
}

func TestCreateNewConfig_FromEnvironment(t *testing.T) {
	t.Setenv("SERVICE_PORT", "8080")
	t.Setenv("PRODUCT_STORE", ProductStoreMongoDB)
	t.Setenv("MONGODB_NAME", "catalog")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_TTL", "30s")
	t.Setenv("BROKER_PARTITION", "1")
	t.Setenv("OUTBOX_RELAY_INTERVAL", "2s")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("BREAKER_MIN_REQUESTS", "10")
	t.Setenv("BREAKER_FAILURE_RATIO", "0.5")
	t.Setenv("TRACE_SAMPLE_RATIO", "0.25")

	conf := CreateNewConfig()

	assert.Equal(t, "8080", conf.ServicePort)
	assert.Equal(t, ProductStoreMongoDB, conf.ProductStore)
	assert.Equal(t, "catalog", conf.MongoDBConfig.DBName)
	assert.Equal(t, "localhost:6379", conf.RedisConfig.Address)
	assert.Equal(t, 2, conf.RedisConfig.DB)
	assert.Equal(t, 30*time.Second, conf.RedisConfig.TTL)
	assert.Equal(t, 1, conf.KafkaConfig.BrokerPartition)
	assert.Equal(t, 2*time.Second, conf.OutboxRelayInterval)
	assert.Equal(t, "secret", conf.JWTSecret)
	assert.Equal(t, uint32(10), conf.BreakerConfig.MinRequests)
	assert.Equal(t, 0.5, conf.BreakerConfig.FailureRatio)
	assert.Equal(t, 0.25, conf.TracingConfig.SampleRatio)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("-5s", time.Minute))
	assert.Equal(t, 5*time.Second, parseDuration("5s", time.Minute))
}

func TestParseRatioAndCount(t *testing.T) {
	assert.Equal(t, 0.6, parseRatio("", 0.6))
	assert.Equal(t, 0.6, parseRatio("1.5", 0.6))
	assert.Equal(t, 0.6, parseRatio("0", 0.6))
	assert.Equal(t, 0.3, parseRatio("0.3", 0.6))

	assert.Equal(t, uint32(3), parseUint32("", 3))
	assert.Equal(t, uint32(3), parseUint32("-1", 3))
	assert.Equal(t, uint32(3), parseUint32("0", 3))
	assert.Equal(t, uint32(7), parseUint32("7", 3))
}
