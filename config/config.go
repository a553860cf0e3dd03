package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServicePort         string
	MetricsPort         string
	GRPCPort            string
	Environment         string
	ProductStore        string
	PostgreSQLConfig    PostgreSQLConfig
	MongoDBConfig       MongoDBConfig
	RedisConfig         RedisConfig
	KafkaConfig         KafkaConfig
	JWTSecret           string
	TracingConfig       TracingConfig
	BreakerConfig       BreakerConfig
	OutboxRelayInterval time.Duration
}

type PostgreSQLConfig struct {
	DBHost     string
	DBName     string
	DBPort     string
	DBUsername string
	DBPassword string
}

type MongoDBConfig struct {
	DBHost string
	DBPort string
	DBName string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

type KafkaConfig struct {
	BrokerAddress   string
	BrokerTopic     string
	BrokerPartition int
}

type TracingConfig struct {
	CollectorHost string
	CollectorPort string
	ServiceName   string
	SampleRatio   float64
}

// BreakerConfig tunes the breaker in front of the Kafka publisher.
type BreakerConfig struct {
	MinRequests      uint32
	FailureRatio     float64
	Timeout          time.Duration
	HalfOpenRequests uint32
}

const (
	ProductStorePostgres = "postgres"
	ProductStoreMongoDB  = "mongodb"
)

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	conf := Config{
		ServicePort:  os.Getenv("SERVICE_PORT"),
		MetricsPort:  os.Getenv("METRICS_PORT"),
		GRPCPort:     os.Getenv("GRPC_PORT"),
		Environment:  os.Getenv("ENVIRONMENT"),
		ProductStore: os.Getenv("PRODUCT_STORE"),
		PostgreSQLConfig: PostgreSQLConfig{
			DBHost:     os.Getenv("DB_HOST"),
			DBName:     os.Getenv("DB_NAME"),
			DBPort:     os.Getenv("DB_PORT"),
			DBUsername: os.Getenv("DB_USERNAME"),
			DBPassword: os.Getenv("DB_PASSWORD"),
		},
		MongoDBConfig: MongoDBConfig{
			DBHost: os.Getenv("MONGODB_HOST"),
			DBPort: os.Getenv("MONGODB_PORT"),
			DBName: os.Getenv("MONGODB_NAME"),
		},
		RedisConfig: RedisConfig{
			Address:  os.Getenv("REDIS_ADDRESS"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		KafkaConfig: KafkaConfig{
			BrokerAddress: os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:   os.Getenv("BROKER_TOPIC"),
		},
		JWTSecret: os.Getenv("JWT_SECRET"),
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
			CollectorPort: os.Getenv("COLLECTOR_PORT"),
			ServiceName:   os.Getenv("SERVICE_NAME"),
		},
	}

	if conf.ProductStore == "" {
		conf.ProductStore = ProductStorePostgres
	}

	if conf.MongoDBConfig.DBName == "" {
		conf.MongoDBConfig.DBName = "product_service"
	}

	brokerPartition, err := strconv.Atoi(os.Getenv("BROKER_PARTITION"))
	if err == nil {
		conf.KafkaConfig.BrokerPartition = brokerPartition
	}

	redisDB, err := strconv.Atoi(os.Getenv("REDIS_DB"))
	if err == nil {
		conf.RedisConfig.DB = redisDB
	}

	if conf.TracingConfig.CollectorPort == "" {
		conf.TracingConfig.CollectorPort = "4318"
	}

	if conf.TracingConfig.ServiceName == "" {
		conf.TracingConfig.ServiceName = "order-service"
	}

	conf.TracingConfig.SampleRatio = parseRatio(os.Getenv("TRACE_SAMPLE_RATIO"), 1)

	conf.BreakerConfig = BreakerConfig{
		MinRequests:      parseUint32(os.Getenv("BREAKER_MIN_REQUESTS"), 3),
		FailureRatio:     parseRatio(os.Getenv("BREAKER_FAILURE_RATIO"), 0.6),
		Timeout:          parseDuration(os.Getenv("BREAKER_TIMEOUT"), 30*time.Second),
		HalfOpenRequests: parseUint32(os.Getenv("BREAKER_HALF_OPEN_REQUESTS"), 1),
	}

	conf.RedisConfig.TTL = parseDuration(os.Getenv("REDIS_TTL"), 5*time.Minute)
	conf.OutboxRelayInterval = parseDuration(os.Getenv("OUTBOX_RELAY_INTERVAL"), 10*time.Second)

	return &conf
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}

	return d
}

func parseRatio(value string, fallback float64) float64 {
	ratio, err := strconv.ParseFloat(value, 64)
	if err != nil || ratio <= 0 || ratio > 1 {
		return fallback
	}

	return ratio
}

func parseUint32(value string, fallback uint32) uint32 {
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil || n == 0 {
		return fallback
	}

	return uint32(n)
}
