package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "time/tzdata"

	"github.com/alimikegami/point-of-sales/order-placement-service/config"
	"github.com/alimikegami/point-of-sales/order-placement-service/internal/app"
	redisclient "github.com/alimikegami/point-of-sales/order-placement-service/internal/infrastructure/cache/redis"
	"github.com/alimikegami/point-of-sales/order-placement-service/internal/infrastructure/database/mongodb"
	"github.com/alimikegami/point-of-sales/order-placement-service/internal/infrastructure/database/postgres"
	"github.com/alimikegami/point-of-sales/order-placement-service/internal/infrastructure/message-queue/kafka"
	"github.com/alimikegami/point-of-sales/order-placement-service/internal/infrastructure/tracing"
	"github.com/rs/zerolog/log"
)

func main() {
	app.InitLogger()

	config := config.CreateNewConfig()
	ctx := context.Background()

	db, err := postgres.GetDBInstance(config.PostgreSQLConfig.DBUsername, config.PostgreSQLConfig.DBPassword, config.PostgreSQLConfig.DBHost, config.PostgreSQLConfig.DBPort, config.PostgreSQLConfig.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to the database")
	}
	defer db.Close()

	traceProvider, err := tracing.InitTracing(ctx, config.TracingConfig)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize tracing")
	} else {
		defer func() {
			if err := traceProvider.Shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("Failed to shutdown tracing")
			}
		}()
	}

	server := app.App{
		Config: config,
		DB:     db,
	}

	if config.ProductStore == "mongodb" {
		mongoDB, err := mongodb.ConnectToMongoDB(ctx, config.MongoDBConfig.DBHost, config.MongoDBConfig.DBPort, config.MongoDBConfig.DBName)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer mongoDB.Client().Disconnect(context.Background())

		server.MongoDB = mongoDB
	}

	if config.RedisConfig.Address != "" {
		redisClient, err := redisclient.CreateRedisClient(ctx, config)
		if err != nil {
			log.Error().Err(err).Msg("Failed to connect to Redis, customer cache disabled")
		} else {
			defer redisClient.Close()
			server.Redis = redisClient
		}
	}

	if config.KafkaConfig.BrokerAddress != "" {
		kafkaProducer, err := kafka.CreateKafkaProducer(ctx, config)
		if err != nil {
			log.Error().Err(err).Msg("Failed to connect to Kafka, order events stay in the outbox")
		} else {
			defer kafkaProducer.Close()
			server.KafkaProducer = kafkaProducer
		}
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		if err := server.StopServer(); err != nil {
			log.Error().Err(err).Msg("Failed to stop server")
		}
	}()

	if err := server.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
