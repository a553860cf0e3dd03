package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/alimikegami/point-of-sales/order-placement-service/config"
	"github.com/alimikegami/point-of-sales/order-placement-service/internal/controller"
	circuitbreaker "github.com/alimikegami/point-of-sales/order-placement-service/internal/infrastructure/circuit-breaker"
	"github.com/alimikegami/point-of-sales/order-placement-service/internal/handler"
	localmiddleware "github.com/alimikegami/point-of-sales/order-placement-service/internal/middleware"
	"github.com/alimikegami/point-of-sales/order-placement-service/internal/repository"
	"github.com/alimikegami/point-of-sales/order-placement-service/internal/service"
	"github.com/alimikegami/point-of-sales/order-placement-service/pkg/response"
	"github.com/go-co-op/gocron/v2"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type App struct {
	Config        *config.Config
	DB            *sqlx.DB
	MongoDB       *mongo.Database
	Redis         *redis.Client
	KafkaProducer *kafka.Conn

	Server       *echo.Echo
	GRPCServer   *grpc.Server
	HealthServer *health.Server
	Scheduler    gocron.Scheduler
}

func InitLogger() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = logger
	zerolog.DefaultContextLogger = &log.Logger
}

// CreateOrderService wires the repositories selected by the configuration
// into the order workflow.
func (app *App) CreateOrderService() service.OrderService {
	var customers repository.CustomerRepository = repository.CreateCustomerRepository(app.DB)
	if app.Redis != nil {
		customers = repository.CreateCachedCustomerRepository(customers, app.Redis, app.Config.RedisConfig.TTL)
	}

	repos := repository.Repositories{
		Products: repository.CreateProductRepository(app.DB),
		Orders:   repository.CreateOrderRepository(app.DB),
		Outbox:   repository.CreateOutboxRepository(app.DB),
	}

	var catalog repository.ProductRepository
	if app.MongoDB != nil {
		catalog = repository.CreateMongoDBProductRepository(app.MongoDB)
		repos.Products = catalog
	}

	transactor := repository.CreatePostgresTransactor(app.DB, catalog)

	var producer service.MessageWriter
	if app.KafkaProducer != nil {
		producer = app.KafkaProducer
	}

	cb := circuitbreaker.CreateCircuitBreaker(handler.ServiceName+"-kafka", app.Config.BreakerConfig)

	return service.CreateOrderService(customers, repos, transactor, producer, cb)
}

// CreateServer builds the HTTP server around svc without starting it.
func (app *App) CreateServer(svc service.OrderService) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	tracer := otel.Tracer(handler.ServiceName)
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// span creation and naming
			ctx, span := tracer.Start(c.Request().Context(), fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()))
			defer span.End()

			// add the context to the request
			req := c.Request()
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	})

	// Used empty string so that metrics are not prefixed with the service name making it easier to aggregate across services
	e.Use(echoprometheus.NewMiddleware(""))
	e.Use(middleware.Recover())
	e.Use(localmiddleware.Logger)

	g := e.Group("/api/v1")

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, "Hello, World!", nil)
	})

	var routeMiddlewares []echo.MiddlewareFunc
	if app.Config.JWTSecret != "" {
		routeMiddlewares = append(routeMiddlewares, middleware.JWTWithConfig(middleware.JWTConfig{
			SigningKey: []byte(app.Config.JWTSecret),
			ErrorHandlerWithContext: func(err error, c echo.Context) error {
				return c.JSON(http.StatusUnauthorized, response.ErrorResponse{
					Status:  "error",
					Message: "Invalid or expired JWT",
				})
			},
		}))
	}

	controller.CreateOrderController(g, svc, routeMiddlewares...)

	return e
}

func (app *App) Start() error {
	svc := app.CreateOrderService()
	app.Server = app.CreateServer(svc)

	go func() {
		metrics := echo.New()
		metrics.HideBanner = true
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	if app.Config.GRPCPort != "" {
		if err := app.startGRPCServer(); err != nil {
			return err
		}
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = s.NewJob(
		gocron.DurationJob(
			app.Config.OutboxRelayInterval,
		),
		gocron.NewTask(
			svc.RelayOrderEvents,
			context.Background(),
		),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	s.Start()
	app.Scheduler = s

	if app.HealthServer != nil {
		app.HealthServer.SetServingStatus(handler.ServiceName, healthpb.HealthCheckResponse_SERVING)
	}

	err = app.Server.Start(fmt.Sprintf(":%s", app.Config.ServicePort))
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (app *App) startGRPCServer() error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", app.Config.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen on gRPC port: %w", err)
	}

	app.GRPCServer, app.HealthServer = handler.CreateGRPCServer()

	go func() {
		if err := app.GRPCServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.Error().Err(err).Str("component", "startGRPCServer").Msg("")
		}
	}()

	return nil
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if app.HealthServer != nil {
		app.HealthServer.Shutdown()
	}

	if app.GRPCServer != nil {
		app.GRPCServer.GracefulStop()
	}

	if app.Scheduler != nil {
		if err := app.Scheduler.Shutdown(); err != nil {
			log.Error().Err(err).Str("component", "StopServer").Msg("")
		}
	}

	if app.Server == nil {
		return nil
	}

	return app.Server.Shutdown(ctx)
}
