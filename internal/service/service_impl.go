package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/alimikegami/point-of-sales/order-placement-service/internal/domain"
	"github.com/alimikegami/point-of-sales/order-placement-service/internal/dto"
	"github.com/alimikegami/point-of-sales/order-placement-service/internal/repository"
	"github.com/alimikegami/point-of-sales/order-placement-service/pkg/errs"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const relayBatchSize = 100

// MessageWriter is satisfied by *kafka.Conn.
type MessageWriter interface {
	WriteMessages(msgs ...kafka.Message) (int, error)
}

type OrderServiceImpl struct {
	customers     repository.CustomerRepository
	repos         repository.Repositories
	transactor    repository.Transactor
	kafkaProducer MessageWriter
	cb            *gobreaker.CircuitBreaker[[]byte]
}

// CreateOrderService wires the order workflow. transactor may be nil, in which
// case the writes go straight through repos without a shared transaction.
// kafkaProducer and cb may be nil when no broker is configured.
func CreateOrderService(customers repository.CustomerRepository, repos repository.Repositories, transactor repository.Transactor, kafkaProducer MessageWriter, cb *gobreaker.CircuitBreaker[[]byte]) OrderService {
	return &OrderServiceImpl{
		customers:     customers,
		repos:         repos,
		transactor:    transactor,
		kafkaProducer: kafkaProducer,
		cb:            cb,
	}
}

func (s *OrderServiceImpl) PlaceOrder(ctx context.Context, req dto.OrderRequest) (order domain.Order, err error) {
	ctx, span := otel.Tracer("order-service").Start(ctx, "PlaceOrder")
	defer span.End()

	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	productIDs, err := validateOrderRequest(req)
	if err != nil {
		return
	}

	span.SetAttributes(attribute.String("customer.id", req.CustomerID), attribute.Int("order.products", len(productIDs)))

	customer, err := s.customers.FindByID(ctx, req.CustomerID)
	if err != nil {
		return order, err
	}

	if customer.ID == "" {
		return order, errs.ErrCustomerNotFound
	}

	err = s.withRepositories(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		order, err = createOrder(ctx, repos, customer, req.Products, productIDs)
		return err
	})
	if err != nil {
		if !errs.IsDomainError(err) {
			log.Ctx(ctx).Error().Err(err).Str("component", "PlaceOrder").Msg("")
		}
		return domain.Order{}, err
	}

	log.Ctx(ctx).Info().Str("order_id", order.ID).Str("customer_id", customer.ID).Int("products", len(order.Products)).Msg("order placed")

	return order, nil
}

func (s *OrderServiceImpl) GetOrder(ctx context.Context, id string) (order domain.Order, err error) {
	if strings.TrimSpace(id) == "" {
		return order, errs.ErrNotFound
	}

	return s.repos.Orders.FindByID(ctx, id)
}

func (s *OrderServiceImpl) withRepositories(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	if s.transactor == nil {
		return fn(ctx, s.repos)
	}

	return s.transactor.HandleTrx(ctx, fn)
}

// validateOrderRequest rejects malformed requests before any lookup and
// returns the requested product ids in request order.
func validateOrderRequest(req dto.OrderRequest) ([]string, error) {
	if strings.TrimSpace(req.CustomerID) == "" {
		return nil, errs.ErrCustomerNotFound
	}

	if len(req.Products) == 0 {
		return nil, errs.ErrEmptyOrder
	}

	seen := make(map[string]struct{}, len(req.Products))
	ids := make([]string, 0, len(req.Products))
	for _, item := range req.Products {
		if item.Quantity <= 0 {
			return nil, errs.ErrInvalidQuantity
		}

		if _, ok := seen[item.ID]; ok {
			return nil, errs.ErrDuplicateProduct
		}

		seen[item.ID] = struct{}{}
		ids = append(ids, item.ID)
	}

	return ids, nil
}

func createOrder(ctx context.Context, repos repository.Repositories, customer domain.Customer, items []dto.OrderProduct, productIDs []string) (order domain.Order, err error) {
	products, err := repos.Products.FindAllByID(ctx, productIDs)
	if err != nil {
		return order, err
	}

	if len(products) != len(productIDs) {
		return order, errs.ErrInvalidProduct
	}

	requested := make(map[string]int64, len(items))
	for _, item := range items {
		requested[item.ID] = item.Quantity
	}

	catalog := make(map[string]domain.Product, len(products))
	for _, p := range products {
		quantity, ok := requested[p.ID]
		if !ok {
			// the catalog answered with an id the request never used
			return order, errs.ErrInvalidProduct
		}
		if p.Quantity < quantity {
			return order, errs.ErrInsufficientStock
		}
		catalog[p.ID] = p
	}

	if len(catalog) != len(productIDs) {
		return order, errs.ErrInvalidProduct
	}

	lines := make([]domain.OrderProduct, 0, len(items))
	for _, item := range items {
		lines = append(lines, domain.OrderProduct{
			ProductID: item.ID,
			Quantity:  item.Quantity,
			Price:     catalog[item.ID].Price,
		})
	}

	order, err = repos.Orders.Create(ctx, customer, lines)
	if err != nil {
		return domain.Order{}, err
	}

	if repos.Outbox != nil {
		event, err := orderPlacedEvent(order)
		if err != nil {
			return domain.Order{}, err
		}

		err = repos.Outbox.AddEvent(ctx, event)
		if err != nil {
			return domain.Order{}, err
		}
	}

	updates := make([]domain.ProductQuantity, 0, len(products))
	for _, p := range products {
		updates = append(updates, domain.ProductQuantity{
			ID:               p.ID,
			Quantity:         p.Quantity - requested[p.ID],
			PreviousQuantity: p.Quantity,
		})
	}
	sort.Slice(updates, func(i, j int) bool { return updates[i].ID < updates[j].ID })

	// Last write: a Mongo catalog commits on its own, outside the order
	// transaction.
	err = repos.Products.UpdateQuantities(ctx, updates)
	if err != nil {
		return domain.Order{}, err
	}

	return order, nil
}

func orderPlacedEvent(order domain.Order) (domain.OutboxEvent, error) {
	resp := dto.NewOrderResponse(order)
	payload, err := json.Marshal(dto.OrderPlacedEvent{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Products:   resp.Products,
		Total:      resp.Total,
		CreatedAt:  order.CreatedAt,
	})
	if err != nil {
		return domain.OutboxEvent{}, fmt.Errorf("failed to marshal order event: %w", err)
	}

	return domain.OutboxEvent{
		AggregateID: order.ID,
		EventType:   domain.EventTypeOrderPlaced,
		Payload:     string(payload),
		Status:      domain.OutboxStatusPending,
		CreatedAt:   order.CreatedAt,
	}, nil
}
