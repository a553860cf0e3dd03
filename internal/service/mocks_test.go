package service

import (
	"context"

	"github.com/alimikegami/point-of-sales/order-placement-service/internal/domain"
	"github.com/alimikegami/point-of-sales/order-placement-service/internal/repository"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

type mockCustomerRepository struct {
	mock.Mock
}

func (m *mockCustomerRepository) FindByID(ctx context.Context, id string) (domain.Customer, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Customer), args.Error(1)
}

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) FindAllByID(ctx context.Context, ids []string) ([]domain.Product, error) {
	args := m.Called(ctx, ids)
	var data []domain.Product
	if v := args.Get(0); v != nil {
		data = v.([]domain.Product)
	}
	return data, args.Error(1)
}

func (m *mockProductRepository) UpdateQuantities(ctx context.Context, data []domain.ProductQuantity) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, customer domain.Customer, products []domain.OrderProduct) (domain.Order, error) {
	args := m.Called(ctx, customer, products)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id string) (domain.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Order), args.Error(1)
}

type mockOutboxRepository struct {
	mock.Mock
}

func (m *mockOutboxRepository) AddEvent(ctx context.Context, data domain.OutboxEvent) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *mockOutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	args := m.Called(ctx, limit)
	var data []domain.OutboxEvent
	if v := args.Get(0); v != nil {
		data = v.([]domain.OutboxEvent)
	}
	return data, args.Error(1)
}

func (m *mockOutboxRepository) MarkEventPublished(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockMessageWriter struct {
	mock.Mock
}

func (m *mockMessageWriter) WriteMessages(msgs ...kafka.Message) (int, error) {
	args := m.Called(msgs)
	return args.Int(0), args.Error(1)
}

// fakeTransactor runs fn against fixed repositories and records the outcome
// the way a real transaction would commit or roll back.
type fakeTransactor struct {
	repos      repository.Repositories
	calls      int
	rolledBack int
	committed  int
}

func (t *fakeTransactor) HandleTrx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	t.calls++
	err := fn(ctx, t.repos)
	if err != nil {
		t.rolledBack++
		return err
	}

	t.committed++
	return nil
}
