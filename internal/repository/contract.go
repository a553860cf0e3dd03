package repository

import (
	"context"

	"github.com/alimikegami/point-of-sales/order-placement-service/internal/domain"
)

type CustomerRepository interface {
	// FindByID returns a zero Customer and a nil error when no customer matches.
	FindByID(ctx context.Context, id string) (data domain.Customer, err error)
}

type ProductRepository interface {
	// FindAllByID returns the products matching ids in no particular order.
	// Unknown ids are skipped, not reported.
	FindAllByID(ctx context.Context, ids []string) (data []domain.Product, err error)
	// UpdateQuantities applies the whole batch or nothing. A product whose
	// stored stock no longer equals PreviousQuantity fails the batch with
	// errs.ErrStockConflict.
	UpdateQuantities(ctx context.Context, data []domain.ProductQuantity) (err error)
}

type OrderRepository interface {
	Create(ctx context.Context, customer domain.Customer, products []domain.OrderProduct) (data domain.Order, err error)
	FindByID(ctx context.Context, id string) (data domain.Order, err error)
}

type OutboxRepository interface {
	AddEvent(ctx context.Context, data domain.OutboxEvent) (err error)
	GetPendingEvents(ctx context.Context, limit int) (data []domain.OutboxEvent, err error)
	MarkEventPublished(ctx context.Context, id int64) (err error)
}

// Repositories groups the collaborators the order workflow writes through.
// Outbox may be nil.
type Repositories struct {
	Products ProductRepository
	Orders   OrderRepository
	Outbox   OutboxRepository
}

type Transactor interface {
	HandleTrx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
