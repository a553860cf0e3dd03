package service

import (
	"context"

	"github.com/alimikegami/point-of-sales/order-placement-service/internal/domain"
	"github.com/alimikegami/point-of-sales/order-placement-service/internal/dto"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, req dto.OrderRequest) (order domain.Order, err error)
	GetOrder(ctx context.Context, id string) (order domain.Order, err error)
	RelayOrderEvents(ctx context.Context) (published int, err error)
}
