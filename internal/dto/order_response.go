package dto

import (
	"github.com/alimikegami/point-of-sales/order-placement-service/internal/domain"
	"github.com/shopspring/decimal"
)

type OrderProductResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderResponse struct {
	ID        string                 `json:"id"`
	Customer  domain.Customer        `json:"customer"`
	Products  []OrderProductResponse `json:"order_products"`
	Total     decimal.Decimal        `json:"total"`
	CreatedAt int64                  `json:"created_at"`
}

func NewOrderResponse(order domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:        order.ID,
		Customer:  order.Customer,
		Products:  make([]OrderProductResponse, 0, len(order.Products)),
		Total:     order.Total(),
		CreatedAt: order.CreatedAt,
	}

	for _, p := range order.Products {
		resp.Products = append(resp.Products, OrderProductResponse{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			Price:     p.Price,
		})
	}

	return resp
}
