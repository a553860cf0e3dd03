package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type KafkaMessage struct {
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
}

type OrderPlacedEvent struct {
	OrderID    string                 `json:"order_id"`
	CustomerID string                 `json:"customer_id"`
	Products   []OrderProductResponse `json:"products"`
	Total      decimal.Decimal        `json:"total"`
	CreatedAt  int64                  `json:"created_at"`
}
