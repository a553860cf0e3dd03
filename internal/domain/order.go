package domain

import "github.com/shopspring/decimal"

type Order struct {
	ID         string `db:"id"`
	CustomerID string `db:"customer_id"`
	CreatedAt  int64  `db:"created_at"`
	UpdatedAt  int64  `db:"updated_at"`
	Customer   Customer
	Products   []OrderProduct
}

// OrderProduct is an order line item. Price is copied from the catalog when
// the order is created and never follows later price changes.
type OrderProduct struct {
	ID        string          `db:"id"`
	OrderID   string          `db:"order_id"`
	ProductID string          `db:"product_id"`
	Quantity  int64           `db:"quantity"`
	Price     decimal.Decimal `db:"price"`
	CreatedAt int64           `db:"created_at"`
	UpdatedAt int64           `db:"updated_at"`
}

func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range o.Products {
		total = total.Add(p.Price.Mul(decimal.NewFromInt(p.Quantity)))
	}

	return total
}
