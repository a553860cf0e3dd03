package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID        string          `db:"id"`
	Name      string          `db:"name"`
	Price     decimal.Decimal `db:"price"`
	Quantity  int64           `db:"quantity"`
	CreatedAt int64           `db:"created_at"`
	UpdatedAt int64           `db:"updated_at"`
}

// ProductQuantity is one entry of a batched stock update. PreviousQuantity is
// the stock observed when the order was validated; the write only applies
// while the stored stock still equals it.
type ProductQuantity struct {
	ID               string `db:"id"`
	Quantity         int64  `db:"quantity"`
	PreviousQuantity int64  `db:"previous_quantity"`
}
