package dto

type OrderProduct struct {
	ID       string `json:"id"`
	Quantity int64  `json:"quantity"`
}

type OrderRequest struct {
	CustomerID string         `json:"customer_id"`
	Products   []OrderProduct `json:"products"`
}
