package domain

const (
	OutboxStatusPending   = "pending"
	OutboxStatusPublished = "published"

	EventTypeOrderPlaced = "order_placed"
)

type OutboxEvent struct {
	ID          int64  `db:"id"`
	AggregateID string `db:"aggregate_id"`
	EventType   string `db:"event_type"`
	Payload     string `db:"payload"`
	Status      string `db:"status"`
	CreatedAt   int64  `db:"created_at"`
	PublishedAt *int64 `db:"published_at"`
}
