package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/alimikegami/point-of-sales/order-placement-service/internal/domain"
	"github.com/alimikegami/point-of-sales/order-placement-service/pkg/errs"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

type CustomerRepositoryImpl struct {
	db *sqlx.DB
}

func CreateCustomerRepository(db *sqlx.DB) CustomerRepository {
	return &CustomerRepositoryImpl{db: db}
}

func (r *CustomerRepositoryImpl) FindByID(ctx context.Context, id string) (data domain.Customer, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT id, name, email, created_at, updated_at FROM customers WHERE id = $1", id)
	err = row.StructScan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, nil
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "CustomerFindByID").Msg("")
		return data, err
	}

	return
}

type ProductRepositoryImpl struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

func CreateProductRepository(db *sqlx.DB) ProductRepository {
	return &ProductRepositoryImpl{db: db}
}

func (r *ProductRepositoryImpl) FindAllByID(ctx context.Context, ids []string) (data []domain.Product, err error) {
	query := "SELECT id, name, price, quantity, created_at, updated_at FROM products WHERE id = ANY($1) ORDER BY id"
	if r.tx != nil {
		// rows stay locked until the surrounding order transaction ends
		query += " FOR UPDATE"
	}

	err = sqlx.SelectContext(ctx, queryer(r.db, r.tx), &data, query, pq.Array(ids))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ProductFindAllByID").Msg("")
		return nil, err
	}

	return data, nil
}

func (r *ProductRepositoryImpl) UpdateQuantities(ctx context.Context, data []domain.ProductQuantity) (err error) {
	timestamp := time.Now().UnixMilli()

	return runInTx(ctx, r.db, r.tx, func(tx *sqlx.Tx) error {
		for _, item := range data {
			result, err := tx.ExecContext(ctx, "UPDATE products SET quantity = $1, updated_at = $2 WHERE id = $3 AND quantity = $4", item.Quantity, timestamp, item.ID, item.PreviousQuantity)
			if err != nil {
				log.Ctx(ctx).Error().Err(err).Str("component", "UpdateQuantities").Msg("")
				return err
			}

			affected, err := result.RowsAffected()
			if err != nil {
				log.Ctx(ctx).Error().Err(err).Str("component", "UpdateQuantities").Msg("")
				return err
			}

			if affected == 0 {
				log.Ctx(ctx).Warn().Str("component", "UpdateQuantities").Str("product_id", item.ID).Msg("stock changed since validation")
				return errs.ErrStockConflict
			}
		}

		return nil
	})
}

type OrderRepositoryImpl struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

func CreateOrderRepository(db *sqlx.DB) OrderRepository {
	return &OrderRepositoryImpl{db: db}
}

func (r *OrderRepositoryImpl) Create(ctx context.Context, customer domain.Customer, products []domain.OrderProduct) (data domain.Order, err error) {
	orderID, err := uuid.NewV7()
	if err != nil {
		return data, err
	}

	timestamp := time.Now().UnixMilli()
	data = domain.Order{
		ID:         orderID.String(),
		CustomerID: customer.ID,
		CreatedAt:  timestamp,
		UpdatedAt:  timestamp,
		Customer:   customer,
		Products:   make([]domain.OrderProduct, len(products)),
	}

	for i, p := range products {
		lineID, err := uuid.NewV7()
		if err != nil {
			return domain.Order{}, err
		}

		p.ID = lineID.String()
		p.OrderID = data.ID
		p.CreatedAt = timestamp
		p.UpdatedAt = timestamp
		data.Products[i] = p
	}

	err = runInTx(ctx, r.db, r.tx, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, "INSERT INTO orders(id, customer_id, created_at, updated_at) VALUES (:id, :customer_id, :created_at, :updated_at)", data)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "OrderCreate").Msg("")
			return err
		}

		if len(data.Products) == 0 {
			return nil
		}

		_, err = tx.NamedExecContext(ctx, "INSERT INTO orders_products(id, order_id, product_id, quantity, price, created_at, updated_at) VALUES (:id, :order_id, :product_id, :quantity, :price, :created_at, :updated_at)", data.Products)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "OrderCreate").Msg("")
			return err
		}

		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	return data, nil
}

func (r *OrderRepositoryImpl) FindByID(ctx context.Context, id string) (data domain.Order, err error) {
	q := queryer(r.db, r.tx)

	err = sqlx.GetContext(ctx, q, &data, "SELECT id, customer_id, created_at, updated_at FROM orders WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return data, errs.ErrNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "OrderFindByID").Msg("")
		return data, err
	}

	err = sqlx.GetContext(ctx, q, &data.Customer, "SELECT id, name, email, created_at, updated_at FROM customers WHERE id = $1", data.CustomerID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Ctx(ctx).Error().Err(err).Str("component", "OrderFindByID").Msg("")
		return data, err
	}

	err = sqlx.SelectContext(ctx, q, &data.Products, "SELECT id, order_id, product_id, quantity, price, created_at, updated_at FROM orders_products WHERE order_id = $1 ORDER BY created_at, id", id)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "OrderFindByID").Msg("")
		return data, err
	}

	return data, nil
}

type OutboxRepositoryImpl struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

func CreateOutboxRepository(db *sqlx.DB) OutboxRepository {
	return &OutboxRepositoryImpl{db: db}
}

func (r *OutboxRepositoryImpl) AddEvent(ctx context.Context, data domain.OutboxEvent) (err error) {
	if data.Status == "" {
		data.Status = domain.OutboxStatusPending
	}
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().UnixMilli()
	}

	_, err = sqlx.NamedExecContext(ctx, queryer(r.db, r.tx), "INSERT INTO order_outbox(aggregate_id, event_type, payload, status, created_at) VALUES (:aggregate_id, :event_type, :payload, :status, :created_at)", data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddEvent").Msg("")
		return
	}

	return nil
}

func (r *OutboxRepositoryImpl) GetPendingEvents(ctx context.Context, limit int) (data []domain.OutboxEvent, err error) {
	err = sqlx.SelectContext(ctx, queryer(r.db, r.tx), &data, "SELECT id, aggregate_id, event_type, payload, status, created_at, published_at FROM order_outbox WHERE status = $1 ORDER BY id LIMIT $2", domain.OutboxStatusPending, limit)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetPendingEvents").Msg("")
		return nil, err
	}

	return data, nil
}

func (r *OutboxRepositoryImpl) MarkEventPublished(ctx context.Context, id int64) (err error) {
	_, err = queryer(r.db, r.tx).ExecContext(ctx, "UPDATE order_outbox SET status = $1, published_at = $2 WHERE id = $3", domain.OutboxStatusPublished, time.Now().UnixMilli(), id)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "MarkEventPublished").Msg("")
		return
	}

	return nil
}

type PostgresTransactor struct {
	db *sqlx.DB
	// products overrides the transaction-bound catalog, e.g. when products
	// live in MongoDB while orders stay in Postgres.
	products ProductRepository
}

func CreatePostgresTransactor(db *sqlx.DB, products ProductRepository) Transactor {
	return &PostgresTransactor{db: db, products: products}
}

func (t *PostgresTransactor) HandleTrx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) (err error) {
	tx, err := t.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "HandleTrx").Msg("")
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
			if err != nil {
				log.Ctx(ctx).Error().Err(err).Str("component", "HandleTrx").Msg("commit failed")
			}
		}
	}()

	repos := Repositories{
		Products: &ProductRepositoryImpl{db: t.db, tx: tx},
		Orders:   &OrderRepositoryImpl{db: t.db, tx: tx},
		Outbox:   &OutboxRepositoryImpl{db: t.db, tx: tx},
	}
	if t.products != nil {
		repos.Products = t.products
	}

	err = fn(ctx, repos)

	return err
}

func queryer(db *sqlx.DB, tx *sqlx.Tx) sqlx.ExtContext {
	if tx != nil {
		return tx
	}

	return db
}

// runInTx reuses tx when the repository is already bound to one, otherwise it
// opens a short transaction so multi-statement writes stay atomic.
func runInTx(ctx context.Context, db *sqlx.DB, tx *sqlx.Tx, fn func(tx *sqlx.Tx) error) (err error) {
	if tx != nil {
		return fn(tx)
	}

	tx, err = db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = fn(tx)

	return err
}
