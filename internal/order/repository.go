package order

import (
	"context"
	"database/sql"

	"foodhub-be/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, o *Order) (*Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	MarkPaid(ctx context.Context, id uuid.UUID) error
	GetItemPricing(ctx context.Context, productIDs []int64) (map[int64]ItemPricing, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// Create inserts the order and its lines in one transaction.
func (r *repository) Create(ctx context.Context, o *Order) (*Order, error) {
	log := logger.FromCtx(ctx).With(zap.String("method", "Create"), zap.String("userId", o.UserID))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		INSERT INTO orders (id, user_id, amount, address, status, payment_done, order_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, o.ID, o.UserID, o.Amount, o.Address, o.Status, o.PaymentDone, o.OrderDate)
	if err := row.Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return nil, err
	}

	for i := range o.Items {
		item := &o.Items[i]
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, quantity, unit_price, unit_cost)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, o.ID, item.ProductID, item.Name, item.Quantity, item.UnitPrice, item.UnitCost)
		if err != nil {
			log.Error("failed to insert order item", zap.Int64("productId", item.ProductID), zap.Error(err))
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order", zap.Error(err))
		return nil, err
	}
	return o, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, amount, address, status, payment_done, order_date, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id)

	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.Amount, &o.Address, &o.Status, &o.PaymentDone, &o.OrderDate, &o.CreatedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get order", zap.String("id", id.String()), zap.Error(err))
		return nil, err
	}

	items, err := r.itemsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *repository) itemsFor(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, name, quantity, unit_price, unit_cost
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Quantity, &it.UnitPrice, &it.UnitCost); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]*Order, error) {
	return r.list(ctx, `
		SELECT id, user_id, amount, address, status, payment_done, order_date, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY order_date DESC
	`, userID)
}

func (r *repository) ListAll(ctx context.Context) ([]*Order, error) {
	return r.list(ctx, `
		SELECT id, user_id, amount, address, status, payment_done, order_date, created_at, updated_at
		FROM orders
		ORDER BY order_date DESC
	`)
}

func (r *repository) list(ctx context.Context, query string, args ...any) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		err := rows.Scan(&o.ID, &o.UserID, &o.Amount, &o.Address, &o.Status, &o.PaymentDone, &o.OrderDate, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		items, err := r.itemsFor(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return orders, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to update order status", zap.String("id", id.String()), zap.Error(err))
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// MarkPaid flips payment_done once. Re-marking an already paid order is a
// no-op so a replayed gateway callback cannot double-apply.
func (r *repository) MarkPaid(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrOrderNotFound
	}

	_, err := r.db.ExecContext(ctx, `
		UPDATE orders SET payment_done = TRUE, updated_at = NOW()
		WHERE id = $1 AND payment_done = FALSE
	`, id)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to mark order paid", zap.String("id", id.String()), zap.Error(err))
	}
	return err
}

func (r *repository) GetItemPricing(ctx context.Context, productIDs []int64) (map[int64]ItemPricing, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, price, cost
		FROM foods
		WHERE id = ANY($1)
	`, pq.Array(productIDs))
	if err != nil {
		logger.FromCtx(ctx).Error("failed to load item pricing", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	pricing := make(map[int64]ItemPricing, len(productIDs))
	for rows.Next() {
		var p ItemPricing
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Price, &p.Cost); err != nil {
			return nil, err
		}
		pricing[p.ProductID] = p
	}
	return pricing, rows.Err()
}
