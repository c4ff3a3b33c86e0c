package report

import (
	"context"
	"database/sql"
	"time"

	"foodhub-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// bucketTotal is a raw bucket row before period formatting.
type bucketTotal struct {
	Bucket        time.Time
	TotalSales    float64
	TotalProducts int
}

type Repository interface {
	TotalSales(ctx context.Context, start, end time.Time) (float64, error)
	OrderCount(ctx context.Context, start, end time.Time) (int64, error)
	BucketTotals(ctx context.Context, granularity Granularity, start, end time.Time) ([]bucketTotal, error)
	TopProducts(ctx context.Context, start, end time.Time, limit int) ([]*ProductTotal, error)
	GrossProfitPerProduct(ctx context.Context, start, end time.Time) ([]*ProfitRow, error)
	ProductSalesHistory(ctx context.Context, productID int64, start, end time.Time) ([]*HistoryPoint, error)
	CustomerStats(ctx context.Context, start, end time.Time) ([]*CustomerStat, error)

	InsertSchedule(ctx context.Context, s *Schedule) error
	DueSchedules(ctx context.Context, now time.Time) ([]*Schedule, error)
	AdvanceSchedule(ctx context.Context, id uuid.UUID, nextRunAt time.Time) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) TotalSales(ctx context.Context, start, end time.Time) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM orders
		WHERE order_date >= $1 AND order_date <= $2
	`, start, end).Scan(&total)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to sum sales", zap.Error(err))
		return 0, err
	}
	return total, nil
}

func (r *repository) OrderCount(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM orders
		WHERE order_date >= $1 AND order_date <= $2
	`, start, end).Scan(&count)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to count orders", zap.Error(err))
		return 0, err
	}
	return count, nil
}

// BucketTotals sums order amounts per period. The line-item count is
// precomputed per order in the subquery so joining items cannot duplicate
// order amounts.
func (r *repository) BucketTotals(ctx context.Context, granularity Granularity, start, end time.Time) ([]bucketTotal, error) {
	log := logger.FromCtx(ctx).With(zap.String("granularity", string(granularity)))

	rows, err := r.db.QueryContext(ctx, `
		SELECT date_trunc($1, sub.order_date) AS bucket,
		       COALESCE(SUM(sub.amount), 0) AS total_sales,
		       COALESCE(SUM(sub.item_count), 0) AS total_products
		FROM (
			SELECT o.order_date, o.amount,
			       (SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id) AS item_count
			FROM orders o
			WHERE o.order_date >= $2 AND o.order_date <= $3
		) sub
		GROUP BY bucket
		ORDER BY bucket ASC
	`, string(granularity), start, end)
	if err != nil {
		log.Error("failed to query bucket totals", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []bucketTotal
	for rows.Next() {
		var b bucketTotal
		if err := rows.Scan(&b.Bucket, &b.TotalSales, &b.TotalProducts); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repository) TopProducts(ctx context.Context, start, end time.Time, limit int) ([]*ProductTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.product_id, MIN(oi.name) AS name,
		       SUM(oi.quantity) AS total_quantity,
		       SUM(oi.quantity * oi.unit_price) AS total_revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.order_date >= $1 AND o.order_date <= $2
		GROUP BY oi.product_id
		ORDER BY total_quantity DESC, oi.product_id ASC
		LIMIT $3
	`, start, end, limit)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query top products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []*ProductTotal
	for rows.Next() {
		var p ProductTotal
		if err := rows.Scan(&p.ProductID, &p.Name, &p.TotalQuantity, &p.TotalRevenue); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *repository) GrossProfitPerProduct(ctx context.Context, start, end time.Time) ([]*ProfitRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.product_id, MIN(oi.name) AS name,
		       SUM(oi.quantity * (oi.unit_price - oi.unit_cost)) AS gross_profit
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.order_date >= $1 AND o.order_date <= $2
		GROUP BY oi.product_id
		ORDER BY gross_profit DESC, oi.product_id ASC
	`, start, end)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query gross profit", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []*ProfitRow
	for rows.Next() {
		var p ProfitRow
		if err := rows.Scan(&p.ProductID, &p.Name, &p.GrossProfit); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *repository) ProductSalesHistory(ctx context.Context, productID int64, start, end time.Time) ([]*HistoryPoint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT to_char(date_trunc('day', o.order_date), 'YYYY-MM-DD') AS day,
		       SUM(oi.quantity) AS quantity,
		       SUM(oi.quantity * oi.unit_price) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.product_id = $1
		  AND o.order_date >= $2 AND o.order_date <= $3
		GROUP BY day
		ORDER BY day ASC
	`, productID, start, end)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query product history", zap.Int64("productId", productID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []*HistoryPoint
	for rows.Next() {
		var h HistoryPoint
		if err := rows.Scan(&h.Date, &h.Quantity, &h.Revenue); err != nil {
			return nil, err
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}

// CustomerStats returns per-customer totals inside the range along with the
// customer's all-time first order date for new/repeat classification.
func (r *repository) CustomerStats(ctx context.Context, start, end time.Time) ([]*CustomerStat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.user_id,
		       SUM(o.amount) AS revenue,
		       COUNT(*) AS order_count,
		       MIN(f.first_order) AS first_order
		FROM orders o
		JOIN (
			SELECT user_id, MIN(order_date) AS first_order
			FROM orders
			GROUP BY user_id
		) f ON f.user_id = o.user_id
		WHERE o.order_date >= $1 AND o.order_date <= $2
		GROUP BY o.user_id
		ORDER BY revenue DESC, o.user_id ASC
	`, start, end)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query customer stats", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []*CustomerStat
	for rows.Next() {
		var c CustomerStat
		if err := rows.Scan(&c.UserID, &c.Revenue, &c.OrderCount, &c.FirstOrder); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *repository) InsertSchedule(ctx context.Context, s *Schedule) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO report_schedules (id, email, frequency, next_run_at)
		VALUES ($1, $2, $3, $4)
	`, s.ID, s.Email, s.Frequency, s.NextRunAt)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to insert schedule", zap.String("email", s.Email), zap.Error(err))
	}
	return err
}

func (r *repository) DueSchedules(ctx context.Context, now time.Time) ([]*Schedule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, frequency, next_run_at, created_at
		FROM report_schedules
		WHERE next_run_at <= $1
		ORDER BY next_run_at ASC
	`, now)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query due schedules", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []*Schedule
	for rows.Next() {
		var s Schedule
		if err := rows.Scan(&s.ID, &s.Email, &s.Frequency, &s.NextRunAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *repository) AdvanceSchedule(ctx context.Context, id uuid.UUID, nextRunAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE report_schedules SET next_run_at = $2 WHERE id = $1
	`, id, nextRunAt)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to advance schedule", zap.String("id", id.String()), zap.Error(err))
	}
	return err
}
