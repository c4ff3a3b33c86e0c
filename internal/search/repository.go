package search

import (
	"context"
	"database/sql"
	"time"

	"foodhub-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Insert(ctx context.Context, e *Event) error
	TopSearched(ctx context.Context, start, end time.Time, limit int) ([]*ProductSearches, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, e *Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO search_events (id, term, product_id, occurred_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`, e.ID, e.Term, e.ProductID, e.OccurredAt)
	return err
}

func (r *repository) TopSearched(ctx context.Context, start, end time.Time, limit int) ([]*ProductSearches, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("method", "TopSearched"),
		zap.Time("start", start),
		zap.Time("end", end),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, COUNT(*) AS total
		FROM search_events
		WHERE product_id <> 0
		  AND occurred_at >= $1 AND occurred_at <= $2
		GROUP BY product_id
		ORDER BY total DESC, product_id ASC
		LIMIT $3
	`, start, end, limit)
	if err != nil {
		log.Error("failed to query top searched products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []*ProductSearches
	for rows.Next() {
		var p ProductSearches
		if err := rows.Scan(&p.ProductID, &p.TotalSearches); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
