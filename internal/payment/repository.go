package payment

import (
	"context"
	"database/sql"

	"foodhub-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Save(ctx context.Context, rec *Record) (*Record, error)
	List(ctx context.Context) ([]*Record, error)
	GetByPidx(ctx context.Context, pidx string) (*Record, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const paymentColumns = `id, customer_info, shipping_address, purchased_item, transaction_id, pidx,
	product_id, amount, verification_data, api_query, gateway, status, payment_date, created_at, updated_at`

func scanRecord(row interface{ Scan(dest ...any) error }) (*Record, error) {
	var rec Record
	// The JSONB columns are nullable, so scan them through []byte.
	var customerInfo, shippingAddress, verificationData, apiQuery []byte
	err := row.Scan(
		&rec.ID, &customerInfo, &shippingAddress, &rec.PurchasedItem,
		&rec.TransactionID, &rec.Pidx, &rec.ProductID, &rec.Amount,
		&verificationData, &apiQuery, &rec.Gateway, &rec.Status,
		&rec.PaymentDate, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.CustomerInfo = customerInfo
	rec.ShippingAddress = shippingAddress
	rec.VerificationData = verificationData
	rec.APIQuery = apiQuery
	return &rec, nil
}

// Save inserts a payment. The pidx unique constraint plus ON CONFLICT DO
// NOTHING makes a replayed callback surface as ErrDuplicatePayment instead
// of a second row.
func (r *repository) Save(ctx context.Context, rec *Record) (*Record, error) {
	log := logger.FromCtx(ctx).With(zap.String("method", "Save"), zap.String("pidx", rec.Pidx))

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO payments (
			customer_info, shipping_address, purchased_item, transaction_id, pidx,
			product_id, amount, verification_data, api_query, gateway, status, payment_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (pidx) DO NOTHING
		RETURNING `+paymentColumns,
		rec.CustomerInfo, rec.ShippingAddress, rec.PurchasedItem, rec.TransactionID, rec.Pidx,
		rec.ProductID, rec.Amount, rec.VerificationData, rec.APIQuery, rec.Gateway, rec.Status, rec.PaymentDate,
	)

	saved, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrDuplicatePayment
	}
	if err != nil {
		log.Error("failed to save payment", zap.Error(err))
		return nil, err
	}
	return saved, nil
}

func (r *repository) List(ctx context.Context) ([]*Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		ORDER BY payment_date DESC, id DESC
	`)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list payments", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *repository) GetByPidx(ctx context.Context, pidx string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE pidx = $1
	`, pidx)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get payment", zap.String("pidx", pidx), zap.Error(err))
		return nil, err
	}
	return rec, nil
}
