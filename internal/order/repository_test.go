package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderCols = []string{"id", "user_id", "amount", "address", "status", "payment_done", "order_date", "created_at", "updated_at"}
var itemCols = []string{"product_id", "name", "quantity", "unit_price", "unit_cost"}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()
	id := uuid.New()

	o := &Order{
		ID:        id,
		UserID:    "user-1",
		Amount:    500,
		Address:   []byte(`{"city":"Kathmandu"}`),
		Status:    StatusProcessing,
		OrderDate: now,
		Items: []OrderItem{
			{ProductID: 1, Name: "Momo", Quantity: 2, UnitPrice: 250, UnitCost: 120},
		},
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs(id, "user-1", 500.0, []byte(`{"city":"Kathmandu"}`), StatusProcessing, false, now).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(id, now, now))
		mock.ExpectExec(`INSERT INTO order_items`).
			WithArgs(id, int64(1), "Momo", 2, 250.0, 120.0).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		created, err := repo.Create(context.Background(), o)
		assert.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, id, created.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ItemInsertRollsBack", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(id, now, now))
		mock.ExpectExec(`INSERT INTO order_items`).
			WillReturnError(errors.New("database error"))
		mock.ExpectRollback()

		created, err := repo.Create(context.Background(), o)
		assert.Error(t, err)
		assert.Nil(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`(?s)SELECT (.+) FROM orders.+WHERE id`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(orderCols).
				AddRow(id, "user-1", 500.0, []byte(`{}`), StatusProcessing, false, now, now, now))
		mock.ExpectQuery(`(?s)SELECT (.+) FROM order_items.+WHERE order_id`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(itemCols).
				AddRow(int64(1), "Momo", 2, 250.0, 120.0))

		got, err := repo.GetByID(context.Background(), id)
		assert.NoError(t, err)
		require.NotNil(t, got)
		require.Len(t, got.Items, 1)
		assert.Equal(t, "Momo", got.Items[0].Name)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`(?s)SELECT (.+) FROM orders.+WHERE id`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(orderCols))

		got, err := repo.GetByID(context.Background(), id)
		assert.ErrorIs(t, err, ErrOrderNotFound)
		assert.Nil(t, got)
	})
}

func TestRepository_MarkPaid(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectExec(`UPDATE orders SET payment_done`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkPaid(context.Background(), id))
	})

	t.Run("AlreadyPaidIsNoop", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectExec(`UPDATE orders SET payment_done`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, repo.MarkPaid(context.Background(), id))
	})

	t.Run("UnknownOrder", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		assert.ErrorIs(t, repo.MarkPaid(context.Background(), id), ErrOrderNotFound)
	})
}

func TestRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE orders SET status`).
			WithArgs(id, StatusDelivered).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateStatus(context.Background(), id, StatusDelivered))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec(`UPDATE orders SET status`).
			WithArgs(id, StatusDelivered).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.UpdateStatus(context.Background(), id, StatusDelivered), ErrOrderNotFound)
	})
}

func TestRepository_GetItemPricing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT id, name, price, cost`).
		WithArgs(pq.Array([]int64{1, 2})).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "cost"}).
			AddRow(int64(1), "Momo", 250.0, 120.0).
			AddRow(int64(2), "Thukpa", 180.0, 75.0))

	pricing, err := repo.GetItemPricing(context.Background(), []int64{1, 2})
	assert.NoError(t, err)
	require.Len(t, pricing, 2)
	assert.Equal(t, 180.0, pricing[2].Price)
}
