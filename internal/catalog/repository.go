package catalog

import (
	"context"
	"database/sql"

	"foodhub-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, food *Food) (*Food, error)
	List(ctx context.Context, limit, offset int) ([]*Food, int, error)
	GetByID(ctx context.Context, id int64) (*Food, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, term string) ([]*Food, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const foodColumns = `id, name, description, price, cost, category, image, created_at, updated_at`

func scanFood(row interface{ Scan(dest ...any) error }) (*Food, error) {
	var f Food
	err := row.Scan(&f.ID, &f.Name, &f.Description, &f.Price, &f.Cost, &f.Category, &f.Image, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repository) Create(ctx context.Context, food *Food) (*Food, error) {
	log := logger.FromCtx(ctx).With(zap.String("method", "Create"), zap.String("name", food.Name))

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO foods (name, description, price, cost, category, image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+foodColumns,
		food.Name, food.Description, food.Price, food.Cost, food.Category, food.Image,
	)

	created, err := scanFood(row)
	if err != nil {
		log.Error("failed to insert food", zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]*Food, int, error) {
	log := logger.FromCtx(ctx).With(zap.String("method", "List"))

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM foods`).Scan(&total); err != nil {
		log.Error("failed to count foods", zap.Error(err))
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+foodColumns+`
		FROM foods
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		log.Error("failed to list foods", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var foods []*Food
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, 0, err
		}
		foods = append(foods, f)
	}
	return foods, total, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Food, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+foodColumns+`
		FROM foods
		WHERE id = $1
	`, id)

	food, err := scanFood(row)
	if err == sql.ErrNoRows {
		return nil, ErrFoodNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get food", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return food, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM foods WHERE id = $1`, id)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to delete food", zap.Int64("id", id), zap.Error(err))
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrFoodNotFound
	}
	return nil
}

func (r *repository) Search(ctx context.Context, term string) ([]*Food, error) {
	log := logger.FromCtx(ctx).With(zap.String("method", "Search"), zap.String("term", term))

	pattern := "%" + term + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+foodColumns+`
		FROM foods
		WHERE name ILIKE $1 OR category ILIKE $1 OR description ILIKE $1
		ORDER BY name ASC
	`, pattern)
	if err != nil {
		log.Error("failed to search foods", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var foods []*Food
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		foods = append(foods, f)
	}
	return foods, rows.Err()
}
