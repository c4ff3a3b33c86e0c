package catalog

import (
	"context"
	"math"
	"strings"

	"foodhub-be/internal/logger"
	"foodhub-be/internal/search"

	"go.uber.org/zap"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

type Service interface {
	Add(ctx context.Context, food *Food) (*Food, error)
	List(ctx context.Context, page, limit int) (*ListResult, error)
	Remove(ctx context.Context, id int64) error
	Search(ctx context.Context, term string) ([]*Food, error)
}

type service struct {
	repo      Repository
	publisher search.Publisher
}

func NewService(repo Repository, publisher search.Publisher) Service {
	return &service{repo: repo, publisher: publisher}
}

func (s *service) Add(ctx context.Context, food *Food) (*Food, error) {
	food.Name = strings.TrimSpace(food.Name)
	food.Category = strings.TrimSpace(food.Category)
	if food.Name == "" || food.Category == "" || food.Price <= 0 {
		return nil, ErrInvalidFood
	}
	if food.Cost < 0 {
		return nil, ErrInvalidFood
	}
	return s.repo.Create(ctx, food)
}

func (s *service) List(ctx context.Context, page, limit int) (*ListResult, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	foods, total, err := s.repo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if foods == nil {
		foods = []*Food{}
	}

	return &ListResult{
		Data:        foods,
		TotalCount:  total,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
	}, nil
}

func (s *service) Remove(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Search runs a catalog lookup and records the term on the search-event log.
// Publishing is best effort, a broker outage never fails the lookup itself.
func (s *service) Search(ctx context.Context, term string) ([]*Food, error) {
	term = strings.TrimSpace(term)
	foods, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, err
	}

	if term != "" {
		s.recordSearch(ctx, term, foods)
	}

	return foods, nil
}

// One event per matched product; a miss still records the term so demand
// for missing items shows up in reports.
func (s *service) recordSearch(ctx context.Context, term string, foods []*Food) {
	if len(foods) == 0 {
		if err := s.publisher.SearchPerformed(ctx, term, 0); err != nil {
			logger.FromCtx(ctx).Warn("search event not recorded", zap.String("term", term), zap.Error(err))
		}
		return
	}

	for _, f := range foods {
		if err := s.publisher.SearchPerformed(ctx, term, f.ID); err != nil {
			logger.FromCtx(ctx).Warn("search event not recorded", zap.String("term", term), zap.Error(err))
			return
		}
	}
}
