package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	created    *Food
	createErr  error
	listFoods  []*Food
	listTotal  int
	listErr    error
	gotLimit   int
	gotOffset  int
	deleteErr  error
	deletedID  int64
	searchOut  []*Food
	searchErr  error
	searchTerm string
}

func (f *fakeRepo) Create(ctx context.Context, food *Food) (*Food, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = food
	out := *food
	out.ID = 1
	return &out, nil
}

func (f *fakeRepo) List(ctx context.Context, limit, offset int) ([]*Food, int, error) {
	f.gotLimit, f.gotOffset = limit, offset
	return f.listFoods, f.listTotal, f.listErr
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (*Food, error) {
	return nil, ErrFoodNotFound
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	f.deletedID = id
	return f.deleteErr
}

func (f *fakeRepo) Search(ctx context.Context, term string) ([]*Food, error) {
	f.searchTerm = term
	return f.searchOut, f.searchErr
}

type fakePublisher struct {
	terms    []string
	products []int64
	err      error
}

func (f *fakePublisher) SearchPerformed(ctx context.Context, term string, productID int64) error {
	f.terms = append(f.terms, term)
	f.products = append(f.products, productID)
	return f.err
}

func (f *fakePublisher) Close() error { return nil }

func TestService_Add(t *testing.T) {
	tests := []struct {
		name    string
		food    *Food
		wantErr error
	}{
		{"Valid", &Food{Name: "Momo", Category: "Nepali", Price: 250, Cost: 120}, nil},
		{"MissingName", &Food{Category: "Nepali", Price: 250}, ErrInvalidFood},
		{"MissingCategory", &Food{Name: "Momo", Price: 250}, ErrInvalidFood},
		{"ZeroPrice", &Food{Name: "Momo", Category: "Nepali"}, ErrInvalidFood},
		{"NegativeCost", &Food{Name: "Momo", Category: "Nepali", Price: 250, Cost: -1}, ErrInvalidFood},
		{"BlankName", &Food{Name: "   ", Category: "Nepali", Price: 250}, ErrInvalidFood},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			svc := NewService(repo, &fakePublisher{})

			created, err := svc.Add(context.Background(), tt.food)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, created)
				return
			}
			assert.NoError(t, err)
			require.NotNil(t, created)
			assert.Equal(t, int64(1), created.ID)
		})
	}
}

func TestService_List(t *testing.T) {
	t.Run("DefaultsAndPagination", func(t *testing.T) {
		repo := &fakeRepo{listFoods: []*Food{{ID: 1}}, listTotal: 25}
		svc := NewService(repo, &fakePublisher{})

		out, err := svc.List(context.Background(), 0, 0)
		assert.NoError(t, err)
		assert.Equal(t, 10, repo.gotLimit)
		assert.Equal(t, 0, repo.gotOffset)
		assert.Equal(t, 25, out.TotalCount)
		assert.Equal(t, 3, out.TotalPages)
		assert.Equal(t, 1, out.CurrentPage)
	})

	t.Run("SecondPageOffset", func(t *testing.T) {
		repo := &fakeRepo{listTotal: 25}
		svc := NewService(repo, &fakePublisher{})

		out, err := svc.List(context.Background(), 3, 5)
		assert.NoError(t, err)
		assert.Equal(t, 5, repo.gotLimit)
		assert.Equal(t, 10, repo.gotOffset)
		assert.Equal(t, 3, out.CurrentPage)
		assert.NotNil(t, out.Data)
	})

	t.Run("RepoError", func(t *testing.T) {
		repo := &fakeRepo{listErr: errors.New("db down")}
		svc := NewService(repo, &fakePublisher{})

		out, err := svc.List(context.Background(), 1, 10)
		assert.Error(t, err)
		assert.Nil(t, out)
	})
}

func TestService_Search(t *testing.T) {
	t.Run("PublishesEachMatch", func(t *testing.T) {
		repo := &fakeRepo{searchOut: []*Food{{ID: 7, Name: "Thukpa"}, {ID: 9, Name: "Veg Thukpa"}}}
		pub := &fakePublisher{}
		svc := NewService(repo, pub)

		foods, err := svc.Search(context.Background(), "  thukpa ")
		assert.NoError(t, err)
		require.Len(t, foods, 2)
		require.Len(t, pub.terms, 2)
		assert.Equal(t, "thukpa", pub.terms[0])
		assert.Equal(t, []int64{7, 9}, pub.products)
	})

	t.Run("NoMatchStillRecorded", func(t *testing.T) {
		repo := &fakeRepo{}
		pub := &fakePublisher{}
		svc := NewService(repo, pub)

		foods, err := svc.Search(context.Background(), "pizza")
		assert.NoError(t, err)
		assert.Empty(t, foods)
		require.Len(t, pub.terms, 1)
		assert.Equal(t, int64(0), pub.products[0])
	})

	t.Run("EmptyTermNotRecorded", func(t *testing.T) {
		repo := &fakeRepo{}
		pub := &fakePublisher{}
		svc := NewService(repo, pub)

		_, err := svc.Search(context.Background(), "   ")
		assert.NoError(t, err)
		assert.Empty(t, pub.terms)
	})

	t.Run("PublishFailureDoesNotFailLookup", func(t *testing.T) {
		repo := &fakeRepo{searchOut: []*Food{{ID: 1}}}
		pub := &fakePublisher{err: errors.New("broker down")}
		svc := NewService(repo, pub)

		foods, err := svc.Search(context.Background(), "momo")
		assert.NoError(t, err)
		assert.Len(t, foods, 1)
	})

	t.Run("RepoError", func(t *testing.T) {
		repo := &fakeRepo{searchErr: errors.New("db down")}
		svc := NewService(repo, &fakePublisher{})

		foods, err := svc.Search(context.Background(), "momo")
		assert.Error(t, err)
		assert.Nil(t, foods)
	})
}

func TestService_Remove(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakePublisher{})

	assert.NoError(t, svc.Remove(context.Background(), 4))
	assert.Equal(t, int64(4), repo.deletedID)
}
