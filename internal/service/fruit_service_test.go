package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/fruit-service/internal/models"
	"github.com/Lixing-Zhang/fruit-service/internal/repository"
)

func price(v float64) *float64 { return &v }

// failingRepository returns err from every call
type failingRepository struct {
	repository.FruitRepository
	err   error
	calls int
}

func (f *failingRepository) GetByID(ctx context.Context, id int64) (*models.Fruit, error) {
	f.calls++
	return nil, f.err
}

func (f *failingRepository) Create(ctx context.Context, fruit models.Fruit) (*models.Fruit, error) {
	f.calls++
	return nil, f.err
}

func TestFruitService_Validate(t *testing.T) {
	svc := NewFruitService(repository.NewInMemoryFruitRepository())

	tests := []struct {
		name    string
		in      models.FruitInput
		wantErr bool
	}{
		{"valid", models.FruitInput{Name: "Apple", Color: "red", Price: price(1.5)}, false},
		{"zero price", models.FruitInput{Name: "Apple", Color: "red", Price: price(0)}, false},
		{"whitespace name is present", models.FruitInput{Name: " ", Color: "red", Price: price(1)}, false},
		{"negative price", models.FruitInput{Name: "Apple", Color: "red", Price: price(-1)}, true},
		{"missing price", models.FruitInput{Name: "Apple", Color: "red"}, true},
		{"empty name", models.FruitInput{Name: "", Color: "red", Price: price(1)}, true},
		{"missing color", models.FruitInput{Name: "Apple", Price: price(1)}, true},
		{"empty body", models.FruitInput{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Validate(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFruitService_CreateAndGet(t *testing.T) {
	repo := repository.NewInMemoryFruitRepository()
	svc := NewFruitService(repo)
	ctx := context.Background()

	created, err := svc.CreateFruit(ctx, models.FruitInput{Name: "Apple", Color: "red", Price: price(1.5)})
	require.NoError(t, err)
	assert.Equal(t, models.Fruit{ID: 1, Name: "Apple", Color: "red", Price: 1.5}, *created)

	got, err := svc.GetFruit(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)
}

func TestFruitService_CreateInvalidPersistsNothing(t *testing.T) {
	repo := repository.NewInMemoryFruitRepository()
	svc := NewFruitService(repo)
	ctx := context.Background()

	inputs := []models.FruitInput{
		{Name: "Apple", Color: "red", Price: price(-1)},
		{Name: "", Color: "red", Price: price(1)},
		{Name: "Apple", Price: price(1)},
	}
	for _, in := range inputs {
		_, err := svc.CreateFruit(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	fruits, err := svc.ListFruits(ctx)
	require.NoError(t, err)
	assert.Empty(t, fruits)
}

func TestFruitService_UpdateFruit(t *testing.T) {
	repo := repository.NewInMemoryFruitRepository()
	svc := NewFruitService(repo)
	ctx := context.Background()

	existing, err := svc.CreateFruit(ctx, models.FruitInput{Name: "Apple", Color: "red", Price: price(1.5)})
	require.NoError(t, err)

	tests := []struct {
		name    string
		id      int64
		in      models.FruitInput
		wantErr error
	}{
		{"valid replace", existing.ID, models.FruitInput{Name: "Apple", Color: "green", Price: price(2)}, nil},
		{"invalid body on existing fruit", existing.ID, models.FruitInput{Name: "Apple", Color: "green", Price: price(-2)}, ErrInvalidInput},
		{"valid body on missing fruit", 999999, models.FruitInput{Name: "Apple", Color: "green", Price: price(2)}, repository.ErrFruitNotFound},
		{"invalid body on missing fruit", 999999, models.FruitInput{}, repository.ErrFruitNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := svc.UpdateFruit(ctx, tt.id, tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, updated.ID)
			assert.Equal(t, "green", updated.Color)
			assert.Equal(t, 2.0, updated.Price)
		})
	}
}

func TestFruitService_InvalidOrMissing(t *testing.T) {
	repo := repository.NewInMemoryFruitRepository()
	svc := NewFruitService(repo)
	ctx := context.Background()

	existing, err := repo.Create(ctx, models.Fruit{Name: "Pear", Color: "green", Price: 1})
	require.NoError(t, err)

	decodeErr := errors.New("unexpected EOF")

	err = svc.InvalidOrMissing(ctx, existing.ID, decodeErr)
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.InvalidOrMissing(ctx, existing.ID+1, decodeErr)
	assert.ErrorIs(t, err, repository.ErrFruitNotFound)
}

func TestFruitService_DeleteFruit(t *testing.T) {
	repo := repository.NewInMemoryFruitRepository()
	svc := NewFruitService(repo)
	ctx := context.Background()

	created, err := svc.CreateFruit(ctx, models.FruitInput{Name: "Kiwi", Color: "brown", Price: price(0.8)})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFruit(ctx, created.ID))

	_, err = svc.GetFruit(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrFruitNotFound)

	assert.ErrorIs(t, svc.DeleteFruit(ctx, created.ID), repository.ErrFruitNotFound)
}

func TestFruitService_StorageErrorsPassThrough(t *testing.T) {
	boom := errors.New("connection refused")
	repo := &failingRepository{err: boom}
	svc := NewFruitService(repo)
	ctx := context.Background()

	_, err := svc.CreateFruit(ctx, models.FruitInput{Name: "Apple", Color: "red", Price: price(1)})
	assert.ErrorIs(t, err, boom)

	// invalid body, but the existence lookup fails first
	_, err = svc.UpdateFruit(ctx, 1, models.FruitInput{})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidInput)

	// invalid create never reaches storage
	before := repo.calls
	_, err = svc.CreateFruit(ctx, models.FruitInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, before, repo.calls)
}
