package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/fruit-service/internal/models"
)

// runFruitRepositoryContract exercises behaviour every backend must share.
// newRepo must return an empty repository.
func runFruitRepositoryContract(t *testing.T, newRepo func(t *testing.T) FruitRepository) {
	t.Run("list empty", func(t *testing.T) {
		repo := newRepo(t)

		fruits, err := repo.List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, fruits)
		assert.Empty(t, fruits)
	})

	t.Run("create assigns ids and round trips", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		apple, err := repo.Create(ctx, models.Fruit{Name: "Apple", Color: "red", Price: 1.5})
		require.NoError(t, err)
		assert.Positive(t, apple.ID)

		banana, err := repo.Create(ctx, models.Fruit{Name: "Banana", Color: "yellow", Price: 0})
		require.NoError(t, err)
		assert.Greater(t, banana.ID, apple.ID)

		got, err := repo.GetByID(ctx, apple.ID)
		require.NoError(t, err)
		assert.Equal(t, models.Fruit{ID: apple.ID, Name: "Apple", Color: "red", Price: 1.5}, *got)

		fruits, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.Fruit{*apple, *banana}, fruits)
	})

	t.Run("create ignores caller id", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(context.Background(), models.Fruit{ID: 4242, Name: "Kiwi", Color: "green", Price: 2})
		require.NoError(t, err)
		assert.NotEqual(t, int64(4242), created.ID)
	})

	t.Run("get missing", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.GetByID(context.Background(), 999999)
		assert.ErrorIs(t, err, ErrFruitNotFound)
	})

	t.Run("update replaces all fields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Create(ctx, models.Fruit{Name: "Plum", Color: "purple", Price: 3.25})
		require.NoError(t, err)

		updated, err := repo.Update(ctx, created.ID, models.Fruit{Name: "Green Plum", Color: "green", Price: 0})
		require.NoError(t, err)
		assert.Equal(t, models.Fruit{ID: created.ID, Name: "Green Plum", Color: "green", Price: 0}, *updated)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, *updated, *got)
	})

	t.Run("update with unchanged values", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Create(ctx, models.Fruit{Name: "Fig", Color: "purple", Price: 4})
		require.NoError(t, err)

		updated, err := repo.Update(ctx, created.ID, *created)
		require.NoError(t, err)
		assert.Equal(t, *created, *updated)
	})

	t.Run("update missing", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Update(context.Background(), 999999, models.Fruit{Name: "Pear", Color: "green", Price: 1})
		assert.ErrorIs(t, err, ErrFruitNotFound)
	})

	t.Run("delete removes row", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		keep, err := repo.Create(ctx, models.Fruit{Name: "Lime", Color: "green", Price: 0.5})
		require.NoError(t, err)
		gone, err := repo.Create(ctx, models.Fruit{Name: "Lemon", Color: "yellow", Price: 0.6})
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, gone.ID))

		_, err = repo.GetByID(ctx, gone.ID)
		assert.ErrorIs(t, err, ErrFruitNotFound)

		fruits, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.Fruit{*keep}, fruits)

		assert.ErrorIs(t, repo.Delete(ctx, gone.ID), ErrFruitNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		repo := newRepo(t)
		assert.NoError(t, repo.Ping(context.Background()))
	})
}
