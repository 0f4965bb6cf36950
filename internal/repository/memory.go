package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/Lixing-Zhang/fruit-service/internal/models"
)

// InMemoryFruitRepository implements FruitRepository with in-memory storage
type InMemoryFruitRepository struct {
	mu     sync.RWMutex
	fruits map[int64]models.Fruit
	nextID int64
}

// NewInMemoryFruitRepository creates an empty in-memory fruit repository
func NewInMemoryFruitRepository() *InMemoryFruitRepository {
	return &InMemoryFruitRepository{
		fruits: make(map[int64]models.Fruit),
		nextID: 1,
	}
}

// List returns all fruits ordered by id
func (r *InMemoryFruitRepository) List(ctx context.Context) ([]models.Fruit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fruits := make([]models.Fruit, 0, len(r.fruits))
	for _, fruit := range r.fruits {
		fruits = append(fruits, fruit)
	}
	sort.Slice(fruits, func(i, j int) bool { return fruits[i].ID < fruits[j].ID })
	return fruits, nil
}

// GetByID returns a fruit by its ID
func (r *InMemoryFruitRepository) GetByID(ctx context.Context, id int64) (*models.Fruit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fruit, exists := r.fruits[id]
	if !exists {
		return nil, ErrFruitNotFound
	}
	return &fruit, nil
}

func (r *InMemoryFruitRepository) Create(ctx context.Context, fruit models.Fruit) (*models.Fruit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fruit.ID = r.nextID
	r.nextID++
	r.fruits[fruit.ID] = fruit
	return &fruit, nil
}

func (r *InMemoryFruitRepository) Update(ctx context.Context, id int64, fruit models.Fruit) (*models.Fruit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fruits[id]; !exists {
		return nil, ErrFruitNotFound
	}
	fruit.ID = id
	r.fruits[id] = fruit
	return &fruit, nil
}

func (r *InMemoryFruitRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fruits[id]; !exists {
		return ErrFruitNotFound
	}
	delete(r.fruits, id)
	return nil
}

func (r *InMemoryFruitRepository) Ping(ctx context.Context) error { return nil }

func (r *InMemoryFruitRepository) Close() error { return nil }
