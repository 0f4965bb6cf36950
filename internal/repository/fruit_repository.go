package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Lixing-Zhang/fruit-service/internal/config"
	"github.com/Lixing-Zhang/fruit-service/internal/models"
)

var (
	ErrFruitNotFound = errors.New("fruit not found")
)

// FruitRepository defines the interface for fruit data access
type FruitRepository interface {
	List(ctx context.Context) ([]models.Fruit, error)
	GetByID(ctx context.Context, id int64) (*models.Fruit, error)
	// Create stores the fruit and returns it with the generated id.
	Create(ctx context.Context, fruit models.Fruit) (*models.Fruit, error)
	// Update replaces all fields of an existing fruit in a single atomic step.
	// Returns ErrFruitNotFound when no row has the given id.
	Update(ctx context.Context, id int64, fruit models.Fruit) (*models.Fruit, error)
	// Delete removes the fruit. Returns ErrFruitNotFound when no row has the given id.
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
	Close() error
}

// Open builds the repository selected by cfg.Driver
func Open(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (FruitRepository, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		if cfg.Migrate {
			if err := MigratePostgres(ctx, cfg.URL); err != nil {
				return nil, err
			}
			log.Info("postgres migrations applied")
		}
		return NewPostgresFruitRepository(ctx, cfg)
	case config.DriverSQLite:
		return NewSQLiteFruitRepository(cfg.SQLitePath)
	case config.DriverMemory:
		log.Warn("using in-memory storage, data will not survive restarts")
		return NewInMemoryFruitRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
