package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/Lixing-Zhang/fruit-service/internal/config"
	"github.com/Lixing-Zhang/fruit-service/internal/models"
	"github.com/Lixing-Zhang/fruit-service/internal/repository/migrations"
)

const fruitColumns = "id, name, color, price"

// PostgresFruitRepository implements FruitRepository on a pgx connection pool
type PostgresFruitRepository struct {
	db *pgxpool.Pool
}

// NewPostgresFruitRepository connects a pool using cfg and verifies it with a ping
func NewPostgresFruitRepository(ctx context.Context, cfg config.DatabaseConfig) (*PostgresFruitRepository, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)
	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return NewPostgresFruitRepositoryFromPool(pool), nil
}

// NewPostgresFruitRepositoryFromPool wraps an existing pool
func NewPostgresFruitRepositoryFromPool(pool *pgxpool.Pool) *PostgresFruitRepository {
	return &PostgresFruitRepository{db: pool}
}

func (r *PostgresFruitRepository) List(ctx context.Context) ([]models.Fruit, error) {
	rows, err := r.db.Query(ctx, `SELECT `+fruitColumns+` FROM fruits ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list fruits: %w", err)
	}
	defer rows.Close()

	fruits := make([]models.Fruit, 0)
	for rows.Next() {
		fruit, err := scanFruit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fruit: %w", err)
		}
		fruits = append(fruits, fruit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list fruits: %w", err)
	}
	return fruits, nil
}

func (r *PostgresFruitRepository) GetByID(ctx context.Context, id int64) (*models.Fruit, error) {
	row := r.db.QueryRow(ctx, `SELECT `+fruitColumns+` FROM fruits WHERE id = $1`, id)
	return fruitFromRow(row, "get fruit")
}

func (r *PostgresFruitRepository) Create(ctx context.Context, fruit models.Fruit) (*models.Fruit, error) {
	query := `
		INSERT INTO fruits (name, color, price)
		VALUES ($1, $2, $3)
		RETURNING ` + fruitColumns
	row := r.db.QueryRow(ctx, query, fruit.Name, fruit.Color, fruit.Price)
	return fruitFromRow(row, "create fruit")
}

func (r *PostgresFruitRepository) Update(ctx context.Context, id int64, fruit models.Fruit) (*models.Fruit, error) {
	query := `
		UPDATE fruits SET name = $2, color = $3, price = $4
		WHERE id = $1
		RETURNING ` + fruitColumns
	row := r.db.QueryRow(ctx, query, id, fruit.Name, fruit.Color, fruit.Price)
	return fruitFromRow(row, "update fruit")
}

func (r *PostgresFruitRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM fruits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete fruit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrFruitNotFound
	}
	return nil
}

func (r *PostgresFruitRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *PostgresFruitRepository) Close() error {
	r.db.Close()
	return nil
}

func scanFruit(row pgx.Row) (models.Fruit, error) {
	var f models.Fruit
	err := row.Scan(&f.ID, &f.Name, &f.Color, &f.Price)
	return f, err
}

func fruitFromRow(row pgx.Row, op string) (*models.Fruit, error) {
	fruit, err := scanFruit(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFruitNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &fruit, nil
}

// MigratePostgres applies the embedded goose migrations to the database at dsn
func MigratePostgres(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
