package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Lixing-Zhang/fruit-service/internal/models"
)

// fruitRecord is the gorm mapping of the fruits table
type fruitRecord struct {
	ID    int64   `gorm:"primaryKey;autoIncrement"`
	Name  string  `gorm:"not null"`
	Color string  `gorm:"not null"`
	Price float64 `gorm:"not null;check:price >= 0"`
}

func (fruitRecord) TableName() string { return "fruits" }

func (rec fruitRecord) toModel() models.Fruit {
	return models.Fruit{ID: rec.ID, Name: rec.Name, Color: rec.Color, Price: rec.Price}
}

// SQLiteFruitRepository implements FruitRepository with gorm on SQLite
type SQLiteFruitRepository struct {
	db *gorm.DB
}

// NewSQLiteFruitRepository opens (or creates) the SQLite database at path and
// migrates the fruits table. Use ":memory:" for a throwaway database.
func NewSQLiteFruitRepository(path string) (*SQLiteFruitRepository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// sqlite serializes writers anyway; one connection also keeps ":memory:" a single database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&fruitRecord{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlite migrate: %w", err)
	}

	return &SQLiteFruitRepository{db: db}, nil
}

func (r *SQLiteFruitRepository) List(ctx context.Context) ([]models.Fruit, error) {
	var records []fruitRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list fruits: %w", err)
	}

	fruits := make([]models.Fruit, 0, len(records))
	for _, rec := range records {
		fruits = append(fruits, rec.toModel())
	}
	return fruits, nil
}

func (r *SQLiteFruitRepository) GetByID(ctx context.Context, id int64) (*models.Fruit, error) {
	var rec fruitRecord
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFruitNotFound
		}
		return nil, fmt.Errorf("get fruit: %w", err)
	}
	fruit := rec.toModel()
	return &fruit, nil
}

func (r *SQLiteFruitRepository) Create(ctx context.Context, fruit models.Fruit) (*models.Fruit, error) {
	rec := fruitRecord{Name: fruit.Name, Color: fruit.Color, Price: fruit.Price}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("create fruit: %w", err)
	}
	created := rec.toModel()
	return &created, nil
}

func (r *SQLiteFruitRepository) Update(ctx context.Context, id int64, fruit models.Fruit) (*models.Fruit, error) {
	var updated fruitRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// a map keeps zero values such as price 0 in the SET clause
		res := tx.Model(&fruitRecord{}).Where("id = ?", id).Updates(map[string]interface{}{
			"name":  fruit.Name,
			"color": fruit.Color,
			"price": fruit.Price,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrFruitNotFound
		}
		return tx.First(&updated, id).Error
	})
	if err != nil {
		if errors.Is(err, ErrFruitNotFound) {
			return nil, ErrFruitNotFound
		}
		return nil, fmt.Errorf("update fruit: %w", err)
	}
	result := updated.toModel()
	return &result, nil
}

func (r *SQLiteFruitRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&fruitRecord{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete fruit: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrFruitNotFound
	}
	return nil
}

func (r *SQLiteFruitRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *SQLiteFruitRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
