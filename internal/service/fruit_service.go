package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/Lixing-Zhang/fruit-service/internal/models"
	"github.com/Lixing-Zhang/fruit-service/internal/repository"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// FruitService handles business logic for fruits
type FruitService struct {
	repo     repository.FruitRepository
	validate *validator.Validate
}

// NewFruitService creates a new fruit service
func NewFruitService(repo repository.FruitRepository) *FruitService {
	return &FruitService{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ListFruits returns every stored fruit
func (s *FruitService) ListFruits(ctx context.Context) ([]models.Fruit, error) {
	return s.repo.List(ctx)
}

// GetFruit returns a fruit by ID
func (s *FruitService) GetFruit(ctx context.Context, id int64) (*models.Fruit, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateFruit validates the input and stores a new fruit
func (s *FruitService) CreateFruit(ctx context.Context, in models.FruitInput) (*models.Fruit, error) {
	if err := s.Validate(in); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, in.ToFruit(0))
}

// UpdateFruit replaces all fields of fruit id.
// A missing fruit is reported as not found even when the input is invalid.
func (s *FruitService) UpdateFruit(ctx context.Context, id int64, in models.FruitInput) (*models.Fruit, error) {
	if err := s.Validate(in); err != nil {
		return nil, s.InvalidOrMissing(ctx, id, err)
	}
	return s.repo.Update(ctx, id, in.ToFruit(id))
}

// DeleteFruit removes fruit id
func (s *FruitService) DeleteFruit(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Validate checks that name and color are present and price is a non-negative number
func (s *FruitService) Validate(in models.FruitInput) error {
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed on %q", ErrInvalidInput, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// InvalidOrMissing resolves a rejected update body against fruit id:
// a lookup failure (ErrFruitNotFound or a storage error) wins over invalid,
// otherwise invalid is returned wrapped in ErrInvalidInput.
func (s *FruitService) InvalidOrMissing(ctx context.Context, id int64, invalid error) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if !errors.Is(invalid, ErrInvalidInput) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, invalid)
	}
	return invalid
}
