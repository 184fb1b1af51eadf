package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stocktrack/internal/domain"
	"stocktrack/internal/storage"

	"github.com/google/uuid"
)

// CategoryService manages the persisted category registry. Categories only
// grow through RegisterCategory; nothing appends to the list as a side
// effect of other operations.
type CategoryService interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	RegisterCategory(ctx context.Context, name string) (*domain.Category, error)
}

type categoryService struct {
	store storage.Store
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(store storage.Store) CategoryService {
	return &categoryService{store: store}
}

func (s *categoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *categoryService) RegisterCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name must not be empty", ErrValidation)
	}

	category := &domain.Category{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.RegisterCategory(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}
