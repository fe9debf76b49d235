package services

import (
	"context"
	"errors"
	"fmt"

	"pro5/backend/database"
	"pro5/backend/models"

	"go.uber.org/zap"
)

// CategoryFinder loads categories from the mirror.
type CategoryFinder interface {
	FindByID(ctx context.Context, id string) (*models.Category, error)
	Save(ctx context.Context, category models.Category) error
}

// ItemService manages items and their links to categories.
type ItemService struct {
	crud[models.Item, *models.Item]

	categories     Store[models.Category]
	categoryMirror CategoryFinder
}

func NewItemService(
	store Store[models.Item],
	mirror Mirror[models.Item],
	categories Store[models.Category],
	categoryMirror CategoryFinder,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{
		crud:           newCrud[models.Item, *models.Item]("item", store, mirror, logger),
		categories:     categories,
		categoryMirror: categoryMirror,
	}
}

// AddToCategory creates item in the store pointing at the category and
// appends a reference to the new item to the category.
func (s *ItemService) AddToCategory(ctx context.Context, categoryID string, item models.Item) (*models.Item, error) {
	s.logger.Debug("Request to add item to category", zap.String("category", categoryID))

	category, err := s.categories.GetByID(ctx, categoryID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrEntityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting category %s: %w", categoryID, err)
	}

	ref := models.NewRef(categoryID, models.RefToCategory)
	item.Category = &ref
	created, err := s.Create(ctx, item)
	if err != nil {
		return nil, err
	}

	category.AddItemRef(created.ID)
	if err := s.categories.Update(ctx, categoryID, category); err != nil {
		return nil, fmt.Errorf("error linking item %s to category %s: %w", created.ID, categoryID, err)
	}
	if s.categoryMirror != nil {
		if err := s.categoryMirror.Save(ctx, *category); err != nil {
			s.logger.Warn("Failed to mirror category", zap.String("id", categoryID), zap.Error(err))
		}
	}
	return created, nil
}

// SaveForCategory links item to a mirrored category without going through
// the store and returns the updated category.
func (s *ItemService) SaveForCategory(ctx context.Context, categoryID string, item models.Item) (*models.Category, error) {
	s.logger.Debug("Request to save item for mirrored category", zap.String("category", categoryID))

	if s.categoryMirror == nil || s.mirror == nil {
		return nil, fmt.Errorf("mirror is not configured")
	}

	category, err := s.categoryMirror.FindByID(ctx, categoryID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrEntityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting category %s: %w", categoryID, err)
	}

	if item.ID == "" {
		item.ID = models.NewID()
	}
	ref := models.NewRef(category.ID, models.RefToCategory)
	item.Category = &ref
	category.AddItemRef(item.ID)

	if err := s.categoryMirror.Save(ctx, *category); err != nil {
		return nil, fmt.Errorf("error saving category %s: %w", categoryID, err)
	}
	if err := s.mirror.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("error saving item %s: %w", item.ID, err)
	}
	return category, nil
}
