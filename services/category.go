package services

import (
	"pro5/backend/models"

	"go.uber.org/zap"
)

// CategoryService manages categories in the store.
type CategoryService struct {
	crud[models.Category, *models.Category]
}

func NewCategoryService(store Store[models.Category], mirror Mirror[models.Category], logger *zap.Logger) *CategoryService {
	return &CategoryService{
		crud: newCrud[models.Category, *models.Category]("category", store, mirror, logger),
	}
}
