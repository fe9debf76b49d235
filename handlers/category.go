package handlers

import (
	"pro5/backend/models"
	"pro5/backend/services"

	"go.uber.org/zap"
)

// NewCategoryResource serves categories under basePath.
func NewCategoryResource(appName, basePath string, service services.EntityService[models.Category], logger *zap.Logger) *Resource[models.Category] {
	return NewResource("category", appName, basePath, service,
		func(c *models.Category) string { return c.ID }, logger)
}
