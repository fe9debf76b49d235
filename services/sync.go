package services

import (
	"context"
	"fmt"

	"pro5/backend/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Replacer swaps the whole mirror content of one entity.
type Replacer[T any] interface {
	ReplaceAll(ctx context.Context, entities []T) error
}

// Syncer refreshes the mirror from the store.
type Syncer struct {
	categories     Store[models.Category]
	items          Store[models.Item]
	categoryMirror Replacer[models.Category]
	itemMirror     Replacer[models.Item]
	logger         *zap.Logger
}

func NewSyncer(
	categories Store[models.Category],
	items Store[models.Item],
	categoryMirror Replacer[models.Category],
	itemMirror Replacer[models.Item],
	logger *zap.Logger,
) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{
		categories:     categories,
		items:          items,
		categoryMirror: categoryMirror,
		itemMirror:     itemMirror,
		logger:         logger,
	}
}

// SyncAll fetches both collections concurrently and replaces the mirror.
// Nothing is written unless both fetches succeed.
func (s *Syncer) SyncAll(ctx context.Context) error {
	var categories []models.Category
	var items []models.Item

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		categories, err = s.categories.FindAll(egCtx)
		if err != nil {
			return fmt.Errorf("error fetching categories: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		items, err = s.items.FindAll(egCtx)
		if err != nil {
			return fmt.Errorf("error fetching items: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return err
	}

	if err := s.categoryMirror.ReplaceAll(ctx, categories); err != nil {
		return fmt.Errorf("error mirroring categories: %w", err)
	}
	if err := s.itemMirror.ReplaceAll(ctx, items); err != nil {
		return fmt.Errorf("error mirroring items: %w", err)
	}

	s.logger.Info("Mirror synced",
		zap.Int("categories", len(categories)),
		zap.Int("items", len(items)))
	return nil
}
