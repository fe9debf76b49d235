package services

import (
	"context"
	"testing"

	"pro5/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.items.Create(ctx, models.Item{Name: models.StringPtr("Pen"), Price: models.StringPtr("1.20")})
	require.NoError(t, err)

	merged, err := f.items.PartialUpdate(ctx, created.ID, models.Item{ID: created.ID, Price: models.StringPtr("1.50")})
	require.NoError(t, err)
	assert.Equal(t, "Pen", models.StringValue(merged.Name))
	assert.Equal(t, "1.50", models.StringValue(merged.Price))

	mirrored, err := f.itemRepo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *merged, *mirrored)

	_, err = f.items.Update(ctx, created.ID, models.Item{ID: "other"})
	assert.ErrorIs(t, err, ErrIDMismatch)

	require.NoError(t, f.items.Delete(ctx, created.ID))
	_, err = f.items.FindOne(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddToCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	categoryID := models.NewID()
	f.putCategory(models.Category{ID: categoryID, Name: models.StringPtr("Stationery")})

	item, err := f.items.AddToCategory(ctx, categoryID, models.Item{Name: models.StringPtr("Pen")})
	require.NoError(t, err)
	require.NotNil(t, item.Category)
	assert.Equal(t, models.NewRef(categoryID, models.RefToCategory), *item.Category)

	var stored models.Category
	require.True(t, f.store.Get("pro5", "category", categoryID, &stored))
	assert.Equal(t, []models.RefType{models.NewRef(item.ID, models.RefToItem)}, stored.Item)

	mirrored, err := f.categoryRepo.FindByID(ctx, categoryID)
	require.NoError(t, err)
	assert.Equal(t, stored, *mirrored)
}

func TestAddToCategoryUnknownCategory(t *testing.T) {
	f := newFixture(t)

	_, err := f.items.AddToCategory(context.Background(), models.NewID(), models.Item{Name: models.StringPtr("Pen")})
	assert.ErrorIs(t, err, ErrEntityNotFound)
	assert.Equal(t, 0, f.store.Count("pro5", "item"), "no item is created for an unknown category")
}

func TestSaveForCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	categoryID := models.NewID()
	require.NoError(t, f.categoryRepo.Save(ctx, models.Category{ID: categoryID, Name: models.StringPtr("Kitchen")}))

	category, err := f.items.SaveForCategory(ctx, categoryID, models.Item{Name: models.StringPtr("Cup")})
	require.NoError(t, err)
	require.Len(t, category.Item, 1)

	itemID := category.Item[0].ID
	item, err := f.itemRepo.FindByID(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, "Cup", models.StringValue(item.Name))
	assert.Equal(t, categoryID, item.Category.ID)

	assert.Empty(t, f.store.Requests(), "the mirror-only path never calls the store")

	_, err = f.items.SaveForCategory(ctx, models.NewID(), models.Item{})
	assert.ErrorIs(t, err, ErrEntityNotFound)
}
