package services

import (
	"context"
	"net/http"
	"testing"

	"pro5/backend/database"
	"pro5/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCreateAssignsID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.categories.Create(ctx, models.Category{
		ID:   "client-chosen",
		Name: models.StringPtr("Books"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, "client-chosen", created.ID)
	assert.True(t, models.ValidID(created.ID))

	var stored models.Category
	require.True(t, f.store.Get("pro5", "category", created.ID, &stored))
	assert.Equal(t, "Books", models.StringValue(stored.Name))

	mirrored, err := f.categoryRepo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *mirrored)
}

func TestCategoryFindAllAndFindOne(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := models.Category{ID: models.NewID(), Name: models.StringPtr("A")}
	b := models.Category{ID: models.NewID(), Name: models.StringPtr("B"), Description: models.StringPtr("bee")}
	f.putCategory(a)
	f.putCategory(b)

	all, err := f.categories.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Category{a, b}, all)

	got, err := f.categories.FindOne(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, *got)

	_, err = f.categories.FindOne(ctx, models.NewID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := models.NewID()
	f.putCategory(models.Category{ID: id, Name: models.StringPtr("Old")})

	updated, err := f.categories.Update(ctx, id, models.Category{Name: models.StringPtr("New")})
	require.NoError(t, err)
	assert.Equal(t, id, updated.ID)

	var stored models.Category
	require.True(t, f.store.Get("pro5", "category", id, &stored))
	assert.Equal(t, "New", models.StringValue(stored.Name))

	_, err = f.categories.Update(ctx, id, models.Category{ID: models.NewID()})
	assert.ErrorIs(t, err, ErrIDMismatch)
}

func TestCategoryPartialUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := models.NewID()
	f.putCategory(models.Category{ID: id, Name: models.StringPtr("Books"), Description: models.StringPtr("paper")})

	merged, err := f.categories.PartialUpdate(ctx, id, models.Category{ID: id, Description: models.StringPtr("ink")})
	require.NoError(t, err)
	assert.Equal(t, "Books", models.StringValue(merged.Name))
	assert.Equal(t, "ink", models.StringValue(merged.Description))

	var stored models.Category
	require.True(t, f.store.Get("pro5", "category", id, &stored))
	assert.Equal(t, *merged, stored)

	tests := []struct {
		name  string
		id    string
		patch models.Category
		want  error
	}{
		{"null id", id, models.Category{}, ErrIDNull},
		{"different id", id, models.Category{ID: models.NewID()}, ErrIDInvalid},
		{"unknown id", "missing", models.Category{ID: "missing"}, ErrEntityNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.categories.PartialUpdate(ctx, tt.id, tt.patch)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCategoryDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.categories.Create(ctx, models.Category{Name: models.StringPtr("Temp")})
	require.NoError(t, err)

	require.NoError(t, f.categories.Delete(ctx, created.ID))
	assert.Equal(t, 0, f.store.Count("pro5", "category"))

	_, err = f.categoryRepo.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	assert.ErrorIs(t, f.categories.Delete(ctx, created.ID), ErrNotFound)
}

func TestCategoryStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.store.FailWith(http.StatusInternalServerError)

	_, err := f.categories.Create(context.Background(), models.Category{Name: models.StringPtr("X")})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	all, err := f.categoryRepo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all, "nothing is mirrored when the store rejects the write")
}
