package services

import (
	"database/sql"
	"testing"
	"time"

	"pro5/backend/database"
	"pro5/backend/migrations"
	"pro5/backend/models"
	"pro5/backend/restheart"
	"pro5/backend/restheart/resthearttest"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	store          *resthearttest.Store
	db             *sql.DB
	categoryClient *restheart.Client[models.Category]
	itemClient     *restheart.Client[models.Item]
	categoryRepo   *database.CategoryRepository
	itemRepo       *database.ItemRepository
	categories     *CategoryService
	items          *ItemService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := resthearttest.NewStore()
	t.Cleanup(store.Close)

	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.RunMigrations(db, nil))

	opts := restheart.Options{BaseURL: store.URL, Database: "pro5", Timeout: time.Second}
	f := &fixture{
		store:          store,
		db:             db,
		categoryClient: restheart.NewClient[models.Category](opts, "category", nil),
		itemClient:     restheart.NewClient[models.Item](opts, "item", nil),
		categoryRepo:   database.NewCategoryRepository(db),
		itemRepo:       database.NewItemRepository(db),
	}
	f.categories = NewCategoryService(f.categoryClient, f.categoryRepo, nil)
	f.items = NewItemService(f.itemClient, f.itemRepo, f.categoryClient, f.categoryRepo, nil)
	return f
}

func (f *fixture) putCategory(c models.Category) {
	f.store.Put("pro5", "category", c.ID, c)
}

func (f *fixture) putItem(i models.Item) {
	f.store.Put("pro5", "item", i.ID, i)
}
