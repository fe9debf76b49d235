package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pro5/backend/database"
	"pro5/backend/migrations"
	"pro5/backend/models"
	"pro5/backend/restheart"
	"pro5/backend/restheart/resthearttest"
	"pro5/backend/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

const testApp = "pro5App"

type testEnv struct {
	store        *resthearttest.Store
	router       *mux.Router
	categoryRepo *database.CategoryRepository
	itemRepo     *database.ItemRepository
}

// setupTestEnv wires the resources against an in-memory store and mirror.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := resthearttest.NewStore()
	t.Cleanup(store.Close)

	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.RunMigrations(db, nil))

	opts := restheart.Options{BaseURL: store.URL, Database: "pro5", Timeout: time.Second}
	categoryClient := restheart.NewClient[models.Category](opts, "category", nil)
	itemClient := restheart.NewClient[models.Item](opts, "item", nil)
	categoryRepo := database.NewCategoryRepository(db)
	itemRepo := database.NewItemRepository(db)

	categories := services.NewCategoryService(categoryClient, categoryRepo, nil)
	items := services.NewItemService(itemClient, itemRepo, categoryClient, categoryRepo, nil)

	categoryResource := NewCategoryResource(testApp, "/api/categories", categories, nil)
	itemHandler := NewItemHandler(testApp, "/api/items", items, nil)

	r := mux.NewRouter()
	r.HandleFunc("/health", HealthCheck).Methods("GET")
	r.HandleFunc("/api/categories", categoryResource.List).Methods("GET")
	r.HandleFunc("/api/categories", categoryResource.Create).Methods("POST")
	r.HandleFunc("/api/categories/{id}", categoryResource.Get).Methods("GET")
	r.HandleFunc("/api/categories/{id}", categoryResource.Update).Methods("PUT")
	r.HandleFunc("/api/categories/{id}", categoryResource.PartialUpdate).Methods("PATCH")
	r.HandleFunc("/api/categories/{id}", categoryResource.Delete).Methods("DELETE")
	r.HandleFunc("/api/items", itemHandler.List).Methods("GET")
	r.HandleFunc("/api/items", itemHandler.Create).Methods("POST")
	r.HandleFunc("/api/items/{id}", itemHandler.Get).Methods("GET")
	r.HandleFunc("/api/items/{id}", itemHandler.Update).Methods("PUT")
	r.HandleFunc("/api/items/{id}", itemHandler.PartialUpdate).Methods("PATCH")
	r.HandleFunc("/api/items/{id}", itemHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/pro5/item/{categoryId}/category", itemHandler.AddToCategory).Methods("POST")
	r.HandleFunc("/api/cat/{catId}/item", itemHandler.SaveForCategory).Methods("POST")

	return &testEnv{store: store, router: r, categoryRepo: categoryRepo, itemRepo: itemRepo}
}

// do sends a request through the router; body is JSON-encoded unless it is a string.
func (e *testEnv) do(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		json.NewEncoder(&buf).Encode(b)
	}

	req := httptest.NewRequest(method, url, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doWithType(method, url, body, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), "body: %s", w.Body.String())
	return v
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "body: %s", w.Body.String())
}
