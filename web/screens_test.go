package web

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"pro5/backend/models"
	"pro5/backend/restheart"
	"pro5/backend/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCategories keeps categories in memory and can be made to fail.
type fakeCategories struct {
	records map[string]models.Category
	order   []string
	err     error
	updated []models.Category
}

func newFakeCategories(records ...models.Category) *fakeCategories {
	f := &fakeCategories{records: map[string]models.Category{}}
	for _, c := range records {
		f.records[c.ID] = c
		f.order = append(f.order, c.ID)
	}
	return f
}

func (f *fakeCategories) FindAll(ctx context.Context) ([]models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Category
	for _, id := range f.order {
		if c, ok := f.records[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategories) FindOne(ctx context.Context, id string) (*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.records[id]
	if !ok {
		return nil, fmt.Errorf("error getting category %s: %w", id, services.ErrNotFound)
	}
	return &c, nil
}

func (f *fakeCategories) Create(ctx context.Context, c models.Category) (*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	c.ID = models.NewID()
	f.records[c.ID] = c
	f.order = append(f.order, c.ID)
	return &c, nil
}

func (f *fakeCategories) Update(ctx context.Context, id string, c models.Category) (*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.records[id] = c
	f.updated = append(f.updated, c)
	return &c, nil
}

func (f *fakeCategories) PartialUpdate(ctx context.Context, id string, patch models.Category) (*models.Category, error) {
	c := f.records[id]
	c.Merge(patch)
	return f.Update(ctx, id, c)
}

func (f *fakeCategories) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.records[id]; !ok {
		return services.ErrNotFound
	}
	delete(f.records, id)
	return nil
}

func newTestRouter(t *testing.T, svc services.EntityService[models.Category]) *mux.Router {
	t.Helper()
	renderer, err := NewRenderer("pro5App", []NavLink{{Path: "category", Title: "Category"}}, nil)
	require.NoError(t, err)

	r := mux.NewRouter()
	r.HandleFunc("/", renderer.Index).Methods("GET")
	NewScreens(CategoryEntity, svc, renderer, nil).Register(r)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	return w
}

func post(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIndexLinksEntities(t *testing.T) {
	r := newTestRouter(t, newFakeCategories())

	w := get(r, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `href="/category"`)
}

func TestListScreen(t *testing.T) {
	id := models.NewID()
	r := newTestRouter(t, newFakeCategories(models.Category{ID: id, Name: models.StringPtr("Books")}))

	w := get(r, "/category")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Books")
	assert.Contains(t, body, `href="/category/`+id+`/edit"`)
	assert.Contains(t, body, `href="/category/`+id+`/delete"`)
	assert.Contains(t, body, `href="/category/new"`)
}

func TestListScreenEmpty(t *testing.T) {
	r := newTestRouter(t, newFakeCategories())

	w := get(r, "/category")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No Categorys found")
}

func TestListScreenStoreDown(t *testing.T) {
	svc := newFakeCategories()
	svc.err = &restheart.StatusError{Method: "GET", URL: "http://store/pro5/category", StatusCode: 500}
	r := newTestRouter(t, svc)

	w := get(r, "/category")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Could not load the Category list.")
}

func TestDetailScreen(t *testing.T) {
	id := models.NewID()
	r := newTestRouter(t, newFakeCategories(models.Category{ID: id, Name: models.StringPtr("Books")}))

	w := get(r, "/category/"+id)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Books")

	w = get(r, "/category/"+models.NewID())
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "The requested record does not exist.")
}

func TestCreateScreen(t *testing.T) {
	svc := newFakeCategories()
	r := newTestRouter(t, svc)

	w := get(r, "/category/new")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/category/new"`)
	assert.NotContains(t, w.Body.String(), `name="id"`)

	w = post(r, "/category/new", url.Values{"name": {"Books"}, "description": {""}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/category", w.Header().Get("Location"))

	require.Len(t, svc.order, 1)
	created := svc.records[svc.order[0]]
	assert.Equal(t, "Books", models.StringValue(created.Name))
	assert.Nil(t, created.Description)
}

func TestEditScreen(t *testing.T) {
	id := models.NewID()
	r := newTestRouter(t, newFakeCategories(models.Category{ID: id, Name: models.StringPtr("Books")}))

	w := get(r, "/category/"+id+"/edit")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `value="`+id+`"`)
	assert.Contains(t, body, "readonly")
	assert.Contains(t, body, `value="Books"`)
}

func TestSaveMergesOverStoredRecord(t *testing.T) {
	id := models.NewID()
	refs := []models.RefType{models.NewRef(models.NewID(), models.RefToItem)}
	svc := newFakeCategories(models.Category{
		ID:          id,
		Name:        models.StringPtr("Books"),
		Description: models.StringPtr("Paper"),
		Item:        refs,
	})
	r := newTestRouter(t, svc)

	w := post(r, "/category/"+id+"/edit", url.Values{"id": {id}, "name": {"Novels"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/category", w.Header().Get("Location"))

	require.Len(t, svc.updated, 1)
	saved := svc.updated[0]
	assert.Equal(t, "Novels", models.StringValue(saved.Name))
	assert.Equal(t, "Paper", models.StringValue(saved.Description))
	assert.Equal(t, refs, saved.Item)
}

func TestSaveValidation(t *testing.T) {
	id := models.NewID()

	testCases := []struct {
		name    string
		form    url.Values
		message string
	}{
		{"missing id", url.Values{"name": {"x"}}, "This field is required."},
		{"changed id", url.Values{"id": {models.NewID()}, "name": {"x"}}, "This field cannot be changed."},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newFakeCategories(models.Category{ID: id, Name: models.StringPtr("Books")})
			r := newTestRouter(t, svc)

			w := post(r, "/category/"+id+"/edit", tc.form)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tc.message)
			assert.Empty(t, svc.updated)
		})
	}
}

func TestDeleteScreen(t *testing.T) {
	id := models.NewID()
	svc := newFakeCategories(models.Category{ID: id, Name: models.StringPtr("Books")})
	r := newTestRouter(t, svc)

	w := get(r, "/category/"+id+"/delete")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id)

	w = post(r, "/category/"+id+"/delete", url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Empty(t, svc.records)

	w = post(r, "/category/"+id+"/delete", url.Values{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBindString(t *testing.T) {
	c := models.Category{Name: models.StringPtr("keep"), Description: models.StringPtr("drop")}
	CategoryEntity.Bind(&c, url.Values{"description": {""}})

	assert.Equal(t, "keep", models.StringValue(c.Name))
	assert.Nil(t, c.Description)
}

func TestStatusFor(t *testing.T) {
	testCases := []struct {
		err  error
		want int
	}{
		{services.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", services.ErrIDMismatch), http.StatusBadRequest},
		{services.ErrEntityNotFound, http.StatusBadRequest},
		{&restheart.StatusError{StatusCode: 503}, http.StatusBadGateway},
		{fmt.Errorf("wrapped: %w", &restheart.ResponseError{URL: "http://store", Err: fmt.Errorf("bad json")}), http.StatusBadGateway},
		{&url.Error{Op: "Get", URL: "http://store", Err: fmt.Errorf("refused")}, http.StatusBadGateway},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.want, statusFor(tc.err))
		})
	}
}
