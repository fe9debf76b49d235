package handlers

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"

	"pro5/backend/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Resource serves the JSON CRUD endpoints of one entity.
type Resource[T any] struct {
	entityName string
	appName    string
	basePath   string
	service    services.EntityService[T]
	idOf       func(*T) string
	logger     *zap.Logger
}

// NewResource builds a resource. basePath is used to build the Location of
// created records.
func NewResource[T any](entityName, appName, basePath string, service services.EntityService[T], idOf func(*T) string, logger *zap.Logger) *Resource[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resource[T]{
		entityName: entityName,
		appName:    appName,
		basePath:   basePath,
		service:    service,
		idOf:       idOf,
		logger:     logger.With(zap.String("entity", entityName)),
	}
}

// List handles GET {basePath}
func (h *Resource[T]) List(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("REST request to get all entities")

	entities, err := h.service.FindAll(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	if entities == nil {
		entities = []T{}
	}
	writeJSON(w, http.StatusOK, entities)
}

// Get handles GET {basePath}/{id}
func (h *Resource[T]) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	h.logger.Debug("REST request to get entity", zap.String("id", id))

	entity, err := h.service.FindOne(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entity)
}

// Create handles POST {basePath}
func (h *Resource[T]) Create(w http.ResponseWriter, r *http.Request) {
	entity, ok := h.decode(w, r)
	if !ok {
		return
	}
	h.logger.Debug("REST request to save entity")

	created, err := h.service.Create(r.Context(), entity)
	if err != nil {
		h.fail(w, err)
		return
	}

	id := h.idOf(created)
	w.Header().Set("Location", h.basePath+"/"+id)
	h.alert(w, fmt.Sprintf("A new %s is created with identifier %s", h.entityName, id), id)
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT {basePath}/{id}
func (h *Resource[T]) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	entity, ok := h.decode(w, r)
	if !ok {
		return
	}
	h.logger.Debug("REST request to update entity", zap.String("id", id))

	updated, err := h.service.Update(r.Context(), id, entity)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.alert(w, fmt.Sprintf("A %s is updated with identifier %s", h.entityName, id), id)
	writeJSON(w, http.StatusOK, updated)
}

// PartialUpdate handles PATCH {basePath}/{id}. Only non-null fields are applied.
func (h *Resource[T]) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	if !patchContentType(r.Header.Get("Content-Type")) {
		writeProblem(w, Problem{
			Title:      "Unsupported Media Type",
			Status:     http.StatusUnsupportedMediaType,
			EntityName: h.entityName,
		})
		return
	}

	id := mux.Vars(r)["id"]
	patch, ok := h.decode(w, r)
	if !ok {
		return
	}
	h.logger.Debug("REST request to partially update entity", zap.String("id", id))

	merged, err := h.service.PartialUpdate(r.Context(), id, patch)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.alert(w, fmt.Sprintf("A %s is updated with identifier %s", h.entityName, id), id)
	writeJSON(w, http.StatusOK, merged)
}

// Delete handles DELETE {basePath}/{id}
func (h *Resource[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	h.logger.Debug("REST request to delete entity", zap.String("id", id))

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}

	h.alert(w, fmt.Sprintf("A %s is deleted with identifier %s", h.entityName, id), id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Resource[T]) decode(w http.ResponseWriter, r *http.Request) (T, bool) {
	var entity T
	if err := json.NewDecoder(r.Body).Decode(&entity); err != nil {
		writeProblem(w, Problem{
			Title:      "Bad Request",
			Status:     http.StatusBadRequest,
			Detail:     err.Error(),
			EntityName: h.entityName,
			ErrorKey:   "invalidjson",
		})
		return entity, false
	}
	return entity, true
}

func (h *Resource[T]) fail(w http.ResponseWriter, err error) {
	writeError(w, h.logger, h.appName, h.entityName, err)
}

// alert sets the headers clients use to show a notification after a mutation.
func (h *Resource[T]) alert(w http.ResponseWriter, message, param string) {
	w.Header().Set("X-"+h.appName+"-alert", message)
	w.Header().Set("X-"+h.appName+"-params", param)
}

func patchContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || mediaType == "application/merge-patch+json"
}
