package handlers

import (
	"fmt"
	"net/http"

	"pro5/backend/models"
	"pro5/backend/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ItemHandler serves the item resource plus the category linking endpoints.
type ItemHandler struct {
	*Resource[models.Item]

	items *services.ItemService
}

func NewItemHandler(appName, basePath string, items *services.ItemService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{
		Resource: NewResource[models.Item]("item", appName, basePath, items,
			func(i *models.Item) string { return i.ID }, logger),
		items: items,
	}
}

// AddToCategory handles POST /pro5/item/{categoryId}/category
func (h *ItemHandler) AddToCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := mux.Vars(r)["categoryId"]
	item, ok := h.decode(w, r)
	if !ok {
		return
	}
	h.logger.Debug("REST request to add item to category", zap.String("category", categoryID))

	created, err := h.items.AddToCategory(r.Context(), categoryID, item)
	if err != nil {
		h.fail(w, err)
		return
	}

	w.Header().Set("Location", h.basePath+"/"+created.ID)
	h.alert(w, fmt.Sprintf("A new item is created with identifier %s", created.ID), created.ID)
	writeJSON(w, http.StatusCreated, created)
}

// SaveForCategory handles POST /cat/{catId}/item and answers with the updated category.
func (h *ItemHandler) SaveForCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := mux.Vars(r)["catId"]
	item, ok := h.decode(w, r)
	if !ok {
		return
	}

	category, err := h.items.SaveForCategory(r.Context(), categoryID, item)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}
