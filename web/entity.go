package web

import (
	"net/url"

	"pro5/backend/models"
)

// Field is one editable attribute of an entity.
type Field struct {
	Name  string
	Label string
}

// Entity describes how an entity is listed, shown and bound to a form.
type Entity[T any] struct {
	// Path is the URL segment the screens are mounted under.
	Path   string
	Title  string
	Fields []Field

	ID func(*T) string
	// Values returns the display value of every field, in Fields order.
	Values func(*T) []string
	// Bind overlays the submitted form values onto the entity. Fields absent
	// from the form keep their current value; blank fields become null.
	Bind func(*T, url.Values)
}

var CategoryEntity = Entity[models.Category]{
	Path:  "category",
	Title: "Category",
	Fields: []Field{
		{Name: "name", Label: "Name"},
		{Name: "description", Label: "Description"},
	},
	ID: func(c *models.Category) string { return c.ID },
	Values: func(c *models.Category) []string {
		return []string{models.StringValue(c.Name), models.StringValue(c.Description)}
	},
	Bind: func(c *models.Category, form url.Values) {
		bindString(form, "name", &c.Name)
		bindString(form, "description", &c.Description)
	},
}

var ItemEntity = Entity[models.Item]{
	Path:  "item",
	Title: "Item",
	Fields: []Field{
		{Name: "name", Label: "Name"},
		{Name: "price", Label: "Price"},
	},
	ID: func(i *models.Item) string { return i.ID },
	Values: func(i *models.Item) []string {
		return []string{models.StringValue(i.Name), models.StringValue(i.Price)}
	},
	Bind: func(i *models.Item, form url.Values) {
		bindString(form, "name", &i.Name)
		bindString(form, "price", &i.Price)
	},
}

func bindString(form url.Values, name string, dst **string) {
	if _, ok := form[name]; !ok {
		return
	}
	*dst = models.StringPtr(form.Get(name))
}
