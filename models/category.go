package models

type Category struct {
	ID          string    `json:"id,omitempty"`
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Item        []RefType `json:"item,omitempty"`
}

// Merge copies every non-nil field of patch onto c.
func (c *Category) Merge(patch Category) {
	if patch.Name != nil {
		c.Name = patch.Name
	}
	if patch.Description != nil {
		c.Description = patch.Description
	}
	if patch.Item != nil {
		c.Item = patch.Item
	}
}

// AddItemRef appends a reference to the item unless the category already holds one.
func (c *Category) AddItemRef(itemID string) bool {
	for _, ref := range c.Item {
		if ref.ID == itemID && ref.Ref == string(RefToItem) {
			return false
		}
	}
	c.Item = append(c.Item, NewRef(itemID, RefToItem))
	return true
}

func (c Category) EntityID() string { return c.ID }

func (c *Category) SetID(id string) { c.ID = id }
