package models

type Item struct {
	ID       string   `json:"id,omitempty"`
	Name     *string  `json:"name"`
	Price    *string  `json:"price"`
	Category *RefType `json:"category,omitempty"`
}

// Merge copies every non-nil field of patch onto i.
func (i *Item) Merge(patch Item) {
	if patch.Name != nil {
		i.Name = patch.Name
	}
	if patch.Price != nil {
		i.Price = patch.Price
	}
	if patch.Category != nil {
		i.Category = patch.Category
	}
}

func (i Item) EntityID() string { return i.ID }

func (i *Item) SetID(id string) { i.ID = id }
