package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// RefTo names the collection a RefType points into.
type RefTo string

const (
	RefToUser     RefTo = "User"
	RefToCategory RefTo = "category"
	RefToItem     RefTo = "item"
)

// RefType is a reference from one stored record to a record in another collection.
type RefType struct {
	ID  string `json:"_id"`
	Ref string `json:"_ref"`
}

func NewRef(id string, to RefTo) RefType {
	return RefType{ID: id, Ref: string(to)}
}

// NewID returns a fresh ObjectID in hex form, the id format the store uses.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id is a well-formed ObjectID hex string.
func ValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

// StringPtr returns nil for an empty string, matching how blank form fields are stored.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue dereferences s, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
