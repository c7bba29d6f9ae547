package domain

import "time"

// ImageDir is the storage prefix, relative to the media root, of recipe images.
const ImageDir = "uploads/receita"

// Owned is implemented by every resource that belongs to exactly one user.
type Owned interface {
	Owner() int64
}

// Recipe carries its relations as id sets. Tags and ingredients may belong to
// other users; only the recipe itself is owner-scoped.
type Recipe struct {
	ID            int64
	OwnerID       int64
	Title         string
	TimeMinutes   int
	Price         Price
	Link          string
	Image         string // path relative to the media root, empty when none
	ImageBlurHash string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	TagIDs        []int64
	IngredientIDs []int64
}

// Owner implements Owned.
func (r *Recipe) Owner() int64 { return r.OwnerID }

// HasImage reports whether an image is attached.
func (r *Recipe) HasImage() bool { return r.Image != "" }

// RecipeDetail is a recipe with its tags and ingredients resolved.
type RecipeDetail struct {
	Recipe
	Tags        []Attribute
	Ingredients []Attribute
}
