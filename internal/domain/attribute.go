package domain

// AttributeKind selects one of the two owner-scoped labels a recipe can carry.
// Tags and ingredients share one shape and one set of rules.
type AttributeKind string

const (
	KindTag        AttributeKind = "tag"
	KindIngredient AttributeKind = "ingredient"
)

// Table returns the table holding attributes of this kind.
func (k AttributeKind) Table() string {
	if k == KindIngredient {
		return "ingredients"
	}
	return "tags"
}

// LinkTable returns the recipe association table for this kind.
func (k AttributeKind) LinkTable() string {
	if k == KindIngredient {
		return "recipe_ingredients"
	}
	return "recipe_tags"
}

// LinkColumn returns the column in LinkTable referencing the attribute.
func (k AttributeKind) LinkColumn() string {
	if k == KindIngredient {
		return "ingredient_id"
	}
	return "tag_id"
}

// Plural is the name used for the kind in URLs and JSON fields.
func (k AttributeKind) Plural() string {
	if k == KindIngredient {
		return "ingredients"
	}
	return "tags"
}

// Attribute is a Tag or an Ingredient.
type Attribute struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"-"`
}

// Owner implements Owned.
func (a *Attribute) Owner() int64 { return a.OwnerID }
