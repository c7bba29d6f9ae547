package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttributeKind_Tables(t *testing.T) {
	tests := []struct {
		kind                           AttributeKind
		table, linkTable, linkCol, url string
	}{
		{KindTag, "tags", "recipe_tags", "tag_id", "tags"},
		{KindIngredient, "ingredients", "recipe_ingredients", "ingredient_id", "ingredients"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.table, tt.kind.Table())
			assert.Equal(t, tt.linkTable, tt.kind.LinkTable())
			assert.Equal(t, tt.linkCol, tt.kind.LinkColumn())
			assert.Equal(t, tt.url, tt.kind.Plural())
		})
	}
}

func TestOwned(t *testing.T) {
	resources := []Owned{
		&Attribute{ID: 1, OwnerID: 7},
		&Recipe{ID: 2, OwnerID: 7},
	}
	for _, r := range resources {
		assert.Equal(t, int64(7), r.Owner())
	}
}

func TestUser_CanLogin(t *testing.T) {
	var missing *User
	assert.False(t, missing.CanLogin())
	assert.False(t, (&User{IsActive: false}).CanLogin())
	assert.True(t, (&User{IsActive: true}).CanLogin())
}
