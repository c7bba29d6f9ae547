// Package store defines the persistence interface for the recipe catalog.
package store

import (
	"context"

	"github.com/receitaapp/receita-server/internal/domain"
	"github.com/receitaapp/receita-server/internal/filter"
)

// Store defines all persistence operations. Every mutating method is atomic:
// it either commits completely or leaves no trace.
type Store interface {
	// Lifecycle
	Close() error
	Ping(ctx context.Context) error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	// DeleteUser removes the account and everything it owns. It returns the
	// stored image paths of the deleted recipes so the caller can remove the files.
	DeleteUser(ctx context.Context, id int64) (images []string, err error)

	// Tags and ingredients
	ListAttributes(ctx context.Context, kind domain.AttributeKind, q filter.AttributeQuery, page Page) (*Result[domain.Attribute], error)
	CreateAttribute(ctx context.Context, kind domain.AttributeKind, attr *domain.Attribute) error

	// Recipes
	ListRecipes(ctx context.Context, q filter.RecipeQuery, page Page) (*Result[domain.Recipe], error)
	GetRecipe(ctx context.Context, id int64) (*domain.Recipe, error)
	GetRecipeDetail(ctx context.Context, id int64) (*domain.RecipeDetail, error)
	CreateRecipe(ctx context.Context, recipe *domain.Recipe) error
	UpdateRecipe(ctx context.Context, recipe *domain.Recipe, links LinkUpdate) error
	DeleteRecipe(ctx context.Context, id int64) error
	// SetRecipeImage runs write inside the transaction that records the new
	// image reference, so a failed write never leaves a reference behind.
	// It returns the reference that was replaced, if any.
	SetRecipeImage(ctx context.Context, id int64, image, blurHash string, write func(context.Context) error) (previous string, err error)
}

// LinkUpdate says which relation sets UpdateRecipe replaces with the ids on the recipe.
// Sets not selected are left untouched.
type LinkUpdate struct {
	Tags        bool
	Ingredients bool
}
