package api

import (
	"github.com/receitaapp/receita-server/internal/service"
)

// Services groups the business logic the API server exposes.
type Services struct {
	Identity    *service.IdentityService
	Tags        *service.AttributeService
	Ingredients *service.AttributeService
	Recipes     *service.RecipeService
	Images      *service.ImageService
}
