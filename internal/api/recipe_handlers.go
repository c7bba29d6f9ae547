package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/samber/lo"

	"github.com/receitaapp/receita-server/internal/domain"
	"github.com/receitaapp/receita-server/internal/service"
)

func (s *Server) registerRecipeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listRecipes",
		Method:      http.MethodGet,
		Path:        "/api/recipe/recipes/",
		Summary:     "List recipes",
		Description: "Returns the caller's recipes, newest first. tags and ingredients take " +
			"comma-separated ids; a recipe matches when it has any of them.",
		Tags:     []string{"Recipes"},
		Security: []map[string][]string{{"bearer": {}}},
	}, s.handleListRecipes)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createRecipe",
		Method:        http.MethodPost,
		Path:          "/api/recipe/recipes/",
		Summary:       "Create recipe",
		Description:   "title, time_minutes and price are required.",
		Tags:          []string{"Recipes"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRecipe",
		Method:      http.MethodGet,
		Path:        "/api/recipe/recipes/{id}/",
		Summary:     "Get recipe",
		Description: "Returns the recipe with its tags and ingredients expanded.",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "replaceRecipe",
		Method:      http.MethodPut,
		Path:        "/api/recipe/recipes/{id}/",
		Summary:     "Replace recipe",
		Description: "Replaces every field. Omitted link, tags and ingredients are cleared.",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReplaceRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateRecipe",
		Method:      http.MethodPatch,
		Path:        "/api/recipe/recipes/{id}/",
		Summary:     "Update recipe",
		Description: "Changes only the fields sent. Omitted tags and ingredients keep their links.",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteRecipe",
		Method:        http.MethodDelete,
		Path:          "/api/recipe/recipes/{id}/",
		Summary:       "Delete recipe",
		Description:   "Deletes the recipe and its image. Tags and ingredients are kept.",
		Tags:          []string{"Recipes"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteRecipe)
}

// === DTOs ===

// RecipeListItem is the list shape: relations as bare ids.
type RecipeListItem struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Ingredients []int64 `json:"ingredients" doc:"Ingredient ids"`
	Tags        []int64 `json:"tags" doc:"Tag ids"`
	TimeMinutes int     `json:"time_minutes"`
	Price       string  `json:"price" doc:"Decimal amount, e.g. \"5.00\""`
	Link        string  `json:"link"`
}

// RecipeDetailResponse is the detail shape: relations expanded, image included.
type RecipeDetailResponse struct {
	ID            int64               `json:"id"`
	Title         string              `json:"title"`
	Ingredients   []AttributeResponse `json:"ingredients"`
	Tags          []AttributeResponse `json:"tags"`
	TimeMinutes   int                 `json:"time_minutes"`
	Price         string              `json:"price" doc:"Decimal amount, e.g. \"5.00\""`
	Link          string              `json:"link"`
	Image         *string             `json:"image" doc:"URL of the uploaded image, null when there is none"`
	ImageBlurHash string              `json:"image_blurhash" doc:"BlurHash placeholder for the image"`
}

// RecipeRequest is the body of recipe create, replace and update. Absent
// fields are distinguished from zero values.
type RecipeRequest struct {
	_           struct{}    `additionalProperties:"true"`
	Title       *string     `json:"title,omitempty"`
	TimeMinutes *int        `json:"time_minutes,omitempty"`
	Price       *PriceInput `json:"price,omitempty"`
	Link        *string     `json:"link,omitempty"`
	Tags        *[]int64    `json:"tags,omitempty" doc:"Tag ids"`
	Ingredients *[]int64    `json:"ingredients,omitempty" doc:"Ingredient ids"`
}

// ListRecipesInput holds the list query.
type ListRecipesInput struct {
	ListParams
	TagIDs        string `query:"tags" doc:"Comma-separated tag ids"`
	IngredientIDs string `query:"ingredients" doc:"Comma-separated ingredient ids"`
}

// ListRecipesOutput is one page of recipes.
type ListRecipesOutput struct {
	Body Page[RecipeListItem]
}

// CreateRecipeInput wraps the create body.
type CreateRecipeInput struct {
	Body RecipeRequest
}

// RecipeIDInput identifies a recipe by path.
type RecipeIDInput struct {
	ID int64 `path:"id" doc:"Recipe id"`
}

// UpdateRecipeInput combines the path id with the body.
type UpdateRecipeInput struct {
	ID   int64 `path:"id" doc:"Recipe id"`
	Body RecipeRequest
}

// RecipeOutput wraps a recipe in list shape.
type RecipeOutput struct {
	Body RecipeListItem
}

// RecipeDetailOutput wraps a recipe in detail shape.
type RecipeDetailOutput struct {
	Body RecipeDetailResponse
}

func toRecipeListShape(r domain.Recipe) RecipeListItem {
	return RecipeListItem{
		ID:          r.ID,
		Title:       r.Title,
		Ingredients: nonNil(r.IngredientIDs),
		Tags:        nonNil(r.TagIDs),
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.String(),
		Link:        r.Link,
	}
}

func (s *Server) toRecipeDetailShape(d *domain.RecipeDetail) RecipeDetailResponse {
	return RecipeDetailResponse{
		ID:            d.ID,
		Title:         d.Title,
		Ingredients:   lo.Map(d.Ingredients, func(a domain.Attribute, _ int) AttributeResponse { return toAttributeResponse(a) }),
		Tags:          lo.Map(d.Tags, func(a domain.Attribute, _ int) AttributeResponse { return toAttributeResponse(a) }),
		TimeMinutes:   d.TimeMinutes,
		Price:         d.Price.String(),
		Link:          d.Link,
		Image:         s.mediaLink(d.Image),
		ImageBlurHash: d.ImageBlurHash,
	}
}

// mediaLink returns the URL a stored file is served under, or nil for none.
func (s *Server) mediaLink(path string) *string {
	if path == "" {
		return nil
	}
	link := s.mediaURL + path
	return &link
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

// fields converts the request body for the recipe service. A price that does
// not parse is handed over as a field message so the service reports it
// together with its own checks.
func (r *RecipeRequest) fields() service.RecipeFields {
	f := service.RecipeFields{
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Link:        r.Link,
		Tags:        r.Tags,
		Ingredients: r.Ingredients,
	}
	price, msg := parsePrice(r.Price)
	if msg != "" {
		f.Invalid = map[string]string{"price": msg}
	}
	f.Price = price
	return f
}

// === Handlers ===

func (s *Server) handleListRecipes(ctx context.Context, input *ListRecipesInput) (*ListRecipesOutput, error) {
	caller, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	page, err := input.page(s.pageSize)
	if err != nil {
		return nil, err
	}

	res, err := s.services.Recipes.List(ctx, caller, input.Query(), page)
	if err != nil {
		return nil, err
	}
	return &ListRecipesOutput{Body: newPage(&input.ListParams, page, res, toRecipeListShape)}, nil
}

func (s *Server) handleCreateRecipe(ctx context.Context, input *CreateRecipeInput) (*RecipeOutput, error) {
	caller, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	f := input.Body.fields()

	recipe, err := s.services.Recipes.Create(ctx, caller, f)
	if err != nil {
		return nil, err
	}
	return &RecipeOutput{Body: toRecipeListShape(*recipe)}, nil
}

func (s *Server) handleGetRecipe(ctx context.Context, input *RecipeIDInput) (*RecipeDetailOutput, error) {
	caller, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	detail, err := s.services.Recipes.Get(ctx, caller, input.ID)
	if err != nil {
		return nil, err
	}
	return &RecipeDetailOutput{Body: s.toRecipeDetailShape(detail)}, nil
}

func (s *Server) handleReplaceRecipe(ctx context.Context, input *UpdateRecipeInput) (*RecipeOutput, error) {
	return s.updateRecipe(ctx, input, false)
}

func (s *Server) handleUpdateRecipe(ctx context.Context, input *UpdateRecipeInput) (*RecipeOutput, error) {
	return s.updateRecipe(ctx, input, true)
}

func (s *Server) updateRecipe(ctx context.Context, input *UpdateRecipeInput, partial bool) (*RecipeOutput, error) {
	caller, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	f := input.Body.fields()

	recipe, err := s.services.Recipes.Update(ctx, caller, input.ID, f, partial)
	if err != nil {
		return nil, err
	}
	return &RecipeOutput{Body: toRecipeListShape(*recipe)}, nil
}

func (s *Server) handleDeleteRecipe(ctx context.Context, input *RecipeIDInput) (*struct{}, error) {
	caller, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Recipes.Delete(ctx, caller, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}
