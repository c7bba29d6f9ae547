package service

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/receitaapp/receita-server/internal/domain"
	domainerrors "github.com/receitaapp/receita-server/internal/errors"
	"github.com/receitaapp/receita-server/internal/filter"
	"github.com/receitaapp/receita-server/internal/media/images"
	"github.com/receitaapp/receita-server/internal/normalize"
	"github.com/receitaapp/receita-server/internal/policy"
	"github.com/receitaapp/receita-server/internal/store"
	"github.com/receitaapp/receita-server/internal/validation"
)

// RecipeService manages the caller's recipes and their tag and ingredient sets.
type RecipeService struct {
	store     store.Store
	uploader  *images.Uploader
	validator *validation.Validator
	logger    *slog.Logger
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(store store.Store, uploader *images.Uploader, validator *validation.Validator, logger *slog.Logger) *RecipeService {
	return &RecipeService{
		store:     store,
		uploader:  uploader,
		validator: validator,
		logger:    logger,
	}
}

// RecipeFields carries recipe input. A nil field was not sent.
type RecipeFields struct {
	Title       *string       `json:"title" validate:"omitempty,notblank,max=255"`
	TimeMinutes *int          `json:"time_minutes" validate:"omitempty,min=0,max=2147483647"`
	Price       *domain.Price `json:"price"`
	Link        *string       `json:"link" validate:"omitempty,max=255"`
	Tags        *[]int64      `json:"tags"`
	Ingredients *[]int64      `json:"ingredients"`

	// Invalid holds messages for fields that failed to decode upstream.
	Invalid map[string]string `json:"-"`
}

// List returns one page of the caller's recipes matching the tags and
// ingredients query parameters, newest first.
func (s *RecipeService) List(ctx context.Context, caller *domain.User, params url.Values, page store.Page) (*store.Result[domain.Recipe], error) {
	if err := policy.Authorize(caller, policy.ActionList, nil); err != nil {
		return nil, err
	}

	q, err := filter.ParseRecipeQuery(caller.ID, params)
	if err != nil {
		return nil, err
	}

	res, err := s.store.ListRecipes(ctx, q, page)
	if err != nil {
		return nil, translate(err)
	}
	return res, nil
}

// Get returns the recipe with its tags and ingredients resolved.
func (s *RecipeService) Get(ctx context.Context, caller *domain.User, id int64) (*domain.RecipeDetail, error) {
	detail, err := s.store.GetRecipeDetail(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if err := policy.Authorize(caller, policy.ActionRead, &detail.Recipe); err != nil {
		return nil, err
	}
	return detail, nil
}

// Create adds a recipe owned by the caller. Title, time and price are required.
func (s *RecipeService) Create(ctx context.Context, caller *domain.User, f RecipeFields) (*domain.Recipe, error) {
	r := &domain.Recipe{OwnerID: caller.ID}
	if err := policy.Authorize(caller, policy.ActionCreate, r); err != nil {
		return nil, err
	}
	if err := s.check(&f, false); err != nil {
		return nil, err
	}

	apply(r, f, false)
	if err := s.store.CreateRecipe(ctx, r); err != nil {
		return nil, translate(err)
	}

	s.logger.Info("recipe created", "recipe_id", r.ID, "user_id", caller.ID)
	return s.reload(ctx, r.ID)
}

// Update changes a recipe. With partial, only the fields sent change and
// omitted tag or ingredient sets keep their links; otherwise the recipe is
// replaced and omitted link, tags and ingredients are cleared.
func (s *RecipeService) Update(ctx context.Context, caller *domain.User, id int64, f RecipeFields, partial bool) (*domain.Recipe, error) {
	r, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if err := policy.Authorize(caller, policy.ActionUpdate, r); err != nil {
		return nil, err
	}
	if err := s.check(&f, partial); err != nil {
		return nil, err
	}

	apply(r, f, partial)
	links := store.LinkUpdate{
		Tags:        !partial || f.Tags != nil,
		Ingredients: !partial || f.Ingredients != nil,
	}
	if err := s.store.UpdateRecipe(ctx, r, links); err != nil {
		return nil, translate(err)
	}

	s.logger.Debug("recipe updated", "recipe_id", id, "partial", partial)
	return s.reload(ctx, id)
}

// Delete removes a recipe and then its stored image. Tags and ingredients stay.
func (s *RecipeService) Delete(ctx context.Context, caller *domain.User, id int64) error {
	r, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return translate(err)
	}
	if err := policy.Authorize(caller, policy.ActionDelete, r); err != nil {
		return err
	}

	if err := s.store.DeleteRecipe(ctx, id); err != nil {
		return translate(err)
	}
	s.uploader.Remove(r.Image)

	s.logger.Info("recipe deleted", "recipe_id", id, "user_id", caller.ID)
	return nil
}

// check normalizes text fields and validates f. Without partial, title,
// time_minutes and price must be present.
func (s *RecipeService) check(f *RecipeFields, partial bool) error {
	if f.Title != nil {
		t := normalize.Text(*f.Title)
		f.Title = &t
	}

	fields := s.validator.Fields(f)
	if f.Title != nil && *f.Title == "" {
		fields["title"] = "This field may not be blank."
	}
	if !partial {
		if f.Title == nil {
			fields["title"] = requiredField
		}
		if f.TimeMinutes == nil {
			fields["time_minutes"] = requiredField
		}
		if f.Price == nil {
			fields["price"] = requiredField
		}
	}
	for field, msg := range f.Invalid {
		fields[field] = msg
	}
	if len(fields) > 0 {
		return domainerrors.ValidationWithDetails("validation failed", fields)
	}
	return nil
}

// apply copies f onto r. Without partial, omitted optional fields are reset.
func apply(r *domain.Recipe, f RecipeFields, partial bool) {
	if f.Title != nil {
		r.Title = *f.Title
	}
	if f.TimeMinutes != nil {
		r.TimeMinutes = *f.TimeMinutes
	}
	if f.Price != nil {
		r.Price = *f.Price
	}

	switch {
	case f.Link != nil:
		r.Link = *f.Link
	case !partial:
		r.Link = ""
	}
	switch {
	case f.Tags != nil:
		r.TagIDs = *f.Tags
	case !partial:
		r.TagIDs = nil
	}
	switch {
	case f.Ingredients != nil:
		r.IngredientIDs = *f.Ingredients
	case !partial:
		r.IngredientIDs = nil
	}
}

// reload reads back a recipe so link ids come out sorted and de-duplicated.
func (s *RecipeService) reload(ctx context.Context, id int64) (*domain.Recipe, error) {
	r, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return r, nil
}
