package providers

import (
	"github.com/samber/do/v2"

	"github.com/receitaapp/receita-server/internal/auth"
	"github.com/receitaapp/receita-server/internal/domain"
	"github.com/receitaapp/receita-server/internal/logger"
	"github.com/receitaapp/receita-server/internal/media/images"
	"github.com/receitaapp/receita-server/internal/service"
	"github.com/receitaapp/receita-server/internal/validation"
)

// TagService and IngredientService tell the two attribute services apart in the container.
type (
	TagService        struct{ *service.AttributeService }
	IngredientService struct{ *service.AttributeService }
)

// ProvideValidator provides the shared request validator.
func ProvideValidator(_ do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideIdentityService provides account and token management.
func ProvideIdentityService(i do.Injector) (*service.IdentityService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	uploader := do.MustInvoke[*images.Uploader](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewIdentityService(storeHandle.Store, tokens, uploader, v, log.Logger), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return &TagService{service.NewAttributeService(domain.KindTag, storeHandle.Store, v, log.Logger)}, nil
}

// ProvideIngredientService provides the ingredient service.
func ProvideIngredientService(i do.Injector) (*IngredientService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return &IngredientService{service.NewAttributeService(domain.KindIngredient, storeHandle.Store, v, log.Logger)}, nil
}

// ProvideRecipeService provides the recipe service.
func ProvideRecipeService(i do.Injector) (*service.RecipeService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	uploader := do.MustInvoke[*images.Uploader](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRecipeService(storeHandle.Store, uploader, v, log.Logger), nil
}

// ProvideImageService provides recipe image uploads.
func ProvideImageService(i do.Injector) (*service.ImageService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	uploader := do.MustInvoke[*images.Uploader](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewImageService(storeHandle.Store, uploader, log.Logger), nil
}
