package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/receitaapp/receita-server/internal/domain"
	domainerrors "github.com/receitaapp/receita-server/internal/errors"
	"github.com/receitaapp/receita-server/internal/media/images"
	"github.com/receitaapp/receita-server/internal/policy"
	"github.com/receitaapp/receita-server/internal/store"
)

// ImageService attaches uploaded images to recipes.
type ImageService struct {
	store    store.Store
	uploader *images.Uploader
	logger   *slog.Logger
}

// NewImageService creates a new image service.
func NewImageService(store store.Store, uploader *images.Uploader, logger *slog.Logger) *ImageService {
	return &ImageService{store: store, uploader: uploader, logger: logger}
}

// UploadImage validates data as an image, stores it under a fresh name and
// points the recipe at it. On any failure the recipe keeps its previous image
// and no new file is left behind; on success the previous file is removed.
func (s *ImageService) UploadImage(ctx context.Context, caller *domain.User, recipeID int64, filename string, data []byte) (*domain.Recipe, error) {
	r, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, translate(err)
	}
	if err := policy.Authorize(caller, policy.ActionUpdate, r); err != nil {
		return nil, err
	}

	up, err := s.uploader.Prepare(filename, data)
	if errors.Is(err, images.ErrNotImage) || errors.Is(err, images.ErrTooLarge) || errors.Is(err, images.ErrDimensionsTooLarge) {
		return nil, domainerrors.FieldError("image", err.Error())
	}
	if err != nil {
		return nil, err
	}

	written := false
	previous, err := s.store.SetRecipeImage(ctx, recipeID, up.Path, up.BlurHash, func(ctx context.Context) error {
		written = true
		return s.uploader.Write(ctx, up)
	})
	if err != nil {
		if written {
			s.uploader.Remove(up.Path)
		}
		return nil, translate(err)
	}
	if previous != up.Path {
		s.uploader.Remove(previous)
	}

	r.Image = up.Path
	r.ImageBlurHash = up.BlurHash
	s.logger.Info("recipe image uploaded", "recipe_id", recipeID, "path", up.Path)
	return r, nil
}
