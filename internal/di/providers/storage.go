package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/receitaapp/receita-server/internal/config"
	"github.com/receitaapp/receita-server/internal/domain"
	"github.com/receitaapp/receita-server/internal/logger"
	"github.com/receitaapp/receita-server/internal/media/images"
)

// ProvideImageStorage provides storage for recipe images under the media root.
func ProvideImageStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := images.NewStorage(cfg.Media.Root, domain.ImageDir)
	if err != nil {
		return nil, fmt.Errorf("recipe image storage: %w", err)
	}

	log.Info("Image storage initialized", "root", cfg.Media.Root, "url", cfg.Media.URL)
	return storage, nil
}

// ProvideImageUploader provides the uploader that validates and writes images.
func ProvideImageUploader(i do.Injector) (*images.Uploader, error) {
	storage := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return images.NewUploader(storage, log.Logger), nil
}
