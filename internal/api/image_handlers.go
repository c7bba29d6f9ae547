package api

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/receitaapp/receita-server/internal/errors"
	"github.com/receitaapp/receita-server/internal/media/images"
)

// multipartOverhead leaves room for boundaries and other form fields.
const multipartOverhead = 1 << 20

func (s *Server) registerImageRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:  "uploadRecipeImage",
		Method:       http.MethodPost,
		Path:         "/api/recipe/recipes/{id}/upload-image/",
		Summary:      "Upload recipe image",
		Description:  "Multipart upload, field \"image\". JPEG, PNG, GIF or WebP. Replaces any previous image.",
		Tags:         []string{"Recipes"},
		Security:     []map[string][]string{{"bearer": {}}},
		MaxBodyBytes: images.MaxUploadSize + multipartOverhead,
	}, s.handleUploadImage)
}

// === DTOs ===

// UploadImageInput is the multipart upload.
type UploadImageInput struct {
	ID      int64 `path:"id" doc:"Recipe id"`
	RawBody multipart.Form
}

// ImageResponse reports the stored image.
type ImageResponse struct {
	ID    int64   `json:"id"`
	Image *string `json:"image" doc:"URL of the uploaded image"`
}

// ImageOutput wraps the upload response.
type ImageOutput struct {
	Body ImageResponse
}

// === Handlers ===

func (s *Server) handleUploadImage(ctx context.Context, input *UploadImageInput) (*ImageOutput, error) {
	caller, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	filename, data, err := readFormFile(&input.RawBody, "image")
	if err != nil {
		s.recordUpload("rejected")
		return nil, err
	}

	recipe, err := s.services.Images.UploadImage(ctx, caller, input.ID, filename, data)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrValidation) {
			s.recordUpload("rejected")
		}
		return nil, err
	}

	s.recordUpload("stored")
	return &ImageOutput{Body: ImageResponse{ID: recipe.ID, Image: s.mediaLink(recipe.Image)}}, nil
}

func (s *Server) recordUpload(outcome string) {
	if s.metrics != nil {
		s.metrics.ImageUpload(outcome)
	}
}

// readFormFile returns the name and content of the first file sent as field.
func readFormFile(form *multipart.Form, field string) (string, []byte, error) {
	files := form.File[field]
	if len(files) == 0 {
		return "", nil, domainerrors.FieldError(field, "No file was submitted.")
	}
	header := files[0]
	if header.Size == 0 {
		return "", nil, domainerrors.FieldError(field, "The submitted file is empty.")
	}
	if header.Size > images.MaxUploadSize {
		return "", nil, domainerrors.FieldError(field, images.ErrTooLarge.Error())
	}

	f, err := header.Open()
	if err != nil {
		return "", nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to read upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, images.MaxUploadSize+1))
	if err != nil {
		return "", nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to read upload")
	}
	if len(data) > images.MaxUploadSize {
		return "", nil, domainerrors.FieldError(field, images.ErrTooLarge.Error())
	}
	return header.Filename, data, nil
}
