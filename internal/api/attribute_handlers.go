package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/receitaapp/receita-server/internal/domain"
	"github.com/receitaapp/receita-server/internal/service"
)

// registerAttributeRoutes exposes tags and ingredients. Both kinds share
// their handlers and differ only in the service behind them.
func (s *Server) registerAttributeRoutes() {
	s.registerAttributeKind("Tag", "/api/recipe/tags/", s.services.Tags)
	s.registerAttributeKind("Ingredient", "/api/recipe/ingredients/", s.services.Ingredients)
}

func (s *Server) registerAttributeKind(name, path string, svc *service.AttributeService) {
	plural := name + "s"

	huma.Register(s.api, huma.Operation{
		OperationID: "list" + plural,
		Method:      http.MethodGet,
		Path:        path,
		Summary:     "List " + plural,
		Description: "Returns the caller's " + svc.Kind().Plural() + ", name descending. " +
			"With assigned_only=1 only those used by a recipe are listed, each once.",
		Tags:     []string{plural},
		Security: []map[string][]string{{"bearer": {}}},
	}, func(ctx context.Context, input *ListAttributesInput) (*ListAttributesOutput, error) {
		return s.listAttributes(ctx, svc, input)
	})

	huma.Register(s.api, huma.Operation{
		OperationID:   "create" + name,
		Method:        http.MethodPost,
		Path:          path,
		Summary:       "Create " + name,
		Tags:          []string{plural},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateAttributeInput) (*AttributeOutput, error) {
		return s.createAttribute(ctx, svc, input)
	})
}

// === DTOs ===

// AttributeResponse is a tag or ingredient in API responses.
type AttributeResponse struct {
	ID   int64  `json:"id" doc:"Identifier"`
	Name string `json:"name" doc:"Name"`
}

// ListAttributesInput holds the list query.
type ListAttributesInput struct {
	ListParams
	AssignedOnly string `query:"assigned_only" doc:"Non-zero integer to list only attributes used by some recipe"`
}

// ListAttributesOutput is one page of attributes.
type ListAttributesOutput struct {
	Body Page[AttributeResponse]
}

// CreateAttributeRequest is the body of a new tag or ingredient.
type CreateAttributeRequest struct {
	_    struct{} `additionalProperties:"true"`
	Name string   `json:"name,omitempty" doc:"Name"`
}

// CreateAttributeInput wraps the create body.
type CreateAttributeInput struct {
	Body CreateAttributeRequest
}

// AttributeOutput wraps a single attribute.
type AttributeOutput struct {
	Body AttributeResponse
}

func toAttributeResponse(a domain.Attribute) AttributeResponse {
	return AttributeResponse{ID: a.ID, Name: a.Name}
}

// === Handlers ===

func (s *Server) listAttributes(ctx context.Context, svc *service.AttributeService, input *ListAttributesInput) (*ListAttributesOutput, error) {
	caller, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	page, err := input.page(s.pageSize)
	if err != nil {
		return nil, err
	}

	res, err := svc.List(ctx, caller, input.Query(), page)
	if err != nil {
		return nil, err
	}
	return &ListAttributesOutput{Body: newPage(&input.ListParams, page, res, toAttributeResponse)}, nil
}

func (s *Server) createAttribute(ctx context.Context, svc *service.AttributeService, input *CreateAttributeInput) (*AttributeOutput, error) {
	caller, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	attr, err := svc.Create(ctx, caller, service.CreateAttributeRequest{Name: input.Body.Name})
	if err != nil {
		return nil, err
	}
	return &AttributeOutput{Body: toAttributeResponse(*attr)}, nil
}
