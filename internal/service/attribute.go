package service

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/receitaapp/receita-server/internal/domain"
	"github.com/receitaapp/receita-server/internal/filter"
	"github.com/receitaapp/receita-server/internal/normalize"
	"github.com/receitaapp/receita-server/internal/policy"
	"github.com/receitaapp/receita-server/internal/store"
	"github.com/receitaapp/receita-server/internal/validation"
)

// AttributeService manages one kind of owner-scoped label: tags or ingredients.
type AttributeService struct {
	kind      domain.AttributeKind
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewAttributeService creates a service for kind.
func NewAttributeService(kind domain.AttributeKind, store store.Store, validator *validation.Validator, logger *slog.Logger) *AttributeService {
	return &AttributeService{
		kind:      kind,
		store:     store,
		validator: validator,
		logger:    logger.With("kind", string(kind)),
	}
}

// CreateAttributeRequest contains the fields of a new tag or ingredient.
type CreateAttributeRequest struct {
	Name string `json:"name" validate:"notblank,max=255"`
}

// Kind returns the attribute kind served.
func (s *AttributeService) Kind() domain.AttributeKind { return s.kind }

// List returns the caller's attributes, name descending.
// With assigned_only set, only attributes used by some recipe are returned.
func (s *AttributeService) List(ctx context.Context, caller *domain.User, params url.Values, page store.Page) (*store.Result[domain.Attribute], error) {
	if err := policy.Authorize(caller, policy.ActionList, nil); err != nil {
		return nil, err
	}

	q := filter.ParseAttributeQuery(caller.ID, params)
	res, err := s.store.ListAttributes(ctx, s.kind, q, page)
	if err != nil {
		return nil, translate(err)
	}
	return res, nil
}

// Create adds an attribute owned by the caller.
func (s *AttributeService) Create(ctx context.Context, caller *domain.User, req CreateAttributeRequest) (*domain.Attribute, error) {
	attr := &domain.Attribute{Name: normalize.Text(req.Name), OwnerID: caller.ID}
	if err := policy.Authorize(caller, policy.ActionCreate, attr); err != nil {
		return nil, err
	}

	req.Name = attr.Name
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if err := s.store.CreateAttribute(ctx, s.kind, attr); err != nil {
		return nil, translate(err)
	}

	s.logger.Debug("attribute created", "id", attr.ID, "user_id", caller.ID)
	return attr, nil
}
