package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/receitaapp/receita-server/internal/auth"
	"github.com/receitaapp/receita-server/internal/domain"
	domainerrors "github.com/receitaapp/receita-server/internal/errors"
	"github.com/receitaapp/receita-server/internal/media/images"
	"github.com/receitaapp/receita-server/internal/normalize"
	"github.com/receitaapp/receita-server/internal/store"
	"github.com/receitaapp/receita-server/internal/validation"
)

// IdentityService manages accounts and bearer tokens.
type IdentityService struct {
	store     store.Store
	tokens    *auth.TokenService
	uploader  *images.Uploader
	validator *validation.Validator
	logger    *slog.Logger
}

// NewIdentityService creates a new identity service.
func NewIdentityService(
	store store.Store,
	tokens *auth.TokenService,
	uploader *images.Uploader,
	validator *validation.Validator,
	logger *slog.Logger,
) *IdentityService {
	return &IdentityService{
		store:     store,
		tokens:    tokens,
		uploader:  uploader,
		validator: validator,
		logger:    logger,
	}
}

// CreateUserRequest contains the fields of a new account.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=5,max=1024"`
	Name     string `json:"name" validate:"max=255"`
}

// UpdateMeRequest carries account changes. Nil fields are not sent.
type UpdateMeRequest struct {
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=5,max=1024"`
	Name     *string `json:"name" validate:"omitempty,max=255"`
}

var errBadCredentials = domainerrors.InvalidCredentials("Unable to authenticate with provided credentials.")

// CreateUser registers a regular account.
func (s *IdentityService) CreateUser(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	return s.createUser(ctx, req, false)
}

// CreateSuperuser registers an account with staff and superuser flags set.
func (s *IdentityService) CreateSuperuser(ctx context.Context, email, password string) (*domain.User, error) {
	return s.createUser(ctx, CreateUserRequest{Email: email, Password: password}, true)
}

func (s *IdentityService) createUser(ctx context.Context, req CreateUserRequest, superuser bool) (*domain.User, error) {
	req.Email = normalize.Email(req.Email)
	req.Name = normalize.Text(req.Name)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      superuser,
		IsSuperuser:  superuser,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, translate(err)
	}

	s.logger.Info("user created", "user_id", user.ID, "superuser", superuser)
	return user, nil
}

// IssueToken exchanges credentials for a bearer token.
func (s *IdentityService) IssueToken(ctx context.Context, email, password string) (string, error) {
	fields := map[string]string{}
	if email == "" {
		fields["email"] = requiredField
	}
	if password == "" {
		fields["password"] = requiredField
	}
	if len(fields) > 0 {
		return "", domainerrors.ValidationWithDetails("validation failed", fields)
	}

	user, err := s.store.GetUserByEmail(ctx, normalize.Email(email))
	if errors.Is(err, store.ErrNotFound) {
		return "", errBadCredentials
	}
	if err != nil {
		return "", err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) || !user.CanLogin() {
		return "", errBadCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Authenticate resolves a bearer token to an active account.
func (s *IdentityService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domainerrors.Unauthorized("Authentication credentials were not provided.")
	}

	claims, err := s.tokens.Verify(token)
	if errors.Is(err, auth.ErrTokenExpired) {
		return nil, domainerrors.TokenExpired("Token has expired.")
	}
	if err != nil {
		return nil, domainerrors.Unauthorized("Invalid token.").WithCause(err)
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.Unauthorized("Invalid token.")
	}
	if err != nil {
		return nil, err
	}
	if !user.CanLogin() {
		return nil, domainerrors.Unauthorized("User inactive or deleted.")
	}
	return user, nil
}

// UpdateMe changes the caller's account. Without partial, email and password
// must both be sent and an omitted name is cleared.
func (s *IdentityService) UpdateMe(ctx context.Context, caller *domain.User, req UpdateMeRequest, partial bool) (*domain.User, error) {
	if req.Email != nil {
		e := normalize.Email(*req.Email)
		req.Email = &e
	}
	if req.Name != nil {
		n := normalize.Text(*req.Name)
		req.Name = &n
	}

	fields := s.validator.Fields(req)
	if req.Email != nil && *req.Email == "" {
		fields["email"] = "This field may not be blank."
	}
	if req.Password != nil && *req.Password == "" {
		fields["password"] = "This field may not be blank."
	}
	if !partial {
		if req.Email == nil {
			fields["email"] = requiredField
		}
		if req.Password == nil {
			fields["password"] = requiredField
		}
	}
	if len(fields) > 0 {
		return nil, domainerrors.ValidationWithDetails("validation failed", fields)
	}

	user := *caller
	if req.Email != nil {
		user.Email = *req.Email
	}
	switch {
	case req.Name != nil:
		user.Name = *req.Name
	case !partial:
		user.Name = ""
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.store.UpdateUser(ctx, &user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// DeleteMe removes the caller's account together with everything it owns,
// then the stored images of its recipes.
func (s *IdentityService) DeleteMe(ctx context.Context, caller *domain.User) error {
	imagePaths, err := s.store.DeleteUser(ctx, caller.ID)
	if err != nil {
		return translate(err)
	}
	for _, p := range imagePaths {
		s.uploader.Remove(p)
	}

	s.logger.Info("user deleted", "user_id", caller.ID, "images_removed", len(imagePaths))
	return nil
}
