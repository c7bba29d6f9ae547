package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/receitaapp/receita-server/internal/domain"
	"github.com/receitaapp/receita-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createUser",
		Method:        http.MethodPost,
		Path:          "/api/user/",
		Summary:       "Create account",
		Description:   "Registers a new account. The email is normalized before it is stored.",
		Tags:          []string{"User"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "createToken",
		Method:      http.MethodPost,
		Path:        tokenPath,
		Summary:     "Obtain token",
		Description: "Exchanges email and password for a bearer token. Rate limited per client.",
		Tags:        []string{"User"},
	}, s.handleCreateToken)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMe",
		Method:      http.MethodGet,
		Path:        "/api/user/me/",
		Summary:     "Get own account",
		Tags:        []string{"User"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMe)

	huma.Register(s.api, huma.Operation{
		OperationID: "replaceMe",
		Method:      http.MethodPut,
		Path:        "/api/user/me/",
		Summary:     "Replace own account",
		Description: "Email and password are required. An omitted name is cleared.",
		Tags:        []string{"User"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReplaceMe)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateMe",
		Method:      http.MethodPatch,
		Path:        "/api/user/me/",
		Summary:     "Update own account",
		Description: "Changes only the fields sent. A new password is re-hashed.",
		Tags:        []string{"User"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateMe)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteMe",
		Method:        http.MethodDelete,
		Path:          "/api/user/me/",
		Summary:       "Delete own account",
		Description:   "Deletes the account with its tags, ingredients, recipes and images.",
		Tags:          []string{"User"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteMe)
}

// === DTOs ===

// UserResponse is the public view of an account. The password is never returned.
type UserResponse struct {
	Email string `json:"email" doc:"Normalized email address"`
	Name  string `json:"name" doc:"Display name"`
}

// UserOutput wraps a single account.
type UserOutput struct {
	Body UserResponse
}

// CreateUserRequest is the body of an account registration.
type CreateUserRequest struct {
	_        struct{} `additionalProperties:"true"`
	Email    string   `json:"email,omitempty" doc:"Email address, used to log in"`
	Password string   `json:"password,omitempty" doc:"At least 5 characters"`
	Name     string   `json:"name,omitempty" doc:"Display name"`
}

// CreateUserInput wraps the registration body.
type CreateUserInput struct {
	Body CreateUserRequest
}

// TokenRequest carries login credentials.
type TokenRequest struct {
	_        struct{} `additionalProperties:"true"`
	Email    string   `json:"email,omitempty" doc:"Email address"`
	Password string   `json:"password,omitempty" doc:"Password"`
}

// TokenInput wraps the login body.
type TokenInput struct {
	Body TokenRequest
}

// TokenResponse carries the issued bearer token.
type TokenResponse struct {
	Token string `json:"token" doc:"Send as 'Authorization: Bearer <token>'"`
}

// TokenOutput wraps the token response.
type TokenOutput struct {
	Body TokenResponse
}

// UpdateMeRequest carries account changes. Absent fields are not sent.
type UpdateMeRequest struct {
	_        struct{} `additionalProperties:"true"`
	Email    *string  `json:"email,omitempty" doc:"New email address"`
	Password *string  `json:"password,omitempty" doc:"New password"`
	Name     *string  `json:"name,omitempty" doc:"New display name"`
}

// UpdateMeInput wraps the account change body.
type UpdateMeInput struct {
	Body UpdateMeRequest
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{Email: u.Email, Name: u.Name}
}

// === Handlers ===

func (s *Server) handleCreateUser(ctx context.Context, input *CreateUserInput) (*UserOutput, error) {
	user, err := s.services.Identity.CreateUser(ctx, service.CreateUserRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
		Name:     input.Body.Name,
	})
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: toUserResponse(user)}, nil
}

func (s *Server) handleCreateToken(ctx context.Context, input *TokenInput) (*TokenOutput, error) {
	token, err := s.services.Identity.IssueToken(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		return nil, err
	}
	return &TokenOutput{Body: TokenResponse{Token: token}}, nil
}

func (s *Server) handleGetMe(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: toUserResponse(user)}, nil
}

func (s *Server) handleReplaceMe(ctx context.Context, input *UpdateMeInput) (*UserOutput, error) {
	return s.updateMe(ctx, input, false)
}

func (s *Server) handleUpdateMe(ctx context.Context, input *UpdateMeInput) (*UserOutput, error) {
	return s.updateMe(ctx, input, true)
}

func (s *Server) updateMe(ctx context.Context, input *UpdateMeInput, partial bool) (*UserOutput, error) {
	caller, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Identity.UpdateMe(ctx, caller, service.UpdateMeRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
		Name:     input.Body.Name,
	}, partial)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: toUserResponse(user)}, nil
}

func (s *Server) handleDeleteMe(ctx context.Context, _ *struct{}) (*struct{}, error) {
	caller, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Identity.DeleteMe(ctx, caller); err != nil {
		return nil, err
	}
	return nil, nil
}
