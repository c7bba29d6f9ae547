package store

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/receitaapp/receita-server/internal/domain"
)

// Error is a persistence error carrying the HTTP status it should surface as
// when a service lets it through untranslated.
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// Sentinel errors.
var (
	ErrNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "resource not found",
	}

	ErrEmailExists = &Error{
		Code:    http.StatusBadRequest,
		Message: "email already registered",
	}

	ErrInvalidPage = &Error{
		Code:    http.StatusNotFound,
		Message: "invalid page",
	}
)

// UnresolvedError reports relation ids that match no tag or ingredient.
type UnresolvedError struct {
	Kind domain.AttributeKind
	IDs  []int64
}

func (e *UnresolvedError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("unknown %s: %s", e.Kind.Plural(), strings.Join(ids, ", "))
}
