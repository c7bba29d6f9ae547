package service

import (
	"errors"
	"fmt"

	domainerrors "github.com/receitaapp/receita-server/internal/errors"
	"github.com/receitaapp/receita-server/internal/store"
)

// translate turns store errors into domain errors the API can render.
// Errors it does not recognize pass through unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var unresolved *store.UnresolvedError
	switch {
	case errors.As(err, &unresolved):
		return domainerrors.FieldError(unresolved.Kind.Plural(),
			fmt.Sprintf("Invalid pk %q - object does not exist.", fmt.Sprint(unresolved.IDs[0]))).WithCause(err)
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFound("Not found.").WithCause(err)
	case errors.Is(err, store.ErrInvalidPage):
		return domainerrors.NotFound("Invalid page.").WithCause(err)
	case errors.Is(err, store.ErrEmailExists):
		return domainerrors.Conflict("user with this email already exists.").
			WithDetails(map[string]string{"email": "user with this email already exists."}).
			WithCause(err)
	}
	return err
}

// requiredField is the message for a field that must be present.
const requiredField = "This field is required."
