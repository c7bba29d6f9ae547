// Package policy decides whether a caller may act on a resource.
//
// Every resource is private to its owner. A denial is reported as not found
// so that callers cannot probe for ids belonging to other users.
package policy

import (
	"github.com/receitaapp/receita-server/internal/domain"
	domainerrors "github.com/receitaapp/receita-server/internal/errors"
)

// Action is an operation a caller attempts.
type Action string

// Actions checked by the services.
const (
	ActionList   Action = "list"
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Authorize returns nil when caller may perform action on resource.
// resource is nil for collection-level actions (list, create).
// Staff and superuser flags grant nothing here: the API only ever works
// on the caller's own collection.
func Authorize(caller *domain.User, action Action, resource domain.Owned) error {
	if caller == nil || !caller.CanLogin() {
		return domainerrors.Unauthorized("Authentication credentials were not provided.")
	}

	switch action {
	case ActionList, ActionCreate:
		if resource == nil || resource.Owner() == caller.ID {
			return nil
		}
	case ActionRead, ActionUpdate, ActionDelete:
		if resource != nil && resource.Owner() == caller.ID {
			return nil
		}
	}
	return domainerrors.NotFound("Not found.")
}
