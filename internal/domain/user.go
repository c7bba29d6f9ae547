// Package domain holds the core entities of the recipe catalog.
package domain

import "time"

// User is an account. Email is stored in normalized form and is unique.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CanLogin reports whether the account may authenticate.
func (u *User) CanLogin() bool {
	return u != nil && u.IsActive
}
