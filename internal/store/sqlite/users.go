package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/receitaapp/receita-server/internal/domain"
	"github.com/receitaapp/receita-server/internal/store"
)

var userColumns = []string{
	"id", "email", "name", "password_hash", "is_active", "is_staff", "is_superuser", "created_at", "updated_at",
}

type userRow struct {
	ID           int64  `db:"id"`
	Email        string `db:"email"`
	Name         string `db:"name"`
	PasswordHash string `db:"password_hash"`
	IsActive     bool   `db:"is_active"`
	IsStaff      bool   `db:"is_staff"`
	IsSuperuser  bool   `db:"is_superuser"`
	CreatedAt    string `db:"created_at"`
	UpdatedAt    string `db:"updated_at"`
}

func (r *userRow) toDomain() (*domain.User, error) {
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTime(r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		IsActive:     r.IsActive,
		IsStaff:      r.IsStaff,
		IsSuperuser:  r.IsSuperuser,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

// CreateUser inserts the user and sets its ID and timestamps.
// Returns store.ErrEmailExists when the email is taken.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	now := time.Now().UTC()

	res, err := exec(ctx, s.db, sq.Insert("users").
		Columns("email", "name", "password_hash", "is_active", "is_staff", "is_superuser", "created_at", "updated_at").
		Values(u.Email, u.Name, u.PasswordHash, u.IsActive, u.IsStaff, u.IsSuperuser, formatTime(now), formatTime(now)))
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	u.ID = id
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

// GetUser returns the user with the given id or store.ErrNotFound.
func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.getUser(ctx, s.db, sq.Eq{"id": id})
}

// GetUserByEmail looks a user up by normalized email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUser(ctx, s.db, sq.Eq{"email": email})
}

func (s *Store) getUser(ctx context.Context, q sqlx.QueryerContext, where sq.Sqlizer) (*domain.User, error) {
	var row userRow
	err := get(ctx, q, &row, sq.Select(userColumns...).From("users").Where(where))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return row.toDomain()
}

// UpdateUser writes the mutable account fields.
func (s *Store) UpdateUser(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()

	res, err := exec(ctx, s.db, sq.Update("users").
		SetMap(map[string]any{
			"email":         u.Email,
			"name":          u.Name,
			"password_hash": u.PasswordHash,
			"is_active":     u.IsActive,
			"updated_at":    formatTime(u.UpdatedAt),
		}).
		Where(sq.Eq{"id": u.ID}))
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrEmailExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	return requireAffected(res)
}

// DeleteUser removes the user. Foreign keys cascade to tags, ingredients,
// recipes and every link row that touches them.
func (s *Store) DeleteUser(ctx context.Context, id int64) ([]string, error) {
	var images []string

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := selectAll(ctx, tx, &images, sq.Select("image").
			From("recipes").
			Where(sq.And{sq.Eq{"user_id": id}, sq.NotEq{"image": nil}, sq.NotEq{"image": ""}})); err != nil {
			return fmt.Errorf("collect images: %w", err)
		}

		res, err := exec(ctx, tx, sq.Delete("users").Where(sq.Eq{"id": id}))
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return requireAffected(res)
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

// requireAffected turns "no rows touched" into store.ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
