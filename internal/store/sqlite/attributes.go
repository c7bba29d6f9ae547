package sqlite

import (
	"context"
	"fmt"
	"slices"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/receitaapp/receita-server/internal/domain"
	"github.com/receitaapp/receita-server/internal/filter"
	"github.com/receitaapp/receita-server/internal/store"
)

type attributeRow struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	OwnerID int64  `db:"user_id"`
}

func (r attributeRow) toDomain() domain.Attribute {
	return domain.Attribute{ID: r.ID, Name: r.Name, OwnerID: r.OwnerID}
}

func attributeColumns(kind domain.AttributeKind) []string {
	t := kind.Table()
	return []string{t + ".id AS id", t + ".name AS name", t + ".user_id AS user_id"}
}

// ListAttributes returns one page of the caller's tags or ingredients, newest
// name first (name descending, then id descending).
func (s *Store) ListAttributes(ctx context.Context, kind domain.AttributeKind, q filter.AttributeQuery, page store.Page) (*store.Result[domain.Attribute], error) {
	where := q.Where(kind)

	var count int
	if err := get(ctx, s.db, &count, sq.Select("COUNT(*)").From(kind.Table()).Where(where)); err != nil {
		return nil, fmt.Errorf("count %s: %w", kind.Plural(), err)
	}
	if err := store.CheckPage(page, count); err != nil {
		return nil, err
	}

	limit, offset := pageBounds(page)
	var rows []attributeRow
	if err := selectAll(ctx, s.db, &rows, sq.Select(attributeColumns(kind)...).
		From(kind.Table()).
		Where(where).
		OrderBy(kind.Table()+".name DESC", kind.Table()+".id DESC").
		Limit(limit).
		Offset(offset),
	); err != nil {
		return nil, fmt.Errorf("list %s: %w", kind.Plural(), err)
	}

	return &store.Result[domain.Attribute]{
		Items: lo.Map(rows, func(r attributeRow, _ int) domain.Attribute { return r.toDomain() }),
		Count: count,
	}, nil
}

// CreateAttribute inserts a tag or ingredient and sets its ID.
func (s *Store) CreateAttribute(ctx context.Context, kind domain.AttributeKind, a *domain.Attribute) error {
	res, err := exec(ctx, s.db, sq.Insert(kind.Table()).
		Columns("name", "user_id", "created_at").
		Values(a.Name, a.OwnerID, formatTime(time.Now())))
	if err != nil {
		return fmt.Errorf("insert %s: %w", kind, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%s id: %w", kind, err)
	}
	a.ID = id
	return nil
}

// attributesFor returns the attributes linked to each of the given recipes,
// keyed by recipe id and ordered by attribute id.
func attributesFor(ctx context.Context, q sqlx.QueryerContext, kind domain.AttributeKind, recipeIDs []int64) (map[int64][]domain.Attribute, error) {
	out := make(map[int64][]domain.Attribute, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}

	link := kind.LinkTable()
	var rows []struct {
		RecipeID int64 `db:"recipe_id"`
		attributeRow
	}
	if err := selectAll(ctx, q, &rows, sq.Select(append([]string{link + ".recipe_id AS recipe_id"}, attributeColumns(kind)...)...).
		From(link).
		Join(fmt.Sprintf("%s ON %s.id = %s.%s", kind.Table(), kind.Table(), link, kind.LinkColumn())).
		Where(sq.Eq{link + ".recipe_id": recipeIDs}).
		OrderBy(link+".recipe_id", kind.Table()+".id"),
	); err != nil {
		return nil, fmt.Errorf("load %s: %w", kind.Plural(), err)
	}

	for _, r := range rows {
		out[r.RecipeID] = append(out[r.RecipeID], r.toDomain())
	}
	return out, nil
}

// resolveAttributes checks that every id names an existing tag or ingredient.
// Attributes of any owner are accepted.
func resolveAttributes(ctx context.Context, q sqlx.QueryerContext, kind domain.AttributeKind, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	ids = lo.Uniq(ids)

	var found []int64
	if err := selectAll(ctx, q, &found, sq.Select("id").From(kind.Table()).Where(sq.Eq{"id": ids})); err != nil {
		return fmt.Errorf("resolve %s: %w", kind.Plural(), err)
	}
	if len(found) == len(ids) {
		return nil
	}

	missing, _ := lo.Difference(ids, found)
	slices.Sort(missing)
	return &store.UnresolvedError{Kind: kind, IDs: missing}
}

// pageBounds converts a validated page into LIMIT/OFFSET values.
func pageBounds(p store.Page) (limit, offset uint64) {
	//nolint:gosec // CheckPage guarantees a positive size and number
	return uint64(p.Size), uint64(p.Offset())
}

// replaceLinks swaps the recipe's relation set for ids.
func replaceLinks(ctx context.Context, tx *sqlx.Tx, kind domain.AttributeKind, recipeID int64, ids []int64) error {
	if _, err := exec(ctx, tx, sq.Delete(kind.LinkTable()).Where(sq.Eq{"recipe_id": recipeID})); err != nil {
		return fmt.Errorf("clear %s: %w", kind.Plural(), err)
	}
	if len(ids) == 0 {
		return nil
	}

	insert := sq.Insert(kind.LinkTable()).Columns("recipe_id", kind.LinkColumn())
	for _, id := range lo.Uniq(ids) {
		insert = insert.Values(recipeID, id)
	}
	if _, err := exec(ctx, tx, insert); err != nil {
		return fmt.Errorf("link %s: %w", kind.Plural(), err)
	}
	return nil
}
