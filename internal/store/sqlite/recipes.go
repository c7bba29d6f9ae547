package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/receitaapp/receita-server/internal/domain"
	"github.com/receitaapp/receita-server/internal/filter"
	"github.com/receitaapp/receita-server/internal/store"
)

var recipeColumns = []string{
	"recipes.id AS id",
	"recipes.user_id AS user_id",
	"recipes.title AS title",
	"recipes.time_minutes AS time_minutes",
	"recipes.price_cents AS price_cents",
	"recipes.link AS link",
	"COALESCE(recipes.image, '') AS image",
	"COALESCE(recipes.image_blurhash, '') AS image_blurhash",
	"recipes.created_at AS created_at",
	"recipes.updated_at AS updated_at",
}

type recipeRow struct {
	ID            int64  `db:"id"`
	OwnerID       int64  `db:"user_id"`
	Title         string `db:"title"`
	TimeMinutes   int    `db:"time_minutes"`
	PriceCents    int64  `db:"price_cents"`
	Link          string `db:"link"`
	Image         string `db:"image"`
	ImageBlurHash string `db:"image_blurhash"`
	CreatedAt     string `db:"created_at"`
	UpdatedAt     string `db:"updated_at"`
}

func (r *recipeRow) toDomain() (domain.Recipe, error) {
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return domain.Recipe{}, err
	}
	updatedAt, err := parseTime(r.UpdatedAt)
	if err != nil {
		return domain.Recipe{}, err
	}
	return domain.Recipe{
		ID:            r.ID,
		OwnerID:       r.OwnerID,
		Title:         r.Title,
		TimeMinutes:   r.TimeMinutes,
		Price:         domain.Price(r.PriceCents),
		Link:          r.Link,
		Image:         r.Image,
		ImageBlurHash: r.ImageBlurHash,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, nil
}

// ListRecipes returns one page of recipes matching q, newest first.
func (s *Store) ListRecipes(ctx context.Context, q filter.RecipeQuery, page store.Page) (*store.Result[domain.Recipe], error) {
	where, err := q.Where()
	if err != nil {
		return nil, err
	}

	var count int
	if err := get(ctx, s.db, &count, sq.Select("COUNT(*)").From("recipes").Where(where)); err != nil {
		return nil, fmt.Errorf("count recipes: %w", err)
	}
	if err := store.CheckPage(page, count); err != nil {
		return nil, err
	}

	limit, offset := pageBounds(page)
	var rows []recipeRow
	if err := selectAll(ctx, s.db, &rows, sq.Select(recipeColumns...).
		From("recipes").
		Where(where).
		OrderBy("recipes.id DESC").
		Limit(limit).
		Offset(offset),
	); err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	recipes := make([]domain.Recipe, 0, len(rows))
	for i := range rows {
		r, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	if err := loadLinkIDs(ctx, s.db, recipes); err != nil {
		return nil, err
	}

	return &store.Result[domain.Recipe]{Items: recipes, Count: count}, nil
}

// GetRecipe returns the recipe with its tag and ingredient ids, regardless of owner.
func (s *Store) GetRecipe(ctx context.Context, id int64) (*domain.Recipe, error) {
	r, err := getRecipe(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	recipes := []domain.Recipe{*r}
	if err := loadLinkIDs(ctx, s.db, recipes); err != nil {
		return nil, err
	}
	return &recipes[0], nil
}

// GetRecipeDetail returns the recipe with its tags and ingredients resolved.
func (s *Store) GetRecipeDetail(ctx context.Context, id int64) (*domain.RecipeDetail, error) {
	r, err := getRecipe(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	detail := &domain.RecipeDetail{Recipe: *r}
	for _, rel := range []struct {
		kind  domain.AttributeKind
		attrs *[]domain.Attribute
		ids   *[]int64
	}{
		{domain.KindTag, &detail.Tags, &detail.TagIDs},
		{domain.KindIngredient, &detail.Ingredients, &detail.IngredientIDs},
	} {
		byRecipe, err := attributesFor(ctx, s.db, rel.kind, []int64{id})
		if err != nil {
			return nil, err
		}
		*rel.attrs = byRecipe[id]
		*rel.ids = attributeIDs(byRecipe[id])
	}
	return detail, nil
}

func getRecipe(ctx context.Context, q sqlx.QueryerContext, id int64) (*domain.Recipe, error) {
	var row recipeRow
	err := get(ctx, q, &row, sq.Select(recipeColumns...).From("recipes").Where(sq.Eq{"recipes.id": id}))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	r, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// loadLinkIDs fills TagIDs and IngredientIDs for every recipe in place.
func loadLinkIDs(ctx context.Context, q sqlx.QueryerContext, recipes []domain.Recipe) error {
	ids := lo.Map(recipes, func(r domain.Recipe, _ int) int64 { return r.ID })

	tags, err := linkIDs(ctx, q, domain.KindTag, ids)
	if err != nil {
		return err
	}
	ingredients, err := linkIDs(ctx, q, domain.KindIngredient, ids)
	if err != nil {
		return err
	}

	for i := range recipes {
		recipes[i].TagIDs = nonNil(tags[recipes[i].ID])
		recipes[i].IngredientIDs = nonNil(ingredients[recipes[i].ID])
	}
	return nil
}

func linkIDs(ctx context.Context, q sqlx.QueryerContext, kind domain.AttributeKind, recipeIDs []int64) (map[int64][]int64, error) {
	out := make(map[int64][]int64, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		RecipeID int64 `db:"recipe_id"`
		AttrID   int64 `db:"attr_id"`
	}
	if err := selectAll(ctx, q, &rows, sq.Select("recipe_id", kind.LinkColumn()+" AS attr_id").
		From(kind.LinkTable()).
		Where(sq.Eq{"recipe_id": recipeIDs}).
		OrderBy("recipe_id", kind.LinkColumn()),
	); err != nil {
		return nil, fmt.Errorf("load %s ids: %w", kind, err)
	}

	for _, r := range rows {
		out[r.RecipeID] = append(out[r.RecipeID], r.AttrID)
	}
	return out, nil
}

// CreateRecipe inserts the recipe and its relation links in one transaction.
// Unknown tag or ingredient ids abort the whole insert with *store.UnresolvedError.
func (s *Store) CreateRecipe(ctx context.Context, r *domain.Recipe) error {
	now := time.Now().UTC()

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := exec(ctx, tx, sq.Insert("recipes").
			Columns("user_id", "title", "time_minutes", "price_cents", "link", "image", "image_blurhash", "created_at", "updated_at").
			Values(r.OwnerID, r.Title, r.TimeMinutes, r.Price.Cents(), r.Link,
				nullString(r.Image), nullString(r.ImageBlurHash), formatTime(now), formatTime(now)))
		if err != nil {
			return fmt.Errorf("insert recipe: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("recipe id: %w", err)
		}

		if err := writeLinks(ctx, tx, id, r, store.LinkUpdate{Tags: true, Ingredients: true}); err != nil {
			return err
		}

		r.ID = id
		r.CreatedAt = now
		r.UpdatedAt = now
		return nil
	})
}

// UpdateRecipe writes the scalar fields and replaces the relation sets chosen by links.
func (s *Store) UpdateRecipe(ctx context.Context, r *domain.Recipe, links store.LinkUpdate) error {
	now := time.Now().UTC()

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := exec(ctx, tx, sq.Update("recipes").
			SetMap(map[string]any{
				"title":        r.Title,
				"time_minutes": r.TimeMinutes,
				"price_cents":  r.Price.Cents(),
				"link":         r.Link,
				"updated_at":   formatTime(now),
			}).
			Where(sq.Eq{"id": r.ID}))
		if err != nil {
			return fmt.Errorf("update recipe: %w", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}

		if err := writeLinks(ctx, tx, r.ID, r, links); err != nil {
			return err
		}
		r.UpdatedAt = now
		return nil
	})
}

func writeLinks(ctx context.Context, tx *sqlx.Tx, recipeID int64, r *domain.Recipe, links store.LinkUpdate) error {
	for _, rel := range []struct {
		kind    domain.AttributeKind
		ids     []int64
		replace bool
	}{
		{domain.KindTag, r.TagIDs, links.Tags},
		{domain.KindIngredient, r.IngredientIDs, links.Ingredients},
	} {
		if !rel.replace {
			continue
		}
		if err := resolveAttributes(ctx, tx, rel.kind, rel.ids); err != nil {
			return err
		}
		if err := replaceLinks(ctx, tx, rel.kind, recipeID, rel.ids); err != nil {
			return err
		}
	}
	return nil
}

// DeleteRecipe removes the recipe; its link rows go with it.
func (s *Store) DeleteRecipe(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := exec(ctx, tx, sq.Delete("recipes").Where(sq.Eq{"id": id}))
		if err != nil {
			return fmt.Errorf("delete recipe: %w", err)
		}
		return requireAffected(res)
	})
}

// SetRecipeImage records a new image reference. write runs inside the
// transaction, after the row update and before commit; if it fails nothing is recorded.
func (s *Store) SetRecipeImage(ctx context.Context, id int64, image, blurHash string, write func(context.Context) error) (string, error) {
	var previous string

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		current, err := getRecipe(ctx, tx, id)
		if err != nil {
			return err
		}
		previous = current.Image

		if _, err := exec(ctx, tx, sq.Update("recipes").
			SetMap(map[string]any{
				"image":          nullString(image),
				"image_blurhash": nullString(blurHash),
				"updated_at":     formatTime(time.Now()),
			}).
			Where(sq.Eq{"id": id})); err != nil {
			return fmt.Errorf("update recipe image: %w", err)
		}

		return write(ctx)
	})
	if err != nil {
		return "", err
	}
	return previous, nil
}

func attributeIDs(attrs []domain.Attribute) []int64 {
	return nonNil(lo.Map(attrs, func(a domain.Attribute, _ int) int64 { return a.ID }))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
