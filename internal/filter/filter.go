// Package filter turns list query parameters into owner-scoped predicates.
//
// Parsing is pure: the same owner and parameters always produce the same
// predicate, and nothing here touches the database. Predicates render to
// squirrel.Sqlizer so the store applies them in one place.
package filter

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"github.com/receitaapp/receita-server/internal/domain"
	domainerrors "github.com/receitaapp/receita-server/internal/errors"
)

// Query parameter names understood by the list endpoints.
const (
	ParamAssignedOnly = "assigned_only"
	ParamTags         = "tags"
	ParamIngredients  = "ingredients"
)

// AttributeQuery selects the caller's tags or ingredients.
type AttributeQuery struct {
	OwnerID int64
	// AssignedOnly keeps attributes referenced by at least one recipe of any owner.
	AssignedOnly bool
}

// ParseAttributeQuery reads assigned_only. Any value that parses to a non-zero
// integer turns it on; everything else, including garbage, leaves it off.
func ParseAttributeQuery(ownerID int64, params url.Values) AttributeQuery {
	q := AttributeQuery{OwnerID: ownerID}
	if n, err := strconv.Atoi(strings.TrimSpace(params.Get(ParamAssignedOnly))); err == nil && n != 0 {
		q.AssignedOnly = true
	}
	return q
}

// Where renders the predicate against the kind's table. The EXISTS form keeps
// each attribute at most once however many recipes reference it.
func (q AttributeQuery) Where(kind domain.AttributeKind) sq.Sqlizer {
	table := kind.Table()
	where := sq.And{sq.Eq{table + ".user_id": q.OwnerID}}
	if q.AssignedOnly {
		link := kind.LinkTable()
		where = append(where, sq.Expr(fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s WHERE %s.%s = %s.id)",
			link, link, kind.LinkColumn(), table,
		)))
	}
	return where
}

// RecipeQuery selects the caller's recipes, optionally narrowed by relations.
type RecipeQuery struct {
	OwnerID       int64
	TagIDs        []int64 // nil means no tag filter
	IngredientIDs []int64 // nil means no ingredient filter
}

// ParseRecipeQuery reads the comma-separated tags and ingredients filters.
// A recipe passes when it shares at least one tag with TagIDs (if set) and at
// least one ingredient with IngredientIDs (if set). Unknown parameters are ignored.
func ParseRecipeQuery(ownerID int64, params url.Values) (RecipeQuery, error) {
	q := RecipeQuery{OwnerID: ownerID}

	details := make(map[string]string)
	var err error
	if q.TagIDs, err = ParseIDList(params.Get(ParamTags)); err != nil {
		details[ParamTags] = err.Error()
	}
	if q.IngredientIDs, err = ParseIDList(params.Get(ParamIngredients)); err != nil {
		details[ParamIngredients] = err.Error()
	}
	if len(details) > 0 {
		return RecipeQuery{}, domainerrors.ValidationWithDetails("invalid filter", details)
	}

	return q, nil
}

// ParseIDList parses "1, 2,,3" into [1 2 3]. Blank tokens are skipped and
// duplicates collapse; a list with no ids at all yields nil.
func ParseIDList(raw string) ([]int64, error) {
	var ids []int64
	for token := range strings.SplitSeq(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		n, err := strconv.ParseInt(token, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%q is not a valid id", token)
		}
		ids = append(ids, n)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	ids = lo.Uniq(ids)
	slices.Sort(ids)
	return ids, nil
}

// Where renders the predicate against the recipes table.
func (q RecipeQuery) Where() (sq.Sqlizer, error) {
	where := sq.And{sq.Eq{"recipes.user_id": q.OwnerID}}

	for _, rel := range []struct {
		kind domain.AttributeKind
		ids  []int64
	}{
		{domain.KindTag, q.TagIDs},
		{domain.KindIngredient, q.IngredientIDs},
	} {
		if len(rel.ids) == 0 {
			continue
		}
		sub, args, err := sq.Select("recipe_id").
			From(rel.kind.LinkTable()).
			Where(sq.Eq{rel.kind.LinkColumn(): rel.ids}).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build %s filter: %w", rel.kind.Plural(), err)
		}
		where = append(where, sq.Expr("recipes.id IN ("+sub+")", args...))
	}

	return where, nil
}

// Values renders the query back into URL parameters, for pagination links.
func (q RecipeQuery) Values() url.Values {
	v := url.Values{}
	if len(q.TagIDs) > 0 {
		v.Set(ParamTags, joinIDs(q.TagIDs))
	}
	if len(q.IngredientIDs) > 0 {
		v.Set(ParamIngredients, joinIDs(q.IngredientIDs))
	}
	return v
}

// Values renders the query back into URL parameters, for pagination links.
func (q AttributeQuery) Values() url.Values {
	v := url.Values{}
	if q.AssignedOnly {
		v.Set(ParamAssignedOnly, "1")
	}
	return v
}

func joinIDs(ids []int64) string {
	return strings.Join(lo.Map(ids, func(id int64, _ int) string {
		return strconv.FormatInt(id, 10)
	}), ",")
}
