package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/receitaapp/receita-server/internal/media/images"
	"github.com/receitaapp/receita-server/internal/store"
)

func recipePath(id int64) string {
	return fmt.Sprintf("/api/recipe/recipes/%d/", id)
}

func recipeIDs(items []RecipeListItem) []int64 {
	ids := make([]int64, 0, len(items))
	for _, r := range items {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestTags_OwnerIsolation(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.signup(t, "alice@example.com")
	bob := ts.signup(t, "bob@example.com")

	ts.createTag(t, alice, "Vegano")
	ts.createTag(t, alice, "Sobremesa")
	ts.createTag(t, bob, "Peixe")

	resp := ts.api.Get("/api/recipe/tags/", alice)
	require.Equal(t, http.StatusOK, resp.Code)
	page := decode[Page[AttributeResponse]](t, resp)
	assert.Equal(t, 2, page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "Vegano", page.Results[0].Name, "name descending")
	assert.Equal(t, "Sobremesa", page.Results[1].Name)
	assert.Nil(t, page.Next)
	assert.Nil(t, page.Previous)
}

func TestAttributes_RequireAuthentication(t *testing.T) {
	ts := setupTestServer(t)

	for _, path := range []string{"/api/recipe/tags/", "/api/recipe/ingredients/", "/api/recipe/recipes/"} {
		assert.Equal(t, http.StatusUnauthorized, ts.api.Get(path).Code, path)
	}
	assert.Equal(t, http.StatusUnauthorized, ts.api.Post("/api/recipe/tags/", map[string]any{"name": "x"}).Code)
}

func TestCreateAttribute_BlankName(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.signup(t, "cook@example.com")

	resp := ts.api.Post("/api/recipe/ingredients/", authz, map[string]any{"name": "   "})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "This field may not be blank.", decode[errorBody](t, resp).Details["name"])
}

func TestIngredients_AssignedOnly(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.signup(t, "cook@example.com")

	ovos := ts.createIngredient(t, authz, "Ovos")
	ts.createIngredient(t, authz, "Sal")
	ts.createRecipe(t, authz, map[string]any{"title": "Omelete", "ingredients": []int64{ovos.ID}})
	ts.createRecipe(t, authz, map[string]any{"title": "Ovos cozidos", "ingredients": []int64{ovos.ID}})

	resp := ts.api.Get("/api/recipe/ingredients/?assigned_only=1", authz)
	require.Equal(t, http.StatusOK, resp.Code)
	page := decode[Page[AttributeResponse]](t, resp)
	assert.Equal(t, []AttributeResponse{ovos}, page.Results, "listed once")

	resp = ts.api.Get("/api/recipe/ingredients/?assigned_only=yes", authz)
	assert.Equal(t, 2, decode[Page[AttributeResponse]](t, resp).Count, "non-numeric is false")
}

func TestRecipes_CreateAndShapes(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.signup(t, "cook@example.com")
	tag := ts.createTag(t, authz, "Vegano")
	ing := ts.createIngredient(t, authz, "Tofu")

	created := ts.createRecipe(t, authz, map[string]any{
		"title": "Tofu grelhado", "time_minutes": 25, "price": 12.5,
		"link": "https://example.com/tofu", "tags": []int64{tag.ID}, "ingredients": []int64{ing.ID},
	})
	assert.Equal(t, "12.50", created.Price)
	assert.Equal(t, []int64{tag.ID}, created.Tags)
	assert.Equal(t, []int64{ing.ID}, created.Ingredients)

	resp := ts.api.Get(recipePath(created.ID), authz)
	require.Equal(t, http.StatusOK, resp.Code)
	detail := decode[RecipeDetailResponse](t, resp)
	assert.Equal(t, "Tofu grelhado", detail.Title)
	assert.Equal(t, 25, detail.TimeMinutes)
	assert.Equal(t, "https://example.com/tofu", detail.Link)
	assert.Equal(t, []AttributeResponse{tag}, detail.Tags)
	assert.Equal(t, []AttributeResponse{ing}, detail.Ingredients)
	assert.Nil(t, detail.Image)

	resp = ts.api.Get("/api/recipe/recipes/", authz)
	require.Equal(t, http.StatusOK, resp.Code)
	page := decode[Page[RecipeListItem]](t, resp)
	require.Len(t, page.Results, 1)
	assert.Equal(t, created, page.Results[0])
	assert.NotContains(t, resp.Body.String(), `"name"`, "list shape carries ids only")
}

func TestRecipes_CreateValidation(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.signup(t, "cook@example.com")

	tests := []struct {
		name    string
		body    map[string]any
		field   string
		message string
	}{
		{"missing title", map[string]any{"time_minutes": 5, "price": "1.00"}, "title", "This field is required."},
		{"missing price", map[string]any{"title": "Pão", "time_minutes": 5}, "price", "This field is required."},
		{"too many decimals", map[string]any{"title": "Pão", "time_minutes": 5, "price": "1.005"}, "price", "Ensure that there are no more than 2 decimal places."},
		{"too expensive", map[string]any{"title": "Pão", "time_minutes": 5, "price": 1000}, "price", "Ensure that there are no more than 5 digits in total."},
		{"unknown tag", map[string]any{"title": "Pão", "time_minutes": 5, "price": "1.00", "tags": []int64{999}}, "tags", `Invalid pk "999" - object does not exist.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/recipe/recipes/", authz, tt.body)
			require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
			assert.Equal(t, tt.message, decode[errorBody](t, resp).Details[tt.field])
		})
	}

	resp := ts.api.Get("/api/recipe/recipes/", authz)
	assert.Equal(t, 0, decode[Page[RecipeListItem]](t, resp).Count, "nothing was created")
}

func TestRecipes_BadPriceReportedWithOtherFieldErrors(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.signup(t, "cook@example.com")

	resp := ts.api.Post("/api/recipe/recipes/", authz, map[string]any{"price": "1.005"})
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
	assert.Equal(t, map[string]string{
		"title":        "This field is required.",
		"time_minutes": "This field is required.",
		"price":        "Ensure that there are no more than 2 decimal places.",
	}, decode[errorBody](t, resp).Details)

	r := ts.createRecipe(t, authz, nil)
	resp = ts.api.Patch(recipePath(r.ID), authz, map[string]any{"title": " ", "price": "abc"})
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
	details := decode[errorBody](t, resp).Details
	assert.Contains(t, details, "title")
	assert.Contains(t, details, "price")
}

func TestRecipes_OwnerIsolation(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.signup(t, "alice@example.com")
	bob := ts.signup(t, "bob@example.com")

	mine := ts.createRecipe(t, alice, map[string]any{"title": "Moqueca"})
	ts.createRecipe(t, bob, map[string]any{"title": "Feijoada"})

	resp := ts.api.Get("/api/recipe/recipes/", alice)
	page := decode[Page[RecipeListItem]](t, resp)
	assert.Equal(t, []int64{mine.ID}, recipeIDs(page.Results))

	assert.Equal(t, http.StatusNotFound, ts.api.Get(recipePath(mine.ID), bob).Code)
	assert.Equal(t, http.StatusNotFound, ts.api.Patch(recipePath(mine.ID), bob, map[string]any{"title": "Mine now"}).Code)
	assert.Equal(t, http.StatusNotFound, ts.api.Delete(recipePath(mine.ID), bob).Code)

	resp = ts.api.Get(recipePath(mine.ID), alice)
	assert.Equal(t, "Moqueca", decode[RecipeDetailResponse](t, resp).Title)
}

func TestRecipes_CrossOwnerTagAllowed(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.signup(t, "alice@example.com")
	bob := ts.signup(t, "bob@example.com")

	bobsTag := ts.createTag(t, bob, "Picante")
	r := ts.createRecipe(t, alice, map[string]any{"tags": []int64{bobsTag.ID}})
	assert.Equal(t, []int64{bobsTag.ID}, r.Tags)
}

func TestRecipes_Filters(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.signup(t, "cook@example.com")

	vegano := ts.createTag(t, authz, "Vegano")
	doce := ts.createTag(t, authz, "Doce")
	arroz := ts.createIngredient(t, authz, "Arroz")

	r1 := ts.createRecipe(t, authz, map[string]any{"title": "Curry", "tags": []int64{vegano.ID}})
	r2 := ts.createRecipe(t, authz, map[string]any{"title": "Brigadeiro", "tags": []int64{doce.ID}})
	r3 := ts.createRecipe(t, authz, map[string]any{"title": "Arroz doce", "tags": []int64{doce.ID}, "ingredients": []int64{arroz.ID}})
	ts.createRecipe(t, authz, map[string]any{"title": "Água"})

	tests := []struct {
		query string
		want  []int64
	}{
		{fmt.Sprintf("tags=%d", vegano.ID), []int64{r1.ID}},
		{fmt.Sprintf("tags=%d,%d", vegano.ID, doce.ID), []int64{r3.ID, r2.ID, r1.ID}},
		{fmt.Sprintf("ingredients=%d", arroz.ID), []int64{r3.ID}},
		{fmt.Sprintf("tags=%d&ingredients=%d", doce.ID, arroz.ID), []int64{r3.ID}},
		{"tags=", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := ts.api.Get("/api/recipe/recipes/?"+tt.query, authz)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
			page := decode[Page[RecipeListItem]](t, resp)
			if tt.want == nil {
				assert.Equal(t, 4, page.Count, "empty filter is no filter")
				return
			}
			assert.Equal(t, tt.want, recipeIDs(page.Results))
		})
	}

	resp := ts.api.Get("/api/recipe/recipes/?tags=1,abc", authz)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, decode[errorBody](t, resp).Details, "tags")
}

func TestRecipes_PutClearsPatchKeeps(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.signup(t, "cook@example.com")
	tag := ts.createTag(t, authz, "Rápido")
	ing := ts.createIngredient(t, authz, "Pão")

	r := ts.createRecipe(t, authz, map[string]any{
		"title": "Torrada", "link": "https://example.com", "tags": []int64{tag.ID}, "ingredients": []int64{ing.ID},
	})

	resp := ts.api.Patch(recipePath(r.ID), authz, map[string]any{"title": "Torrada com manteiga"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	patched := decode[RecipeListItem](t, resp)
	assert.Equal(t, "Torrada com manteiga", patched.Title)
	assert.Equal(t, []int64{tag.ID}, patched.Tags)
	assert.Equal(t, []int64{ing.ID}, patched.Ingredients)
	assert.Equal(t, "https://example.com", patched.Link)

	resp = ts.api.Patch(recipePath(r.ID), authz, map[string]any{"tags": []int64{}})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decode[RecipeListItem](t, resp).Tags)

	resp = ts.api.Put(recipePath(r.ID), authz, map[string]any{"title": "Pão na chapa", "time_minutes": 5, "price": "3.50"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	put := decode[RecipeListItem](t, resp)
	assert.Equal(t, "Pão na chapa", put.Title)
	assert.Equal(t, "3.50", put.Price)
	assert.Empty(t, put.Tags)
	assert.Empty(t, put.Ingredients)
	assert.Empty(t, put.Link)

	resp = ts.api.Put(recipePath(r.ID), authz, map[string]any{"title": "Incompleto"})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	details := decode[errorBody](t, resp).Details
	assert.Contains(t, details, "time_minutes")
	assert.Contains(t, details, "price")
}

func TestRecipes_DeleteKeepsAttributes(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.signup(t, "cook@example.com")
	tag := ts.createTag(t, authz, "Assado")
	r := ts.createRecipe(t, authz, map[string]any{"tags": []int64{tag.ID}})

	resp := ts.api.Delete(recipePath(r.ID), authz)
	require.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, http.StatusNotFound, ts.api.Get(recipePath(r.ID), authz).Code)

	resp = ts.api.Get("/api/recipe/tags/", authz)
	assert.Equal(t, 1, decode[Page[AttributeResponse]](t, resp).Count)
}

func TestRecipes_Pagination(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.signup(t, "cook@example.com")
	for i := range 5 {
		ts.createRecipe(t, authz, map[string]any{"title": fmt.Sprintf("Receita %d", i)})
	}

	resp := ts.api.Get("/api/recipe/recipes/?page_size=2&tags=", authz)
	require.Equal(t, http.StatusOK, resp.Code)
	first := decode[Page[RecipeListItem]](t, resp)
	assert.Equal(t, 5, first.Count)
	assert.Len(t, first.Results, 2)
	require.NotNil(t, first.Next)
	assert.Contains(t, *first.Next, "page=2")
	assert.Contains(t, *first.Next, "page_size=2")
	assert.Nil(t, first.Previous)

	resp = ts.api.Get("/api/recipe/recipes/?page=3&page_size=2", authz)
	require.Equal(t, http.StatusOK, resp.Code)
	last := decode[Page[RecipeListItem]](t, resp)
	assert.Len(t, last.Results, 1)
	assert.Nil(t, last.Next)
	require.NotNil(t, last.Previous)
	assert.Contains(t, *last.Previous, "page=2")

	resp = ts.api.Get("/api/recipe/recipes/?page=2&page_size=2", authz)
	middle := decode[Page[RecipeListItem]](t, resp)
	require.NotNil(t, middle.Previous)
	assert.NotContains(t, *middle.Previous, "page=1", "first page link drops the page parameter")

	for _, bad := range []string{"page=4&page_size=2", "page=0", "page=abc"} {
		resp = ts.api.Get("/api/recipe/recipes/?"+bad, authz)
		require.Equal(t, http.StatusNotFound, resp.Code, bad)
		assert.Equal(t, "Invalid page.", decode[errorBody](t, resp).Message)
	}
}

func TestUploadImage(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.signup(t, "cook@example.com")
	r := ts.createRecipe(t, authz, nil)
	path := fmt.Sprintf("/api/recipe/recipes/%d/upload-image/", r.ID)

	body, ct := multipartBody(t, "image", "photo.png", pngBytes(t))
	resp := ts.api.Post(path, authz, ct, body)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	first := decode[ImageResponse](t, resp)
	require.NotNil(t, first.Image)
	assert.True(t, strings.HasPrefix(*first.Image, "/media/uploads/receita/"))
	assert.True(t, strings.HasSuffix(*first.Image, ".png"))

	stored := filepath.Join(ts.mediaRoot, strings.TrimPrefix(*first.Image, "/media/"))
	assert.FileExists(t, stored)

	detail := decode[RecipeDetailResponse](t, ts.api.Get(recipePath(r.ID), authz))
	assert.Equal(t, first.Image, detail.Image)
	assert.NotEmpty(t, detail.ImageBlurHash)

	t.Run("non-image keeps previous", func(t *testing.T) {
		body, ct := multipartBody(t, "image", "notes.png", []byte("not an image"))
		resp := ts.api.Post(path, authz, ct, body)
		require.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Contains(t, decode[errorBody](t, resp).Details["image"], "Upload a valid image.")

		detail := decode[RecipeDetailResponse](t, ts.api.Get(recipePath(r.ID), authz))
		assert.Equal(t, first.Image, detail.Image)
		assert.FileExists(t, stored)
	})

	t.Run("oversized dimensions keeps previous", func(t *testing.T) {
		// GIF screen descriptor declaring 65535x65535 with no image data.
		huge := append([]byte("GIF89a"), 0xff, 0xff, 0xff, 0xff, 0, 0, 0)
		body, ct := multipartBody(t, "image", "huge.gif", huge)
		resp := ts.api.Post(path, authz, ct, body)
		require.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, images.ErrDimensionsTooLarge.Error(), decode[errorBody](t, resp).Details["image"])

		detail := decode[RecipeDetailResponse](t, ts.api.Get(recipePath(r.ID), authz))
		assert.Equal(t, first.Image, detail.Image)
	})

	t.Run("missing field", func(t *testing.T) {
		body, ct := multipartBody(t, "", "", nil)
		resp := ts.api.Post(path, authz, ct, body)
		require.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "No file was submitted.", decode[errorBody](t, resp).Details["image"])
	})

	t.Run("replacement removes previous file", func(t *testing.T) {
		body, ct := multipartBody(t, "image", "again.png", pngBytes(t))
		resp := ts.api.Post(path, authz, ct, body)
		require.Equal(t, http.StatusOK, resp.Code)
		second := decode[ImageResponse](t, resp)
		assert.NotEqual(t, *first.Image, *second.Image)
		assert.NoFileExists(t, stored)
	})

	t.Run("other owner", func(t *testing.T) {
		other := ts.signup(t, "other@example.com")
		body, ct := multipartBody(t, "image", "photo.png", pngBytes(t))
		assert.Equal(t, http.StatusNotFound, ts.api.Post(path, other, ct, body).Code)
	})
}

// TestVeganoCamaraoScenario walks one account from signup to deletion.
func TestVeganoCamaraoScenario(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.signup(t, "u@example.com")

	vegano := ts.createTag(t, authz, "Vegano")
	camarao := ts.createIngredient(t, authz, "Camarão")

	r := ts.createRecipe(t, authz, map[string]any{
		"title": "X", "time_minutes": 20, "price": 7.00,
		"tags": []int64{vegano.ID}, "ingredients": []int64{camarao.ID},
	})
	assert.Equal(t, "7.00", r.Price)

	detail := decode[RecipeDetailResponse](t, ts.api.Get(recipePath(r.ID), authz))
	assert.Equal(t, []AttributeResponse{{ID: vegano.ID, Name: "Vegano"}}, detail.Tags)
	assert.Equal(t, []AttributeResponse{{ID: camarao.ID, Name: "Camarão"}}, detail.Ingredients)

	list := decode[Page[RecipeListItem]](t, ts.api.Get(fmt.Sprintf("/api/recipe/recipes/?tags=%d", vegano.ID), authz))
	assert.Equal(t, []int64{r.ID}, recipeIDs(list.Results))

	body, ct := multipartBody(t, "image", "x.jpg", pngBytes(t))
	uploaded := decode[ImageResponse](t, ts.api.Post(fmt.Sprintf("/api/recipe/recipes/%d/upload-image/", r.ID), authz, ct, body))
	require.NotNil(t, uploaded.Image)
	stored := filepath.Join(ts.mediaRoot, strings.TrimPrefix(*uploaded.Image, "/media/"))

	require.Equal(t, http.StatusNoContent, ts.api.Delete("/api/user/me/", authz).Code)

	ctx := context.Background()
	_, err := ts.store.GetRecipe(ctx, r.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, statErr := os.Stat(stored)
	assert.True(t, os.IsNotExist(statErr), "recipe image removed with the account")

	resp := ts.api.Post("/api/user/token/", map[string]any{"email": "u@example.com", "password": "testpass123"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// The email is free again and the new account starts empty.
	fresh := ts.signup(t, "u@example.com")
	assert.Equal(t, 0, decode[Page[AttributeResponse]](t, ts.api.Get("/api/recipe/tags/", fresh)).Count)
	assert.Equal(t, 0, decode[Page[AttributeResponse]](t, ts.api.Get("/api/recipe/ingredients/", fresh)).Count)
	assert.Equal(t, 0, decode[Page[RecipeListItem]](t, ts.api.Get("/api/recipe/recipes/", fresh)).Count)
}
