package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type filterFixture struct {
	db      *gorm.DB
	svc     *service.RecipeService
	me      *models.User
	author  *models.User
	soup    *models.Recipe
	salad   *models.Recipe
	cake    *models.Recipe
	pending *models.Recipe
}

func setupFilterTest(t *testing.T) *filterFixture {
	db := testhelpers.SetupTestDatabase(t)
	me := testhelpers.CreateUser(t, db, "me")
	author := testhelpers.CreateUser(t, db, "author")
	eggs := testhelpers.CreateIngredient(t, db, "eggs", "pcs")
	lunch := testhelpers.CreateTag(t, db, "lunch", "#111111")
	dinner := testhelpers.CreateTag(t, db, "dinner", "#222222")
	dessert := testhelpers.CreateTag(t, db, "dessert", "#333333")
	line := []testhelpers.Line{{Ingredient: eggs, Amount: 1}}
	now := time.Now().UTC()

	f := &filterFixture{
		db:      db,
		svc:     service.NewRecipeService(db, nil),
		me:      me,
		author:  author,
		soup:    testhelpers.CreateRecipe(t, db, author, "soup", now.Add(-3*time.Minute), line, lunch, dinner),
		salad:   testhelpers.CreateRecipe(t, db, author, "salad", now.Add(-2*time.Minute), line, lunch),
		cake:    testhelpers.CreateRecipe(t, db, me, "cake", now.Add(-time.Minute), line, dessert),
		pending: testhelpers.CreateRecipe(t, db, me, "pending", now, line),
	}
	testhelpers.AddFavorite(t, db, me, f.soup)
	testhelpers.AddFavorite(t, db, author, f.cake)
	testhelpers.AddToCart(t, db, me, f.salad)
	testhelpers.AddToCart(t, db, me, f.cake)
	return f
}

func names(recipes []types.RecipeRead) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.Name
	}
	return out
}

func TestRecipeFilter(t *testing.T) {
	f := setupFilterTest(t)
	authorID := f.author.ID
	stranger := uuid.New()

	tests := []struct {
		name      string
		filter    service.RecipeFilter
		requester *uuid.UUID
		want      []string
	}{
		{"no filter", service.RecipeFilter{}, nil, []string{"pending", "cake", "salad", "soup"}},
		{"favorited", service.RecipeFilter{IsFavorited: true}, &f.me.ID, []string{"soup"}},
		{"in cart", service.RecipeFilter{IsInShoppingCart: true}, &f.me.ID, []string{"cake", "salad"}},
		{"favorited and in cart", service.RecipeFilter{IsFavorited: true, IsInShoppingCart: true}, &f.me.ID, []string{}},
		{"favorited anonymous is a no-op", service.RecipeFilter{IsFavorited: true}, nil, []string{"pending", "cake", "salad", "soup"}},
		{"in cart anonymous is a no-op", service.RecipeFilter{IsInShoppingCart: true}, nil, []string{"pending", "cake", "salad", "soup"}},
		{"favorited by user with none", service.RecipeFilter{IsFavorited: true}, &stranger, []string{}},
		{"author", service.RecipeFilter{Author: &authorID}, nil, []string{"salad", "soup"}},
		{"single tag", service.RecipeFilter{Tags: []string{"lunch"}}, nil, []string{"salad", "soup"}},
		{"tags are ORed", service.RecipeFilter{Tags: []string{"dinner", "dessert"}}, nil, []string{"cake", "soup"}},
		{"unknown tag", service.RecipeFilter{Tags: []string{"breakfast"}}, nil, []string{}},
		{"blank tags ignored", service.RecipeFilter{Tags: []string{"", " "}}, nil, []string{"pending", "cake", "salad", "soup"}},
		{"author and tag", service.RecipeFilter{Author: &authorID, Tags: []string{"dinner"}}, nil, []string{"soup"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.ListRecipes(context.Background(), tt.filter, tt.requester)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestRecipeFilterTagMatchDoesNotDuplicate(t *testing.T) {
	f := setupFilterTest(t)

	got, err := f.svc.ListRecipes(context.Background(), service.RecipeFilter{Tags: []string{"lunch", "dinner"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"salad", "soup"}, names(got))
}

func TestListRecipesFlags(t *testing.T) {
	f := setupFilterTest(t)

	got, err := f.svc.ListRecipes(context.Background(), service.RecipeFilter{}, &f.me.ID)
	require.NoError(t, err)

	flags := map[string][2]bool{}
	for _, r := range got {
		flags[r.Name] = [2]bool{r.IsFavorited, r.IsInShoppingCart}
	}
	assert.Equal(t, map[string][2]bool{
		"pending": {false, false},
		"cake":    {false, true},
		"salad":   {false, true},
		"soup":    {true, false},
	}, flags)
}

func TestPrefixPattern(t *testing.T) {
	assert.Equal(t, "sug%", service.PrefixPattern("Sug"))
	assert.Equal(t, `100\%%`, service.PrefixPattern("100%"))
	assert.Equal(t, `a\_b%`, service.PrefixPattern("a_b"))
}
