//go:build integration

package integration

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
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

var migrationsDir = filepath.Join("..", "..", "migrations")

func TestConcurrentAddKeepsOneRow(t *testing.T) {
	db := testhelpers.SetupPostgresDatabase(t, migrationsDir)
	chef := testhelpers.CreateUser(t, db, "chef")
	guest := testhelpers.CreateUser(t, db, "guest")
	eggs := testhelpers.CreateIngredient(t, db, "eggs", "pcs")
	recipe := testhelpers.CreateRecipe(t, db, chef, "Omelette", time.Now(), []testhelpers.Line{{Ingredient: eggs, Amount: 3}})

	for _, svc := range []*service.MembershipService{service.NewFavoriteService(db), service.NewShoppingCartService(db)} {
		t.Run(svc.Kind().Name, func(t *testing.T) {
			const workers = 8
			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				added     int
				conflicts int
			)
			start := make(chan struct{})
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					_, err := svc.Add(context.Background(), guest.ID, recipe.ID)
					mu.Lock()
					defer mu.Unlock()
					switch {
					case err == nil:
						added++
					case errors.Is(err, service.ErrConflict):
						conflicts++
					default:
						t.Errorf("unexpected error: %v", err)
					}
				}()
			}
			close(start)
			wg.Wait()

			assert.Equal(t, 1, added)
			assert.Equal(t, workers-1, conflicts)

			ok, err := svc.Contains(context.Background(), guest.ID, recipe.ID)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestSchemaConstraints(t *testing.T) {
	db := testhelpers.SetupPostgresDatabase(t, migrationsDir)
	chef := testhelpers.CreateUser(t, db, "chef")

	err := db.Create(&models.Subscription{UserID: chef.ID, AuthorID: chef.ID}).Error
	assert.ErrorIs(t, err, gorm.ErrCheckConstraintViolated)

	err = db.Omit("Author", "Ingredients", "Tags").Create(&models.Recipe{
		Name: "Slow roast", Text: "wait", AuthorID: chef.ID, Image: "x.png", CookingTime: 0,
	}).Error
	assert.ErrorIs(t, err, gorm.ErrCheckConstraintViolated)

	color := "blue"
	err = db.Create(&models.Tag{Name: "bad", Color: &color}).Error
	assert.ErrorIs(t, err, gorm.ErrCheckConstraintViolated)
}

func TestComposerAgainstPostgres(t *testing.T) {
	db := testhelpers.SetupPostgresDatabase(t, migrationsDir)
	chef := testhelpers.CreateUser(t, db, "chef")
	guest := testhelpers.CreateUser(t, db, "guest")
	eggs := testhelpers.CreateIngredient(t, db, "eggs", "pcs")
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	lunch := testhelpers.CreateTag(t, db, "lunch", "#00FF00")
	ctx := context.Background()

	recipes := service.NewRecipeService(db, nil)
	in := &types.RecipeInput{
		Name:        "Pancakes",
		Text:        "Whisk and fry.",
		CookingTime: 20,
		ImageRef:    "/media/recipes/images/p.png",
		Tags:        []uuid.UUID{lunch.ID},
		Ingredients: []types.IngredientAmount{{ID: eggs.ID, Amount: 2}, {ID: flour.ID, Amount: 200}},
	}
	created, err := recipes.CreateRecipe(ctx, chef.ID, in)
	require.NoError(t, err)

	_, err = recipes.CreateRecipe(ctx, chef.ID, in)
	assert.ErrorIs(t, err, service.ErrConflict)

	_, err = service.NewShoppingCartService(db).Add(ctx, guest.ID, created.ID)
	require.NoError(t, err)

	items, err := service.NewShoppingListService(db).BuildShoppingList(ctx, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, []types.ShoppingListItem{
		{Name: "eggs", MeasurementUnit: "pcs", TotalAmount: 2},
		{Name: "flour", MeasurementUnit: "g", TotalAmount: 200},
	}, items)

	list, err := recipes.ListRecipes(ctx, service.RecipeFilter{Tags: []string{"lunch"}, IsInShoppingCart: true}, &guest.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsInShoppingCart)

	require.NoError(t, recipes.DeleteRecipe(ctx, created.ID, chef.ID))
	items, err = service.NewShoppingListService(db).BuildShoppingList(ctx, guest.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
