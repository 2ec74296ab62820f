package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildShoppingListSumsByNameAndUnit(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	user := testhelpers.CreateUser(t, db, "shopper")
	eggs := testhelpers.CreateIngredient(t, db, "eggs", "pcs")
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	flourCups := testhelpers.CreateIngredient(t, db, "flour", "cup")
	now := time.Now().UTC()

	a := testhelpers.CreateRecipe(t, db, user, "A", now, []testhelpers.Line{
		{Ingredient: eggs, Amount: 2},
		{Ingredient: flour, Amount: 100},
	})
	b := testhelpers.CreateRecipe(t, db, user, "B", now, []testhelpers.Line{
		{Ingredient: eggs, Amount: 3},
		{Ingredient: flourCups, Amount: 1},
	})
	// not in the cart
	testhelpers.CreateRecipe(t, db, user, "C", now, []testhelpers.Line{{Ingredient: eggs, Amount: 12}})

	testhelpers.AddToCart(t, db, user, a)
	testhelpers.AddToCart(t, db, user, b)

	svc := service.NewShoppingListService(db)
	items, err := svc.BuildShoppingList(context.Background(), user.ID)
	require.NoError(t, err)

	assert.ElementsMatch(t, []types.ShoppingListItem{
		{Name: "eggs", MeasurementUnit: "pcs", TotalAmount: 5},
		{Name: "flour", MeasurementUnit: "g", TotalAmount: 100},
		{Name: "flour", MeasurementUnit: "cup", TotalAmount: 1},
	}, items)
}

func TestBuildShoppingListScopedToUser(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	me := testhelpers.CreateUser(t, db, "me")
	you := testhelpers.CreateUser(t, db, "you")
	eggs := testhelpers.CreateIngredient(t, db, "eggs", "pcs")
	recipe := testhelpers.CreateRecipe(t, db, me, "A", time.Now().UTC(), []testhelpers.Line{{Ingredient: eggs, Amount: 2}})
	testhelpers.AddToCart(t, db, you, recipe)

	items, err := service.NewShoppingListService(db).BuildShoppingList(context.Background(), me.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestExportShoppingList(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	user := testhelpers.CreateUser(t, db, "shopper")
	eggs := testhelpers.CreateIngredient(t, db, "eggs", "pcs")
	milk := testhelpers.CreateIngredient(t, db, "milk", "ml")
	recipe := testhelpers.CreateRecipe(t, db, user, "A", time.Now().UTC(), []testhelpers.Line{
		{Ingredient: milk, Amount: 250},
		{Ingredient: eggs, Amount: 2},
	})
	svc := service.NewShoppingListService(db)
	ctx := context.Background()

	empty, err := svc.Export(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "shopper_shopping_cart.txt", empty.Filename)
	assert.Equal(t, "Shopping list for shopper.\n", empty.Content)

	testhelpers.AddToCart(t, db, user, recipe)
	full, err := svc.Export(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shopping list for shopper.\neggs - 2 pcs\nmilk - 250 ml\n", full.Content)

	_, err = svc.Export(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestRenderShoppingList(t *testing.T) {
	out := service.RenderShoppingList("ann", []types.ShoppingListItem{
		{Name: "sugar", MeasurementUnit: "g", TotalAmount: 30},
	})
	assert.Equal(t, "Shopping list for ann.\nsugar - 30 g\n", out)
}
