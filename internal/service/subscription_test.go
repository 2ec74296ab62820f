package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestSubscribe(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	reader := testhelpers.CreateUser(t, db, "reader")
	author := testhelpers.CreateUser(t, db, "author")
	eggs := testhelpers.CreateIngredient(t, db, "eggs", "pcs")
	line := []testhelpers.Line{{Ingredient: eggs, Amount: 1}}
	now := time.Now().UTC()
	testhelpers.CreateRecipe(t, db, author, "first", now.Add(-2*time.Hour), line)
	testhelpers.CreateRecipe(t, db, author, "second", now.Add(-time.Hour), line)
	testhelpers.CreateRecipe(t, db, author, "third", now, line)

	svc := service.NewSubscriptionService(db)
	ctx := context.Background()

	got, err := svc.Subscribe(ctx, reader.ID, author.ID, intPtr(2))
	require.NoError(t, err)
	assert.Equal(t, author.ID, got.ID)
	assert.True(t, got.IsSubscribed)
	assert.Equal(t, int64(3), got.RecipesCount)
	require.Len(t, got.Recipes, 2)
	assert.Equal(t, "third", got.Recipes[0].Name)
	assert.Equal(t, "second", got.Recipes[1].Name)

	_, err = svc.Subscribe(ctx, reader.ID, author.ID, nil)
	assert.ErrorIs(t, err, service.ErrConflict)

	_, err = svc.Subscribe(ctx, reader.ID, uuid.New(), nil)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestSubscribeSelfIsValidationError(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	user := testhelpers.CreateUser(t, db, "narcissus")
	svc := service.NewSubscriptionService(db)

	_, err := svc.Subscribe(context.Background(), user.ID, user.ID, nil)
	assert.ErrorIs(t, err, service.ErrValidation)

	// the answer does not depend on the user existing
	ghost := uuid.New()
	_, err = svc.Subscribe(context.Background(), ghost, ghost, nil)
	assert.ErrorIs(t, err, service.ErrValidation)

	var n int64
	require.NoError(t, db.Model(&models.Subscription{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSubscribeRejectsNegativeLimit(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	reader := testhelpers.CreateUser(t, db, "reader")
	author := testhelpers.CreateUser(t, db, "author")

	_, err := service.NewSubscriptionService(db).Subscribe(context.Background(), reader.ID, author.ID, intPtr(-1))
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestUnsubscribe(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	reader := testhelpers.CreateUser(t, db, "reader")
	author := testhelpers.CreateUser(t, db, "author")
	testhelpers.Subscribe(t, db, reader, author)
	svc := service.NewSubscriptionService(db)
	ctx := context.Background()

	require.NoError(t, svc.Unsubscribe(ctx, reader.ID, author.ID))
	assert.ErrorIs(t, svc.Unsubscribe(ctx, reader.ID, author.ID), service.ErrNotFound)
}

func TestListSubscriptions(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	reader := testhelpers.CreateUser(t, db, "reader")
	busy := testhelpers.CreateUser(t, db, "busy")
	quiet := testhelpers.CreateUser(t, db, "quiet")
	unfollowed := testhelpers.CreateUser(t, db, "unfollowed")
	eggs := testhelpers.CreateIngredient(t, db, "eggs", "pcs")
	line := []testhelpers.Line{{Ingredient: eggs, Amount: 1}}
	now := time.Now().UTC()
	testhelpers.CreateRecipe(t, db, busy, "a", now.Add(-time.Hour), line)
	testhelpers.CreateRecipe(t, db, busy, "b", now, line)
	testhelpers.CreateRecipe(t, db, unfollowed, "c", now, line)

	require.NoError(t, db.Create(&models.Subscription{UserID: reader.ID, AuthorID: busy.ID, CreatedAt: now.Add(-time.Minute)}).Error)
	require.NoError(t, db.Create(&models.Subscription{UserID: reader.ID, AuthorID: quiet.ID, CreatedAt: now}).Error)

	svc := service.NewSubscriptionService(db)
	ctx := context.Background()

	got, err := svc.ListSubscriptions(ctx, reader.ID, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "quiet", got[0].Username)
	assert.Zero(t, got[0].RecipesCount)
	assert.Empty(t, got[0].Recipes)
	assert.Equal(t, "busy", got[1].Username)
	assert.Equal(t, int64(2), got[1].RecipesCount)
	assert.Len(t, got[1].Recipes, 2)

	limited, err := svc.ListSubscriptions(ctx, reader.ID, intPtr(1))
	require.NoError(t, err)
	require.Len(t, limited[1].Recipes, 1)
	assert.Equal(t, "b", limited[1].Recipes[0].Name)
	assert.Equal(t, int64(2), limited[1].RecipesCount)

	zero, err := svc.ListSubscriptions(ctx, reader.ID, intPtr(0))
	require.NoError(t, err)
	assert.Empty(t, zero[1].Recipes)

	none, err := svc.ListSubscriptions(ctx, unfollowed.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
