package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUser(ctx context.Context, id uuid.UUID, requester *uuid.UUID) (*types.UserRead, error) {
	args := m.Called(ctx, id, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserRead), args.Error(1)
}

type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) Subscribe(ctx context.Context, userID, authorID uuid.UUID, recipesLimit *int) (*types.UserWithRecipes, error) {
	args := m.Called(ctx, userID, authorID, recipesLimit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserWithRecipes), args.Error(1)
}

func (m *MockSubscriptionService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	args := m.Called(ctx, userID, authorID)
	return args.Error(0)
}

func (m *MockSubscriptionService) ListSubscriptions(ctx context.Context, userID uuid.UUID, recipesLimit *int) ([]types.UserWithRecipes, error) {
	args := m.Called(ctx, userID, recipesLimit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.UserWithRecipes), args.Error(1)
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListIngredients(ctx context.Context, prefix string) ([]types.IngredientRead, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.IngredientRead), args.Error(1)
}

func (m *MockCatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*types.IngredientRead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.IngredientRead), args.Error(1)
}

func (m *MockCatalogService) ListTags(ctx context.Context) ([]types.TagRead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.TagRead), args.Error(1)
}

func (m *MockCatalogService) GetTag(ctx context.Context, id uuid.UUID) (*types.TagRead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TagRead), args.Error(1)
}

// Compile-time interface checks.
var (
	_ service.IRecipeService       = (*MockRecipeService)(nil)
	_ service.IListService         = (*MockListService)(nil)
	_ service.IShoppingListService = (*MockShoppingListService)(nil)
	_ service.ImageStore           = (*MockImageStore)(nil)
	_ service.IUserService         = (*MockUserService)(nil)
	_ service.ISubscriptionService = (*MockSubscriptionService)(nil)
	_ service.ICatalogService      = (*MockCatalogService)(nil)
	_ service.IAuthService         = (*MockAuthService)(nil)
)
