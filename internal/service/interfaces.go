package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for token operations
type IAuthService interface {
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(claims *types.TokenClaims) (string, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, authorID uuid.UUID, in *types.RecipeInput) (*types.RecipeRead, error)
	UpdateRecipe(ctx context.Context, recipeID, actorID uuid.UUID, in *types.RecipeInput) (*types.RecipeRead, error)
	DeleteRecipe(ctx context.Context, recipeID, actorID uuid.UUID) error
	GetRecipe(ctx context.Context, recipeID uuid.UUID, requester *uuid.UUID) (*types.RecipeRead, error)
	ListRecipes(ctx context.Context, filter RecipeFilter, requester *uuid.UUID) ([]types.RecipeRead, error)
}

// IListService defines the interface for favorite and shopping cart lists
type IListService interface {
	Add(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeMinified, error)
	Remove(ctx context.Context, userID, recipeID uuid.UUID) error
}

type IShoppingListService interface {
	BuildShoppingList(ctx context.Context, userID uuid.UUID) ([]types.ShoppingListItem, error)
	Export(ctx context.Context, userID uuid.UUID) (*ShoppingListExport, error)
}

type ISubscriptionService interface {
	Subscribe(ctx context.Context, userID, authorID uuid.UUID, recipesLimit *int) (*types.UserWithRecipes, error)
	Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error
	ListSubscriptions(ctx context.Context, userID uuid.UUID, recipesLimit *int) ([]types.UserWithRecipes, error)
}

type IUserService interface {
	GetUser(ctx context.Context, id uuid.UUID, requester *uuid.UUID) (*types.UserRead, error)
}

type ICatalogService interface {
	ListIngredients(ctx context.Context, prefix string) ([]types.IngredientRead, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*types.IngredientRead, error)
	ListTags(ctx context.Context) ([]types.TagRead, error)
	GetTag(ctx context.Context, id uuid.UUID) (*types.TagRead, error)
}
