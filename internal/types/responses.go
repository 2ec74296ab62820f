package types

import (
	"time"

	"github.com/google/uuid"
)

// UserRead is the public projection of a user.
type UserRead struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// UserWithRecipes is a subscription entry: the followed author, a preview
// of their recipes and their total recipe count.
type UserWithRecipes struct {
	UserRead
	Recipes      []RecipeMinified `json:"recipes"`
	RecipesCount int64            `json:"recipes_count"`
}

type TagRead struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color *string   `json:"color"`
	Slug  *string   `json:"slug"`
}

type IngredientRead struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
}

// IngredientLineRead is one recipe line item flattened with its ingredient.
type IngredientLineRead struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// RecipeRead is the full recipe projection, including the requester-scoped
// flags.
type RecipeRead struct {
	ID               uuid.UUID            `json:"id"`
	Tags             []TagRead            `json:"tags"`
	Author           UserRead             `json:"author"`
	Ingredients      []IngredientLineRead `json:"ingredients"`
	IsFavorited      bool                 `json:"is_favorited"`
	IsInShoppingCart bool                 `json:"is_in_shopping_cart"`
	Name             string               `json:"name"`
	Image            string               `json:"image"`
	Text             string               `json:"text"`
	CookingTime      int                  `json:"cooking_time"`
	PubDate          time.Time            `json:"pub_date"`
}

// RecipeMinified is returned by list membership changes and subscription
// previews.
type RecipeMinified struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// ShoppingListItem is one aggregated row of a user's shopping list.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int64  `json:"total_amount"`
}
