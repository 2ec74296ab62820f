package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
)

// ShoppingListExport is the rendered plain-text shopping list.
type ShoppingListExport struct {
	Filename string
	Content  string
}

// ShoppingListService aggregates the ingredients of every recipe in a
// user's shopping cart.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// BuildShoppingList sums line amounts per (ingredient name, unit) across
// the user's cart, ordered by name then unit.
func (s *ShoppingListService) BuildShoppingList(ctx context.Context, userID uuid.UUID) ([]types.ShoppingListItem, error) {
	items := []types.ShoppingListItem{}
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total_amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_entries ON shopping_cart_entries.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_entries.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("build shopping list: %w", err)
	}
	return items, nil
}

// Export renders the user's shopping list as a downloadable text file.
func (s *ShoppingListService) Export(ctx context.Context, userID uuid.UUID) (*ShoppingListExport, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user not found")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	items, err := s.BuildShoppingList(ctx, userID)
	if err != nil {
		return nil, err
	}

	metrics.ShoppingListExportsTotal.Inc()
	return &ShoppingListExport{
		Filename: user.Username + "_shopping_cart.txt",
		Content:  RenderShoppingList(user.Username, items),
	}, nil
}

// RenderShoppingList writes a header line followed by one
// "<name> - <total> <unit>" line per item.
func RenderShoppingList(username string, items []types.ShoppingListItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shopping list for %s.\n", username)
	for _, it := range items {
		fmt.Fprintf(&b, "%s - %d %s\n", it.Name, it.TotalAmount, it.MeasurementUnit)
	}
	return b.String()
}
