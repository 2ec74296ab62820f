package testhelpers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateUser inserts a user with a bcrypt hash of "password".
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    username,
		LastName:     "Tester",
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ing := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ing).Error; err != nil {
		t.Fatalf("failed to create ingredient: %v", err)
	}
	return ing
}

// CreateTag inserts a tag whose slug equals its name.
func CreateTag(t *testing.T, db *gorm.DB, name, color string) *models.Tag {
	t.Helper()
	slug := name
	tag := &models.Tag{Name: name, Color: &color, Slug: &slug}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag: %v", err)
	}
	return tag
}

// Line is a fixture ingredient line.
type Line struct {
	Ingredient *models.Ingredient
	Amount     int
}

// CreateRecipe stores a recipe directly, bypassing the composer, with the
// given publication time, lines and tags.
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, pubDate time.Time, lines []Line, tags ...*models.Tag) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		Name:        name,
		Text:        "Mix and serve.",
		AuthorID:    author.ID,
		PubDate:     pubDate,
		Image:       "/media/recipes/images/" + uuid.NewString() + ".png",
		CookingTime: 10,
	}
	if err := db.Omit(clause.Associations).Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	for _, l := range lines {
		line := &models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: l.Ingredient.ID, Amount: l.Amount}
		if err := db.Omit(clause.Associations).Create(line).Error; err != nil {
			t.Fatalf("failed to create recipe line: %v", err)
		}
	}
	for _, tag := range tags {
		if err := db.Create(&models.RecipeTag{RecipeID: recipe.ID, TagID: tag.ID}).Error; err != nil {
			t.Fatalf("failed to tag recipe: %v", err)
		}
	}
	return recipe
}

// AddToCart and AddFavorite insert membership rows directly.
func AddToCart(t *testing.T, db *gorm.DB, user *models.User, recipe *models.Recipe) {
	t.Helper()
	entry := &models.ShoppingCartEntry{UserID: user.ID, RecipeID: recipe.ID}
	if err := db.Omit(clause.Associations).Create(entry).Error; err != nil {
		t.Fatalf("failed to add to cart: %v", err)
	}
}

func AddFavorite(t *testing.T, db *gorm.DB, user *models.User, recipe *models.Recipe) {
	t.Helper()
	fav := &models.Favorite{UserID: user.ID, RecipeID: recipe.ID}
	if err := db.Omit(clause.Associations).Create(fav).Error; err != nil {
		t.Fatalf("failed to add favorite: %v", err)
	}
}

func Subscribe(t *testing.T, db *gorm.DB, user, author *models.User) {
	t.Helper()
	sub := &models.Subscription{UserID: user.ID, AuthorID: author.ID}
	if err := db.Omit(clause.Associations).Create(sub).Error; err != nil {
		t.Fatalf("failed to subscribe: %v", err)
	}
}
