package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const demoPassword = "testpassword123"

// A 1x1 transparent PNG used for every demo recipe.
const placeholderImage = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

var demoUsers = []models.User{
	{Email: "john.doe@example.com", Username: "johndoe", FirstName: "John", LastName: "Doe"},
	{Email: "jane.smith@example.com", Username: "janesmith", FirstName: "Jane", LastName: "Smith"},
	{Email: "bob.wilson@example.com", Username: "bobwilson", FirstName: "Bob", LastName: "Wilson"},
}

var demoIngredients = []models.Ingredient{
	{Name: "eggs", MeasurementUnit: "pcs"},
	{Name: "flour", MeasurementUnit: "g"},
	{Name: "milk", MeasurementUnit: "ml"},
	{Name: "butter", MeasurementUnit: "g"},
	{Name: "sugar", MeasurementUnit: "g"},
	{Name: "salt", MeasurementUnit: "pinch"},
	{Name: "tomatoes", MeasurementUnit: "pcs"},
	{Name: "olive oil", MeasurementUnit: "tbsp"},
}

var demoTags = []struct{ name, color, slug string }{
	{"Breakfast", "#E26C2D", "breakfast"},
	{"Lunch", "#49B64E", "lunch"},
	{"Dinner", "#8775D2", "dinner"},
}

type demoRecipe struct {
	author      int
	name        string
	text        string
	cookingTime int
	tags        []string
	lines       map[string]int
}

var demoRecipes = []demoRecipe{
	{0, "Pancakes", "Whisk, rest, fry.", 25, []string{"breakfast"},
		map[string]int{"eggs": 2, "flour": 200, "milk": 300, "sugar": 20}},
	{0, "Omelette", "Beat the eggs and cook gently in butter.", 10, []string{"breakfast", "lunch"},
		map[string]int{"eggs": 3, "butter": 10, "salt": 1}},
	{1, "Tomato salad", "Slice, dress, season.", 5, []string{"lunch", "dinner"},
		map[string]int{"tomatoes": 4, "olive oil": 2, "salt": 1}},
}

func main() {
	migrationsDir := flag.String("migrations", "migrations", "directory holding SQL migrations")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(cfg.Env.String(), cfg.LogLevel)

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db, *migrationsDir); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx := context.Background()
	users, err := seedUsers(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed users")
	}
	if err := seedCatalog(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to seed catalogue")
	}
	if err := seedRecipes(ctx, db, users, cfg.MediaRoot); err != nil {
		log.Fatal().Err(err).Msg("failed to seed recipes")
	}

	auth := service.NewAuthService(cfg.JWTSecret)
	fmt.Println("Seeded users (password: " + demoPassword + "):")
	for _, u := range users {
		token, err := auth.GenerateToken(&types.TokenClaims{UserID: u.ID, Username: u.Username})
		if err != nil {
			log.Fatal().Err(err).Str("user", u.Username).Msg("failed to issue token")
		}
		fmt.Printf("  %-12s %s\n  Bearer %s\n", u.Username, u.Email, token)
	}
}

func seedUsers(ctx context.Context, db *gorm.DB) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	users := make([]models.User, 0, len(demoUsers))
	for _, u := range demoUsers {
		var existing models.User
		err := db.WithContext(ctx).Where("email = ?", u.Email).First(&existing).Error
		if err == nil {
			log.Info().Str("email", u.Email).Msg("user already exists, skipping")
			users = append(users, existing)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		u.PasswordHash = string(hash)
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			return nil, fmt.Errorf("create user %s: %w", u.Email, err)
		}
		log.Info().Str("email", u.Email).Msg("created user")
		users = append(users, u)
	}
	return users, nil
}

func seedCatalog(ctx context.Context, db *gorm.DB) error {
	catalog := service.NewCatalogService(db)

	for _, ing := range demoIngredients {
		_, err := catalog.CreateIngredient(ctx, &types.IngredientInput{Name: ing.Name, MeasurementUnit: ing.MeasurementUnit})
		if err != nil && !errors.Is(err, service.ErrConflict) {
			return err
		}
	}
	for _, t := range demoTags {
		color, slug := t.color, t.slug
		_, err := catalog.CreateTag(ctx, &types.TagInput{Name: t.name, Color: &color, Slug: &slug})
		if err != nil && !errors.Is(err, service.ErrConflict) {
			return err
		}
	}
	return nil
}

func seedRecipes(ctx context.Context, db *gorm.DB, users []models.User, mediaRoot string) error {
	recipes := service.NewRecipeService(db, service.NewLocalImageStore(mediaRoot))

	ingredientIDs := map[string]uuid.UUID{}
	var ingredients []models.Ingredient
	if err := db.WithContext(ctx).Find(&ingredients).Error; err != nil {
		return err
	}
	for _, i := range ingredients {
		ingredientIDs[i.Name] = i.ID
	}

	tagIDs := map[string]uuid.UUID{}
	var tags []models.Tag
	if err := db.WithContext(ctx).Find(&tags).Error; err != nil {
		return err
	}
	for _, t := range tags {
		if t.Slug != nil {
			tagIDs[*t.Slug] = t.ID
		}
	}

	for i, r := range demoRecipes {
		in := &types.RecipeInput{
			Name:        r.name,
			Text:        r.text,
			CookingTime: r.cookingTime,
			ImageData:   placeholderImage,
		}
		for _, slug := range r.tags {
			in.Tags = append(in.Tags, tagIDs[slug])
		}
		for name, amount := range r.lines {
			in.Ingredients = append(in.Ingredients, types.IngredientAmount{ID: ingredientIDs[name], Amount: amount})
		}

		_, err := recipes.CreateRecipe(ctx, users[r.author].ID, in)
		switch {
		case errors.Is(err, service.ErrConflict):
			log.Info().Str("recipe", r.name).Msg("recipe already exists, skipping")
		case err != nil:
			return fmt.Errorf("create recipe %s: %w", r.name, err)
		default:
			log.Info().Str("recipe", r.name).Int("n", i+1).Msg("created recipe")
		}
		// keep pub dates distinct so ordering is stable
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}
