package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var recipeMessages = storeMessages{
	Duplicate: "you already have a recipe with this name",
	Missing:   "referenced ingredient or tag not found",
	Check:     "recipe field out of range",
}

// RecipeService composes recipes from ingredient lines and tags and serves
// their read projections.
type RecipeService struct {
	db     *gorm.DB
	images ImageStore
}

// NewRecipeService creates a new RecipeService instance. images may be nil
// when callers only ever pass already stored image references.
func NewRecipeService(db *gorm.DB, images ImageStore) *RecipeService {
	return &RecipeService{db: db, images: images}
}

// CreateRecipe validates in and stores the recipe, its ingredient lines
// and its tag set in one transaction. A new image is only stored once
// every check has passed, and removed again if the transaction fails.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, in *types.RecipeInput) (*types.RecipeRead, error) {
	var recipeID uuid.UUID
	var stored string
	err := s.compose(ctx, "create", func(tx *gorm.DB) error {
		if err := fromValidation(in.Validate()); err != nil {
			return err
		}
		if err := checkReferences(tx, in); err != nil {
			return err
		}
		if err := checkNameFree(tx, authorID, in.Name, uuid.Nil); err != nil {
			return err
		}

		image, err := s.storeImage(ctx, in)
		if err != nil {
			return err
		}
		stored = image

		recipe := models.Recipe{
			Name:        in.Name,
			Text:        in.Text,
			AuthorID:    authorID,
			Image:       image,
			CookingTime: in.CookingTime,
		}
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return translateStoreError(err, "create recipe", recipeMessages)
		}
		recipeID = recipe.ID
		return replaceChildren(tx, recipe.ID, in)
	})
	if err != nil {
		s.discardImage(ctx, in, stored)
		return nil, err
	}

	log.Debug().Str("recipe_id", recipeID.String()).Str("author_id", authorID.String()).Msg("recipe created")
	return s.GetRecipe(ctx, recipeID, &authorID)
}

// UpdateRecipe replaces the recipe's fields, ingredient lines and tags.
// Only the author may update. An empty image keeps the stored one.
func (s *RecipeService) UpdateRecipe(ctx context.Context, recipeID, actorID uuid.UUID, in *types.RecipeInput) (*types.RecipeRead, error) {
	var stored string
	err := s.compose(ctx, "update", func(tx *gorm.DB) error {
		var existing models.Recipe
		if err := tx.First(&existing, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("recipe not found")
			}
			return fmt.Errorf("load recipe: %w", err)
		}
		if existing.AuthorID != actorID {
			return forbidden("only the author can change this recipe")
		}

		patched := *in
		if patched.ImageData == "" && patched.ImageRef == "" {
			patched.ImageRef = existing.Image
		}
		if err := fromValidation(patched.Validate()); err != nil {
			return err
		}
		if err := checkReferences(tx, &patched); err != nil {
			return err
		}
		if err := checkNameFree(tx, existing.AuthorID, patched.Name, existing.ID); err != nil {
			return err
		}

		image, err := s.storeImage(ctx, &patched)
		if err != nil {
			return err
		}
		stored = image

		err = tx.Model(&existing).Updates(map[string]interface{}{
			"name":         patched.Name,
			"text":         patched.Text,
			"cooking_time": patched.CookingTime,
			"image":        image,
			"updated_at":   time.Now().UTC(),
		}).Error
		if err != nil {
			return translateStoreError(err, "update recipe", recipeMessages)
		}
		return replaceChildren(tx, existing.ID, &patched)
	})
	if err != nil {
		s.discardImage(ctx, in, stored)
		return nil, err
	}

	log.Debug().Str("recipe_id", recipeID.String()).Msg("recipe updated")
	return s.GetRecipe(ctx, recipeID, &actorID)
}

// DeleteRecipe removes the recipe with its lines, tag links and every
// favorite and cart entry pointing at it.
func (s *RecipeService) DeleteRecipe(ctx context.Context, recipeID, actorID uuid.UUID) error {
	err := s.compose(ctx, "delete", func(tx *gorm.DB) error {
		var existing models.Recipe
		if err := tx.First(&existing, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("recipe not found")
			}
			return fmt.Errorf("load recipe: %w", err)
		}
		if existing.AuthorID != actorID {
			return forbidden("only the author can delete this recipe")
		}

		for _, child := range []interface{}{
			&models.Favorite{},
			&models.ShoppingCartEntry{},
			&models.RecipeTag{},
			&models.RecipeIngredient{},
		} {
			if err := tx.Where("recipe_id = ?", recipeID).Delete(child).Error; err != nil {
				return fmt.Errorf("delete recipe children: %w", err)
			}
		}
		if err := tx.Delete(&models.Recipe{}, "id = ?", recipeID).Error; err != nil {
			return fmt.Errorf("delete recipe: %w", err)
		}
		return nil
	})
	if err == nil {
		log.Debug().Str("recipe_id", recipeID.String()).Msg("recipe deleted")
	}
	return err
}

// GetRecipe retrieves a recipe by ID. requester may be nil.
func (s *RecipeService) GetRecipe(ctx context.Context, recipeID uuid.UUID, requester *uuid.UUID) (*types.RecipeRead, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Scopes(preloadRecipe).First(&recipe, "recipes.id = ?", recipeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("recipe not found")
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	out, err := project(ctx, s.db, []models.Recipe{recipe}, requester)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// ListRecipes returns recipes matching filter, newest first.
func (s *RecipeService) ListRecipes(ctx context.Context, filter RecipeFilter, requester *uuid.UUID) ([]types.RecipeRead, error) {
	q := s.db.WithContext(ctx).Model(&models.Recipe{})
	q = filter.Apply(q, requester)

	var recipes []models.Recipe
	if err := q.Scopes(preloadRecipe).Order("recipes.pub_date DESC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return project(ctx, s.db, recipes, requester)
}

// storeImage returns the reference to persist for in, saving ImageData
// first when it is set.
func (s *RecipeService) storeImage(ctx context.Context, in *types.RecipeInput) (string, error) {
	if in.ImageData == "" {
		return in.ImageRef, nil
	}
	if s.images == nil {
		return "", errors.New("no image store configured")
	}
	return s.images.Save(ctx, in.ImageData)
}

// discardImage removes an image saved for a write that did not commit.
func (s *RecipeService) discardImage(ctx context.Context, in *types.RecipeInput, ref string) {
	if ref == "" || in.ImageData == "" || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, ref); err != nil {
		log.Warn().Err(err).Str("image", ref).Msg("failed to remove image of rejected recipe write")
	}
}

func (s *RecipeService) compose(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	err := s.db.WithContext(ctx).Transaction(fn)
	metrics.RecipeWritesTotal.WithLabelValues(op, outcome(err)).Inc()
	if err != nil && KindOf(err) == 0 {
		log.Error().Err(err).Str("op", op).Msg("recipe write failed")
	}
	return err
}

// checkReferences fails with NotFound naming the first ingredient or tag id
// that does not exist.
func checkReferences(tx *gorm.DB, in *types.RecipeInput) error {
	ingredientIDs := make([]uuid.UUID, len(in.Ingredients))
	for i, line := range in.Ingredients {
		ingredientIDs[i] = line.ID
	}
	if id, err := firstMissing(tx.Model(&models.Ingredient{}), ingredientIDs); err != nil {
		return err
	} else if id != uuid.Nil {
		return notFound("ingredient %s not found", id)
	}

	if id, err := firstMissing(tx.Model(&models.Tag{}), in.Tags); err != nil {
		return err
	} else if id != uuid.Nil {
		return notFound("tag %s not found", id)
	}
	return nil
}

func firstMissing(q *gorm.DB, ids []uuid.UUID) (uuid.UUID, error) {
	if len(ids) == 0 {
		return uuid.Nil, nil
	}
	var found []uuid.UUID
	if err := q.Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return uuid.Nil, fmt.Errorf("check references: %w", err)
	}
	present := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			return id, nil
		}
	}
	return uuid.Nil, nil
}

func checkNameFree(tx *gorm.DB, authorID uuid.UUID, name string, exclude uuid.UUID) error {
	var n int64
	err := tx.Model(&models.Recipe{}).
		Where("author_id = ? AND name = ? AND id <> ?", authorID, name, exclude).
		Count(&n).Error
	if err != nil {
		return fmt.Errorf("check recipe name: %w", err)
	}
	if n > 0 {
		return conflict("%s", recipeMessages.Duplicate)
	}
	return nil
}

// replaceChildren clears the recipe's tag links and ingredient lines and
// inserts the new sets.
func replaceChildren(tx *gorm.DB, recipeID uuid.UUID, in *types.RecipeInput) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
		return fmt.Errorf("clear recipe tags: %w", err)
	}
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return fmt.Errorf("clear recipe ingredients: %w", err)
	}

	lines := make([]models.RecipeIngredient, len(in.Ingredients))
	for i, l := range in.Ingredients {
		lines[i] = models.RecipeIngredient{RecipeID: recipeID, IngredientID: l.ID, Amount: l.Amount}
	}
	if len(lines) > 0 {
		if err := tx.Omit(clause.Associations).Create(&lines).Error; err != nil {
			return translateStoreError(err, "insert recipe ingredients", storeMessages{
				Duplicate: "ingredient is listed more than once",
				Missing:   "ingredient not found",
				Check:     "ingredient amount out of range",
			})
		}
	}

	links := make([]models.RecipeTag, len(in.Tags))
	for i, id := range in.Tags {
		links[i] = models.RecipeTag{RecipeID: recipeID, TagID: id}
	}
	if len(links) > 0 {
		if err := tx.Create(&links).Error; err != nil {
			return translateStoreError(err, "insert recipe tags", storeMessages{
				Duplicate: "tag is listed more than once",
				Missing:   "tag not found",
			})
		}
	}
	return nil
}

func preloadRecipe(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.slug")
		}).
		Preload("Ingredients.Ingredient")
}

// project builds read projections, resolving the requester-scoped flags
// with one query per flag for the whole batch.
func project(ctx context.Context, db *gorm.DB, recipes []models.Recipe, requester *uuid.UUID) ([]types.RecipeRead, error) {
	out := make([]types.RecipeRead, 0, len(recipes))
	if len(recipes) == 0 {
		return out, nil
	}

	var favorited, inCart, subscribed map[uuid.UUID]bool
	if requester != nil {
		recipeIDs := make([]uuid.UUID, len(recipes))
		authorIDs := make([]uuid.UUID, 0, len(recipes))
		for i, r := range recipes {
			recipeIDs[i] = r.ID
			authorIDs = append(authorIDs, r.AuthorID)
		}

		var err error
		if favorited, err = pluckSet(db.WithContext(ctx).Model(&models.Favorite{}).
			Where("user_id = ? AND recipe_id IN ?", *requester, recipeIDs), "recipe_id"); err != nil {
			return nil, err
		}
		if inCart, err = pluckSet(db.WithContext(ctx).Model(&models.ShoppingCartEntry{}).
			Where("user_id = ? AND recipe_id IN ?", *requester, recipeIDs), "recipe_id"); err != nil {
			return nil, err
		}
		if subscribed, err = pluckSet(db.WithContext(ctx).Model(&models.Subscription{}).
			Where("user_id = ? AND author_id IN ?", *requester, authorIDs), "author_id"); err != nil {
			return nil, err
		}
	}

	for _, r := range recipes {
		read := types.RecipeRead{
			ID:               r.ID,
			Tags:             make([]types.TagRead, len(r.Tags)),
			Author:           toUserRead(r.Author, subscribed[r.AuthorID]),
			Ingredients:      make([]types.IngredientLineRead, len(r.Ingredients)),
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			PubDate:          r.PubDate,
		}
		for i, t := range r.Tags {
			read.Tags[i] = toTagRead(t)
		}
		for i, l := range r.Ingredients {
			read.Ingredients[i] = types.IngredientLineRead{
				ID:              l.IngredientID,
				Name:            l.Ingredient.Name,
				MeasurementUnit: l.Ingredient.MeasurementUnit,
				Amount:          l.Amount,
			}
		}
		sort.Slice(read.Ingredients, func(i, j int) bool {
			return strings.ToLower(read.Ingredients[i].Name) < strings.ToLower(read.Ingredients[j].Name)
		})
		out = append(out, read)
	}
	return out, nil
}

func pluckSet(q *gorm.DB, column string) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	if err := q.Pluck(column, &ids).Error; err != nil {
		return nil, fmt.Errorf("resolve %s flags: %w", column, err)
	}
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func minify(r models.Recipe) *types.RecipeMinified {
	return &types.RecipeMinified{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

func toUserRead(u models.User, subscribed bool) types.UserRead {
	return types.UserRead{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func toTagRead(t models.Tag) types.TagRead {
	return types.TagRead{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func toIngredientRead(i models.Ingredient) types.IngredientRead {
	return types.IngredientRead{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if k := KindOf(err); k != 0 {
		return k.String()
	}
	return "error"
}
