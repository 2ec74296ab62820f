package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListKind describes one (user, recipe) membership relation.
type ListKind struct {
	Name       string
	NewEntry   func(userID, recipeID uuid.UUID) models.ListEntry
	Duplicate  string
	NotPresent string
}

var (
	// FavoriteList is the user's favorites, backed by the favorites table.
	FavoriteList = ListKind{
		Name: "favorite",
		NewEntry: func(userID, recipeID uuid.UUID) models.ListEntry {
			return &models.Favorite{UserID: userID, RecipeID: recipeID}
		},
		Duplicate:  "recipe is already in favorites",
		NotPresent: "recipe is not in favorites",
	}
	// ShoppingCartList holds the recipes whose ingredients feed the
	// shopping list.
	ShoppingCartList = ListKind{
		Name: "shopping_cart",
		NewEntry: func(userID, recipeID uuid.UUID) models.ListEntry {
			return &models.ShoppingCartEntry{UserID: userID, RecipeID: recipeID}
		},
		Duplicate:  "recipe is already in the shopping cart",
		NotPresent: "recipe is not in the shopping cart",
	}
)

// MembershipService adds and removes recipes from one per-user list.
type MembershipService struct {
	db   *gorm.DB
	kind ListKind
}

// NewMembershipService creates a service for the list described by kind.
func NewMembershipService(db *gorm.DB, kind ListKind) *MembershipService {
	return &MembershipService{db: db, kind: kind}
}

// NewFavoriteService creates the favorites list service.
func NewFavoriteService(db *gorm.DB) *MembershipService {
	return NewMembershipService(db, FavoriteList)
}

// NewShoppingCartService creates the shopping cart list service.
func NewShoppingCartService(db *gorm.DB) *MembershipService {
	return NewMembershipService(db, ShoppingCartList)
}

// Kind reports which list this service manages.
func (s *MembershipService) Kind() ListKind {
	return s.kind
}

// Add puts the recipe on the user's list. The unique (user, recipe) index
// decides races: the losing insert surfaces as Conflict.
func (s *MembershipService) Add(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeMinified, error) {
	out, err := s.add(ctx, userID, recipeID)
	metrics.ListMembershipTotal.WithLabelValues(s.kind.Name, "add", outcome(err)).Inc()
	return out, err
}

func (s *MembershipService) add(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeMinified, error) {
	db := s.db.WithContext(ctx)

	var recipe models.Recipe
	if err := db.First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("recipe not found")
		}
		return nil, fmt.Errorf("load recipe: %w", err)
	}

	entry := s.kind.NewEntry(userID, recipeID)
	if err := db.Omit(clause.Associations).Create(entry).Error; err != nil {
		err = translateStoreError(err, "add "+s.kind.Name, storeMessages{
			Duplicate: s.kind.Duplicate,
			Missing:   "recipe not found",
		})
		if KindOf(err) == 0 {
			log.Error().Err(err).Str("list", s.kind.Name).Msg("list add failed")
		}
		return nil, err
	}

	log.Debug().Str("list", s.kind.Name).Str("user_id", userID.String()).Str("recipe_id", recipeID.String()).Msg("recipe added to list")
	return minify(recipe), nil
}

// Remove deletes the (user, recipe) row. Only the relation is checked, not
// the recipe itself.
func (s *MembershipService) Remove(ctx context.Context, userID, recipeID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(s.kind.NewEntry(uuid.Nil, uuid.Nil))

	var err error
	switch {
	case res.Error != nil:
		err = fmt.Errorf("remove %s: %w", s.kind.Name, res.Error)
		log.Error().Err(err).Str("list", s.kind.Name).Msg("list remove failed")
	case res.RowsAffected == 0:
		err = notFound("%s", s.kind.NotPresent)
	}
	metrics.ListMembershipTotal.WithLabelValues(s.kind.Name, "remove", outcome(err)).Inc()
	return err
}

// Contains reports whether the recipe is on the user's list.
func (s *MembershipService) Contains(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(s.kind.NewEntry(uuid.Nil, uuid.Nil)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check %s: %w", s.kind.Name, err)
	}
	return n > 0, nil
}
