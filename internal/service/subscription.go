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

// SubscriptionService manages which authors a user follows.
type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Subscribe makes userID follow authorID and returns the author with a
// recipe preview capped at recipesLimit (nil means no cap).
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, authorID uuid.UUID, recipesLimit *int) (*types.UserWithRecipes, error) {
	out, err := s.subscribe(ctx, userID, authorID, recipesLimit)
	metrics.SubscriptionsTotal.WithLabelValues("subscribe", outcome(err)).Inc()
	return out, err
}

func (s *SubscriptionService) subscribe(ctx context.Context, userID, authorID uuid.UUID, recipesLimit *int) (*types.UserWithRecipes, error) {
	if userID == authorID {
		return nil, validationError("you cannot subscribe to yourself")
	}
	if err := checkLimit(recipesLimit); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var author models.User
	if err := db.First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("author not found")
		}
		return nil, fmt.Errorf("load author: %w", err)
	}

	sub := models.Subscription{UserID: userID, AuthorID: authorID}
	if err := db.Omit(clause.Associations).Create(&sub).Error; err != nil {
		return nil, translateStoreError(err, "subscribe", storeMessages{
			Duplicate: "you are already subscribed to this author",
			Missing:   "author not found",
			Check:     "you cannot subscribe to yourself",
		})
	}
	log.Debug().Str("user_id", userID.String()).Str("author_id", authorID.String()).Msg("subscribed")

	out, err := s.withRecipes(ctx, []models.User{author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Unsubscribe removes the subscription; a missing one is NotFound.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Subscription{})

	var err error
	switch {
	case res.Error != nil:
		err = fmt.Errorf("unsubscribe: %w", res.Error)
	case res.RowsAffected == 0:
		err = notFound("subscription not found")
	}
	metrics.SubscriptionsTotal.WithLabelValues("unsubscribe", outcome(err)).Inc()
	return err
}

// ListSubscriptions returns followed authors, most recently followed first.
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, userID uuid.UUID, recipesLimit *int) ([]types.UserWithRecipes, error) {
	if err := checkLimit(recipesLimit); err != nil {
		return nil, err
	}

	var authors []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID).
		Order("subscriptions.created_at DESC").
		Find(&authors).Error
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return s.withRecipes(ctx, authors, recipesLimit)
}

// withRecipes loads every recipe of the given authors in one query and
// attaches the count and a newest-first preview to each author.
func (s *SubscriptionService) withRecipes(ctx context.Context, authors []models.User, recipesLimit *int) ([]types.UserWithRecipes, error) {
	out := make([]types.UserWithRecipes, 0, len(authors))
	if len(authors) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Where("author_id IN ?", ids).
		Order("pub_date DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("load author recipes: %w", err)
	}

	byAuthor := make(map[uuid.UUID][]models.Recipe, len(authors))
	for _, r := range recipes {
		byAuthor[r.AuthorID] = append(byAuthor[r.AuthorID], r)
	}

	for _, a := range authors {
		own := byAuthor[a.ID]
		preview := own
		if recipesLimit != nil && *recipesLimit < len(preview) {
			preview = preview[:*recipesLimit]
		}
		entry := types.UserWithRecipes{
			UserRead:     toUserRead(a, true),
			Recipes:      make([]types.RecipeMinified, len(preview)),
			RecipesCount: int64(len(own)),
		}
		for i, r := range preview {
			entry.Recipes[i] = *minify(r)
		}
		out = append(out, entry)
	}
	return out, nil
}

func checkLimit(limit *int) error {
	if limit != nil && *limit < 0 {
		return validationError("recipes_limit must be a non-negative integer")
	}
	return nil
}
