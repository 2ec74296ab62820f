package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
)

// UserService reads user projections. Users themselves are managed by the
// authentication provider.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetUser returns the user with is_subscribed resolved for requester.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID, requester *uuid.UUID) (*types.UserRead, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	subscribed := false
	if requester != nil {
		var n int64
		err := db.Model(&models.Subscription{}).
			Where("user_id = ? AND author_id = ?", *requester, id).
			Count(&n).Error
		if err != nil {
			return nil, fmt.Errorf("check subscription: %w", err)
		}
		subscribed = n > 0
	}

	out := toUserRead(user, subscribed)
	return &out, nil
}
