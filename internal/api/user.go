package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

type UserHandler struct {
	users         service.IUserService
	subscriptions service.ISubscriptionService
}

func NewUserHandler(users service.IUserService, subscriptions service.ISubscriptionService) *UserHandler {
	return &UserHandler{users: users, subscriptions: subscriptions}
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "user")
	if !ok {
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), id, middleware.Requester(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	authorID, ok := pathID(c, "user")
	if !ok {
		return
	}
	limit, err := recipesLimit(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	author, err := h.subscriptions.Subscribe(c.Request.Context(), userID, authorID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, author)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	authorID, ok := pathID(c, "user")
	if !ok {
		return
	}

	if err := h.subscriptions.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSubscriptions returns the authors the caller follows with a preview
// of their newest recipes.
func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	limit, err := recipesLimit(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	authors, err := h.subscriptions.ListSubscriptions(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, authors)
}
