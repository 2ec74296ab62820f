package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/service"
)

// pathID parses the :id segment. A malformed id cannot name an existing
// entity, so it is reported as not found.
func pathID(c *gin.Context, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, &service.Error{Kind: service.KindNotFound, Message: entity + " not found"})
		return uuid.Nil, false
	}
	return id, true
}

func queryFlag(c *gin.Context, key string) bool {
	switch strings.ToLower(c.Query(key)) {
	case "1", "true":
		return true
	default:
		return false
	}
}

// recipeFilter reads the list query: is_favorited, is_in_shopping_cart,
// author and tags (repeated or comma separated slugs).
func recipeFilter(c *gin.Context) (service.RecipeFilter, error) {
	f := service.RecipeFilter{
		IsFavorited:      queryFlag(c, "is_favorited"),
		IsInShoppingCart: queryFlag(c, "is_in_shopping_cart"),
	}

	if raw := c.Query("author"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, fmt.Errorf("author must be a user id")
		}
		f.Author = &id
	}

	for _, v := range c.QueryArray("tags") {
		f.Tags = append(f.Tags, strings.Split(v, ",")...)
	}
	return f, nil
}

// recipesLimit reads recipes_limit. Absent means no cap.
func recipesLimit(c *gin.Context) (*int, error) {
	raw, ok := c.GetQuery("recipes_limit")
	if !ok || raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("recipes_limit must be a non-negative integer")
	}
	return &n, nil
}
