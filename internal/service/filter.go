package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/models"
	"gorm.io/gorm"
)

// RecipeFilter holds the recipe list predicates a caller may request.
// Zero values do not restrict the result.
type RecipeFilter struct {
	IsFavorited      bool
	IsInShoppingCart bool
	Author           *uuid.UUID
	Tags             []string
}

// Apply narrows q to recipes matching f. The membership flags only apply
// when requester is set; an anonymous caller gets them as no-ops.
func (f RecipeFilter) Apply(q *gorm.DB, requester *uuid.UUID) *gorm.DB {
	sub := q.Session(&gorm.Session{NewDB: true})

	if requester != nil && f.IsFavorited {
		q = q.Where("recipes.id IN (?)",
			sub.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", *requester))
	}
	if requester != nil && f.IsInShoppingCart {
		q = q.Where("recipes.id IN (?)",
			sub.Model(&models.ShoppingCartEntry{}).Select("recipe_id").Where("user_id = ?", *requester))
	}
	if f.Author != nil {
		q = q.Where("recipes.author_id = ?", *f.Author)
	}
	if slugs := compactSlugs(f.Tags); len(slugs) > 0 {
		q = q.Where("recipes.id IN (?)",
			sub.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", slugs))
	}
	return q
}

func compactSlugs(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// PrefixPattern builds a LIKE pattern matching values that start with
// prefix, case-insensitively when compared against LOWER(column).
func PrefixPattern(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(strings.ToLower(prefix)) + "%"
}
