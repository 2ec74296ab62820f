package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bounds enforced by request validation. The check tags below repeat them
// because gorm struct tags cannot reference constants.
const (
	MinCookingTime = 1
	MaxCookingTime = 360
	MinAmount      = 1
	MaxAmount      = 3000
)

// Recipe is the aggregate root for line items and tag associations. Both
// child sets are only ever replaced wholesale.
type Recipe struct {
	ID          uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string             `gorm:"size:200;not null;uniqueIndex:idx_recipes_name_author" json:"name"`
	Text        string             `gorm:"type:text;not null" json:"text"`
	AuthorID    uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_recipes_name_author;index" json:"author_id"`
	Author      User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	PubDate     time.Time          `gorm:"not null;index" json:"pub_date"`
	Image       string             `gorm:"size:255;not null" json:"image"`
	CookingTime int                `gorm:"not null;check:cooking_time BETWEEN 1 AND 360" json:"cooking_time"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.PubDate.IsZero() {
		r.PubDate = time.Now().UTC()
	}
	return nil
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeIngredient is one line item: an ingredient and the amount of it a
// recipe needs. An ingredient appears at most once per recipe.
type RecipeIngredient struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"-"`
	RecipeID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredients_ingredient_recipe" json:"-"`
	IngredientID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredients_ingredient_recipe;index" json:"id"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:RESTRICT" json:"ingredient"`
	Amount       int        `gorm:"not null;check:amount BETWEEN 1 AND 3000" json:"amount"`
}

func (l *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// RecipeTag is the join row behind Recipe.Tags.
type RecipeTag struct {
	RecipeID uuid.UUID `gorm:"type:uuid;primaryKey"`
	TagID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}
