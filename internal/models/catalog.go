package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is a purchasable product in a fixed measurement unit.
// The (name, measurement_unit) pair is unique.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"size:200;not null;uniqueIndex:idx_ingredients_name_unit" json:"name"`
	MeasurementUnit string    `gorm:"size:200;not null;uniqueIndex:idx_ingredients_name_unit" json:"measurement_unit"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (Ingredient) TableName() string {
	return "ingredients"
}

// Tag labels recipes. Color is a #RRGGBB hex string; both color and slug
// may be null, but a non-null slug is unique.
type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"size:200;not null" json:"name"`
	Color *string   `gorm:"size:7" json:"color"`
	Slug  *string   `gorm:"size:200;uniqueIndex:idx_tags_slug" json:"slug"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (Tag) TableName() string {
	return "tags"
}
