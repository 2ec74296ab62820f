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

// CatalogService serves the ingredient and tag catalogues.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListIngredients returns ingredients ordered by name. A non-empty prefix
// keeps only names starting with it, ignoring case.
func (s *CatalogService) ListIngredients(ctx context.Context, prefix string) ([]types.IngredientRead, error) {
	q := s.db.WithContext(ctx).Model(&models.Ingredient{})
	if prefix != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, PrefixPattern(prefix))
	}

	var rows []models.Ingredient
	if err := q.Order("name").Order("measurement_unit").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	out := make([]types.IngredientRead, len(rows))
	for i, r := range rows {
		out[i] = toIngredientRead(r)
	}
	return out, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*types.IngredientRead, error) {
	var row models.Ingredient
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("ingredient not found")
		}
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	out := toIngredientRead(row)
	return &out, nil
}

// CreateIngredient is used by seeding and administration.
func (s *CatalogService) CreateIngredient(ctx context.Context, in *types.IngredientInput) (*types.IngredientRead, error) {
	if err := fromValidation(in.Validate()); err != nil {
		return nil, err
	}
	row := models.Ingredient{Name: in.Name, MeasurementUnit: in.MeasurementUnit}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, translateStoreError(err, "create ingredient", storeMessages{
			Duplicate: "ingredient with this name and unit already exists",
		})
	}
	out := toIngredientRead(row)
	return &out, nil
}

// ListTags returns all tags ordered by slug.
func (s *CatalogService) ListTags(ctx context.Context) ([]types.TagRead, error) {
	var rows []models.Tag
	if err := s.db.WithContext(ctx).Order("slug").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	out := make([]types.TagRead, len(rows))
	for i, r := range rows {
		out[i] = toTagRead(r)
	}
	return out, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id uuid.UUID) (*types.TagRead, error) {
	var row models.Tag
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("tag not found")
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	out := toTagRead(row)
	return &out, nil
}

func (s *CatalogService) CreateTag(ctx context.Context, in *types.TagInput) (*types.TagRead, error) {
	if err := fromValidation(in.Validate()); err != nil {
		return nil, err
	}
	row := models.Tag{Name: in.Name, Color: in.Color, Slug: in.Slug}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, translateStoreError(err, "create tag", storeMessages{
			Duplicate: "tag with this slug already exists",
		})
	}
	out := toTagRead(row)
	return &out, nil
}
