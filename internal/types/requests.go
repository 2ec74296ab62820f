package types

import (
	"errors"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/models"
)

var hexColor = regexp.MustCompile(`^#([A-Fa-f0-9]{6})$`)

// IngredientAmount references an existing ingredient with the amount a
// recipe needs of it.
type IngredientAmount struct {
	ID     uuid.UUID `json:"id"`
	Amount int       `json:"amount"`
}

var (
	minAmountMsg      = fmt.Sprintf("ingredient amount must be at least %d", models.MinAmount)
	minCookingTimeMsg = fmt.Sprintf("cooking time must be at least %d minute", models.MinCookingTime)
)

func (a IngredientAmount) Validate() error {
	return validation.ValidateStruct(&a,
		// uuid.UUID is a driver.Valuer, so ozzo sees the nil id as a
		// non-empty string and Required/NotIn never fire on it.
		validation.Field(&a.ID, validation.By(notNilID("ingredient id is required"))),
		validation.Field(&a.Amount,
			validation.Required.Error(minAmountMsg),
			validation.Min(models.MinAmount).Error(minAmountMsg),
			validation.Max(models.MaxAmount).Error(fmt.Sprintf("ingredient amount must be at most %d", models.MaxAmount)),
		),
	)
}

func notNilID(msg string) validation.RuleFunc {
	return func(value interface{}) error {
		if id, _ := value.(uuid.UUID); id == uuid.Nil {
			return errors.New(msg)
		}
		return nil
	}
}

// MaxImageURILength caps the base64 data URI accepted for a recipe image.
const MaxImageURILength = 8 << 20

// RecipeWriteRequest is the body of recipe create and update calls. Image
// is a base64 data URI.
type RecipeWriteRequest struct {
	Name        string             `json:"name"`
	Text        string             `json:"text"`
	CookingTime int                `json:"cooking_time"`
	Image       string             `json:"image"`
	Tags        []uuid.UUID        `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients"`
}

// RecipeInput is what the recipe composer consumes. ImageData is a data URI
// the composer stores once every check has passed; ImageRef is an already
// stored reference. One of the two must be set.
type RecipeInput struct {
	Name        string             `json:"name"`
	Text        string             `json:"text"`
	CookingTime int                `json:"cooking_time"`
	ImageData   string             `json:"-"`
	ImageRef    string             `json:"image"`
	Tags        []uuid.UUID        `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients"`
}

func (in RecipeInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name,
			validation.Required.Error("recipe name is required"),
			validation.RuneLength(1, 200).Error("recipe name must be at most 200 characters"),
		),
		validation.Field(&in.Text, validation.Required.Error("recipe text is required")),
		validation.Field(&in.CookingTime,
			validation.Required.Error(minCookingTimeMsg),
			validation.Min(models.MinCookingTime).Error(minCookingTimeMsg),
			validation.Max(models.MaxCookingTime).Error(fmt.Sprintf("cooking time must be at most %d minutes", models.MaxCookingTime)),
		),
		validation.Field(&in.ImageRef, validation.When(in.ImageData == "", validation.Required.Error("image is required"))),
		validation.Field(&in.ImageData, validation.Length(0, MaxImageURILength).Error("image is too large")),
		validation.Field(&in.Ingredients,
			validation.Required.Error("at least one ingredient is required"),
			validation.By(uniqueIngredients),
		),
		validation.Field(&in.Tags, validation.By(uniqueTags)),
	)
}

func uniqueIngredients(value interface{}) error {
	lines, _ := value.([]IngredientAmount)
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, l := range lines {
		if _, dup := seen[l.ID]; dup {
			return fmt.Errorf("ingredient %s is listed more than once", l.ID)
		}
		seen[l.ID] = struct{}{}
	}
	return nil
}

func uniqueTags(value interface{}) error {
	ids, _ := value.([]uuid.UUID)
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("tag %s is listed more than once", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// IngredientInput creates a catalogue ingredient (administrative).
type IngredientInput struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func (in IngredientInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&in.MeasurementUnit, validation.Required, validation.RuneLength(1, 200)),
	)
}

// TagInput creates a catalogue tag (administrative).
type TagInput struct {
	Name  string  `json:"name"`
	Color *string `json:"color"`
	Slug  *string `json:"slug"`
}

func (in TagInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&in.Color, validation.NilOrNotEmpty, validation.Match(hexColor).Error("color must be in #RRGGBB format")),
		validation.Field(&in.Slug, validation.NilOrNotEmpty, validation.RuneLength(1, 200)),
	)
}
