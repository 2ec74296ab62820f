package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type RecipeHandler struct {
	recipes   service.IRecipeService
	favorites service.IListService
	cart      service.IListService
	shopping  service.IShoppingListService
}

// maxRecipeBodyBytes bounds a recipe write body, image included.
var maxRecipeBodyBytes int64 = types.MaxImageURILength + 1<<20

func NewRecipeHandler(
	recipes service.IRecipeService,
	favorites service.IListService,
	cart service.IListService,
	shopping service.IShoppingListService,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:   recipes,
		favorites: favorites,
		cart:      cart,
		shopping:  shopping,
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter, err := recipeFilter(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	recipes, err := h.recipes.ListRecipes(c.Request.Context(), filter, middleware.Requester(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "recipe")
	if !ok {
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id, middleware.Requester(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	id, ok := pathID(c, "recipe")
	if !ok {
		return
	}

	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), id, userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	id, ok := pathID(c, "recipe")
	if !ok {
		return
	}

	if err := h.recipes.DeleteRecipe(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context)    { h.addToList(c, h.favorites) }
func (h *RecipeHandler) RemoveFavorite(c *gin.Context) { h.removeFromList(c, h.favorites) }
func (h *RecipeHandler) AddToCart(c *gin.Context)      { h.addToList(c, h.cart) }
func (h *RecipeHandler) RemoveFromCart(c *gin.Context) { h.removeFromList(c, h.cart) }

// DownloadShoppingCart returns the caller's aggregated shopping list as a
// plain text attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	export, err := h.shopping.Export(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(export.Content))
}

func (h *RecipeHandler) addToList(c *gin.Context, list service.IListService) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	id, ok := pathID(c, "recipe")
	if !ok {
		return
	}

	recipe, err := list.Add(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) removeFromList(c *gin.Context, list service.IListService) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	id, ok := pathID(c, "recipe")
	if !ok {
		return
	}

	if err := list.Remove(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bindInput decodes the write request. The image stays a data URI; the
// recipe service stores it once the write is accepted. An empty image is
// passed through so updates keep the current one.
func (h *RecipeHandler) bindInput(c *gin.Context) (*types.RecipeInput, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRecipeBodyBytes)

	var req types.RecipeWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, middleware.ErrorResponse{Errors: "request body too large"})
			return nil, false
		}
		badRequest(c, "invalid request body")
		return nil, false
	}

	return &types.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		ImageData:   req.Image,
		Tags:        req.Tags,
		Ingredients: req.Ingredients,
	}, true
}
