package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/mocks"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type handlerSuite struct {
	userID    uuid.UUID
	auth      *mocks.MockAuthService
	recipes   *mocks.MockRecipeService
	favorites *mocks.MockListService
	cart      *mocks.MockListService
	shopping  *mocks.MockShoppingListService
	users     *mocks.MockUserService
	subs      *mocks.MockSubscriptionService
	catalog   *mocks.MockCatalogService
	engine    *gin.Engine
}

func newHandlerSuite(t *testing.T) *handlerSuite {
	gin.SetMode(gin.TestMode)
	s := &handlerSuite{
		userID:    uuid.New(),
		auth:      new(mocks.MockAuthService),
		recipes:   new(mocks.MockRecipeService),
		favorites: new(mocks.MockListService),
		cart:      new(mocks.MockListService),
		shopping:  new(mocks.MockShoppingListService),
		users:     new(mocks.MockUserService),
		subs:      new(mocks.MockSubscriptionService),
		catalog:   new(mocks.MockCatalogService),
	}
	s.auth.On("ValidateToken", "token").Return(&types.TokenClaims{UserID: s.userID, Username: "cook"}, nil).Maybe()

	rh := api.NewRecipeHandler(s.recipes, s.favorites, s.cart, s.shopping)
	uh := api.NewUserHandler(s.users, s.subs)
	ch := api.NewCatalogHandler(s.catalog)

	r := gin.New()
	required := middleware.RequireAuth(s.auth)
	optional := middleware.OptionalAuth(s.auth)
	r.GET("/recipes/", optional, rh.ListRecipes)
	r.POST("/recipes/", required, rh.CreateRecipe)
	r.PATCH("/recipes/:id/", required, rh.UpdateRecipe)
	r.POST("/recipes/:id/favorite/", required, rh.AddFavorite)
	r.DELETE("/recipes/:id/shopping_cart/", required, rh.RemoveFromCart)
	r.GET("/recipes/download_shopping_cart/", required, rh.DownloadShoppingCart)
	r.GET("/users/:id/", optional, uh.GetUser)
	r.GET("/users/subscriptions/", required, uh.ListSubscriptions)
	r.GET("/ingredients/", ch.ListIngredients)
	s.engine = r

	t.Cleanup(func() {
		mock.AssertExpectationsForObjects(t, s.recipes, s.favorites, s.cart, s.shopping, s.users, s.subs, s.catalog)
	})
	return s
}

func (s *handlerSuite) do(method, path, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer token")
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func TestListRecipesPassesRequesterAndFilter(t *testing.T) {
	s := newHandlerSuite(t)

	want := service.RecipeFilter{IsFavorited: true, Tags: []string{"lunch"}}
	s.recipes.On("ListRecipes", mock.Anything, want, &s.userID).Return([]types.RecipeRead{{Name: "Soup"}}, nil).Once()

	w := s.do(http.MethodGet, "/recipes/?is_favorited=1&tags=lunch", "", true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Soup"`)
}

func TestListRecipesAnonymous(t *testing.T) {
	s := newHandlerSuite(t)

	s.recipes.On("ListRecipes", mock.Anything, service.RecipeFilter{}, (*uuid.UUID)(nil)).Return([]types.RecipeRead{}, nil).Once()

	w := s.do(http.MethodGet, "/recipes/", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestCreateRecipePassesImageData(t *testing.T) {
	s := newHandlerSuite(t)
	ingredient := uuid.New()

	s.recipes.On("CreateRecipe", mock.Anything, s.userID, mock.MatchedBy(func(in *types.RecipeInput) bool {
		return in.ImageData == "data:image/png;base64,AAAA" && in.ImageRef == "" &&
			in.Name == "Soup" && len(in.Ingredients) == 1 && in.Ingredients[0].ID == ingredient
	})).Return(&types.RecipeRead{Name: "Soup"}, nil).Once()

	body := `{"name":"Soup","text":"Boil.","cooking_time":10,"image":"data:image/png;base64,AAAA","ingredients":[{"id":"` + ingredient.String() + `","amount":1}]}`
	w := s.do(http.MethodPost, "/recipes/", body, true)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestUpdateRecipeWithoutImage(t *testing.T) {
	s := newHandlerSuite(t)
	id := uuid.New()

	s.recipes.On("UpdateRecipe", mock.Anything, id, s.userID, mock.MatchedBy(func(in *types.RecipeInput) bool {
		return in.ImageData == "" && in.ImageRef == ""
	})).Return(nil, &service.Error{Kind: service.KindForbidden, Message: "only the author can change this recipe"}).Once()

	w := s.do(http.MethodPatch, "/recipes/"+id.String()+"/", `{"name":"Soup"}`, true)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"errors":"only the author can change this recipe"}`, w.Body.String())
}

func TestAddFavoriteConflict(t *testing.T) {
	s := newHandlerSuite(t)
	id := uuid.New()

	s.favorites.On("Add", mock.Anything, s.userID, id).
		Return(nil, &service.Error{Kind: service.KindConflict, Message: "recipe is already in favorites"}).Once()

	w := s.do(http.MethodPost, "/recipes/"+id.String()+"/favorite/", "", true)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRemoveFromCart(t *testing.T) {
	s := newHandlerSuite(t)
	id := uuid.New()

	s.cart.On("Remove", mock.Anything, s.userID, id).Return(nil).Once()

	w := s.do(http.MethodDelete, "/recipes/"+id.String()+"/shopping_cart/", "", true)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodDelete, "/recipes/"+id.String()+"/shopping_cart/", "", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDownloadShoppingCartHeaders(t *testing.T) {
	s := newHandlerSuite(t)

	s.shopping.On("Export", mock.Anything, s.userID).Return(&service.ShoppingListExport{
		Filename: "cook_shopping_cart.txt",
		Content:  "Shopping list for cook.\n",
	}, nil).Once()

	w := s.do(http.MethodGet, "/recipes/download_shopping_cart/", "", true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="cook_shopping_cart.txt"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Shopping list for cook.\n", w.Body.String())
}

func TestGetUserNotFound(t *testing.T) {
	s := newHandlerSuite(t)
	id := uuid.New()

	s.users.On("GetUser", mock.Anything, id, (*uuid.UUID)(nil)).
		Return(nil, &service.Error{Kind: service.KindNotFound, Message: "user not found"}).Once()

	w := s.do(http.MethodGet, "/users/"+id.String()+"/", "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListSubscriptionsLimit(t *testing.T) {
	s := newHandlerSuite(t)
	limit := 2

	s.subs.On("ListSubscriptions", mock.Anything, s.userID, &limit).Return([]types.UserWithRecipes{}, nil).Once()

	w := s.do(http.MethodGet, "/users/subscriptions/?recipes_limit=2", "", true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/users/subscriptions/?recipes_limit=x", "", true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListIngredientsPrefix(t *testing.T) {
	s := newHandlerSuite(t)

	s.catalog.On("ListIngredients", mock.Anything, "egg").Return([]types.IngredientRead{{Name: "eggs"}}, nil).Once()

	w := s.do(http.MethodGet, "/ingredients/?name=egg", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "eggs")
}
