package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups the API handlers mounted by SetupRouter.
type Handlers struct {
	Recipes *api.RecipeHandler
	Catalog *api.CatalogHandler
	Users   *api.UserHandler
	Health  *api.HealthHandler
}

// Options configures the cross-cutting middleware.
type Options struct {
	CORSOrigins []string
	// MediaRoot is served under /media when set.
	MediaRoot string
	// Limiters are optional; nil disables rate limiting for that route set.
	RecipeWriteLimiter *middleware.RateLimiter
	ListLimiter        *middleware.RateLimiter
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, authService service.IAuthService, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(), middleware.Logger(), middleware.CORS(opts.CORSOrigins))
	router.NoRoute(middleware.NoRoute)

	router.GET("/health", h.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if opts.MediaRoot != "" {
		router.Static("/media", opts.MediaRoot)
	}

	required := middleware.RequireAuth(authService)
	optional := middleware.OptionalAuth(authService)
	writeLimit := limit(opts.RecipeWriteLimiter)
	listLimit := limit(opts.ListLimiter)

	apiGroup := router.Group("/api")

	recipes := apiGroup.Group("/recipes")
	{
		recipes.GET("/", optional, h.Recipes.ListRecipes)
		recipes.POST("/", required, writeLimit, h.Recipes.CreateRecipe)
		recipes.GET("/download_shopping_cart/", required, h.Recipes.DownloadShoppingCart)
		recipes.GET("/:id/", optional, h.Recipes.GetRecipe)
		recipes.PATCH("/:id/", required, writeLimit, h.Recipes.UpdateRecipe)
		recipes.DELETE("/:id/", required, h.Recipes.DeleteRecipe)
		recipes.POST("/:id/favorite/", required, listLimit, h.Recipes.AddFavorite)
		recipes.DELETE("/:id/favorite/", required, h.Recipes.RemoveFavorite)
		recipes.POST("/:id/shopping_cart/", required, listLimit, h.Recipes.AddToCart)
		recipes.DELETE("/:id/shopping_cart/", required, h.Recipes.RemoveFromCart)
	}

	tags := apiGroup.Group("/tags")
	{
		tags.GET("/", h.Catalog.ListTags)
		tags.GET("/:id/", h.Catalog.GetTag)
	}

	ingredients := apiGroup.Group("/ingredients")
	{
		ingredients.GET("/", h.Catalog.ListIngredients)
		ingredients.GET("/:id/", h.Catalog.GetIngredient)
	}

	users := apiGroup.Group("/users")
	{
		users.GET("/subscriptions/", required, h.Users.ListSubscriptions)
		users.GET("/:id/", optional, h.Users.GetUser)
		users.POST("/:id/subscribe/", required, h.Users.Subscribe)
		users.DELETE("/:id/subscribe/", required, h.Users.Unsubscribe)
	}

	return router
}

func limit(rl *middleware.RateLimiter) gin.HandlerFunc {
	if rl == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return rl.Middleware()
}
