package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/router"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	migrationsDir := flag.String("migrations", "migrations", "directory holding SQL migrations")
	flag.Parse()

	// .env is optional; real environments set variables directly
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(cfg.Env.String(), cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db, *migrationsDir); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = database.NewRedisClient(cfg)
		if err != nil {
			// Rate limiting is optional; serve without it
			log.Warn().Err(err).Msg("redis unavailable, rate limiting disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	images, err := newImageStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise image storage")
	}

	authService := service.NewAuthService(cfg.JWTSecret)
	handlers := router.Handlers{
		Recipes: api.NewRecipeHandler(
			service.NewRecipeService(db, images),
			service.NewFavoriteService(db),
			service.NewShoppingCartService(db),
			service.NewShoppingListService(db),
		),
		Catalog: api.NewCatalogHandler(service.NewCatalogService(db)),
		Users:   api.NewUserHandler(service.NewUserService(db), service.NewSubscriptionService(db)),
		Health:  api.NewHealthHandler(db, redisClient),
	}

	opts := router.Options{CORSOrigins: cfg.CORSOrigins}
	if cfg.S3BucketName == "" {
		opts.MediaRoot = cfg.MediaRoot
	}
	if redisClient != nil {
		opts.RecipeWriteLimiter = middleware.NewRecipeWriteRateLimiter(redisClient, cfg.RateLimitWrites, cfg.RateLimitWindow)
		opts.ListLimiter = middleware.NewListRateLimiter(redisClient, cfg.RateLimitWrites, cfg.RateLimitWindow)
	}

	srv := server.New(cfg, router.SetupRouter(handlers, authService, opts))
	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("server stopped")
}

func newImageStore(ctx context.Context, cfg *config.Config) (service.ImageStore, error) {
	if cfg.S3BucketName == "" {
		log.Info().Str("root", cfg.MediaRoot).Msg("storing images on local disk")
		return service.NewLocalImageStore(cfg.MediaRoot), nil
	}

	s3cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Str("bucket", s3cfg.BucketName).Msg("storing images in S3")
	return service.NewS3ImageStore(s3cfg.Client, s3cfg.BucketName, cfg.MediaBaseURL), nil
}
