package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/livingrent/storefront-service/internal/config"
	"github.com/livingrent/storefront-service/internal/handlers"
	"github.com/livingrent/storefront-service/internal/models"
	"github.com/livingrent/storefront-service/internal/services"
	"github.com/livingrent/storefront-service/internal/utils"
	"github.com/livingrent/storefront-service/internal/validator"
	"github.com/livingrent/storefront-service/pkg"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	cachepkg "github.com/livingrent/storefront-service/internal/cache"
	repopkg "github.com/livingrent/storefront-service/internal/repositories/postgres"
)

// seedCategories is the canonical category list shipped with the service.
var seedCategories = []*models.Category{
	{ID: models.CategoryRefrigerator, Name: "Refrigerator", NameKo: "냉장고", Position: 1},
	{ID: models.CategoryWasher, Name: "Washer & Dryer", NameKo: "세탁기/건조기", Position: 2},
	{ID: models.CategoryAirConditioner, Name: "Air Conditioner", NameKo: "에어컨", Position: 3},
	{ID: models.CategoryTV, Name: "TV", NameKo: "TV", Position: 4},
	{ID: models.CategoryMicrowave, Name: "Microwave", NameKo: "전자레인지", Position: 5},
	{ID: models.CategoryRobotVacuum, Name: "Robot Vacuum", NameKo: "로봇청소기", Position: 6},
	{ID: models.CategoryWaterPurifier, Name: "Water Purifier", NameKo: "정수기", Position: 7},
	{ID: models.CategoryUncategorized, Name: "Uncategorized", NameKo: "미분류", Position: 99},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.LogError(err, "Failed to connect to database")
		os.Exit(1)
	}

	if err := pkg.AutoMigrate(db); err != nil {
		logger.LogError(err, "Failed to migrate database schema")
		os.Exit(1)
	}

	repo := repopkg.NewRepository(db)

	ctx := context.Background()
	if err := repo.Product().SeedCategories(ctx, nil, seedCategories); err != nil {
		logger.LogError(err, "Failed to seed categories")
		os.Exit(1)
	}

	var cacheService cachepkg.CacheService
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, catalog cache disabled", "error", err)
	} else {
		defer redisClient.Close()
		cacheService = cachepkg.NewRedisCache(redisClient, logger)
	}

	publisher, err := cfg.Events.CreateEventPublisher(utils.ToSlogLogger(logger))
	if err != nil {
		logger.LogError(err, "Failed to create event publisher")
		os.Exit(1)
	}
	defer publisher.Close()

	openaiClient := openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey))
	resolver := services.NewOpenAIMappingResolver(&openaiClient, cfg.OpenAIModel, logger)

	v := validator.New()

	importService := services.NewImportService(repo, resolver, v, publisher, logger)
	productService := services.NewProductService(repo, cacheService, publisher, logger)
	rentalService := services.NewRentalService(repo, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(importService, productService, rentalService, v, logger)
	handlerManager.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting storefront service", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError(err, "Server stopped unexpectedly")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.LogError(err, "Forced shutdown")
	}
}
