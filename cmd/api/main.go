package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/quizcheck-api/internal/config"
	"github.com/yourusername/quizcheck-api/internal/handler"
	"github.com/yourusername/quizcheck-api/internal/middleware"
	pgRepo "github.com/yourusername/quizcheck-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/quizcheck-api/internal/repository/redis"
	"github.com/yourusername/quizcheck-api/internal/service"
	"github.com/yourusername/quizcheck-api/pkg/auth"
	"github.com/yourusername/quizcheck-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	categoryRepo := pgRepo.NewCategoryRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	attemptRepo := pgRepo.NewAttemptRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Fatalf("Failed to initialize CacheRepo: %v", err)
	}

	// Инициализируем JWT сервис
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Fatalf("Failed to initialize JWTService: %v", err)
	}

	// Инициализируем сервисы
	attemptConfig := service.AttemptConfig{
		QuestionsPerAttempt: cfg.Quiz.QuestionsPerAttempt,
		PassingScore:        cfg.Quiz.PassingScore,
		TimeLimitMinutes:    cfg.Quiz.TimeLimitMinutes,
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	authService := service.NewAuthService(userRepo, jwtService)
	catalogService := service.NewCatalogService(categoryRepo, questionRepo, cacheRepo)
	attemptService := service.NewAttemptService(attemptRepo, catalogService, attemptConfig, rng)
	resultService := service.NewResultService(attemptRepo)

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	categoryHandler := handler.NewCategoryHandler(catalogService)
	attemptHandler := handler.NewAttemptHandler(attemptService, resultService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Инициализируем роутер Gin
	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		authGroup.Use(rateLimiter.Limit(middleware.AuthRateLimitConfig()))
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Пользователи
		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", authHandler.Me)
		}

		// Категории
		categories := api.Group("/categories")
		{
			categories.GET("", categoryHandler.ListCategories)

			categoryWithID := categories.Group("/:category_id")
			categoryWithID.Use(middleware.ExtractUintParam("category_id", "categoryID"))
			{
				categoryWithID.GET("", categoryHandler.GetCategory)

				// Старт попытки по категории
				authedCategory := categoryWithID.Group("")
				authedCategory.Use(authMiddleware.RequireAuth())
				{
					authedCategory.POST("/attempts", attemptHandler.StartAttempt)
				}

				// Административный ввод вопросов
				adminCategory := categoryWithID.Group("")
				adminCategory.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
				{
					adminCategory.PUT("", categoryHandler.UpdateCategory)
					adminCategory.DELETE("", categoryHandler.DeleteCategory)
					adminCategory.POST("/questions", categoryHandler.CreateQuestion)
				}
			}

			// Создание категории (не требует ID)
			adminCreateCategory := categories.Group("")
			adminCreateCategory.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
			{
				adminCreateCategory.POST("", categoryHandler.CreateCategory)
			}
		}

		// Вопросы (административные правки)
		questions := api.Group("/questions/:question_id")
		questions.Use(middleware.ExtractUintParam("question_id", "questionID"))
		questions.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			questions.PUT("", categoryHandler.UpdateQuestion)
			questions.DELETE("", categoryHandler.DeleteQuestion)
		}

		// Попытки
		attempts := api.Group("/attempts")
		attempts.Use(authMiddleware.RequireAuth())
		{
			attempts.GET("", attemptHandler.ListAttempts)

			attemptWithID := attempts.Group("/:attempt_id")
			attemptWithID.Use(middleware.ExtractUintParam("attempt_id", "attemptID"))
			{
				attemptWithID.GET("", attemptHandler.GetAttempt)
				attemptWithID.GET("/review", attemptHandler.Review)
				attemptWithID.POST("/submit", attemptHandler.Submit)
				attemptWithID.GET("/results", attemptHandler.Results)

				answerWithID := attemptWithID.Group("/answers/:answer_id")
				answerWithID.Use(middleware.ExtractUintParam("answer_id", "answerID"))
				{
					answerWithID.GET("", attemptHandler.GetAnswer)
					answerWithID.PUT("/selection", attemptHandler.SetSelection)
					answerWithID.POST("/flag", attemptHandler.ToggleFlag)
				}
			}
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	// Ждем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown с таймаутом
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
