package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/practice-quiz/internal/config"
	"github.com/yourusername/practice-quiz/internal/domain/repository"
	"github.com/yourusername/practice-quiz/internal/handler"
	"github.com/yourusername/practice-quiz/internal/repository/gsheets"
	redisRepo "github.com/yourusername/practice-quiz/internal/repository/redis"
	"github.com/yourusername/practice-quiz/internal/repository/xlsx"
	"github.com/yourusername/practice-quiz/internal/service"
	"github.com/yourusername/practice-quiz/pkg/database"
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
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем источник вопросов по выбранному бэкенду
	var source repository.QuestionSource
	switch cfg.Sheet.Backend {
	case config.SheetBackendGoogle:
		source, err = gsheets.NewQuestionSource(context.Background(), cfg.Sheet)
		if err != nil {
			log.Printf("Failed to initialize Google Sheets source: %v", err)
			os.Exit(1)
		}
		log.Printf("Question source: Google Sheets (spreadsheet %s, worksheet %q)", cfg.Sheet.SpreadsheetID, cfg.Sheet.Worksheet)
	case config.SheetBackendXLSX:
		source = xlsx.NewQuestionSource(cfg.Sheet)
		log.Printf("Question source: local workbook %s (worksheet %q)", cfg.Sheet.Path, cfg.Sheet.Worksheet)
	}

	// Инициализируем кеш снимков таблицы, если Redis сконфигурирован
	var cacheRepo repository.CacheRepository
	if cfg.Redis.Enabled() {
		redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
		if err != nil {
			log.Printf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		cacheRepo, err = redisRepo.NewCacheRepo(redisClient)
		if err != nil {
			log.Printf("Failed to initialize CacheRepo: %v", err)
			os.Exit(1)
		}
		log.Println("Successfully connected to Redis, table snapshot caching enabled")
	} else {
		log.Println("Redis is not configured, table snapshot caching disabled")
	}

	// Инициализируем сервисы
	cacheKey := fmt.Sprintf("quiz:table:%s:%s", cfg.Sheet.SpreadsheetID+cfg.Sheet.Path, cfg.Sheet.Worksheet)
	tableService := service.NewTableService(source, cacheRepo, cfg.Sheet.CacheTTL, cacheKey)
	quizService := service.NewQuizService(tableService, source)

	// Инициализируем обработчики
	sessionHandler := handler.NewSessionHandler(quizService)

	// Инициализируем роутер Gin
	router := gin.Default()

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
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000", "http://localhost:8000"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		sessions := api.Group("/sessions")
		{
			sessions.POST("", sessionHandler.StartSession)

			sessionWithID := sessions.Group("/:id")
			{
				sessionWithID.GET("", sessionHandler.GetSession)
				sessionWithID.POST("/chapters", sessionHandler.SelectChapters)
				sessionWithID.POST("/mode", sessionHandler.SelectMode)
				sessionWithID.POST("/count", sessionHandler.StartQuiz)
				sessionWithID.POST("/answer", sessionHandler.SubmitAnswer)
				sessionWithID.POST("/back", sessionHandler.Back)
				sessionWithID.POST("/restart", sessionHandler.Restart)
				sessionWithID.DELETE("", sessionHandler.DeleteSession)
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

	// Ожидаем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
