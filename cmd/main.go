package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/askedagain/config"
	"github.com/lshigami/askedagain/database"
	_ "github.com/lshigami/askedagain/docs" // Swagger docs
	"github.com/lshigami/askedagain/internal/cache"
	"github.com/lshigami/askedagain/internal/controller"
	adminctrl "github.com/lshigami/askedagain/internal/controller/admin"
	userctrl "github.com/lshigami/askedagain/internal/controller/user"
	"github.com/lshigami/askedagain/internal/logger"
	"github.com/lshigami/askedagain/internal/middleware"
	"github.com/lshigami/askedagain/internal/repository"
	"github.com/lshigami/askedagain/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title AskedAgain API
// @version 1.0
// @description Records exam questions students encountered and groups restatements of the same question.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log.Info().Interface("config", cfg.Redacted()).Msg("Config loaded")

	app := fx.New(
		fx.Supply(cfg),

		// Infrastructure
		fx.Provide(
			database.NewDatabase,
			database.NewRedis,
			NewExamCache,
			NewGinEngine,
			middleware.NewAuth,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewQuestionRepository,
			repository.NewSavedQuestionRepository,
			repository.NewExamRepository,
			repository.NewAIAnswerRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewQuestionService,
			service.NewCounterService,
			service.NewExamService,
			service.NewQueryService,
			service.NewGeminiAnswerGenerator,
			service.NewAIAnswerService,
		),

		// API Controllers Layer
		fx.Provide(
			userctrl.NewQuestionController,
			adminctrl.NewAdminExamController,
		),

		fx.Invoke(database.AutoMigrate),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Failed to stop application cleanly")
	}
}

func NewExamCache(client *redis.Client, cfg *config.Config) cache.ExamCache {
	return cache.NewExamCache(client, cfg.Redis.ExamTTL)
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	auth *middleware.Auth,
	questionCtrl *userctrl.QuestionController,
	adminExamCtrl *adminctrl.AdminExamController,
) {
	controller.RegisterRoutes(router, auth, questionCtrl, adminExamCtrl)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("AskedAgain API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if redisClient != nil {
				if err := redisClient.Close(); err != nil {
					log.Warn().Err(err).Msg("Redis close failed")
				}
			}
			if sqlDB, err := db.DB(); err == nil {
				return sqlDB.Close()
			}
			return nil
		},
	})
}
