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
	"go.uber.org/zap"

	"github.com/scolardf/devconnector/adapters/event"
	"github.com/scolardf/devconnector/adapters/github"
	httpAdapter "github.com/scolardf/devconnector/adapters/http"
	"github.com/scolardf/devconnector/adapters/persistence"
	"github.com/scolardf/devconnector/internal/application/service"
	githubUC "github.com/scolardf/devconnector/internal/application/usecase/github"
	profileUC "github.com/scolardf/devconnector/internal/application/usecase/profile"
	"github.com/scolardf/devconnector/internal/config"
	"github.com/scolardf/devconnector/pkg/auth"
	"github.com/scolardf/devconnector/pkg/logger"
	"github.com/scolardf/devconnector/pkg/tracing"
)

func main() {
	// Configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting DevConnector API Server...", zap.String("env", cfg.App.Env))

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Tracing
	tp, err := tracing.NewTracerProvider(cfg, appLogger, "devconnector-api")
	if err != nil {
		appLogger.Fatal("cannot init tracer", err)
	}
	defer tracing.Shutdown(tp, appLogger)

	// Database
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	// Repo listing cache, optional
	var repoCache service.RepoCache
	if cfg.Redis.Addr != "" {
		redisClient, err := persistence.NewRedisClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("cannot connect Redis", err)
		}
		defer redisClient.Close()
		repoCache = persistence.NewRedisRepoCache(redisClient, cfg.Redis.CacheTTL)
	} else {
		appLogger.Warn("Redis address not set, github listings are not cached")
	}

	// Events, optional
	var publisher service.EventPublisher = event.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("cannot init Kafka", err)
		}
		defer kafkaClient.Close()
		publisher = kafkaClient
	} else {
		appLogger.Warn("Kafka brokers not set, profile events are dropped")
	}

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool)
	profileRepo := persistence.NewPostgresProfileRepo(dbPool, appLogger)
	postRepo := persistence.NewPostgresPostRepo(dbPool)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	repoDirectory := github.NewClient(cfg, appLogger)

	// Use Cases
	profileUseCase := profileUC.NewProfileUseCase(profileRepo, userRepo, postRepo, publisher, appLogger)
	reposUseCase := githubUC.NewReposUseCase(repoDirectory, repoCache, appLogger)

	// HTTP
	router := httpAdapter.NewRouter(
		httpAdapter.Handlers{
			Profile: httpAdapter.NewProfileHandler(profileUseCase, appLogger),
			Github:  httpAdapter.NewGithubHandler(reposUseCase),
		},
		httpAdapter.Middlewares{
			Auth: httpAdapter.AuthMiddleware(jwtSvc, appLogger),
		},
		appLogger,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
}
