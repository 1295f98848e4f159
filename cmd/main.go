package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/campusmeet/campusmeet-api/config"
	userapp "github.com/campusmeet/campusmeet-api/internal/application"
	"github.com/campusmeet/campusmeet-api/internal/domain/repository"
	"github.com/campusmeet/campusmeet-api/internal/infrastructure/elastic"
	"github.com/campusmeet/campusmeet-api/internal/infrastructure/memory"
	"github.com/campusmeet/campusmeet-api/internal/interface/middleware"
	"github.com/campusmeet/campusmeet-api/internal/router"
	"github.com/campusmeet/campusmeet-api/pkg/helpers"
	"github.com/campusmeet/campusmeet-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	// Redis
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	// Storage backend
	var repo repository.UserRepository
	switch cfg.Backend {
	case "memory":
		repo = memory.NewUserRepository(memory.NewEventStore())
		logger.Warn("using in-memory storage backend; data will not survive restarts")
	default:
		es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			log.Fatalf("failed to init elasticsearch client: %v", err)
		}
		events := elastic.NewEventStore(es, cfg.ESEventsIndex)
		repo = elastic.NewUserRepository(es, events, logger, elastic.Indices{
			Users:        cfg.ESUsersIndex,
			JoinedEvents: cfg.ESJoinedIndex,
			Invitations:  cfg.ESInvitationsIndex,
			Favorites:    cfg.ESFavoritesIndex,
			Follows:      cfg.ESFollowsIndex,
		})
	}

	// RabbitMQ publisher for invitation notifications; the API still works
	// without it, invitations just go unnotified.
	var pub *helpers.RabbitPublisher
	if cfg.RabbitMQURL != "" {
		p, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQInviteQueue)
		if err != nil {
			logger.Warnf("rabbitmq unavailable, invitation notifications disabled: %v", err)
		} else {
			pub = p
			defer pub.Close()
		}
	}

	// JWT (verify-only; tokens are minted by the auth service)
	jwtManager := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.AccessTTL)

	service := userapp.NewService(repo, rdb, pub, logger)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg, router.Deps{
		Service: service,
		Redis:   rdb,
		JWT:     jwtManager,
		Logger:  logger,
	})
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
