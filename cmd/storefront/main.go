package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gamestore/storefront/cart"
	"github.com/gamestore/storefront/checkout"
	"github.com/gamestore/storefront/clients"
	"github.com/gamestore/storefront/config"
	"github.com/gamestore/storefront/logger"
	"github.com/gamestore/storefront/middleware"
	"github.com/gamestore/storefront/routes"
	"github.com/gamestore/storefront/store"
)

func main() {
	cfg := config.Load()

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()
	log := logger.Log

	// Cart persistence: a shared Redis when configured, otherwise a local
	// BoltDB file.
	var repo store.CartRepository
	if cfg.RedisURL != "" {
		redisClient := store.NewRedisClient(cfg.RedisURL)
		repo = store.NewRedisRepository(redisClient, 7*24*time.Hour)
		log.Info("using redis cart repository")
	} else {
		boltRepo, err := store.NewBoltRepository(cfg.CartDBPath)
		if err != nil {
			log.Fatal("failed to open cart database", zap.Error(err))
		}
		repo = boltRepo
		log.Info("using bolt cart repository", zap.String("path", cfg.CartDBPath))
	}
	defer repo.Close()

	// Remote collaborators, all behind the same backend base URL.
	gameClient := clients.NewGameClient(cfg.BackendAPIURL, cfg.RequestTimeout)
	orderClient := clients.NewOrderClient(cfg.BackendAPIURL, cfg.RequestTimeout)
	paymentClient := clients.NewPaymentClient(cfg.BackendAPIURL, cfg.RequestTimeout)

	sessions := middleware.NewSessionValidator(cfg.JWTSecret)
	cartStore := cart.NewStore(repo, sessions, gameClient, log)
	orch := checkout.New(cartStore, orderClient, paymentClient, gameClient, cfg.RequestTimeout, log)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), logger.RequestLogger())

	routes.Register(router, cartStore, orch, orderClient, sessions, log)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("Storefront is running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Shutdown error", zap.Error(err))
	}
	log.Info("Server shutdown complete.")
}
