package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"handymandy-backend-go/internal/api"
	"handymandy-backend-go/internal/config"
	"handymandy-backend-go/internal/core"
	"handymandy-backend-go/internal/db"
	"handymandy-backend-go/internal/middleware"
	"handymandy-backend-go/internal/session"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	var logger *zap.Logger
	if strings.ToLower(cfg.LogMode) == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInit()
	clients, err := db.InitFirebase(initCtx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize Firebase", zap.Error(err))
	}
	defer clients.Close()

	// Storage and repositories.
	gateway := db.NewGateway(db.NewFirestoreSource(clients.Firestore), logger)
	blobs := db.NewBucketBlobStore(clients.Bucket)
	requestRepo := db.NewFirestoreRequestRepository(clients.Firestore)
	serviceRepo := db.NewFirestoreServiceRepository(clients.Firestore)
	detailRepo := db.NewFirestoreServiceDetailRepository(clients.Firestore)
	userRepo := db.NewFirestoreUserRepository(clients.Firestore)

	// Domain services and the session manager.
	requestService := core.NewRequestService(gateway, requestRepo, blobs, logger)
	serviceListingService := core.NewServiceListingService(gateway, serviceRepo, detailRepo, blobs, logger)
	userService := core.NewUserService(userRepo)
	sessionManager := session.NewManager(clients.Auth, cfg.FirebaseWebAPIKey, userService, logger)
	logger.Info("domain services initialized")

	if strings.ToLower(cfg.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Recovery(logger))
	if cfg.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(cfg.ClientURL))
		logger.Info("CORS enabled", zap.String("clientURL", cfg.ClientURL))
	} else {
		logger.Warn("CORS disabled: CLIENT_URL is not configured")
	}

	api.SetupRoutes(router, logger, clients.Auth,
		requestService, serviceListingService, userService, sessionManager)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}
