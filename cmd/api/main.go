//	@title			Filegate API
//	@version		1.0
//	@description	Authenticated file-storage gateway over an S3-compatible bucket.
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token. Format: **Bearer {token}**

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"github.com/filegate/service/internal/auth"
	"github.com/filegate/service/internal/config"
	"github.com/filegate/service/internal/files"
	"github.com/filegate/service/internal/identity"
	"github.com/filegate/service/internal/logging"
	appMiddleware "github.com/filegate/service/internal/middleware"
	"github.com/filegate/service/internal/storage"

	_ "github.com/filegate/service/docs/swagger"
)

func main() {
	cfg := config.Load()

	logger, err := logging.NewLogger(cfg.LogLevel, !cfg.IsProduction())
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	store, err := storage.NewMinioStorage(
		cfg.StorageEndpoint,
		cfg.StorageAccessKey,
		cfg.StorageSecretKey,
		cfg.StorageBucket,
		cfg.StorageUseSSL,
		logger,
	)
	if err != nil {
		logger.Fatal("object storage init failed", zap.Error(err))
	}

	// Pick the verification backend: self-issued tokens or delegated identity.
	var authenticator appMiddleware.Authenticator
	var authSvc *auth.Service
	switch cfg.AuthMode {
	case config.AuthModeKeycloak:
		idp := identity.NewClient(identity.Config{
			ServerURL:     cfg.KeycloakServerURL,
			Realm:         cfg.KeycloakRealm,
			ClientID:      cfg.KeycloakClientID,
			ClientSecret:  cfg.KeycloakClientSecret,
			AdminUser:     cfg.KeycloakAdminUser,
			AdminPassword: cfg.KeycloakAdminPassword,
			Timeout:       cfg.KeycloakTimeout,
		})
		authenticator = idp
		authSvc = auth.NewKeycloakService(idp)
	case config.AuthModeLocal:
		credStore, err := auth.NewStore(auth.ParseUsers(cfg.AuthUsers))
		if err != nil {
			logger.Fatal("credential store init failed", zap.Error(err))
		}
		codec := auth.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
		authenticator = codec
		authSvc = auth.NewLocalService(credStore, codec)
	default:
		logger.Fatal("unknown auth mode", zap.String("mode", cfg.AuthMode))
	}

	authHandler := auth.NewHandler(authSvc)
	fileHandler := files.NewHandler(store)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI — available at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Public auth endpoints
	r.Post("/login", authHandler.Login)
	if authSvc.Delegated() {
		r.Post("/register", authHandler.Register)
	}

	// Protected file endpoints
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.RequireAuth(authenticator))
		r.Post("/upload", fileHandler.Upload)
		r.Get("/files", fileHandler.List)
		r.Get("/download/{name}", fileHandler.Download)
		r.Put("/modify/{name}", fileHandler.Modify)
		r.Post("/rename/{name}", fileHandler.Rename)
		r.Delete("/delete/{name}", fileHandler.Delete)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server listening",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.AppEnv),
			zap.String("auth_mode", cfg.AuthMode),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
