package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"ninjapark-backend/middleware"
	"ninjapark-backend/routes"
	"ninjapark-backend/services"
	"ninjapark-backend/storage"
	"ninjapark-backend/utils"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func (a *app) uploadStore() (storage.Store, string, error) {
	if a.cfg.StorageDriver == "s3" {
		store, err := storage.NewS3Store(a.cfg.S3())
		return store, "", err
	}
	return storage.NewLocalStore(a.cfg.UploadDir, "/uploads"), a.cfg.UploadDir, nil
}

func (a *app) tokenStore(ctx context.Context) services.TokenStore {
	if a.redis != nil {
		return services.NewRedisTokenStore(a.redis)
	}
	store := services.NewDBTokenStore(a.db)
	if n, err := store.PurgeExpired(ctx); err != nil {
		a.log.Warn("purge expired refresh tokens", "error", err)
	} else if n > 0 {
		a.log.Info("purged expired refresh tokens", "count", n)
	}
	return store
}

// buildRouter wires services and controllers onto the router.
func (a *app) buildRouter(ctx context.Context, limiter *middleware.IPRateLimiter) (*gin.Engine, error) {
	store, uploadDir, err := a.uploadStore()
	if err != nil {
		return nil, err
	}
	auth := services.NewAuthService(a.db, a.tokenStore(ctx), a.cfg.JWTSecret, a.cfg.JWTExpiresIn, a.cfg.RefreshExpiresIn)
	h := routes.NewControllers(routes.Deps{
		DB:             a.db,
		Log:            a.log,
		Store:          store,
		Mailer:         utils.NewMailer(a.cfg.SMTP(), a.log),
		Auth:           auth,
		MaxUploadBytes: a.cfg.MaxFileSize,
		AdminLoginURL:  a.cfg.AdminURL + "/login",
	})
	return routes.SetupRouter(h, routes.Options{
		Log:         a.log,
		AuthService: auth,
		Limiter:     limiter,
		CorsOrigins: a.cfg.ParseCorsOrigins(),
		UploadDir:   uploadDir,
	}), nil
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := services.SeedDatabase(ctx, a.db, a.log); err != nil {
		return err
	}
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	stop := make(chan struct{})
	defer close(stop)
	limiter := middleware.NewIPRateLimiter(a.cfg.RateLimitMaxRequests, a.cfg.RateLimitWindow())
	go limiter.RunCleanup(time.Minute, stop)

	router, err := a.buildRouter(ctx, limiter)
	if err != nil {
		return err
	}

	addr := ":" + a.cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server starting", "addr", addr, "env", a.cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	a.log.Info("shutdown signal received, shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.log.Info("server stopped gracefully")
	return nil
}
