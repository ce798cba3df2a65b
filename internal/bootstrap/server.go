package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/tourledger/api"
	"github.com/Domenick1991/tourledger/config"
	"github.com/Domenick1991/tourledger/internal/service/auth"
	"github.com/Domenick1991/tourledger/internal/service/ledger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
)

const shutdownTimeout = 5 * time.Second

// Run serves the HTTP API and blocks until ctx is canceled or the server fails.
func Run(ctx context.Context, cfg *config.Config, ledgerSvc ledger.LedgerUseCase, authSvc auth.AuthUseCase) error {
	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: NewRouter(cfg, ledgerSvc, authSvc),
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("address", cfg.HTTP.Address).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		log.Info("http server stopped")
		return nil
	}
}

// NewRouter wires the API routes. Everything under /api/v1 except /login
// requires a session token.
func NewRouter(cfg *config.Config, ledgerSvc ledger.LedgerUseCase, authSvc auth.AuthUseCase) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestID(), api.AccessLog())
	if len(cfg.HTTP.AllowedOrigins) > 0 {
		cc := cors.DefaultConfig()
		cc.AllowOrigins = cfg.HTTP.AllowedOrigins
		cc.AllowHeaders = append(cc.AllowHeaders, "Authorization", "X-Request-ID")
		cc.ExposeHeaders = []string{"Content-Disposition", "X-Request-ID"}
		router.Use(cors.New(cc))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	api.NewLoginHandler(authSvc).Register(v1)

	protected := v1.Group("", api.Authenticate(authSvc))
	api.NewReservationHandler(ledgerSvc).Register(protected.Group("/reservations"))
	api.NewStatsHandler(ledgerSvc).Register(protected.Group("/stats"))

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/ledger.swagger.json"),
		)))
	}

	return router
}
