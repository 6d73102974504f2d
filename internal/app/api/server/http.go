package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/fakepay/docs"
	"github.com/fatflowers/fakepay/internal/app/api/handlers"
	mw "github.com/fatflowers/fakepay/internal/app/api/middleware"
	"github.com/fatflowers/fakepay/internal/app/service/payment"
	settlementlog "github.com/fatflowers/fakepay/internal/app/service/settlement_log"
	"github.com/fatflowers/fakepay/internal/app/service/statistics"
	cfgpkg "github.com/fatflowers/fakepay/pkg/config"
	metrics "github.com/fatflowers/fakepay/pkg/metrics"
)

const shutdownTimeout = 30 * time.Second

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

type routeDeps struct {
	fx.In

	Log     *zap.SugaredLogger
	Cfg     *cfgpkg.Config
	Gateway payment.Gateway
	Ledger  *settlementlog.Service
	Stats   *statistics.Service
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	registerMetrics(r, d.Cfg, d.Log)

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware())

	// Customer payment APIs
	paymentGroup := apiV1.Group("/payment")
	paymentGroup.Use(mw.AuthMiddleware(d.Cfg.Auth.JWTSecret, d.Log))
	handlers.RegisterPaymentRoutes(paymentGroup, d.Gateway, d.Cfg, d.Log)

	// Admin APIs expose customer emails; admin role tokens only
	adminGroup := apiV1.Group("/admin")
	adminGroup.Use(mw.AuthMiddleware(d.Cfg.Auth.JWTSecret, d.Log), mw.AdminOnly(d.Log))
	handlers.RegisterAdminRoutes(adminGroup, d.Ledger, d.Stats)
}

func registerMetrics(r *gin.Engine, cfg *cfgpkg.Config, log *zap.SugaredLogger) {
	if cfg == nil || cfg.MetricsAddr == "" {
		return
	}
	p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
		ReqCntURLLabelMappingFn: func(c *gin.Context) string {
			if fp := c.FullPath(); fp != "" {
				return fp
			}
			return "unmatched"
		},
		Logger: log,
	})
	p.SetListenAddress(cfg.MetricsAddr)
	p.Use(r)

	log.Infow("metrics started", "addr", cfg.MetricsAddr)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
