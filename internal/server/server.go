package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/wardrobers/backend-api-sub000/internal/catalog"
	catalogdomain "github.com/wardrobers/backend-api-sub000/internal/catalog/domain"
	"github.com/wardrobers/backend-api-sub000/internal/clock"
	"github.com/wardrobers/backend-api-sub000/internal/config"
	"github.com/wardrobers/backend-api-sub000/internal/customer"
	"github.com/wardrobers/backend-api-sub000/internal/migration"
	"github.com/wardrobers/backend-api-sub000/internal/observability"
	obsmiddleware "github.com/wardrobers/backend-api-sub000/internal/observability/logger"
	obsmetrics "github.com/wardrobers/backend-api-sub000/internal/observability/metrics"
	obstracing "github.com/wardrobers/backend-api-sub000/internal/observability/tracing"
	"github.com/wardrobers/backend-api-sub000/internal/pricing"
	pricingdomain "github.com/wardrobers/backend-api-sub000/internal/pricing/domain"
	"github.com/wardrobers/backend-api-sub000/internal/promotion"
	promotiondomain "github.com/wardrobers/backend-api-sub000/internal/promotion/domain"
	"github.com/wardrobers/backend-api-sub000/internal/ratelimit"
)

var Module = fx.Module("http.server",
	config.Module,
	fx.Provide(registerGin),
	clock.Module,
	migration.Module,
	catalog.Module,
	promotion.Module,
	customer.Module,
	pricing.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	genID        *snowflake.Node
	catalogSvc   catalogdomain.Service
	promotionSvc promotiondomain.Service
	pricingSvc   pricingdomain.Service
	quoteLimiter *ratelimit.QuoteLimiter
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	GenID        *snowflake.Node
	CatalogSvc   catalogdomain.Service
	PromotionSvc promotiondomain.Service
	PricingSvc   pricingdomain.Service
	QuoteLimiter *ratelimit.QuoteLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		genID:        p.GenID,
		catalogSvc:   p.CatalogSvc,
		promotionSvc: p.PromotionSvc,
		pricingSvc:   p.PricingSvc,
		quoteLimiter: p.QuoteLimiter,
	}

	svc.registerPricingRoutes()
	svc.registerCatalogRoutes()
	svc.registerPromotionRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerPricingRoutes() {
	v1 := s.engine.Group("/v1/pricing")
	if s.quoteLimiter != nil {
		v1.POST("/quote", s.quoteLimiter.Middleware(), s.QuotePrice)
	} else {
		v1.POST("/quote", s.QuotePrice)
	}
}

func (s *Server) registerCatalogRoutes() {
	v1 := s.engine.Group("/v1/pricing")

	v1.GET("/tiers", s.ListTiers)
	v1.POST("/tiers", s.CreateTier)
	v1.GET("/tiers/:id", s.GetTierByID)
	v1.POST("/tiers/:id/factors", s.AddTierFactor)
	v1.PUT("/category_multipliers", s.SetCategoryMultiplier)
}

func (s *Server) registerPromotionRoutes() {
	v1 := s.engine.Group("/v1/promotions")

	v1.GET("", s.ListPromotions)
	v1.POST("", s.CreatePromotion)
	v1.GET("/:id", s.GetPromotionByID)
	v1.POST("/:id/deactivate", s.DeactivatePromotion)
}
