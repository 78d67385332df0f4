package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	catalogdomain "github.com/smallbiznis/quoteflow/internal/catalog/domain"
	"github.com/smallbiznis/quoteflow/internal/config"
	"github.com/smallbiznis/quoteflow/internal/observability"
	obsmiddleware "github.com/smallbiznis/quoteflow/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/quoteflow/internal/observability/metrics"
	obstracing "github.com/smallbiznis/quoteflow/internal/observability/tracing"
	"github.com/smallbiznis/quoteflow/internal/providers/archive"
	"github.com/smallbiznis/quoteflow/internal/providers/email"
	"github.com/smallbiznis/quoteflow/internal/providers/lead"
	"github.com/smallbiznis/quoteflow/internal/providers/pdf"
	"github.com/smallbiznis/quoteflow/internal/ratelimit"
	wizarddomain "github.com/smallbiznis/quoteflow/internal/wizard/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const followUpTimeout = 30 * time.Second

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Provide(NewServer),
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
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
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
			err := srv.Shutdown(shutdownCtx)
			s.WaitFollowUps()
			return err
		},
	})
}

type Server struct {
	engine  *gin.Engine
	cfg     config.Config
	log     *zap.Logger
	wizard  wizarddomain.Service
	catalog catalogdomain.Service

	pdf     pdf.Provider
	email   email.Provider
	lead    lead.Provider
	archive archive.Provider

	submitLimiter *ratelimit.QuoteSubmitLimiter
	obsMetrics    *obsmetrics.Metrics

	followUps sync.WaitGroup
}

type ServerParams struct {
	fx.In

	Gin     *gin.Engine
	Cfg     config.Config
	Log     *zap.Logger
	Wizard  wizarddomain.Service
	Catalog catalogdomain.Service

	PDF     pdf.Provider
	Email   email.Provider
	Lead    lead.Provider
	Archive archive.Provider

	SubmitLimiter *ratelimit.QuoteSubmitLimiter `optional:"true"`
	ObsMetrics    *obsmetrics.Metrics           `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		log:           log.Named("http.server"),
		wizard:        p.Wizard,
		catalog:       p.Catalog,
		pdf:           p.PDF,
		email:         p.Email,
		lead:          p.Lead,
		archive:       p.Archive,
		submitLimiter: p.SubmitLimiter,
		obsMetrics:    p.ObsMetrics,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// WaitFollowUps blocks until every post-issue notification has finished.
func (s *Server) WaitFollowUps() {
	s.followUps.Wait()
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	api.GET("/catalog", s.GetCatalog)

	// -------- Sessions --------
	api.POST("/sessions", s.StartSession)
	api.GET("/sessions/:id", s.GetSession)
	api.DELETE("/sessions/:id", s.EndSession)

	// -------- Navigation --------
	api.PATCH("/sessions/:id/assessment", s.UpdateAssessment)
	api.POST("/sessions/:id/next", s.NextStage)
	api.POST("/sessions/:id/prev", s.PrevStage)
	api.POST("/sessions/:id/jump", s.JumpStage)
	api.POST("/sessions/:id/restart", s.RestartSession)

	// -------- Selection --------
	api.PUT("/sessions/:id/plan", s.SetPlan)
	api.PUT("/sessions/:id/billing-cycle", s.SetBillingCycle)
	api.PUT("/sessions/:id/addons/:addon", s.SetAddOnQuantity)
	api.PUT("/sessions/:id/start-date", s.SetStartDate)
	api.POST("/sessions/:id/discount", s.ApplyDiscount)
	api.DELETE("/sessions/:id/discount", s.ClearDiscount)

	// -------- Quotation --------
	api.POST("/sessions/:id/quotation", s.QuoteSubmitRateLimit(), s.SubmitQuotation)
	api.GET("/sessions/:id/quotation.pdf", s.DownloadQuotationPDF)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
