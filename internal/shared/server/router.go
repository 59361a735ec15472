package server

import (
	"github.com/gin-gonic/gin"

	"nlp-backend/internal/analysis"
	"nlp-backend/internal/services/health"
	"nlp-backend/internal/shared/config"
	"nlp-backend/internal/shared/metrics"
	"nlp-backend/internal/shared/server/middleware"
	"nlp-backend/internal/web"
)

const (
	rateGroupAnalysis = "ANALYSIS"
	rateGroupDefault  = "DEFAULT"

	// Reads and the page get a looser bucket than analyzer calls.
	defaultRateMultiplier = 4
)

// RouterDeps carries the handlers mounted by NewRouter.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analysis.Handler
	Health          *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	if deps.Config.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = deps.Config.MaxUploadBytes
	}

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(rateLimitConfig(deps.Config)),
	)

	r.GET("/", web.Index())
	if deps.Health != nil {
		r.GET("/health", deps.Health.Handler())
	}
	r.GET("/metrics", metrics.Handler())
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(r)
	}

	return r
}

func rateLimitConfig(cfg config.Config) middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		DefaultGroup: rateGroupDefault,
		GroupFor: func(c *gin.Context) string {
			if analysis.IsAnalysisRoute(c) {
				return rateGroupAnalysis
			}
			return rateGroupDefault
		},
		Rules: map[string]middleware.RateLimitRule{
			rateGroupAnalysis: {Rate: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
			rateGroupDefault: {
				Rate:  cfg.RateLimitRPS * defaultRateMultiplier,
				Burst: cfg.RateLimitBurst * defaultRateMultiplier,
			},
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
