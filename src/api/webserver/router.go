package webserver

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/stake-plus/ideograph/src/ai/core"
	"github.com/stake-plus/ideograph/src/api/config"
	"github.com/stake-plus/ideograph/src/cache"
	"github.com/stake-plus/ideograph/src/store"
	"github.com/stake-plus/ideograph/src/twitter"
)

// Deps bundles everything the handlers need, injected at boot so tests
// can swap any piece for a fake.
type Deps struct {
	Cfg    config.Config
	DB     *gorm.DB
	RDB    *redis.Client
	States store.StateStore
	Tokens store.TokenStore
	OAuth  *twitter.OAuthClient
	AI     core.Client // classification provider
	Search core.Client // search-augmented provider for fact checks
	Cache  *cache.Results
}

func New(d Deps) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, d)
	return g
}

func attachRoutes(r *gin.Engine, d Deps) {
	// Fallback first: requests from disallowed origins are still served,
	// with the CORS header pointing at the default origin instead.
	r.Use(originFallback(d.Cfg.AllowedOrigins, d.Cfg.DefaultOrigin))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	limiter := NewRateLimiter(d.Cfg.RateLimit, d.Cfg.RateWindow)

	oauthH := NewOAuth(d)
	procH := NewProcess(d)
	diagH := NewDiag(d.Cfg)

	v1 := r.Group("/v1")
	{
		v1.GET("/oauth/request_token", oauthH.RequestToken)
		v1.POST("/oauth/init", oauthH.Init)
		v1.GET("/oauth/callback", oauthH.Callback)
		v1.POST("/oauth/callback", oauthH.Callback)
		v1.POST("/oauth/refresh", oauthH.Refresh)

		proc := v1.Group("")
		if d.Cfg.JWTSecret != "" {
			proc.Use(JWTMiddleware([]byte(d.Cfg.JWTSecret)))
		}
		proc.Use(RateLimitMiddleware(limiter))
		proc.POST("/process", procH.Handle)

		v1.POST("/diag/openai", diagH.OpenAI)
		v1.POST("/diag/grok", diagH.Grok)
	}
}

// originFallback rewrites an unrecognized Origin header to the default
// origin before the CORS layer validates it, so no request is ever
// rejected for its origin alone.
func originFallback(allowed []string, defaultOrigin string) gin.HandlerFunc {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := set[origin]; !ok {
				c.Request.Header.Set("Origin", defaultOrigin)
			}
		}
		c.Next()
	}
}
