package router

import (
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"github.com/kcns008/WeightCha/internal/handlers"
	"github.com/kcns008/WeightCha/internal/verification"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(http.StatusTooManyRequests, "Too many requests. Try again later.")
}

func Setup(log *zap.Logger, service *verification.Service) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	// Handlers
	challengeHandler := handlers.NewChallengeHandler(log, service)
	verificationHandler := handlers.NewVerificationHandler(log, service)

	// Challenge creation and submission are the abuse surface; reads and
	// token validation run unthrottled.
	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 30,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		challengeRoutes := api.Group("/challenges")
		{
			challengeRoutes.POST("", limiter, challengeHandler.Create)
			challengeRoutes.GET("/:id", challengeHandler.Get)
			challengeRoutes.POST("/:id/cancel", challengeHandler.Cancel)
			challengeRoutes.POST("/:id/verify", limiter, verificationHandler.Submit)
		}

		api.POST("/tokens/validate", verificationHandler.ValidateToken)
	}

	return router
}
