package router

import (
	"github.com/vidsum/internal/cache"
	"github.com/vidsum/internal/config"
	publichandlers "github.com/vidsum/internal/http/handlers/public"
	"github.com/vidsum/internal/logger"
	"github.com/vidsum/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	r := gin.New()

	publicHandler := publichandlers.New(c)
	loginRule := RateLimitRule{
		Prefix:        cache.BuildKey(cache.Prefix(&cfg.Redis), "rate", "login"),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(logger.Z()))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/", publicHandler.Root)
	r.GET("/health", publicHandler.Health)

	apiV1 := r.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", publicHandler.UserRegister)
			authGroup.POST("/token",
				RateLimitMiddleware(c.RedisClient, loginRule, KeyByIPAndField("username")),
				publicHandler.UserLogin,
			)
		}

		me := apiV1.Group("/me")
		me.Use(UserTokenAuthMiddleware(c.UserAuthService))
		{
			me.GET("", publicHandler.GetCurrentUser)
			me.PUT("/email", publicHandler.UpdateCurrentUserEmail)
		}
	}

	return r
}
