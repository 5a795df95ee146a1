package router

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fishfarm/internal/server/handlers"
	"github.com/mamadbah2/fishfarm/internal/service/auth"
)

// TokenVerifier validates bearer tokens against the known accounts.
type TokenVerifier interface {
	Authenticate(ctx context.Context, token string) (auth.Claims, error)
}

// Handlers groups the HTTP adapters mounted by New.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Records  *handlers.RecordsHandler
	Advisory *handlers.AdvisoryHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, verifier TokenVerifier, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Server is running"})
	})

	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)

	secured := api.Group("")
	secured.Use(authMiddleware(verifier, logger))

	secured.GET("/settings", h.Records.GetSettings)
	secured.PUT("/settings", h.Records.UpdateSettings)

	secured.GET("/batches", h.Records.ListBatches)
	secured.POST("/batches", h.Records.CreateBatch)
	secured.GET("/batches/report", h.Records.BatchReport)
	secured.DELETE("/batches/:id", h.Records.DeleteBatch)
	secured.GET("/batches/:id/advice", h.Advisory.BatchAdvice)

	secured.GET("/sections/:section", h.Records.ListSectionRecords)
	secured.POST("/sections/:section", h.Records.CreateSectionRecord)
	secured.DELETE("/sections/:section/:id", h.Records.DeleteSectionRecord)

	secured.GET("/feed-plan", h.Advisory.FeedPlan)

	systems := secured.Group("/farming-systems")
	systems.GET("", h.Advisory.ListSystems)
	systems.GET("/:id", h.Advisory.GetSystem)
	systems.GET("/:id/growth", h.Advisory.Growth)
	systems.POST("/:id/feed", h.Advisory.Feed)
	systems.POST("/:id/density", h.Advisory.Density)
	systems.POST("/:id/cost", h.Advisory.Cost)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func authMiddleware(verifier TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}

		claims, err := verifier.Authenticate(c.Request.Context(), token)
		switch {
		case errors.Is(err, auth.ErrInvalidToken):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid or expired token"})
			return
		case err != nil:
			logger.Error("token authentication failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		c.Set(handlers.UserIDKey, claims.UserID)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if userID := c.GetString(handlers.UserIDKey); userID != "" {
			fields = append(fields, zap.String("user_id", userID))
		}
		logger.Info("request completed", fields...)
	}
}
