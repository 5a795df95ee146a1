package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fishfarm/internal/domain/advisory"
	"github.com/mamadbah2/fishfarm/internal/repository"
	"github.com/mamadbah2/fishfarm/internal/service/auth"
	"github.com/mamadbah2/fishfarm/internal/service/records"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "userID"

// CurrentUser returns the id set by the auth middleware.
func CurrentUser(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// respondError maps service errors to HTTP answers. notFound is the message
// sent for a missing record.
func respondError(c *gin.Context, logger *zap.Logger, err error, notFound string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	case errors.Is(err, records.ErrUnknownSection):
		c.JSON(http.StatusNotFound, gin.H{"error": "Section not found"})
	case errors.Is(err, auth.ErrUserExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, auth.ErrInvalidInput),
		errors.Is(err, records.ErrInvalidArguments),
		errors.Is(err, advisory.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}

func badRequest(c *gin.Context, logger *zap.Logger, msg string, err error) {
	logger.Debug("invalid request", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
