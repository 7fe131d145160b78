package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scolardf/devconnector/pkg/apperror"
	"github.com/scolardf/devconnector/pkg/auth"
	"github.com/scolardf/devconnector/pkg/logger"
)

const (
	GinContextKeyUserID = "userID"

	// legacy clients send the raw token in this header
	headerAuthToken = "x-auth-token"

	msgNoToken      = "No token, authorization denied"
	msgTokenInvalid = "Token is not valid"
	msgServerError  = "Server Error"
)

func AuthMiddleware(jwtSvc *auth.JWTService, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := credentialFrom(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": msgNoToken})
			return
		}

		userID, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			log.Debug("Rejected token", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": msgTokenInvalid})
			return
		}

		c.Set(GinContextKeyUserID, userID)
		c.Next()
	}
}

func credentialFrom(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(c.GetHeader(headerAuthToken))
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(GinContextKeyUserID).(uuid.UUID)
	return userID, ok
}

func GetUserIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(GinContextKeyUserID)
	if !ok {
		return uuid.Nil, false
	}
	userUUID, ok := userID.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}
	return userUUID, true
}

// ErrorMiddleware renders the last error a handler attached with c.Error.
// Anything that is not an AppError is reported as a server error.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.NewInternal("unhandled error", err)
		}
		status := apperror.ToHTTPStatus(appErr)

		l := log.With(
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
		)
		if status >= http.StatusInternalServerError {
			l.Error("Request failed", err)
			if !c.Writer.Written() {
				c.String(http.StatusInternalServerError, msgServerError)
			}
			return
		}

		l.Info("Request rejected", zap.String("details", appErr.Details))
		if !c.Writer.Written() {
			c.JSON(status, appErr.ToJSON())
		}
	}
}

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// Recovery turns a panic into the same plain-text 500 the error middleware writes.
func Recovery(log logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("Recovered from panic", fmt.Errorf("%v", recovered), zap.String("path", c.Request.URL.Path))
		c.String(http.StatusInternalServerError, msgServerError)
		c.Abort()
	})
}
