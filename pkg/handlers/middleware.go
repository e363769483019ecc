package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"net/http"
	"streamflow/pkg/session"
	"time"
)

const sessionCookie = "streamflow_session"

// RequestLogger logs every request once it has been handled.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}

// Sessions resolves the session cookie to a live session, starting a new one
// on the login page when the cookie is missing, forged, expired or refers to
// a session that no longer exists. The session rides on the request context.
func (h *Handler) Sessions() gin.HandlerFunc {
	return func(c *gin.Context) {
		var s *session.Session
		if raw, err := c.Cookie(sessionCookie); err == nil {
			if claims, err := h.tokens.ValidateJWT(raw); err == nil {
				s, _ = h.sessions.Get(claims.SessionID)
			}
		}
		if s == nil {
			s = h.sessions.Create()
		}

		token, err := h.tokens.GenerateJWT(s.ID)
		if err != nil {
			h.log.Error("sign session token", zap.Error(err))
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, token, int(h.tokens.TTL().Seconds()), "/", "", c.Request.TLS != nil, true)

		c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), s))
		c.Next()
	}
}
