package httpapi

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/campuswell/psychtool/internal/model"
)

const ctxUserKey = "psychtool.user"

// requestLogger logs one structured line per request; metadata only, no payloads.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := ""
		if id, err := uuid.NewV4(); err == nil {
			reqID = id.String()
			c.Writer.Header().Set("X-Request-ID", reqID)
		}

		c.Next()

		log.Info("http",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("dur", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", reqID),
		)
	}
}

// recovery turns handler panics into 500s instead of killing the process.
func recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic",
					zap.Any("reason", r),
					zap.ByteString("stack", debug.Stack()),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal"})
			}
		}()
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

// requireUser extracts and verifies the session cookie, hydrates the user
// record and stores it in the request context. Missing cookie, failed
// verification and a user deleted after issuance all collapse to 401.
func (s *Server) requireUser(c *gin.Context) {
	cred, err := c.Cookie(sessionCookie)
	if err != nil {
		unauthorized(c)
		return
	}
	id, err := s.sessions.Verify(cred)
	if err != nil {
		unauthorized(c)
		return
	}
	u, err := s.auth.GetUser(c.Request.Context(), id)
	if err != nil {
		unauthorized(c)
		return
	}
	c.Set(ctxUserKey, u)
	c.Next()
}

// requireAdmin runs after requireUser and checks the role. Unprivileged and
// unknown callers get the same 401; existence is not leaked.
func (s *Server) requireAdmin(c *gin.Context) {
	u := currentUser(c)
	if u == nil || !u.Role.IsAdmin() {
		unauthorized(c)
		return
	}
	c.Next()
}

// currentUser returns the user hydrated by requireUser, or nil.
func currentUser(c *gin.Context) *model.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*model.User)
	return u
}
