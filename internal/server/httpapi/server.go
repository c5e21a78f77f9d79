// Package httpapi exposes the psychtool HTTP API handlers.
package httpapi

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campuswell/psychtool/internal/media"
	"github.com/campuswell/psychtool/internal/service"
	"github.com/campuswell/psychtool/internal/session"
)

// sessionCookie is the cookie slot carrying the signed session credential.
const sessionCookie = "psychtool_session"

// Server wires services into HTTP handlers.
type Server struct {
	auth     service.AuthService
	tests    service.TestService
	sessions *session.Manager
	media    *media.Store
	log      *zap.Logger
}

// New constructs a Server with injected services.
func New(auth service.AuthService, tests service.TestService, sessions *session.Manager, media *media.Store, log *zap.Logger) *Server {
	return &Server{auth: auth, tests: tests, sessions: sessions, media: media, log: log}
}

// Router builds the gin engine with middleware and all routes. Read routes
// require an authenticated session, write routes an admin one.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(s.log), recovery(s.log))

	r.POST("/login", s.login)

	authed := r.Group("", s.requireUser)
	{
		authed.GET("/whoami", s.whoami)
		authed.GET("/tests", s.listTests)
		authed.GET("/tests/:id", s.getTest)
		authed.GET("/tests/:id/questions", s.listQuestions)
	}

	admin := authed.Group("", s.requireAdmin)
	{
		admin.POST("/tests", s.createTest)
		admin.PATCH("/tests/:id", s.updateTest)
		admin.POST("/tests/:id/questions", s.addQuestions)
		admin.DELETE("/tests/:id/questions/:qid", s.deleteQuestion)
		admin.POST("/tests/:id/evaluate", s.evaluate)
	}

	return r
}
