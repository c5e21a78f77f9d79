package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Code string `json:"code" binding:"required"`
}

// login exchanges the authorization code and sets the session cookie.
func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	u, cred, err := s.auth.Login(c.Request.Context(), req.Code, c.ClientIP())
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, cred, int(s.sessions.TTL().Seconds()), "/", "", true, true)
	c.JSON(http.StatusOK, u)
}

// whoami returns the record of the authenticated user.
func (s *Server) whoami(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}
