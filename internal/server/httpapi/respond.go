package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campuswell/psychtool/internal/errs"
	"github.com/campuswell/psychtool/internal/media"
	"github.com/campuswell/psychtool/internal/service"
)

// writeError maps service errors onto the HTTP taxonomy with stable bodies.
// Raw provider and storage error text never reaches clients.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrExchangeFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": errs.ErrExchangeFailed.Error()})
	case errors.Is(err, errs.ErrProviderUnreachable):
		c.JSON(http.StatusBadGateway, gin.H{"error": errs.ErrProviderUnreachable.Error()})
	case errors.Is(err, errs.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": errs.ErrRateLimited.Error()})
	case errors.Is(err, errs.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrBadInterpretation), errors.Is(err, service.ErrInvalidInput), errors.Is(err, media.ErrBadExtension):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrConfigCorrupt):
		// Stored data should have been validated at write time; an operator
		// needs to see this.
		s.log.Error("corrupt interpretation table", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
	default:
		s.log.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
	}
}
