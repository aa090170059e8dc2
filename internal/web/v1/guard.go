package v1

import (
	"errors"

	"github.com/duynhne/newsroom-service/internal/core/domain"
	logicv1 "github.com/duynhne/newsroom-service/internal/logic/v1"
	"github.com/duynhne/newsroom-service/middleware"
	pkgzerolog "github.com/duynhne/pkg/logger/zerolog"
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Require returns middleware that lets the request through only when the
// session is valid and its role is allowed to perform op.
func (h *Handler) Require(op domain.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		p, err := h.guard.Check(ctx, h.sessionToken(c), op)
		if err != nil {
			logger := pkgzerolog.FromContext(ctx)
			switch {
			case errors.Is(err, logicv1.ErrUnauthorized), errors.Is(err, logicv1.ErrForbidden):
				logger.Warn().Err(err).Str("operation", string(op)).Msg("Access denied")
			default:
				logger.Error().Err(err).Str("operation", string(op)).Msg("Access check failed")
			}
			writeError(c, err)
			return
		}

		c.Set(principalKey, p)
		c.Set(middleware.UserIDKey, p.ID)
		c.Next()
	}
}

// principalFrom returns the principal stored by Require.
func principalFrom(c *gin.Context) *domain.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*domain.Principal)
	return p
}
