package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"confession-backend/internal/domains/account"
	"confession-backend/internal/shared/response"
)

const (
	ContextAccountID = "accountID"
	ContextEmail     = "email"
)

// SessionResolver verify raw session token
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*account.Session, error)
}

// AuthMiddleware - xác thực session cookie và set accountID vào context
func AuthMiddleware(resolver SessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Lấy token từ session cookie
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			response.Unauthorized(c, "missing session")
			c.Abort()
			return
		}

		// 2. Verify token + revocation list
		sess, err := resolver.ResolveSession(c.Request.Context(), token)
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString(ContextRequestID)).Msg("Session rejected")
			response.Unauthorized(c, "invalid session")
			c.Abort()
			return
		}

		// 3. Set accountID vào context
		c.Set(ContextAccountID, sess.AccountID)
		c.Set(ContextEmail, sess.Email)

		c.Next()
	}
}

// AccountIDFromContext trả về accountID đã được AuthMiddleware set
func AccountIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextAccountID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}
