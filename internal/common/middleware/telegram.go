package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"papers-store-backend/internal/common/logger"
	"papers-store-backend/internal/utils/telegram"
)

const (
	InitDataHeader = "X-Telegram-Init-Data"

	UserCtxParam   = "user"
	UserIDCtxParam = "user_id"
)

// InitDataVerifier is satisfied by *telegram.Verifier.
type InitDataVerifier interface {
	Verify(raw string) (telegram.Identity, error)
}

// TelegramInitData rejects requests without valid init data with 401 and
// stores the verified identity in the context otherwise.
func TelegramInitData(verifier InitDataVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := verifier.Verify(c.GetHeader(InitDataHeader))
		if err != nil {
			logger.Warn().
				Err(err).
				Str("request_id", getRequestID(c)).
				Str("path", c.Request.URL.Path).
				Msg("Init data rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(UserCtxParam, identity)
		c.Set(UserIDCtxParam, identity.ID)
		c.Next()
	}
}

// Identity returns the identity stored by TelegramInitData.
func Identity(c *gin.Context) (telegram.Identity, bool) {
	v, exists := c.Get(UserCtxParam)
	if !exists {
		return telegram.Identity{}, false
	}
	identity, ok := v.(telegram.Identity)
	return identity, ok
}
